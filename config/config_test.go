package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adammck/strider/components/legs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefault(t *testing.T) {
	f, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 60.0, f.FrameRate)
	assert.Len(t, f.Legs.Legs, 4)
	assert.Len(t, f.Character.Chains, 4)
	assert.NoError(t, f.Validate())

	for _, l := range f.Legs.Legs {
		assert.Contains(t, f.Character.Joints, l.ParentJoint)
		assert.Contains(t, f.Character.Joints, l.TipJoint)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := write(t, dir, "strider.yaml", `
frame_rate: 30
script: walk.tengo
log_level: debug
legs:
  step_height: 35
  solver: basic
world:
  platforms:
    - from: {x: 0, z: 10}
      to: {x: 100, z: 10}
      width: 50
      speed: 20
`)

	f, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, 30.0, f.FrameRate)
	assert.Equal(t, "debug", f.LogLevel)
	assert.Equal(t, filepath.Join(dir, "walk.tengo"), f.Script)
	assert.Equal(t, 35.0, f.Legs.StepHeight)
	assert.Equal(t, legs.SolverBasic, f.Legs.Solver)

	// Untouched settings keep their defaults.
	assert.Equal(t, legs.DefaultConfig().StepDistanceForward, f.Legs.StepDistanceForward)
	assert.Len(t, f.Legs.Legs, 4)
	require.Len(t, f.World.Platforms, 1)
	assert.Equal(t, 50.0, f.World.Platforms[0].Width)
	assert.Len(t, f.World.Ground, 1)
}

func TestEnv(t *testing.T) {
	t.Setenv("STRIDER_FRAME_RATE", "120")
	t.Setenv("STRIDER_LOG_JSON", "true")
	t.Setenv("STRIDER_SCRIPT", "/tmp/other.tengo")

	p := write(t, t.TempDir(), "strider.yaml", "frame_rate: 30\nscript: walk.tengo\n")

	f, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 120.0, f.FrameRate)
	assert.True(t, f.LogJSON)
	assert.Equal(t, "/tmp/other.tengo", f.Script)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	type eg struct {
		body string
		inv  bool
	}

	examples := []eg{
		{"frame_rate: [", false},
		{"frame_rate: 0", true},
		{"log_level: loud", true},
		{"character: {clearance: -1}", true},
		{"legs: {groups: []}", true},
		{"legs: {solver: magic}", true},
	}

	for i, x := range examples {
		p := write(t, dir, "bad.yaml", x.body)
		_, err := Load(p)
		require.Error(t, err, "example %d", i+1)
		assert.Equal(t, x.inv, errors.Is(err, ErrInvalid), "example %d", i+1)
	}

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	p := write(t, dir, "strider.yaml", "frame_rate: 30\n")
	other := write(t, dir, "other.yaml", "")

	w, err := Watch(p, "")
	require.NoError(t, err)
	defer w.Close()

	// Changes to other files in the same directory are ignored.
	require.NoError(t, os.WriteFile(other, []byte("x: 1\n"), 0o644))
	require.NoError(t, os.WriteFile(p, []byte("frame_rate: 60\n"), 0o644))

	select {
	case name := <-w.Events:
		abs, _ := filepath.Abs(p)
		assert.Equal(t, abs, name)
	case <-time.After(5 * time.Second):
		t.Fatal("no event")
	}

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
