package world_test

import (
	"testing"

	"github.com/adammck/strider/components/legs"
	"github.com/adammck/strider/fake/body"
	"github.com/adammck/strider/math3d"
	"github.com/adammck/strider/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dt = 1.0 / 60

var hips = []math3d.Vector3{
	{X: 40, Y: -30},
	{X: 40, Y: 30},
	{X: -40, Y: -30},
	{X: -40, Y: 30},
}

func quad(w *world.World) *legs.Legs {
	cfg := legs.DefaultConfig()
	b := body.New(50)
	b.T.Location = math3d.Vector3{Z: 50}

	for i, h := range hips {
		name := string(rune('a' + i))
		cfg.Legs = append(cfg.Legs, legs.Leg{Name: name, ParentJoint: "hip_" + name, TipJoint: "tip_" + name})
		b.Joints["hip_"+name] = h
		b.Joints["tip_"+name] = h.Add(math3d.Vector3{Z: -50})
	}

	cfg.Groups = []legs.Group{{Legs: []int{0, 3}}, {Legs: []int{1, 2}}}
	return legs.New(cfg, b, w)
}

func TestStandsOnGround(t *testing.T) {
	w, err := world.Build(world.DefaultConfig())
	require.NoError(t, err)

	l := quad(w)
	var p legs.Pose
	for i := 0; i < 3; i++ {
		p = l.Evaluate(dt)
	}

	require.NoError(t, l.Err())
	require.Len(t, p.Legs, len(hips))

	for i, h := range hips {
		assert.True(t, p.Legs[i].Enabled, "leg %d", i)
		assert.InDelta(t, h.X, p.Legs[i].Location.X, 1e-6, "leg %d", i)
		assert.InDelta(t, h.Y, p.Legs[i].Location.Y, 1e-6, "leg %d", i)
		assert.InDelta(t, 0, p.Legs[i].Location.Z, 1e-6, "leg %d", i)
	}
}

func TestFeetRidePlatform(t *testing.T) {
	w := world.New()
	_, err := w.AddPlatform(math3d.ZeroVector3, math3d.Vector3{X: 1000}, 200, 180)
	require.NoError(t, err)

	l := quad(w)
	for i := 0; i < 3; i++ {
		l.Evaluate(dt)
	}

	w.Step(dt)
	p := l.Evaluate(dt)

	for i, h := range hips {
		assert.InDelta(t, h.X+3, p.Legs[i].Location.X, 1e-6, "leg %d", i)
		assert.InDelta(t, 0, p.Legs[i].Location.Z, 1e-6, "leg %d", i)
	}
}
