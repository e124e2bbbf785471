package gait

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEase(t *testing.T) {
	type eg struct {
		t   float64
		exp float64
	}

	examples := []eg{
		{-1, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{2, 1},
	}

	for _, x := range examples {
		assert.InDelta(t, x.exp, Ease{}.Value(x.t), 1e-9)
	}

	assert.Less(t, Ease{}.Value(0.25), 0.25)
}

func TestBell(t *testing.T) {
	b := Bell{}
	assert.InDelta(t, 0.0, b.Value(0), 1e-9)
	assert.InDelta(t, 1.0, b.Value(0.5), 1e-9)
	assert.InDelta(t, 0.0, b.Value(1), 1e-9)
	assert.InDelta(t, b.Value(0.3), b.Value(0.7), 1e-9)
	assert.Greater(t, b.Value(0.4), b.Value(0.2))

	// Outside of the step, the foot is on the ground.
	assert.InDelta(t, 0.0, b.Value(-0.5), 1e-9)
	assert.InDelta(t, 0.0, b.Value(1.5), 1e-9)
}

func TestLinear(t *testing.T) {
	type eg struct {
		t   float64
		exp float64
	}

	examples := []eg{
		{-0.5, 0},
		{0.25, 0.25},
		{1, 1},
		{3, 1},
	}

	for _, x := range examples {
		assert.InDelta(t, x.exp, Linear{}.Value(x.t), 1e-9, "t=%v", x.t)
	}
}

func TestKeys(t *testing.T) {
	k := Keys{{0, 0}, {0.5, 1}, {1, 0}}

	assert.InDelta(t, 0.0, k.Value(-0.5), 1e-9)
	assert.InDelta(t, 0.5, k.Value(0.25), 1e-9)
	assert.InDelta(t, 1.0, k.Value(0.5), 1e-9)
	assert.InDelta(t, 0.5, k.Value(0.75), 1e-9)
	assert.InDelta(t, 0.0, k.Value(1.5), 1e-9)
	assert.InDelta(t, 0.0, Keys{}.Value(0.5), 1e-9)
}

func TestSpecYAML(t *testing.T) {
	var doc struct {
		Speed  Spec `yaml:"speed"`
		Height Spec `yaml:"height"`
	}

	src := `
speed: ease
height:
  kind: keys
  keys: [[1, 0], [0, 0], [0.5, 2]]
`
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	assert.Equal(t, "ease", doc.Speed.Kind)

	speed, err := doc.Speed.Curve()
	require.NoError(t, err)
	assert.IsType(t, Ease{}, speed)

	height, err := doc.Height.Curve()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, height.Value(0.25), 1e-9)
}

func TestSpecErrors(t *testing.T) {
	_, err := Spec{}.Curve()
	assert.Error(t, err)

	_, err = Spec{Kind: "wobble"}.Curve()
	assert.Error(t, err)

	_, err = Spec{Kind: "keys"}.Curve()
	assert.Error(t, err)

	c, err := Spec{Kind: "Bell"}.Curve()
	require.NoError(t, err)
	assert.IsType(t, Bell{}, c)
}
