package world

import (
	"math"
	"testing"

	"github.com/adammck/strider/components/legs"
	"github.com/adammck/strider/math3d"
	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertVec(t *testing.T, exp, act math3d.Vector3, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, exp.X, act.X, 1e-6, msgAndArgs...)
	assert.InDelta(t, exp.Y, act.Y, 1e-6, msgAndArgs...)
	assert.InDelta(t, exp.Z, act.Z, 1e-6, msgAndArgs...)
}

func floor(t *testing.T) *World {
	w, err := Build(Config{
		Ground: []SegmentConfig{
			{From: math3d.Vector3{X: -500}, To: math3d.Vector3{X: 500}},
		},
	})

	require.NoError(t, err)
	return w
}

func TestCastRay(t *testing.T) {
	type eg struct {
		start math3d.Vector3
		end   math3d.Vector3
		ok    bool
		point math3d.Vector3
	}

	examples := []eg{
		{math3d.Vector3{X: 10, Y: 7, Z: 100}, math3d.Vector3{X: 10, Y: 7, Z: -100}, true, math3d.Vector3{X: 10, Y: 7}},
		{math3d.Vector3{X: -30, Y: 0, Z: 50}, math3d.Vector3{X: -30, Y: 20, Z: -50}, true, math3d.Vector3{X: -30, Y: 10}},
		{math3d.Vector3{X: 10, Z: 100}, math3d.Vector3{X: 10, Z: 1}, false, math3d.ZeroVector3},
		{math3d.Vector3{X: 600, Z: 100}, math3d.Vector3{X: 600, Z: -100}, false, math3d.ZeroVector3},
	}

	w := floor(t)
	for i, x := range examples {
		h, ok := w.CastRay(x.start, x.end, legs.Query{})
		require.Equal(t, x.ok, ok, "example %d", i+1)
		if !ok {
			continue
		}

		assertVec(t, x.point, h.Point, "example %d", i+1)
		assertVec(t, math3d.UnitZ, h.Normal, "example %d", i+1)
		assert.Equal(t, w.Ground(), h.Surface, "example %d", i+1)
		assert.True(t, h.Blocking, "example %d", i+1)
	}
}

func TestSlopeNormal(t *testing.T) {
	w := New()
	_, err := w.AddSegment(math3d.Vector3{X: -100, Z: -100}, math3d.Vector3{X: 100, Z: 100}, 0, true)
	require.NoError(t, err)

	h, ok := w.CastRay(math3d.Vector3{X: 10, Z: 100}, math3d.Vector3{X: 10, Z: -100}, legs.Query{})
	require.True(t, ok)
	assertVec(t, math3d.Vector3{X: 10, Z: 10}, h.Point)
	assertVec(t, math3d.Vector3{X: -math.Sqrt2 / 2, Z: math.Sqrt2 / 2}, h.Normal)
}

func TestChannels(t *testing.T) {
	w := New()
	_, err := w.AddSegment(math3d.Vector3{X: -100}, math3d.Vector3{X: 100}, 0, true, 2)
	require.NoError(t, err)

	start := math3d.Vector3{X: 10, Z: 100}
	end := math3d.Vector3{X: 10, Z: -100}

	_, ok := w.CastRay(start, end, legs.Query{Channel: 0})
	assert.False(t, ok)
	assert.Empty(t, w.CastVolume(start, end, 5, legs.Query{Channel: 0}))

	_, ok = w.CastRay(start, end, legs.Query{Channel: 2})
	assert.True(t, ok)
}

func TestOverlap(t *testing.T) {
	w := floor(t)
	_, err := w.AddSegment(math3d.Vector3{X: -100, Z: 50}, math3d.Vector3{X: 100, Z: 50}, 0, false)
	require.NoError(t, err)

	start := math3d.Vector3{X: 10, Z: 100}
	end := math3d.Vector3{X: 10, Z: -100}

	h, ok := w.CastRay(start, end, legs.Query{})
	require.True(t, ok)
	assert.InDelta(t, 0, h.Point.Z, 1e-6)

	hits := w.CastVolume(start, end, 5, legs.Query{})
	require.Len(t, hits, 2)

	blocking := 0
	for _, h := range hits {
		if h.Blocking {
			blocking++
		}
	}
	assert.Equal(t, 1, blocking)
}

func TestIgnore(t *testing.T) {
	w := floor(t)
	a := w.AddActor(math3d.Vector3{X: 10, Z: 50}, 20, 20)
	w.Step(1.0 / 60)

	start := math3d.Vector3{X: 10, Z: 100}
	end := math3d.Vector3{X: 10, Z: -100}

	h, ok := w.CastRay(start, end, legs.Query{})
	require.True(t, ok)
	assert.InDelta(t, 60, h.Point.Z, 1e-6)
	assert.Equal(t, legs.Surface(a.Surface), h.Surface)

	h, ok = w.CastRay(start, end, legs.Query{Ignore: []legs.Surface{a.Surface}})
	require.True(t, ok)
	assert.InDelta(t, 0, h.Point.Z, 1e-6)

	for _, h := range w.CastVolume(start, end, 2, legs.Query{Ignore: []legs.Surface{a.Surface}}) {
		assert.Equal(t, w.Ground(), h.Surface)
	}

	// Actors can be moved out of the way.
	a.Place(math3d.Vector3{X: 200, Z: 50})
	w.Step(1.0 / 60)
	h, ok = w.CastRay(start, end, legs.Query{})
	require.True(t, ok)
	assert.InDelta(t, 0, h.Point.Z, 1e-6)
}

func TestPlatform(t *testing.T) {
	w := New()
	p, err := w.AddPlatform(math3d.Vector3{Z: 10}, math3d.Vector3{X: 100, Z: 10}, 40, 50)
	require.NoError(t, err)

	type eg struct {
		x float64
	}

	// Out and back, landing exactly on each end.
	examples := []eg{{50}, {100}, {50}, {0}, {50}}

	for i, x := range examples {
		w.Step(1)
		assertVec(t, math3d.Vector3{X: x.x, Z: 10}, p.Transform().Location, "step %d", i+1)

		h, ok := w.CastRay(math3d.Vector3{X: x.x + 5, Z: 100}, math3d.Vector3{X: x.x + 5, Z: -100}, legs.Query{})
		require.True(t, ok, "step %d", i+1)
		assert.InDelta(t, 10, h.Point.Z, 1e-6, "step %d", i+1)
		assert.Equal(t, legs.Surface(p.Surface), h.Surface, "step %d", i+1)
	}
}

func TestSurfaceTransform(t *testing.T) {
	body := cp.NewKinematicBody()
	body.SetPosition(cp.Vector{X: 3, Y: 4})
	body.SetAngle(math.Pi / 6)

	s := &Surface{body: body}
	tr := s.Transform()
	assertVec(t, math3d.Vector3{X: 3, Z: 4}, tr.Location)

	// Positive angles raise the front.
	assertVec(t, math3d.Vector3{X: math.Sqrt(3) / 2, Z: 0.5}, tr.Forward())
}

func TestBuildErrors(t *testing.T) {
	examples := []Config{
		{Ground: []SegmentConfig{{From: math3d.Vector3{X: 1}, To: math3d.Vector3{X: 1, Y: 5}}}},
		{Platforms: []PlatformConfig{{Width: 0, Speed: 1}}},
		{Platforms: []PlatformConfig{{Width: 10, Speed: -1}}},
	}

	for i, cfg := range examples {
		_, err := Build(cfg)
		assert.ErrorIs(t, err, ErrInvalidShape, "example %d", i+1)
	}
}
