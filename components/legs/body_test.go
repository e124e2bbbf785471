package legs

import (
	"testing"

	"github.com/adammck/strider/math3d"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestAtanDeg(t *testing.T) {
	type eg struct {
		num, den float64
		exp      float64
	}

	examples := []eg{
		{0, 1, 0},
		{1, 1, 45},
		{-1, 1, -45},
		{1, -1, -45},
		{20, 80, 14.0362},
		{5, 0, 0},
		{5, 0.00009, 0},
		{5, -0.00009, 0},
	}

	for _, x := range examples {
		assert.InDelta(t, x.exp, atanDeg(x.num, x.den), 1e-4, "%v/%v", x.num, x.den)
	}
}

func TestSlopeMultiplier(t *testing.T) {
	type eg struct {
		deg, reduction float64
		exp            float64
	}

	examples := []eg{
		{0, 0.75, 1},
		{90, 0.75, 0.25},
		{-90, 0.75, 0.25},
		{60, 0.75, 0.625},
		{60, 0, 1},
		{45, 1, 0.7071},
	}

	for _, x := range examples {
		assert.InDelta(t, x.exp, slopeMultiplier(x.deg, x.reduction), 1e-4, "deg=%v", x.deg)
	}
}

func TestClassify(t *testing.T) {
	type eg struct {
		v        float64
		pos, neg bool
	}

	examples := []eg{
		{10, true, false},
		{-10, false, true},
		{0, true, true},
		{0.0005, true, true},
		{-0.001, true, true},
		{0.002, true, false},
	}

	for _, x := range examples {
		pos, neg := classify(x.v)
		assert.Equal(t, x.pos, pos, "v=%v", x.v)
		assert.Equal(t, x.neg, neg, "v=%v", x.v)
	}
}

func TestSlerp(t *testing.T) {
	target := math3d.Rotator{Pitch: 30}.Quat()
	id := mgl64.QuatIdent()

	// No time, no movement.
	assert.Equal(t, id, slerp(id, target, 0, 15))

	// A non-positive rate snaps.
	assert.Equal(t, target, slerp(id, target, 0.01, 0))

	// Large steps arrive.
	q := slerp(id, target, 1, 15)
	assert.True(t, q.OrientationEqualThreshold(target, 1e-9))

	// Partway goes partway.
	q = slerp(id, target, 1.0/60, 15)
	assert.InDelta(t, 7.5, math3d.RotatorFromQuat(q).Pitch, 1e-6)

	// The long way round is avoided.
	q = slerp(id, target.Scale(-1), 1.0/60, 15)
	assert.InDelta(t, 7.5, math3d.RotatorFromQuat(q).Pitch, 1e-6)
}

func TestMotionSample(t *testing.T) {
	cfg := DefaultConfig()
	b := newBodyState()
	m := motionState{}

	tr := math3d.MakeTransform(math3d.ZeroVector3, math3d.Rotator{Yaw: 90})
	m.capture(tr)

	// Heading right, moving right, so it's forward.
	m.sample(&cfg, tr, math3d.Vector3{Y: 100}, &b, 0.1)
	assert.InDelta(t, 1, m.forward, 1e-6)
	assert.InDelta(t, 0, m.right, 1e-6)
	assert.InDelta(t, 0, m.yawDelta, 1e-6)
	assert.InDelta(t, 1000, m.forwardAccel, 1e-6)

	// Turning in place, slowly, takes the minimum time.
	m.sample(&cfg, math3d.MakeTransform(math3d.ZeroVector3, math3d.Rotator{Yaw: 93}), math3d.ZeroVector3, &b, 0.1)
	assert.InDelta(t, 3, m.yawDelta, 1e-6)
	assert.Equal(t, cfg.MinStepDuration, m.stepDuration)

	// Turning lengthens the stride, and shortens the step.
	tr = math3d.MakeTransform(math3d.ZeroVector3, math3d.Rotator{Yaw: 183})
	m.sample(&cfg, tr, tr.Forward().MultiplyByScalar(100), &b, 0.1)
	assert.InDelta(t, 90, m.yawDelta, 1e-6)
	assert.InDelta(t, 50+(30*0.25), m.stepLength, 1e-6)
	assert.InDelta(t, 57.5/190, m.stepDuration, 1e-6)
}

func TestAttachment(t *testing.T) {
	s := &surface{t: math3d.IdentityTransform}
	a := attachment{}

	a.update()
	assert.True(t, a.delta.Zero())

	a.attach(s, math3d.Vector3{X: 10})
	s.t = math3d.MakeTransform(math3d.Vector3{Z: 5}, math3d.Rotator{Yaw: 90})
	a.update()

	// The point rotates a quarter turn around the origin and rises 5.
	assert.InDelta(t, -10, a.delta.X, 1e-6)
	assert.InDelta(t, 10, a.delta.Y, 1e-6)
	assert.InDelta(t, 5, a.delta.Z, 1e-6)

	// No further movement, no delta.
	a.update()
	assert.InDelta(t, 0, a.delta.Magnitude(), 1e-9)

	a.attach(nil, math3d.ZeroVector3)
	a.update()
	assert.True(t, a.delta.Zero())
}

type surface struct {
	t math3d.Transform
}

func (s *surface) Transform() math3d.Transform {
	return s.t
}
