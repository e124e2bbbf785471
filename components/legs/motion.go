package legs

import (
	"math"

	"github.com/adammck/strider/math3d"
	"github.com/adammck/strider/utils"
)

const (
	// Below this speed (units/s) the character is considered to be standing
	// still, so tiny drifts don't make it shuffle its feet.
	minSpeed = 2.0

	// When speed plus yaw rate is below this, steps take the minimum duration
	// rather than an absurdly long one.
	minStepSpeed = 5.0
)

// motionState is what the sampler derives from the character's movement each
// frame.
type motionState struct {
	speed    float64
	forward  float64 // [-1, 1]
	right    float64 // [-1, 1]
	yawDelta float64 // degrees since the previous frame

	stepLength   float64
	stepDuration float64

	forwardAccel float64
	rightAccel   float64

	prevYaw     float64
	prevSpeed   float64
	prevForward float64
	prevRight   float64
}

// capture primes the previous-frame snapshots, so the first sample doesn't see
// a yaw delta from zero.
func (m *motionState) capture(t math3d.Transform) {
	m.prevYaw = t.Yaw()
}

// sample updates the motion state from the character's current transform and
// velocity. Steps are shortened by the slope multipliers of the body.
func (m *motionState) sample(cfg *Config, t math3d.Transform, vel math3d.Vector3, b *bodyState, dt float64) {
	m.speed = vel.Magnitude()
	if m.speed <= minSpeed {
		m.speed = 0
		vel = math3d.ZeroVector3
	}

	dir := vel.Unit()
	m.forward = intent(t.Forward(), dir)
	m.right = intent(t.Right(), dir)

	yaw := t.Yaw()
	m.yawDelta = math3d.NormalizeAngle(yaw - m.prevYaw)
	m.prevYaw = yaw

	m.stepLength = (math.Abs(m.forward*cfg.StepDistanceForward) +
		math.Abs(m.right*cfg.StepDistanceRight) +
		math.Abs(cfg.StepDistanceRight*utils.Clamp(m.yawDelta/360, -1, 1))) * b.slope(m.forward, m.right)

	if s := m.speed + math.Abs(m.yawDelta); s > minStepSpeed {
		m.stepDuration = m.stepLength / s
	} else {
		m.stepDuration = cfg.MinStepDuration
	}

	if dt <= 0 {
		m.forwardAccel = 0
		m.rightAccel = 0
		return
	}

	m.forwardAccel = ((m.forward * m.speed) - (m.prevForward * m.prevSpeed)) / dt
	m.rightAccel = ((m.right * m.speed) - (m.prevRight * m.prevSpeed)) / dt
	m.prevSpeed = m.speed
	m.prevForward = m.forward
	m.prevRight = m.right
}

// intent maps the angle between axis and the (unit or zero) direction from
// [0°, 180°] onto [1, -1]. A zero direction is 90° from everything, so yields 0.
func intent(axis, dir math3d.Vector3) float64 {
	deg := utils.Deg(math.Acos(utils.Clamp(axis.Dot(dir), -1, 1)))
	return utils.MapRangeClamped(deg, 0, 180, 1, -1)
}
