package legs

import (
	"math"

	"github.com/adammck/strider/math3d"
	"github.com/adammck/strider/utils"
)

const (
	// Denominators smaller than this are treated as zero when deriving the
	// body pitch and roll from the feet, yielding no rotation.
	minSpan = 1e-4

	// Scales acceleration (units/s²) into degrees of tilt, before the
	// configured multiplier is applied.
	accelTilt = 0.2
)

// bodyState is the derived pose of the torso, relative to the character.
type bodyState struct {
	rotation math3d.Rotator
	offset   math3d.Vector3

	// Shorten steps on slopes. Both are 1 on flat ground.
	pitchMult float64
	rollMult  float64
}

func newBodyState() bodyState {
	return bodyState{
		pitchMult: 1,
		rollMult:  1,
	}
}

// slope returns the step length multiplier for the current direction of
// travel.
func (b *bodyState) slope(forward, right float64) float64 {
	return math.Abs(forward)*b.pitchMult + math.Abs(right)*b.rollMult
}

// sides holds the average target of the feet on each side of the body, in the
// character frame.
type sides struct {
	forward, backward math3d.Vector3
	right, left       math3d.Vector3
}

func (l *Legs) sides(t math3d.Transform) sides {
	var f, b, r, lt []math3d.Vector3

	for i := range l.legs {
		leg := &l.legs[i]
		p := t.InverseTransformLocation(leg.target)

		if leg.forward {
			f = append(f, p)
		}
		if leg.backward {
			b = append(b, p)
		}
		if leg.right {
			r = append(r, p)
		}
		if leg.left {
			lt = append(lt, p)
		}
	}

	return sides{
		forward:  math3d.Average(f),
		backward: math3d.Average(b),
		right:    math3d.Average(r),
		left:     math3d.Average(lt),
	}
}

// estimate updates the body rotation and offset from the feet.
func (l *Legs) estimate(t math3d.Transform, dt float64) {
	cfg := &l.cfg
	b := &l.body
	s := l.sides(t)

	pitch, roll := 0.0, 0.0
	if cfg.RotateOnFeet {
		pitch = atanDeg(s.forward.Z-s.backward.Z, s.forward.X-s.backward.X)
		roll = -atanDeg(s.right.Z-s.left.Z, s.right.Y-s.left.Y)
	}

	b.pitchMult = slopeMultiplier(pitch, cfg.StepSlopeReduction)
	b.rollMult = slopeMultiplier(roll, cfg.StepSlopeReduction)

	if cfg.RotateOnAcceleration {
		pitch += -accelTilt * l.motion.forwardAccel * cfg.BodyAccelerationTilt
		roll += accelTilt * l.motion.rightAccel * cfg.BodyAccelerationTilt
	}

	pitch = utils.Clamp(pitch, -cfg.MaxPitch, cfg.MaxPitch)
	roll = utils.Clamp(roll, -cfg.MaxRoll, cfg.MaxRoll)

	b.rotation.Pitch = utils.InterpTo(b.rotation.Pitch, pitch, dt, cfg.BodyRotationRate)
	b.rotation.Roll = utils.InterpTo(b.rotation.Roll, roll, dt, cfg.BodyRotationRate)

	feet := make([]math3d.Vector3, len(l.legs))
	for i := range l.legs {
		feet[i] = l.legs[i].foot
	}

	hh := l.owner.HalfHeight()
	avg := t.InverseTransformLocation(math3d.Average(feet))
	sink := utils.Clamp(math.Max(math.Abs(s.forward.Z-s.backward.Z), math.Abs(s.right.Z-s.left.Z))*cfg.BodySlope, 0, hh)
	z := (avg.Z+hh)*cfg.BodyBounce - sink + cfg.BodyZOffset

	b.offset = math3d.Vector3{Z: utils.InterpTo(b.offset.Z, z, dt, cfg.BodyLocationRate)}
}

// atanDeg returns atan(num/den) in degrees, or zero if den is too small.
func atanDeg(num, den float64) float64 {
	if math.Abs(den) < minSpan {
		return 0
	}

	return utils.Deg(math.Atan(num / den))
}

// slopeMultiplier maps the steepness of a slope (in degrees) onto [1-reduction,
// 1], so that steps on steep slopes are shorter.
func slopeMultiplier(deg, reduction float64) float64 {
	return utils.MapRangeClamped(math.Abs(math.Cos(utils.Rad(deg))), 0, 1, 1-reduction, 1)
}
