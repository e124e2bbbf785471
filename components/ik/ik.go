package ik

import (
	"fmt"
	"math"
	"time"

	"github.com/adammck/strider/components/legs"
	"github.com/adammck/strider/math3d"
	"github.com/adammck/strider/utils"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "ik",
})

// Chain is a two segment leg: the femur hangs from the hip joint, and the
// tibia from the knee to the tip.
type Chain struct {
	Hip   string  `yaml:"hip"`
	Tip   string  `yaml:"tip"`
	Femur float64 `yaml:"femur"`
	Tibia float64 `yaml:"tibia"`
}

// Angles are the joint angles of a solved chain, in degrees. Coxa is the
// heading of the leg around the hip, in the character frame. Femur is the
// elevation of the femur above horizontal, and Tibia is how far the knee is
// bent (zero is straight).
type Angles struct {
	Coxa  float64
	Femur float64
	Tibia float64

	// False if the goal was out of reach, and the chain was clamped.
	Reached bool
}

// Host is the character whose tips are moved.
type Host interface {
	Transform() math3d.Transform
	Joint(ref string) (math3d.Vector3, bool)
	SetJoint(ref string, world math3d.Vector3)
}

// Source provides the goals to solve for.
type Source interface {
	Pose() legs.Pose
}

// IK moves the tip joint of each chain to the goal which the source has
// chosen for it, as far as the segments allow.
type IK struct {
	host   Host
	src    Source
	chains []Chain

	// Resting tips, in the character frame. Disabled legs relax to these.
	rest   []math3d.Vector3
	angles []Angles
}

func New(host Host, src Source, chains []Chain) *IK {
	return &IK{
		host:   host,
		src:    src,
		chains: chains,
		rest:   make([]math3d.Vector3, len(chains)),
		angles: make([]Angles, len(chains)),
	}
}

// Boot records the resting tip of each chain, and returns an error if any of
// the joints can't be found or the segments are nonsense.
func (k *IK) Boot() error {
	t := k.host.Transform()

	for i, c := range k.chains {
		if c.Femur <= 0 || c.Tibia <= 0 {
			return fmt.Errorf("chain %d (%s): segment lengths must be positive, got %0.2f and %0.2f", i, c.Tip, c.Femur, c.Tibia)
		}

		if _, ok := k.host.Joint(c.Hip); !ok {
			return fmt.Errorf("chain %d: no joint %q", i, c.Hip)
		}

		tip, ok := k.host.Joint(c.Tip)
		if !ok {
			return fmt.Errorf("chain %d: no joint %q", i, c.Tip)
		}

		k.rest[i] = t.InverseTransformLocation(tip)
		log.Infof("chain %d (%s) rest=%s", i, c.Tip, k.rest[i])
	}

	return nil
}

// Tick solves every chain for the latest pose. Until the source has a pose,
// nothing moves.
func (k *IK) Tick(now time.Time, dt float64) error {
	p := k.src.Pose()
	if len(p.Legs) == 0 {
		return nil
	}

	t := k.host.Transform()

	for i, c := range k.chains {
		if i >= len(p.Legs) {
			break
		}

		hip, ok := k.host.Joint(c.Hip)
		if !ok {
			return fmt.Errorf("chain %d: no joint %q", i, c.Hip)
		}

		goal := p.Legs[i].Location
		if !p.Legs[i].Enabled {
			goal = t.TransformLocation(k.rest[i])
		}

		a, tip := Solve(t.InverseTransformLocation(hip), t.InverseTransformLocation(goal), c.Femur, c.Tibia)
		if !a.Reached {
			log.Debugf("chain %d (%s) can't reach %s", i, c.Tip, goal)
		}

		k.angles[i] = a
		k.host.SetJoint(c.Tip, t.TransformLocation(tip))
	}

	return nil
}

// Angles returns the most recent solution for each chain.
func (k *IK) Angles() []Angles {
	out := make([]Angles, len(k.angles))
	copy(out, k.angles)
	return out
}

// Solve positions a two segment chain rooted at hip so that its tip is as
// close to goal as possible, with the knee bent upwards. All vectors are in
// the same (Z up) frame. Returns the angles and the resulting tip.
func Solve(hip, goal math3d.Vector3, femur, tibia float64) (Angles, math3d.Vector3) {
	v := goal.Subtract(hip)
	d := v.Magnitude()

	// Distances outside of this range can't be reached. Clamp them to the
	// nearest which can.
	lo := math.Abs(femur - tibia)
	hi := femur + tibia

	a := Angles{Reached: true}
	if d > hi || d < lo {
		a.Reached = false
		d = utils.Clamp(d, lo, hi)
	}

	// Solve the heading of the leg by looking at the goal from above. A goal
	// directly below the hip keeps the leg pointing forwards.
	r := math.Hypot(v.X, v.Y)
	if r > 1e-9 {
		a.Coxa = utils.Deg(math.Atan2(v.Y, v.X))
	}

	// The remaining joints are on the vertical plane through the hip and
	// goal, so the rest is 2d trig on that plane. The three known sides are:
	//
	//         (knee)
	//          /  \
	//     femur    tibia
	//        /      \
	//     (hip) - d - (tip)
	//
	elevation := utils.Deg(math.Atan2(v.Z, r))
	a.Femur = elevation + sss(tibia, femur, d)
	a.Tibia = 180 - sss(d, femur, tibia)

	dir := v.Unit()
	if dir.Zero() {
		dir = math3d.Vector3{Z: -1}
	}

	return a, hip.Add(dir.MultiplyByScalar(d))
}

// sss returns the angle α, given the length of sides a, b, and c.
// See: http://en.wikipedia.org/wiki/Solution_of_triangles
func sss(a float64, b float64, c float64) float64 {
	if b == 0 || c == 0 {
		return 0
	}

	cos := ((b * b) + (c * c) - (a * a)) / (2 * b * c)
	return utils.Deg(math.Acos(utils.Clamp(cos, -1, 1)))
}
