package strider

import (
	"fmt"
	"time"

	"github.com/adammck/strider/components/legs"
	"github.com/adammck/strider/math3d"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (

	// Units per second per second.
	DefaultGravity = 980.0

	// How far below its feet the character looks for ground to stick to. Any
	// further and it starts to fall.
	DefaultSnap = 25.0
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "strider",
})

type Component interface {
	Boot() error
	Tick(now time.Time, dt float64) error
}

// Character is a simple host for the locomotion engine: a capsule which
// slides along the ground, and a set of joints which the legs hang from.
type Character struct {
	ID         uuid.UUID
	Components []Component

	// The world coordinates of the center of the character, and its heading
	// in degrees (positive is clockwise from above).
	Position math3d.Vector3
	Heading  float64

	// Desired velocity in the horizontal plane, in units/s. Set by the
	// controller every tick.
	Movement math3d.Vector3

	// Distance from the center down to the soles of the feet.
	Clearance float64

	Gravity float64
	Snap    float64

	// Joint locations in the character frame.
	Joints map[string]math3d.Vector3

	// Collision surface of the character itself, if it has one.
	Body legs.Surface

	// Components can set this to true to indicate that the character should
	// shut down.
	Shutdown bool

	// World joint locations, set by components which move joints (i.e. IK).
	// These override the local layout.
	placed map[string]math3d.Vector3

	support   legs.Surface
	supportAt math3d.Transform
	supported bool
	fall      float64
}

// NewCharacter creates a character standing at pos.
func NewCharacter(pos math3d.Vector3, clearance float64) *Character {
	return &Character{
		ID:         uuid.New(),
		Components: []Component{},
		Position:   pos,
		Clearance:  clearance,
		Gravity:    DefaultGravity,
		Snap:       DefaultSnap,
		Joints:     map[string]math3d.Vector3{},
		placed:     map[string]math3d.Vector3{},
		supported:  true,
	}
}

// Add registers a component to receive ticks every frame.
func (c *Character) Add(comp Component) {
	c.Components = append(c.Components, comp)
}

// Boot calls Boot on each component.
func (c *Character) Boot() error {
	for _, comp := range c.Components {
		err := comp.Boot()
		if err != nil {
			return fmt.Errorf("boot %T: %w", comp, err)
		}
	}

	return nil
}

// Tick calls Tick on each component, in the order they were added, and stops
// at the first error.
func (c *Character) Tick(now time.Time, dt float64) error {
	for _, comp := range c.Components {
		err := comp.Tick(now, dt)
		if err != nil {
			return fmt.Errorf("tick %T: %w", comp, err)
		}
	}

	return nil
}

// World returns the transform from the character frame into the world.
func (c *Character) World() math3d.Transform {
	return math3d.MakeTransform(c.Position, math3d.Rotator{Yaw: c.Heading})
}

// Local returns the transform from the world into the character frame.
func (c *Character) Local() math3d.Transform {
	return c.World().Inverse()
}

func (c *Character) Transform() math3d.Transform {
	return c.World()
}

func (c *Character) Velocity() math3d.Vector3 {
	return c.Movement.Add(math3d.Vector3{Z: -c.fall})
}

func (c *Character) HalfHeight() float64 {
	return c.Clearance
}

func (c *Character) Supported() bool {
	return c.supported
}

func (c *Character) Self() legs.Surface {
	return c.Body
}

// Support returns the surface which the character is standing on, or nil.
func (c *Character) Support() legs.Surface {
	return c.support
}

// Joint returns the world location of the named joint.
func (c *Character) Joint(ref string) (math3d.Vector3, bool) {
	if p, ok := c.placed[ref]; ok {
		return p, true
	}

	p, ok := c.Joints[ref]
	if !ok {
		return math3d.ZeroVector3, false
	}

	return c.World().TransformLocation(p), true
}

// SetJoint moves the named joint to a world location, until it's moved again.
func (c *Character) SetJoint(ref string, world math3d.Vector3) {
	c.placed[ref] = world
}

// Move advances the character by dt seconds: it rides along with whatever it's
// standing on, applies its movement, and then either sticks to the ground
// under it or falls.
func (c *Character) Move(dt float64, geo legs.Geometry) {
	if c.support != nil {
		now := c.support.Transform()
		rel := c.supportAt.InverseTransformLocation(c.Position)
		c.Position = now.TransformLocation(rel)
		c.supportAt = now
	}

	c.Position = c.Position.Add(math3d.Vector3{X: c.Movement.X, Y: c.Movement.Y}.MultiplyByScalar(dt))

	q := legs.Query{}
	if c.Body != nil {
		q.Ignore = []legs.Surface{c.Body}
	}

	// While falling, look as far as the character will fall this frame.
	reach := c.Clearance + c.Snap
	if !c.supported {
		reach = c.Clearance + (c.fall+c.Gravity*dt)*dt
	}

	end := c.Position.Subtract(math3d.Vector3{Z: reach})
	hit, ok := geo.CastRay(c.Position, end, q)
	if ok && hit.Blocking {
		if !c.supported {
			log.Debugf("landed at %s", hit.Point)
		}

		c.Position.Z = hit.Point.Z + c.Clearance
		c.supported = true
		c.fall = 0

		if hit.Surface != c.support {
			c.support = hit.Surface
			if c.support != nil {
				c.supportAt = c.support.Transform()
			}
		}

		return
	}

	if c.supported {
		log.Debugf("left the ground at %s", c.Position)
	}

	c.supported = false
	c.support = nil
	c.fall += c.Gravity * dt
	c.Position.Z -= c.fall * dt
}
