package body

import (
	"github.com/adammck/strider/components/legs"
	"github.com/adammck/strider/math3d"
)

// Body is a character which tests can pose directly.
type Body struct {
	T    math3d.Transform
	V    math3d.Vector3
	Half float64

	// Falling is the inverse of Supported, so the zero value stands.
	Falling bool

	// Joint locations in the character frame.
	Joints map[string]math3d.Vector3

	// World joint locations which override Joints. Tests use this to stand in
	// for IK which has moved a tip somewhere.
	World map[string]math3d.Vector3

	SelfSurface legs.Surface
}

func New(half float64) *Body {
	return &Body{
		T:      math3d.IdentityTransform,
		Half:   half,
		Joints: map[string]math3d.Vector3{},
		World:  map[string]math3d.Vector3{},
	}
}

func (b *Body) Transform() math3d.Transform { return b.T }
func (b *Body) Velocity() math3d.Vector3    { return b.V }
func (b *Body) HalfHeight() float64         { return b.Half }
func (b *Body) Supported() bool             { return !b.Falling }
func (b *Body) Self() legs.Surface          { return b.SelfSurface }

func (b *Body) Joint(ref string) (math3d.Vector3, bool) {
	if p, ok := b.World[ref]; ok {
		return p, true
	}

	p, ok := b.Joints[ref]
	if !ok {
		return math3d.ZeroVector3, false
	}

	return b.T.TransformLocation(p), true
}

// Move translates the body by d.
func (b *Body) Move(d math3d.Vector3) {
	b.T.Location = b.T.Location.Add(d)
}
