package math3d

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Transform places a local frame in the world: a location and a rotation. The
// zero value is not usable; start from IdentityTransform or MakeTransform.
type Transform struct {
	Location Vector3
	Rotation mgl64.Quat
}

var (
	IdentityTransform = Transform{Rotation: mgl64.QuatIdent()}
)

// MakeTransform returns a transform at the given location, rotated by r.
func MakeTransform(loc Vector3, r Rotator) Transform {
	return Transform{
		Location: loc,
		Rotation: r.Quat(),
	}
}

func (t Transform) String() string {
	return fmt.Sprintf("Transform{%s %s}", t.Location, RotatorFromQuat(t.Rotation))
}

// Forward returns the unit X axis of the frame, in world space.
func (t Transform) Forward() Vector3 {
	return t.Rotate(UnitX)
}

// Right returns the unit Y axis of the frame, in world space.
func (t Transform) Right() Vector3 {
	return t.Rotate(UnitY)
}

// Up returns the unit Z axis of the frame, in world space.
func (t Transform) Up() Vector3 {
	return t.Rotate(UnitZ)
}

// Yaw returns the heading of the frame in degrees.
func (t Transform) Yaw() float64 {
	return RotatorFromQuat(t.Rotation).Yaw
}

// Rotate rotates a direction from the local frame into the world, ignoring the
// location.
func (t Transform) Rotate(v Vector3) Vector3 {
	return fromVec(t.Rotation.Rotate(v.vec()))
}

// TransformLocation converts a point in the local frame into world space.
func (t Transform) TransformLocation(v Vector3) Vector3 {
	return t.Rotate(v).Add(t.Location)
}

// InverseTransformLocation converts a point in world space into the local
// frame.
func (t Transform) InverseTransformLocation(v Vector3) Vector3 {
	return fromVec(t.Rotation.Inverse().Rotate(v.Subtract(t.Location).vec()))
}

// InverseTransformRotation converts a world rotation into the local frame.
func (t Transform) InverseTransformRotation(q mgl64.Quat) mgl64.Quat {
	return t.Rotation.Inverse().Mul(q).Normalize()
}

// Compose returns the world transform of a child frame placed at c inside this
// frame.
func (t Transform) Compose(c Transform) Transform {
	return Transform{
		Location: t.TransformLocation(c.Location),
		Rotation: t.Rotation.Mul(c.Rotation).Normalize(),
	}
}

// Inverse returns the transform which undoes t.
func (t Transform) Inverse() Transform {
	inv := t.Rotation.Inverse()
	return Transform{
		Location: fromVec(inv.Rotate(t.Location.vec())).MultiplyByScalar(-1),
		Rotation: inv,
	}
}
