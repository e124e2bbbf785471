package math3d

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Rotator is a rotation as three angles, in degrees. Positive pitch raises the
// nose, positive yaw turns toward the right, and positive roll lowers the right
// side. They are applied roll first, then pitch, then yaw.
type Rotator struct {
	Pitch float64
	Yaw   float64
	Roll  float64
}

var (
	IdentityRotator = Rotator{}
)

func (r Rotator) String() string {
	return fmt.Sprintf("&Rot{p=%+.2f° y=%+.2f° r=%+.2f°}", r.Pitch, r.Yaw, r.Roll)
}

// Quat returns the rotation as a unit quaternion.
func (r Rotator) Quat() mgl64.Quat {
	yaw := mgl64.QuatRotate(mgl64.DegToRad(r.Yaw), mgl64.Vec3{0, 0, 1})
	pitch := mgl64.QuatRotate(mgl64.DegToRad(-r.Pitch), mgl64.Vec3{0, 1, 0})
	roll := mgl64.QuatRotate(mgl64.DegToRad(-r.Roll), mgl64.Vec3{1, 0, 0})
	return yaw.Mul(pitch).Mul(roll).Normalize()
}

// Normalize returns the rotator with every angle wrapped into (-180, 180].
func (r Rotator) Normalize() Rotator {
	return Rotator{
		Pitch: NormalizeAngle(r.Pitch),
		Yaw:   NormalizeAngle(r.Yaw),
		Roll:  NormalizeAngle(r.Roll),
	}
}

// RotatorFromQuat recovers the angles of a quaternion built by Rotator.Quat.
// Pitch is in [-90, 90].
func RotatorFromQuat(q mgl64.Quat) Rotator {
	f := q.Rotate(mgl64.Vec3{1, 0, 0})
	r := q.Rotate(mgl64.Vec3{0, 1, 0})
	u := q.Rotate(mgl64.Vec3{0, 0, 1})

	return Rotator{
		Pitch: mgl64.RadToDeg(math.Atan2(f[2], math.Hypot(f[0], f[1]))),
		Yaw:   mgl64.RadToDeg(math.Atan2(f[1], f[0])),
		Roll:  mgl64.RadToDeg(math.Atan2(-r[2], u[2])),
	}
}

// NormalizeAngle wraps an angle in degrees into (-180, 180].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 360)
	if a > 180 {
		a -= 360
	} else if a <= -180 {
		a += 360
	}
	return a
}

// RotationFromZX returns the rotation whose Z axis points along z and whose X
// axis is as close to x as possible. If x is parallel to z, the world X axis
// (or Y, if that is parallel too) is used instead.
func RotationFromZX(z, x Vector3) mgl64.Quat {
	zz := z.Unit()
	if zz.Zero() {
		return mgl64.QuatIdent()
	}

	yy := zz.Cross(x).Unit()
	if yy.Zero() {
		yy = zz.Cross(UnitX).Unit()
	}
	if yy.Zero() {
		yy = zz.Cross(UnitY).Unit()
	}

	xx := yy.Cross(zz)

	m := mgl64.Mat4{
		xx.X, xx.Y, xx.Z, 0,
		yy.X, yy.Y, yy.Z, 0,
		zz.X, zz.Y, zz.Z, 0,
		0, 0, 0, 1,
	}

	return mgl64.Mat4ToQuat(m).Normalize()
}
