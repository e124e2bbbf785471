package legs

import (
	"github.com/adammck/strider/math3d"
)

// attachment tracks the surface a foot is resting on (or lifted off), so feet
// can ride moving platforms.
type attachment struct {
	surface Surface
	prev    math3d.Transform

	// The reference point, in the surface's frame.
	rel math3d.Vector3

	// How far the reference point moved during the last update.
	delta math3d.Vector3
}

// attach remembers s and the location of p relative to it. A nil surface
// detaches.
func (a *attachment) attach(s Surface, p math3d.Vector3) {
	a.surface = s
	if s == nil {
		return
	}

	a.prev = s.Transform()
	a.rel = a.prev.InverseTransformLocation(p)
}

// update recomputes the delta from the surface's movement since the previous
// update.
func (a *attachment) update() {
	if a.surface == nil {
		a.delta = math3d.ZeroVector3
		return
	}

	now := a.surface.Transform()
	a.delta = now.TransformLocation(a.rel).Subtract(a.prev.TransformLocation(a.rel))
	a.prev = now
}
