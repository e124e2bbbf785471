package legs

import (
	"github.com/adammck/strider/math3d"
)

// Surface is anything a foot can stand on. Implementations must be comparable,
// since a foot remembers which surface it is attached to (pointer types are
// the usual choice).
type Surface interface {
	// Transform returns the current world transform of the surface.
	Transform() math3d.Transform
}

// Hit is the result of a geometry query.
type Hit struct {
	Point    math3d.Vector3
	Normal   math3d.Vector3
	Surface  Surface
	Blocking bool
}

// Query carries the options shared by every geometry cast.
type Query struct {
	Channel uint
	Complex bool
	Ignore  []Surface
}

// Ignores returns true if s is in the ignore set.
func (q Query) Ignores(s Surface) bool {
	if s == nil {
		return false
	}

	for _, i := range q.Ignore {
		if i == s {
			return true
		}
	}

	return false
}

// Geometry answers the ray and volume queries used to find footholds. Both
// calls are made on the evaluating goroutine and must return promptly.
type Geometry interface {
	// CastRay returns the first blocking hit on the segment from start to end.
	CastRay(start, end math3d.Vector3, q Query) (Hit, bool)

	// CastVolume sweeps a sphere of the given radius from start to end, and
	// returns every hit, in whatever order the implementation finds them.
	CastVolume(start, end math3d.Vector3, radius float64, q Query) []Hit
}

// Body is the character being animated, as seen by the engine.
type Body interface {
	// Transform returns the world transform of the character. Its X axis is
	// forward, Y is right and Z is up.
	Transform() math3d.Transform

	// Velocity returns the world velocity of the character, in units/s.
	Velocity() math3d.Vector3

	// HalfHeight returns the distance from the character origin down to the
	// soles of its feet when standing on flat ground.
	HalfHeight() float64

	// Supported returns false while the character has no ground under it.
	Supported() bool

	// Joint returns the world location of the named joint.
	Joint(ref string) (math3d.Vector3, bool)

	// Self returns the character's own collision surface, which geometry
	// queries should ignore. May be nil.
	Self() Surface
}
