package geometry

import (
	"github.com/adammck/strider/components/legs"
	"github.com/adammck/strider/math3d"
	"github.com/sirupsen/logrus"
)

var logger = logrus.WithFields(logrus.Fields{
	"pkg": "fake/geometry",
})

// Platform is a surface which tests can move around.
type Platform struct {
	T math3d.Transform
}

func NewPlatform() *Platform {
	return &Platform{T: math3d.IdentityTransform}
}

func (p *Platform) Transform() math3d.Transform {
	return p.T
}

// Move translates the platform by d.
func (p *Platform) Move(d math3d.Vector3) {
	p.T.Location = p.T.Location.Add(d)
}

// Floor is a horizontal rectangle at height Z. If Min and Max are equal, it is
// unbounded. When On is set, the floor moves with that platform.
type Floor struct {
	Z        float64
	Min, Max math3d.Vector3
	Normal   math3d.Vector3
	On       *Platform
	Surface  legs.Surface
}

func (f *Floor) surface() legs.Surface {
	if f.On != nil {
		return f.On
	}
	return f.Surface
}

// contains returns the floor height if the vertical line at p crosses it.
func (f *Floor) height(p math3d.Vector3) (float64, bool) {
	off := math3d.ZeroVector3
	if f.On != nil {
		off = f.On.T.Location
	}

	p = p.Subtract(off)
	if f.Min != f.Max {
		if p.X < f.Min.X || p.X > f.Max.X || p.Y < f.Min.Y || p.Y > f.Max.Y {
			return 0, false
		}
	}

	return f.Z + off.Z, true
}

// Geometry answers rays with the highest floor between the start and end of
// the (assumed vertical) ray, and volumes with a canned list of hits.
type Geometry struct {
	Floors []*Floor

	// Returned verbatim by every CastVolume.
	VolumeHits []legs.Hit

	// Counters and the last query, for assertions.
	Rays      int
	Volumes   int
	LastQuery legs.Query
}

func New(floors ...*Floor) *Geometry {
	return &Geometry{Floors: floors}
}

func (g *Geometry) CastRay(start, end math3d.Vector3, q legs.Query) (legs.Hit, bool) {
	g.Rays++
	g.LastQuery = q

	best := legs.Hit{}
	found := false

	for _, f := range g.Floors {
		if q.Ignores(f.surface()) {
			continue
		}

		z, ok := f.height(start)
		if !ok || z > start.Z || z < end.Z {
			continue
		}

		if found && z <= best.Point.Z {
			continue
		}

		n := f.Normal
		if n.Zero() {
			n = math3d.UnitZ
		}

		best = legs.Hit{
			Point:    math3d.Vector3{X: start.X, Y: start.Y, Z: z},
			Normal:   n,
			Surface:  f.surface(),
			Blocking: true,
		}
		found = true
	}

	logger.Tracef("ray %s -> %s: %v", start, end, found)
	return best, found
}

func (g *Geometry) CastVolume(start, end math3d.Vector3, radius float64, q legs.Query) []legs.Hit {
	g.Volumes++
	g.LastQuery = q

	out := make([]legs.Hit, 0, len(g.VolumeHits))
	for _, h := range g.VolumeHits {
		if !q.Ignores(h.Surface) {
			out = append(out, h)
		}
	}

	return out
}
