package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/adammck/strider/components/legs"
	"github.com/adammck/strider/math3d"
	"github.com/adammck/strider/utils"
	"github.com/jakecoffman/cp"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "world",
})

var ErrInvalidShape = errors.New("invalid shape")

// Surface is a body in the world which feet can stand on. The world is a
// side view: world X maps to space X, world Z to space Y, and the space angle
// is the pitch of the surface. World Y is ignored.
type Surface struct {
	body *cp.Body
}

func (s *Surface) Transform() math3d.Transform {
	p := s.body.Position()
	return math3d.MakeTransform(
		math3d.Vector3{X: p.X, Z: p.Y},
		math3d.Rotator{Pitch: utils.Deg(s.body.Angle())},
	)
}

// Platform is a kinematic surface which travels back and forth between two
// points at a constant speed.
type Platform struct {
	*Surface
	from, to cp.Vector
	speed    float64
	forward  bool
}

// Actor is a kinematic box which the host moves around; a character's own
// collision, which its feet should not stand on.
type Actor struct {
	*Surface
}

// Place moves the actor. The shape catches up on the next Step.
func (a *Actor) Place(p math3d.Vector3) {
	a.body.SetPosition(vec(p))
}

type shapeInfo struct {
	surface  *Surface
	blocking bool
}

// World answers geometry queries against a Chipmunk space.
type World struct {
	space     *cp.Space
	ground    *Surface
	shapes    map[*cp.Shape]shapeInfo
	platforms []*Platform

	// Number of non-blocking shapes. While there are none, rays can use the
	// space's own first-hit query.
	overlaps int
}

func New() *World {
	space := cp.NewSpace()

	return &World{
		space:  space,
		ground: &Surface{body: space.StaticBody},
		shapes: make(map[*cp.Shape]shapeInfo),
	}
}

// Ground returns the surface which all static segments belong to.
func (w *World) Ground() legs.Surface {
	return w.ground
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	return w.space
}

// AddSegment adds a static segment from a to b, which blocks the given trace
// channels (all of them, if none are given). Non-blocking segments are only
// reported by volume casts.
func (w *World) AddSegment(a, b math3d.Vector3, radius float64, blocking bool, channels ...uint) (legs.Surface, error) {
	if a.X == b.X && a.Z == b.Z {
		return nil, fmt.Errorf("%w: segment from %s to %s has no length", ErrInvalidShape, a, b)
	}

	shape := cp.NewSegment(w.space.StaticBody, vec(a), vec(b), radius)
	w.add(shape, w.ground, blocking, channels)

	log.Debugf("segment %s -> %s blocking=%v", a, b, blocking)
	return w.ground, nil
}

// AddPlatform adds a flat kinematic platform of the given width, which starts
// at from and moves towards to at speed units/s, then back again.
func (w *World) AddPlatform(from, to math3d.Vector3, width, speed float64) (*Platform, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: platform width must be positive, got %0.2f", ErrInvalidShape, width)
	}

	if speed < 0 {
		return nil, fmt.Errorf("%w: platform speed must not be negative, got %0.2f", ErrInvalidShape, speed)
	}

	body := w.space.AddBody(cp.NewKinematicBody())
	body.SetPosition(vec(from))

	p := &Platform{
		Surface: &Surface{body: body},
		from:    vec(from),
		to:      vec(to),
		speed:   speed,
		forward: true,
	}

	shape := cp.NewSegment(body, cp.Vector{X: -width / 2}, cp.Vector{X: width / 2}, 0)
	w.add(shape, p.Surface, true, nil)
	w.platforms = append(w.platforms, p)

	log.Debugf("platform %s -> %s width=%0.2f speed=%0.2f", from, to, width, speed)
	return p, nil
}

// AddActor adds a kinematic box centered on p.
func (w *World) AddActor(p math3d.Vector3, width, height float64) *Actor {
	body := w.space.AddBody(cp.NewKinematicBody())
	body.SetPosition(vec(p))

	a := &Actor{Surface: &Surface{body: body}}
	w.add(cp.NewBox(body, width, height, 0), a.Surface, true, nil)

	return a
}

func (w *World) add(shape *cp.Shape, s *Surface, blocking bool, channels []uint) {
	cats := uint(cp.ALL_CATEGORIES)
	if len(channels) > 0 {
		cats = 0
		for _, c := range channels {
			cats |= 1 << c
		}
	}

	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, cats, cp.ALL_CATEGORIES))
	w.space.AddShape(shape)
	w.shapes[shape] = shapeInfo{surface: s, blocking: blocking}

	if !blocking {
		w.overlaps++
	}
}

// Step advances every platform by dt seconds.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}

	for _, p := range w.platforms {
		p.steer(dt)
	}

	w.space.Step(dt)
}

// steer points the platform at whichever end it's heading for, and turns it
// around when it arrives.
func (p *Platform) steer(dt float64) {
	if p.speed == 0 {
		p.body.SetVelocity(0, 0)
		return
	}

	pos := p.body.Position()
	goal := p.to
	if !p.forward {
		goal = p.from
	}

	d := goal.Sub(pos)
	if d.Length() <= p.speed*dt {
		// Arrive exactly, and head back next step.
		p.forward = !p.forward
		p.body.SetVelocityVector(d.Mult(1 / dt))
		return
	}

	p.body.SetVelocityVector(d.Normalize().Mult(p.speed))
}

func (w *World) filter(q legs.Query) cp.ShapeFilter {
	return cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, 1<<q.Channel)
}

func (w *World) ignores(shape *cp.Shape, q legs.Query) (shapeInfo, bool) {
	info, ok := w.shapes[shape]
	if !ok {
		return info, true
	}

	for _, s := range q.Ignore {
		if s == legs.Surface(info.surface) {
			return info, true
		}
	}

	return info, false
}

func (w *World) hit(start, end math3d.Vector3, info shapeInfo, point, normal cp.Vector, alpha float64) legs.Hit {
	return legs.Hit{
		Point: math3d.Vector3{
			X: point.X,
			Y: start.Y + (end.Y-start.Y)*alpha,
			Z: point.Y,
		},
		Normal:   math3d.Vector3{X: normal.X, Z: normal.Y},
		Surface:  info.surface,
		Blocking: info.blocking,
	}
}

// CastRay returns the first blocking hit on the segment from start to end.
// Complex has no meaning in two dimensions, and is ignored.
func (w *World) CastRay(start, end math3d.Vector3, q legs.Query) (legs.Hit, bool) {
	f := w.filter(q)

	if len(q.Ignore) == 0 && w.overlaps == 0 {
		info := w.space.SegmentQueryFirst(vec(start), vec(end), 0, f)
		if info.Shape == nil {
			return legs.Hit{}, false
		}

		si, skip := w.ignores(info.Shape, q)
		if skip {
			return legs.Hit{}, false
		}

		return w.hit(start, end, si, info.Point, info.Normal, info.Alpha), true
	}

	best := legs.Hit{}
	bestAlpha := math.Inf(1)

	w.space.SegmentQuery(vec(start), vec(end), 0, f, func(shape *cp.Shape, point, normal cp.Vector, alpha float64, data interface{}) {
		si, skip := w.ignores(shape, q)
		if skip || !si.blocking || alpha >= bestAlpha {
			return
		}

		bestAlpha = alpha
		best = w.hit(start, end, si, point, normal, alpha)
	}, nil)

	return best, !math.IsInf(bestAlpha, 1)
}

// CastVolume sweeps a circle of the given radius from start to end, and
// returns every shape it touches.
func (w *World) CastVolume(start, end math3d.Vector3, radius float64, q legs.Query) []legs.Hit {
	out := []legs.Hit{}

	w.space.SegmentQuery(vec(start), vec(end), radius, w.filter(q), func(shape *cp.Shape, point, normal cp.Vector, alpha float64, data interface{}) {
		si, skip := w.ignores(shape, q)
		if skip {
			return
		}

		out = append(out, w.hit(start, end, si, point, normal, alpha))
	}, nil)

	return out
}

func vec(v math3d.Vector3) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Z}
}
