package legs

import (
	"math"

	"github.com/adammck/strider/math3d"
	"github.com/adammck/strider/utils"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// Feet only align to the ground near the ends of a step. In the middle of
	// the swing they are held level.
	rotationStart = 0.15
	rotationEnd   = 0.85
)

// legState is everything the engine knows about a single leg at runtime.
type legState struct {

	// Captured once, after the settle frames. The joint location and resting
	// tip are in the character frame.
	length float64
	joint  math3d.Vector3
	rest   math3d.Vector3

	// World positions: where the foot is, where it's headed, and where it was
	// when the current step started.
	foot   math3d.Vector3
	target math3d.Vector3
	anchor math3d.Vector3

	// Smoothed foot rotation, in the character frame.
	rotation mgl64.Quat
	enabled  bool

	hit Hit
	att attachment

	forward, backward bool
	right, left       bool
}

// column returns the point (at joint height) under which a foothold for leg i
// should be sought, given the current stride.
func (l *Legs) column(i int, t math3d.Transform) math3d.Vector3 {
	leg := &l.legs[i]
	cfg := &l.cfg.Legs[i]

	parent, ok := l.owner.Joint(cfg.ParentJoint)
	if !ok {
		parent = t.TransformLocation(leg.joint)
	}

	fwd := t.Forward().MultiplyByScalar(l.cfg.StepDistanceForward*l.motion.forward + cfg.Offset.X)
	right := t.Right().MultiplyByScalar(l.cfg.StepDistanceRight*l.motion.right + cfg.Offset.Y)

	return parent.Add(fwd).Add(right)
}

// probe finds a foothold for leg i and updates its target and rotation.
func (l *Legs) probe(i int, t math3d.Transform, dt float64) {
	leg := &l.legs[i]
	cfg := &l.cfg.Legs[i]
	gs := &l.groups[l.groupOf[i]]
	up := t.Up()

	col := l.column(i, t)
	start := col.Add(up.MultiplyByScalar(l.cfg.TraceStartOffset))
	end := col.Subtract(up.MultiplyByScalar(l.cfg.TraceLength))

	hit, ok := l.resolve(leg.length, col, start, end, up)

	rot := mgl64.QuatIdent()

	if ok {
		log.Tracef("leg %d (%s) hit %s", i, cfg.Name, hit.Point)

		if !gs.unplanted || gs.fraction < rotationStart || gs.fraction > rotationEnd {
			rot = t.InverseTransformRotation(math3d.RotationFromZX(hit.Normal, t.Forward()))
		}

		if gs.unplanted && gs.fraction >= l.cfg.FreezeTargetPercent {
			// Too far into the step to change our mind.
			leg.target = leg.target.Add(leg.att.delta)
		} else {
			leg.target = hit.Point.Add(up.MultiplyByScalar(cfg.Offset.Z))
		}

		leg.hit = hit

	} else {
		log.Tracef("leg %d (%s) missed", i, cfg.Name)
		leg.target = t.TransformLocation(leg.rest)
		leg.hit = Hit{}
	}

	leg.rotation = slerp(leg.rotation, rot, dt, l.cfg.FootRotationRate)
	leg.enabled = ok
}

// resolve runs the configured solver for one column.
func (l *Legs) resolve(length float64, col, start, end, up math3d.Vector3) (Hit, bool) {
	q := Query{
		Channel: l.cfg.TraceChannel,
		Complex: l.cfg.TraceComplex,
	}

	if self := l.owner.Self(); self != nil {
		q.Ignore = []Surface{self}
	}

	hit, ok := l.geo.CastRay(start, end, q)
	if !l.cfg.advanced() {
		return hit, ok
	}

	dist := math.Inf(1)
	if ok {
		dist = col.Distance(hit.Point)
		if dist <= length*l.cfg.FallbackDistanceMultiplier {
			return hit, ok
		}
	}

	l.metrics.fallback()

	cands := l.geo.CastVolume(start, end, l.radius, q)
	best := -1
	bound := 2 * (l.cfg.TraceLength + l.cfg.TraceStartOffset)

	for j, c := range cands {
		if col.Distance(c.Point) >= dist {
			continue
		}

		// Prefer candidates near the column height, and penalize walls.
		w := math.Abs(col.Subtract(c.Point).Dot(up)) * (1 - c.Normal.Dot(up))
		if w < bound {
			bound = w
			best = j
		}
	}

	if best >= 0 && cands[best].Blocking {
		return cands[best], true
	}

	return hit, ok
}

// slerp moves q toward target by dt*rate of the way. A non-positive rate snaps.
func slerp(q, target mgl64.Quat, dt, rate float64) mgl64.Quat {
	if rate <= 0 {
		return target
	}

	a := utils.Clamp(dt*rate, 0, 1)
	if a == 0 {
		return q
	}

	// Take the short way around.
	if q.Dot(target) < 0 {
		target = target.Scale(-1)
	}

	return mgl64.QuatSlerp(q, target, a).Normalize()
}
