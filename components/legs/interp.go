package legs

import (
	"github.com/adammck/strider/math3d"
	"github.com/adammck/strider/utils"
)

// swing moves every foot for this frame. Lifted groups advance along their
// curves; planted feet ride whatever they're standing on. While falling, feet
// go straight to their targets.
func (l *Legs) swing(t math3d.Transform, dt float64) {
	up := t.Up()

	for g, group := range l.cfg.Groups {
		gs := &l.groups[g]

		if l.falling() {
			for _, i := range group.Legs {
				l.legs[i].foot = l.legs[i].target
			}
			continue
		}

		if gs.unplanted {
			if d := l.motion.stepDuration; d > 0 {
				gs.fraction = utils.Clamp(gs.fraction+(dt/d), 0, 1)
			} else {
				gs.fraction = 1
			}

			w := l.speedCurve.Value(gs.fraction)
			lift := l.heightCurve.Value(gs.fraction) * l.cfg.StepHeight

			for _, i := range group.Legs {
				leg := &l.legs[i]
				leg.foot = leg.anchor.Lerp(leg.target, w).Add(up.MultiplyByScalar(lift))
				leg.anchor = leg.anchor.Add(leg.att.delta)
			}

			continue
		}

		tolerance := l.cfg.MinUnplantDistance * l.cfg.FallbackDistanceMultiplier
		for _, i := range group.Legs {
			leg := &l.legs[i]

			// A foot which the IK couldn't reach is left where it is, rather
			// than dragged along with the platform.
			if tip, ok := l.owner.Joint(l.cfg.Legs[i].TipJoint); ok && leg.foot.Distance(tip) > tolerance {
				continue
			}

			leg.foot = leg.foot.Add(leg.att.delta)
		}
	}
}
