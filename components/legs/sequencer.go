package legs

import (
	"github.com/adammck/strider/math3d"
)

// groupState is the runtime state of a leg group.
type groupState struct {
	unplanted bool

	// How far through the current step the group is, from 0 to 1. Only
	// meaningful while unplanted.
	fraction float64
}

// unplant lifts the group at the cursor, if any of its feet have strayed far
// enough from their targets and the previous group is far enough through its
// own step. The cursor only advances when a group is lifted.
func (l *Legs) unplant() {
	g := l.cursor
	gs := &l.groups[g]
	if gs.unplanted {
		return
	}

	far := false
	for _, i := range l.cfg.Groups[g].Legs {
		if l.legs[i].foot.Distance(l.legs[i].target) > l.cfg.MinUnplantDistance {
			far = true
			break
		}
	}

	if !far {
		return
	}

	prev := &l.groups[(g+len(l.groups)-1)%len(l.groups)]
	if prev.unplanted && prev.fraction < l.cfg.StepSequencePercent {
		return
	}

	gs.unplanted = true
	gs.fraction = 0

	for _, i := range l.cfg.Groups[g].Legs {
		leg := &l.legs[i]
		leg.anchor = leg.foot
		leg.att.attach(leg.hit.Surface, leg.anchor)
	}

	log.Debugf("raised group %d", g)
	l.emitGroup(g, FootRaised, GroupRaised)
	l.metrics.step(phaseRaise)

	l.cursor = (g + 1) % len(l.groups)
}

// plant puts down every group which has finished its step.
func (l *Legs) plant() {
	for g := range l.groups {
		gs := &l.groups[g]
		if !gs.unplanted || gs.fraction < 1 {
			continue
		}

		for _, i := range l.cfg.Groups[g].Legs {
			leg := &l.legs[i]
			leg.att.attach(leg.hit.Surface, leg.foot)
		}

		gs.unplanted = false

		log.Debugf("planted group %d", g)
		l.emitGroup(g, FootPlanted, GroupPlanted)
		l.metrics.step(phasePlant)
	}
}

// emitGroup queues an event for each foot in group g, followed by one for the
// group as a whole.
func (l *Legs) emitGroup(g int, foot, group Kind) {
	if l.listener == nil {
		return
	}

	feet := make([]math3d.Vector3, 0, len(l.cfg.Groups[g].Legs))
	for _, i := range l.cfg.Groups[g].Legs {
		pos := l.legs[i].foot
		feet = append(feet, pos)
		l.emit(Event{Kind: foot, Leg: i, Joint: l.cfg.Legs[i].TipJoint, Group: g, Position: pos})
	}

	l.emit(Event{Kind: group, Leg: -1, Group: g, Position: math3d.Average(feet)})
}

func (l *Legs) emit(e Event) {
	if l.listener == nil {
		return
	}

	e.Source = l.source
	l.queue.push(e)
}
