package legs

import (
	"sync"

	"github.com/adammck/strider/math3d"
	"github.com/google/uuid"
)

// Kind identifies an Event.
type Kind uint8

const (
	FootRaised Kind = iota + 1
	FootPlanted
	GroupRaised
	GroupPlanted
	Landed
)

func (k Kind) String() string {
	switch k {
	case FootRaised:
		return "foot_raised"
	case FootPlanted:
		return "foot_planted"
	case GroupRaised:
		return "group_raised"
	case GroupPlanted:
		return "group_planted"
	case Landed:
		return "landed"
	}
	return "unknown"
}

// Event is a copy of something which happened during a tick. Leg and Joint are
// set for foot events, Group for group events. Position is the foot location,
// the average of the group's feet, or the character location on landing.
type Event struct {
	Kind     Kind
	Leg      int
	Joint    string
	Group    int
	Position math3d.Vector3
	Source   uuid.UUID
}

// Listener receives events when the host calls Legs.Flush. The calls happen on
// the flushing goroutine, never during a tick.
type Listener interface {
	FootRaised(leg int, joint string, pos math3d.Vector3)
	FootPlanted(leg int, joint string, pos math3d.Vector3)
	GroupRaised(group int, avg math3d.Vector3)
	GroupPlanted(group int, avg math3d.Vector3)
	Landed(pos math3d.Vector3)
}

func (e Event) deliver(l Listener) {
	switch e.Kind {
	case FootRaised:
		l.FootRaised(e.Leg, e.Joint, e.Position)
	case FootPlanted:
		l.FootPlanted(e.Leg, e.Joint, e.Position)
	case GroupRaised:
		l.GroupRaised(e.Group, e.Position)
	case GroupPlanted:
		l.GroupPlanted(e.Group, e.Position)
	case Landed:
		l.Landed(e.Position)
	}
}

const (
	queueSize = 256
	queueMask = queueSize - 1
)

// queue is a bounded ring buffer. The ticking goroutine pushes and any other
// goroutine may consume. When full, the oldest events are overwritten.
type queue struct {
	mu     sync.Mutex
	events [queueSize]Event
	head   uint64 // read index
	tail   uint64 // write index
}

func (q *queue) push(e Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.events[q.tail&queueMask] = e
	q.tail++

	if q.tail-q.head > queueSize {
		q.head = q.tail - queueSize
	}
}

// consume returns every pending event, oldest first.
func (q *queue) consume() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := q.tail - q.head
	if n == 0 {
		return nil
	}

	out := make([]Event, n)
	for i := range out {
		out[i] = q.events[(q.head+uint64(i))&queueMask]
	}

	q.head = q.tail
	return out
}
