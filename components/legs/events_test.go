package legs

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueOrder(t *testing.T) {
	q := &queue{}
	assert.Nil(t, q.consume())

	for i := 0; i < 10; i++ {
		q.push(Event{Kind: FootRaised, Leg: i})
	}

	evs := q.consume()
	require.Len(t, evs, 10)
	for i, e := range evs {
		assert.Equal(t, i, e.Leg)
	}

	assert.Nil(t, q.consume())
}

func TestQueueOverflowDropsOldest(t *testing.T) {
	q := &queue{}

	n := queueSize + 44
	for i := 0; i < n; i++ {
		q.push(Event{Kind: FootPlanted, Leg: i})
	}

	evs := q.consume()
	require.Len(t, evs, queueSize)
	assert.Equal(t, 44, evs[0].Leg)
	assert.Equal(t, n-1, evs[len(evs)-1].Leg)
	assert.Nil(t, q.consume())
}

func TestQueueConcurrentConsumer(t *testing.T) {
	q := &queue{}
	n := 100

	var wg sync.WaitGroup
	got := 0
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			got += len(q.consume())
			select {
			case <-done:
				got += len(q.consume())
				return
			default:
			}
		}
	}()

	for i := 0; i < n; i++ {
		q.push(Event{Kind: GroupRaised, Group: i})
	}
	close(done)
	wg.Wait()

	assert.Equal(t, n, got)
}

// The consumer may fall behind and have events overwritten under it. What it
// does get must be whole events, oldest first.
func TestQueueConcurrentOverflow(t *testing.T) {
	q := &queue{}
	n := queueSize * 20

	var wg sync.WaitGroup
	var got []Event
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			got = append(got, q.consume()...)
			select {
			case <-done:
				got = append(got, q.consume()...)
				return
			default:
			}
		}
	}()

	for i := 0; i < n; i++ {
		q.push(Event{Kind: FootRaised, Leg: i, Joint: fmt.Sprintf("tip_%d", i)})
	}
	close(done)
	wg.Wait()

	require.NotEmpty(t, got)
	assert.LessOrEqual(t, len(got), n)
	assert.Equal(t, n-1, got[len(got)-1].Leg)

	prev := -1
	for _, e := range got {
		assert.Greater(t, e.Leg, prev)
		assert.Equal(t, fmt.Sprintf("tip_%d", e.Leg), e.Joint)
		prev = e.Leg
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "foot_raised", FootRaised.String())
	assert.Equal(t, "landed", Landed.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
