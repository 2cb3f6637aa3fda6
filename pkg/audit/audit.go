// Package audit records shared memory segment lifecycle events in a bounded
// in-process journal so operators can reconstruct which process touched
// which segment.
package audit

import (
	"time"

	"github.com/Workiva/go-datastructures/queue"
)

// Op names a segment lifecycle transition.
type Op string

const (
	OpCreate Op = "create"
	OpOpen   Op = "open"
	OpClose  Op = "close"
	OpDelete Op = "delete"
)

// Event is one recorded lifecycle transition.
type Event struct {
	Time time.Time
	Op   Op
	Key  int
	Size int
}

// Journal is a bounded, concurrency-safe ring of lifecycle events. When the
// ring is full new events are dropped rather than blocking the caller.
type Journal struct {
	ring *queue.RingBuffer
}

// NewJournal returns a journal holding up to capacity events.
func NewJournal(capacity uint64) *Journal {
	return &Journal{ring: queue.NewRingBuffer(capacity)}
}

// Record appends an event to the journal. A zero Time is stamped with the
// current time. Record never blocks.
func (j *Journal) Record(e Event) {
	if j == nil {
		return
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	// Offer drops the event when the ring is full or disposed.
	_, _ = j.ring.Offer(e)
}

// Len reports the number of buffered events.
func (j *Journal) Len() uint64 {
	return j.ring.Len()
}

// Drain removes and returns all buffered events in arrival order.
func (j *Journal) Drain() []Event {
	n := j.ring.Len()
	out := make([]Event, 0, n)
	for i := uint64(0); i < n; i++ {
		v, err := j.ring.Poll(time.Millisecond)
		if err != nil {
			break
		}
		out = append(out, v.(Event))
	}
	return out
}

// Close disposes the underlying ring. Subsequent Record calls are no-ops.
func (j *Journal) Close() {
	j.ring.Dispose()
}
