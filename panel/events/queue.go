// Package events carries press notifications from the edge path to the
// main cycle without locks or allocation.
package events

import (
	"sync/atomic"

	"joypanel/panel"
)

// Press records one accepted button press and the mode value it produced.
type Press struct {
	Line panel.Line
	On   bool
}

const queueSlots = 8

type slot struct {
	ready atomic.Bool
	ev    Press
}

// Queue is a fixed-size multi-producer, single-consumer queue.
// Producers may run in interrupt context: TrySend never blocks.
type Queue struct {
	_       [0]func() // prevent accidental copying.
	head    atomic.Uint32
	tail    atomic.Uint32
	dropped atomic.Uint32
	slots   [queueSlots]slot
}

// TrySend enqueues ev, returning false if the queue is full.
func (q *Queue) TrySend(ev Press) bool {
	for {
		head := q.head.Load()
		tail := q.tail.Load()
		if head-tail >= queueSlots {
			q.dropped.Add(1)
			return false
		}
		if !q.head.CompareAndSwap(head, head+1) {
			continue
		}
		s := &q.slots[head%queueSlots]
		s.ev = ev
		s.ready.Store(true)
		return true
	}
}

// TryRecv dequeues one event. It returns false when the queue is empty or
// the oldest slot is reserved but not yet published.
func (q *Queue) TryRecv() (Press, bool) {
	tail := q.tail.Load()
	if tail == q.head.Load() {
		return Press{}, false
	}
	s := &q.slots[tail%queueSlots]
	if !s.ready.Load() {
		return Press{}, false
	}
	ev := s.ev
	s.ready.Store(false)
	q.tail.Store(tail + 1)
	return ev, true
}

// Drain calls fn for every event currently published, oldest first.
func (q *Queue) Drain(fn func(Press)) int {
	n := 0
	for {
		ev, ok := q.TryRecv()
		if !ok {
			return n
		}
		n++
		fn(ev)
	}
}

// Dropped reports how many sends failed because the queue was full, and
// resets the count.
func (q *Queue) Dropped() uint32 {
	return q.dropped.Swap(0)
}
