package deferred

import (
	"time"

	"github.com/zeusync/worldcore/internal/core/events/routing"
	"github.com/zeusync/worldcore/internal/core/messages"
	"github.com/zeusync/worldcore/internal/core/models"
	"github.com/zeusync/worldcore/pkg/generic"
)

var _ routing.DeferredQueue = (*Queue)(nil)

// DeliverFunc hands a queued message to its receiver. It reports false when
// the receiver no longer exists.
type DeliverFunc func(receiver models.ComponentHandle, msg messages.Message) bool

// Stats counts queue activity.
type Stats struct {
	Enqueued  uint64
	Delivered uint64
	Dropped   uint64
	Pending   int
}

type pending struct {
	receiver models.ComponentHandle
	msg      messages.Message
	due      time.Duration
	tick     uint64
}

// Queue holds posted messages until their slot's delivery pass on or after
// their due time. Delivery within a slot is FIFO.
//
// QueueNextFrame messages are delivered by the first next-frame pass of a
// later tick. QueueThisFrame messages are delivered by the this-frame pass of
// the current tick; messages posted while that pass runs wait for the next
// one.
type Queue struct {
	now   time.Duration
	tick  uint64
	slots [2][]*pending
	pool  *generic.Pool[*pending]
	stats Stats
	// clears counts Clear calls so a running Deliver notices teardown.
	clears uint64
}

func NewQueue() *Queue {
	return &Queue{
		pool: generic.NewResetPool(
			func() *pending { return &pending{} },
			func(p *pending) { *p = pending{} },
		),
	}
}

// Enqueue takes ownership of msg.
func (q *Queue) Enqueue(receiver models.ComponentHandle, msg messages.Message, delay time.Duration, slot routing.QueueSlot) {
	p := q.pool.Get()
	p.receiver = receiver
	p.msg = msg
	p.due = q.now + max(delay, 0)
	p.tick = q.tick
	q.slots[slotIndex(slot)] = append(q.slots[slotIndex(slot)], p)
	q.stats.Enqueued++
}

// Advance starts a new tick and moves the queue clock forward.
func (q *Queue) Advance(delta time.Duration) {
	q.now += delta
	q.tick++
}

// Deliver runs the delivery pass of slot and returns the number of messages
// handed to live receivers. A receiver calling Clear ends the pass; nothing
// left in it is delivered or kept.
func (q *Queue) Deliver(slot routing.QueueSlot, deliver DeliverFunc) int {
	idx := slotIndex(slot)
	batch := q.slots[idx]
	q.slots[idx] = nil
	clears := q.clears

	delivered := 0
	kept := batch[:0]
	for i, p := range batch {
		if p.due > q.now || (slot == routing.QueueNextFrame && p.tick >= q.tick) {
			kept = append(kept, p)
			continue
		}

		receiver, msg := p.receiver, p.msg
		q.pool.Put(p)
		if deliver(receiver, msg) {
			delivered++
			q.stats.Delivered++
		} else {
			q.stats.Dropped++
		}

		if q.clears != clears {
			for _, rest := range kept {
				q.pool.Put(rest)
			}
			for _, rest := range batch[i+1:] {
				q.pool.Put(rest)
			}
			clear(batch)
			return delivered
		}
	}
	clear(batch[len(kept):])

	q.slots[idx] = append(kept, q.slots[idx]...)
	return delivered
}

// Clear drops every pending message without delivering it.
func (q *Queue) Clear() {
	q.clears++
	for i := range q.slots {
		for _, p := range q.slots[i] {
			q.pool.Put(p)
		}
		q.slots[i] = nil
	}
}

func (q *Queue) Len() int {
	return len(q.slots[0]) + len(q.slots[1])
}

// Now returns the queue clock.
func (q *Queue) Now() time.Duration {
	return q.now
}

func (q *Queue) Stats() Stats {
	stats := q.stats
	stats.Pending = q.Len()
	return stats
}

func slotIndex(slot routing.QueueSlot) int {
	if slot == routing.QueueThisFrame {
		return 1
	}
	return 0
}
