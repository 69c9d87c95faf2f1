package system

import (
	"errors"
	"time"

	"github.com/zeusync/worldcore/pkg/sequence"
)

var (
	ErrAlreadyScheduled = errors.New("entry already scheduled")
	ErrNotScheduled     = errors.New("entry not scheduled")
	ErrInvalidInterval  = errors.New("schedule interval must not be negative")
)

// SchedulerConfig tunes an IntervalScheduler.
type SchedulerConfig struct {
	// MaxPerTick is a soft cap on invocations per tick; 0 disables it.
	// Entries over the cap are postponed by exactly one tick, never dropped.
	MaxPerTick int
}

// Due is an entry selected for the current tick.
type Due[K comparable] struct {
	Key     K
	Elapsed time.Duration
}

// SchedulerStats summarizes scheduler activity.
type SchedulerStats struct {
	Ticks       uint64
	Invocations uint64
	Deferred    uint64
	Scheduled   int
}

type scheduled[K comparable] struct {
	key      K
	interval time.Duration
	lastRun  time.Duration
	nextDue  time.Duration
	seq      uint64
	deferred bool
	removed  bool
	item     *sequence.PriorityItem[*scheduled[K]]
}

// IntervalScheduler runs each registered entry roughly once per its interval
// on a simulated clock advanced by tick deltas.
//
// Entries are ordered by next due time, ties broken by registration order, so
// two schedulers fed the same registrations and deltas select the same
// entries in the same order. A new entry is due immediately. An entry is due
// when the time since its last run reaches its interval; it then receives that
// actual elapsed time, which is at least the interval and less than the
// interval plus one tick.
//
// The scheduler is not safe for concurrent use.
type IntervalScheduler[K comparable] struct {
	config   SchedulerConfig
	now      time.Duration
	seq      uint64
	entries  map[K]*scheduled[K]
	queue    *sequence.PriorityQueue[*scheduled[K]]
	due      []Due[K]
	selected []*scheduled[K]
	held     []*scheduled[K]
	stats    SchedulerStats
}

func NewIntervalScheduler[K comparable](config SchedulerConfig) *IntervalScheduler[K] {
	return &IntervalScheduler[K]{
		config:  config,
		entries: make(map[K]*scheduled[K]),
		queue: sequence.NewPriorityQueue(func(a, b *scheduled[K]) bool {
			if a.nextDue != b.nextDue {
				return a.nextDue < b.nextDue
			}
			return a.seq < b.seq
		}),
	}
}

// Register adds key with the desired interval. A zero interval runs every tick.
func (s *IntervalScheduler[K]) Register(key K, interval time.Duration) error {
	if interval < 0 {
		return ErrInvalidInterval
	}
	if _, exists := s.entries[key]; exists {
		return ErrAlreadyScheduled
	}

	e := &scheduled[K]{
		key:      key,
		interval: interval,
		lastRun:  s.now,
		nextDue:  s.now,
		seq:      s.seq,
	}
	s.seq++
	e.item = s.queue.Enqueue(e)
	s.entries[key] = e
	return nil
}

// Unregister removes key. If key was already selected for the current tick
// RunScheduled skips it.
func (s *IntervalScheduler[K]) Unregister(key K) error {
	e, ok := s.entries[key]
	if !ok {
		return ErrNotScheduled
	}
	delete(s.entries, key)
	e.removed = true
	s.queue.Remove(e.item)
	return nil
}

// SetInterval changes the interval of key, keeping its last run time.
func (s *IntervalScheduler[K]) SetInterval(key K, interval time.Duration) error {
	if interval < 0 {
		return ErrInvalidInterval
	}
	e, ok := s.entries[key]
	if !ok {
		return ErrNotScheduled
	}
	e.interval = interval
	e.nextDue = e.lastRun + interval
	if e.item.Queued() {
		s.queue.Update(e.item, e)
	}
	return nil
}

func (s *IntervalScheduler[K]) IsScheduled(key K) bool {
	_, ok := s.entries[key]
	return ok
}

// Select advances the clock by delta and returns the entries due on this
// tick in execution order. Selected entries count as run. The returned slice
// is reused by the next call.
func (s *IntervalScheduler[K]) Select(delta time.Duration) []Due[K] {
	s.now += delta
	s.stats.Ticks++
	s.due = s.due[:0]
	s.selected = s.selected[:0]
	s.held = s.held[:0]

	for !s.queue.IsEmpty() {
		e, _ := s.queue.Peek()
		if e.nextDue > s.now {
			break
		}
		s.queue.Dequeue()

		if s.config.MaxPerTick > 0 && len(s.due) >= s.config.MaxPerTick && !e.deferred {
			e.deferred = true
			s.held = append(s.held, e)
			s.stats.Deferred++
			continue
		}

		e.deferred = false
		s.due = append(s.due, Due[K]{Key: e.key, Elapsed: s.now - e.lastRun})
		s.selected = append(s.selected, e)
		e.lastRun = s.now
		e.nextDue = s.now + e.interval
	}

	for _, e := range s.held {
		e.item = s.queue.Enqueue(e)
	}
	for _, e := range s.selected {
		e.item = s.queue.Enqueue(e)
	}
	return s.due
}

// RunScheduled selects the due entries and invokes each one that is still
// registered exactly once with its actual elapsed time.
func (s *IntervalScheduler[K]) RunScheduled(delta time.Duration, invoke func(key K, elapsed time.Duration)) {
	due := s.Select(delta)
	selected := s.selected
	for i := range due {
		if selected[i].removed {
			continue
		}
		s.stats.Invocations++
		invoke(due[i].Key, due[i].Elapsed)
	}
}

// Clear removes every entry. The clock keeps running.
func (s *IntervalScheduler[K]) Clear() {
	for _, e := range s.entries {
		e.removed = true
	}
	clear(s.entries)
	s.queue.Clear()
}

func (s *IntervalScheduler[K]) Len() int {
	return len(s.entries)
}

// Now returns the simulated time accumulated from all deltas.
func (s *IntervalScheduler[K]) Now() time.Duration {
	return s.now
}

func (s *IntervalScheduler[K]) Stats() SchedulerStats {
	stats := s.stats
	stats.Scheduled = len(s.entries)
	return stats
}
