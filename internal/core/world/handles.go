package world

import "github.com/zeusync/worldcore/internal/core/models"

type slot[T any] struct {
	value      T
	generation uint32
	alive      bool
}

// handleTable stores values behind generation-checked handles. Removing a
// value bumps its slot's generation so old handles stop resolving.
type handleTable[T any] struct {
	slots []slot[T]
	free  []uint32
	count int
}

func (t *handleTable[T]) insert(value T) models.Handle {
	var index uint32
	if n := len(t.free); n > 0 {
		index = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		index = uint32(len(t.slots))
		t.slots = append(t.slots, slot[T]{generation: 1})
	}

	s := &t.slots[index]
	s.value = value
	s.alive = true
	t.count++
	return models.NewHandle(index, s.generation)
}

func (t *handleTable[T]) get(h models.Handle) (T, bool) {
	var zero T
	if !h.IsValid() || int(h.Index()) >= len(t.slots) {
		return zero, false
	}
	s := &t.slots[h.Index()]
	if !s.alive || s.generation != h.Generation() {
		return zero, false
	}
	return s.value, true
}

func (t *handleTable[T]) remove(h models.Handle) bool {
	if _, ok := t.get(h); !ok {
		return false
	}
	s := &t.slots[h.Index()]
	var zero T
	s.value = zero
	s.alive = false
	s.generation++
	if s.generation == 0 {
		s.generation = 1
	}
	t.free = append(t.free, h.Index())
	t.count--
	return true
}

func (t *handleTable[T]) len() int {
	return t.count
}
