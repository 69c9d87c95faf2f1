package generic

import "sync"

// Pool is a typed sync.Pool. Values handed back through Put are passed to the
// reset function first, when one is set.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(T)
}

func NewPool[T any](generate func() T) *Pool[T] {
	return &Pool[T]{
		pool: sync.Pool{
			New: func() any {
				return generate()
			},
		},
	}
}

// NewResetPool creates a pool that clears values with reset before reuse.
func NewResetPool[T any](generate func() T, reset func(T)) *Pool[T] {
	p := NewPool[T](generate)
	p.reset = reset
	return p
}

func (p *Pool[T]) Get() T {
	return p.pool.Get().(T)
}

func (p *Pool[T]) Put(value T) {
	if p.reset != nil {
		p.reset(value)
	}
	p.pool.Put(value)
}
