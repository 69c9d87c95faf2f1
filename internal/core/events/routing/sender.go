package routing

import (
	"time"

	"github.com/zeusync/worldcore/internal/core/messages"
	"github.com/zeusync/worldcore/internal/core/models"
)

// Sender is the per call-site sender of one message type. It owns the
// receiver cache of that site, so a site should always search from the same
// object or Invalidate when it changes.
type Sender[T messages.Message] struct {
	router *Router
	owner  Component
	cache  ReceiverCache
}

// NewSender creates a sender for owner; owner may be nil for anonymous sends.
func NewSender[T messages.Message](router *Router, owner Component) *Sender[T] {
	return &Sender[T]{router: router, owner: owner}
}

func (s *Sender[T]) Send(msg T, searchStart Object) bool {
	return s.router.Send(msg, s.owner, searchStart, &s.cache)
}

func (s *Sender[T]) Post(msg T, searchStart Object, delay time.Duration, slot QueueSlot) {
	s.router.Post(msg, s.owner, searchStart, &s.cache, delay, slot)
}

func (s *Sender[T]) Invalidate() {
	s.router.Invalidate(&s.cache)
}

func (s *Sender[T]) Populated() bool {
	return s.cache.Populated()
}

func (s *Sender[T]) Receivers() []models.ComponentHandle {
	return s.cache.Receivers()
}
