package routing

import (
	"time"

	"github.com/zeusync/worldcore/internal/core/messages"
	"github.com/zeusync/worldcore/internal/core/models"
)

// Object is the part of a game object the router walks.
type Object interface {
	Handle() models.ObjectHandle
	// Parent returns the parent object, false at the hierarchy root.
	Parent() (Object, bool)
	// Components returns the attached components in attachment order.
	Components() []Component
}

// Component is anything attached to an Object that can receive messages.
type Component interface {
	Handle() models.ComponentHandle
	Owner() Object
	// DispatchMessage delivers msg and reports whether it was consumed.
	DispatchMessage(msg messages.Message) bool
}

// EventMessageHandler is the capability a component implements to be found
// by the receiver search.
type EventMessageHandler interface {
	Component
	HandlesMessage(id messages.TypeID) bool
	PassThroughUnhandledEvents() bool
}

// HandleTable resolves handles to live components.
type HandleTable interface {
	TryResolve(h models.ComponentHandle) (Component, bool)
}

// GlobalHandlers lists the fallback handlers of a world.
type GlobalHandlers interface {
	All(world int) []models.ComponentHandle
}

// Reflector answers the type questions of the receiver search.
type Reflector interface {
	IsEventMessageHandler(c Component) bool
	CanHandle(c Component, id messages.TypeID) bool
}

// InterfaceReflector answers through the EventMessageHandler interface.
type InterfaceReflector struct{}

func (InterfaceReflector) IsEventMessageHandler(c Component) bool {
	_, ok := c.(EventMessageHandler)
	return ok
}

func (InterfaceReflector) CanHandle(c Component, id messages.TypeID) bool {
	h, ok := c.(EventMessageHandler)
	return ok && h.HandlesMessage(id)
}

// QueueSlot selects the delivery pass of a posted message. The world owning
// the DeferredQueue gives it meaning; the router only forwards it.
type QueueSlot uint8

const (
	// QueueNextFrame delivers during the next tick.
	QueueNextFrame QueueSlot = iota
	// QueueThisFrame delivers at the end of the current tick.
	QueueThisFrame
)

func (s QueueSlot) String() string {
	switch s {
	case QueueNextFrame:
		return "next_frame"
	case QueueThisFrame:
		return "this_frame"
	default:
		return "unknown"
	}
}

// DeferredQueue receives posted messages. It takes ownership of msg.
type DeferredQueue interface {
	Enqueue(receiver models.ComponentHandle, msg messages.Message, delay time.Duration, slot QueueSlot)
}

func passesThrough(c Component) bool {
	h, ok := c.(EventMessageHandler)
	return ok && h.PassThroughUnhandledEvents()
}
