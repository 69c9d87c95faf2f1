package world

import (
	"slices"

	"github.com/zeusync/worldcore/internal/core/events/routing"
	"github.com/zeusync/worldcore/internal/core/messages"
	"github.com/zeusync/worldcore/internal/core/models"
	"github.com/zeusync/worldcore/internal/core/observability/log"
)

// Component is a gameplay component owned by a World. Implementations embed
// ComponentBase or EventHandlerBase.
type Component interface {
	routing.Component
	base() *ComponentBase
}

// AttachHook is called once a component has been attached and has a handle.
type AttachHook interface {
	OnAttach()
}

// DetachHook is called before a component is removed from its object.
type DetachHook interface {
	OnDetach()
}

// ComponentBase holds the world bookkeeping of a component.
type ComponentBase struct {
	handle models.ComponentHandle
	owner  *GameObject
	world  *World
}

func (b *ComponentBase) Handle() models.ComponentHandle { return b.handle }

func (b *ComponentBase) Owner() routing.Object {
	if b.owner == nil {
		return nil
	}
	return b.owner
}

// OwnerObject returns the owning object, nil when detached.
func (b *ComponentBase) OwnerObject() *GameObject { return b.owner }

// World returns the owning world, nil when detached.
func (b *ComponentBase) World() *World { return b.world }

func (b *ComponentBase) Attached() bool { return b.world != nil }

// DispatchMessage consumes nothing. Components receiving messages override it.
func (b *ComponentBase) DispatchMessage(messages.Message) bool { return false }

func (b *ComponentBase) base() *ComponentBase { return b }

// MessageFunc handles one message type and reports whether it consumed it.
type MessageFunc func(msg messages.Message) bool

// EventHandlerBase makes a component an event message handler. Message types
// are bound with On; the receiver search only finds the component for bound
// types.
type EventHandlerBase struct {
	ComponentBase

	handlers    map[messages.TypeID]MessageFunc
	globalMode  bool
	passThrough bool
}

// On binds fn to the message type id, replacing any previous binding.
func (h *EventHandlerBase) On(id messages.TypeID, fn MessageFunc) {
	if h.handlers == nil {
		h.handlers = make(map[messages.TypeID]MessageFunc)
	}
	h.handlers[id] = fn
}

func (h *EventHandlerBase) HandlesMessage(id messages.TypeID) bool {
	_, ok := h.handlers[id]
	return ok
}

func (h *EventHandlerBase) DispatchMessage(msg messages.Message) bool {
	fn, ok := h.handlers[msg.TypeID()]
	if !ok {
		return false
	}
	return fn(msg)
}

// SetGlobalEventHandlerMode adds the component to, or removes it from, the
// global handlers of its world. The flag may be set before attaching.
func (h *EventHandlerBase) SetGlobalEventHandlerMode(enabled bool) {
	if h.globalMode == enabled {
		return
	}
	h.globalMode = enabled
	if h.world == nil {
		return
	}
	if enabled {
		h.world.globals.Register(h.world.Index(), h.handle)
		return
	}
	if err := h.world.globals.Deregister(h.world.Index(), h.handle); err != nil {
		h.world.logger.Error("deregister global handler", log.Stringer("component", h.handle), log.Error(err))
	}
}

func (h *EventHandlerBase) GlobalEventHandlerMode() bool { return h.globalMode }

// SetPassThroughUnhandledEvents lets messages this component does not consume
// continue to the next hierarchy level.
func (h *EventHandlerBase) SetPassThroughUnhandledEvents(enabled bool) {
	h.passThrough = enabled
}

func (h *EventHandlerBase) PassThroughUnhandledEvents() bool { return h.passThrough }

func (h *EventHandlerBase) eventBase() *EventHandlerBase { return h }

type eventHandler interface {
	eventBase() *EventHandlerBase
}

// AttachComponent appends c to obj and returns its handle.
func (w *World) AttachComponent(obj *GameObject, c Component) (models.ComponentHandle, error) {
	if c == nil {
		return models.InvalidComponent, ErrNilComponent
	}
	if !w.alive(obj) {
		return models.InvalidComponent, ErrObjectNotFound
	}
	b := c.base()
	if b.world != nil {
		return models.InvalidComponent, ErrComponentAttached
	}

	b.handle = models.ComponentHandle{Handle: w.components.insert(c)}
	b.owner = obj
	b.world = w
	obj.components = append(obj.components, c)

	if eh, ok := c.(eventHandler); ok && eh.eventBase().globalMode {
		w.globals.Register(w.Index(), b.handle)
	}
	if hook, ok := c.(AttachHook); ok {
		hook.OnAttach()
	}

	w.logger.Debug("component attached", log.String("object", obj.name), log.Stringer("component", b.handle))
	return b.handle, nil
}

// DetachComponent removes the component from its object. The handle goes
// stale; the component value may be attached again and gets a new handle.
func (w *World) DetachComponent(h models.ComponentHandle) error {
	c, ok := w.components.get(h.Handle)
	if !ok {
		return ErrComponentNotFound
	}
	if hook, ok := c.(DetachHook); ok {
		hook.OnDetach()
	}

	b := c.base()
	if eh, ok := c.(eventHandler); ok && eh.eventBase().globalMode {
		if err := w.globals.Deregister(w.Index(), h); err != nil {
			w.logger.Error("deregister global handler", log.Stringer("component", h), log.Error(err))
		}
	}
	if b.owner != nil {
		b.owner.components = slices.DeleteFunc(b.owner.components, func(x Component) bool { return x == c })
	}
	w.components.remove(h.Handle)

	b.owner = nil
	b.world = nil
	b.handle = models.InvalidComponent
	w.logger.Debug("component detached", log.Stringer("component", h))
	return nil
}

// DestroyComponent detaches the component for good.
func (w *World) DestroyComponent(h models.ComponentHandle) error {
	return w.DetachComponent(h)
}

// NewSender creates the sender of one message type for owner. owner may be
// nil for sends without a sender component.
func NewSender[T messages.Message](w *World, owner Component) *routing.Sender[T] {
	return routing.NewSender[T](w.router, owner)
}
