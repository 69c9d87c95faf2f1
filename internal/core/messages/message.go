package messages

import (
	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/worldcore/internal/core/models"
)

// TypeID identifies a message type at runtime. It is stable across processes
// because it is derived from the type name only.
type TypeID uint64

// TypeIDOf hashes a fully qualified message type name into its TypeID.
func TypeIDOf(name string) TypeID {
	return TypeID(xxhash.Sum64String(name))
}

// Message is the payload handed between components.
//
// Clone must return an independent copy; Post stores the copy until delivery
// while the caller keeps ownership of the original.
type Message interface {
	TypeID() TypeID
	Clone() Message
}

// EventMessage is a Message routed through the object hierarchy. Types become
// event messages by embedding EventHeader.
type EventMessage interface {
	Message
	Event() *EventHeader
}

// EventHeader carries the routing data of an event message. The sender fields
// are filled by the router before any receiver search.
type EventHeader struct {
	SenderObject    models.ObjectHandle
	SenderComponent models.ComponentHandle

	// DebugRouting asks the router to report the message when nobody
	// receives it.
	DebugRouting bool
}

func (h *EventHeader) Event() *EventHeader { return h }

// FillFromSender stamps the sending component and its owner.
func (h *EventHeader) FillFromSender(object models.ObjectHandle, component models.ComponentHandle) {
	h.SenderObject = object
	h.SenderComponent = component
}

// AsEvent returns the event header of msg if it is an event message.
func AsEvent(msg Message) (*EventHeader, bool) {
	ev, ok := msg.(EventMessage)
	if !ok {
		return nil, false
	}
	header := ev.Event()
	return header, header != nil
}
