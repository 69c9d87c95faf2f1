package world

import (
	"github.com/zeusync/worldcore/internal/core/messages"
)

var activateType = messages.TypeIDOf("world_test.Activate")

type activate struct {
	messages.EventHeader
}

func (*activate) TypeID() messages.TypeID   { return activateType }
func (m *activate) Clone() messages.Message { c := *m; return &c }

// door consumes activate messages.
type door struct {
	EventHandlerBase
	opened   int
	last     *activate
	attached int
	detached int
}

func newDoor() *door {
	d := &door{}
	d.On(activateType, func(msg messages.Message) bool {
		d.opened++
		d.last = msg.(*activate)
		return true
	})
	return d
}

func (d *door) OnAttach() { d.attached++ }
func (d *door) OnDetach() { d.detached++ }

// listener sees activate messages without consuming them.
type listener struct {
	EventHandlerBase
	seen int
}

func newListener() *listener {
	l := &listener{}
	l.On(activateType, func(messages.Message) bool {
		l.seen++
		return false
	})
	return l
}

type button struct {
	ComponentBase
}

func newTestWorld(opts ...Option) *World {
	cfg := DefaultConfig()
	cfg.Name = "test"
	return New(cfg, opts...)
}
