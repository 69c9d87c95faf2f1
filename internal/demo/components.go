package demo

import (
	"github.com/zeusync/worldcore/internal/core/events/routing"
	"github.com/zeusync/worldcore/internal/core/messages"
	"github.com/zeusync/worldcore/internal/core/models"
	"github.com/zeusync/worldcore/internal/core/world"
)

// Door opens and closes on MsgActivate.
type Door struct {
	world.EventHandlerBase

	Open        bool
	Activations int
	LastSender  models.ComponentHandle
}

func NewDoor() *Door {
	d := &Door{}
	d.On(ActivateType, func(msg messages.Message) bool {
		d.OnActivate(msg.(*MsgActivate))
		return true
	})
	return d
}

func (d *Door) OnActivate(msg *MsgActivate) {
	d.Open = !d.Open
	d.Activations++
	d.LastSender = msg.SenderComponent
}

// Button sends MsgActivate up its hierarchy.
type Button struct {
	world.ComponentBase

	Presses int
	Handled int
	send    *routing.Sender[*MsgActivate]
}

func (b *Button) OnAttach() {
	b.send = world.NewSender[*MsgActivate](b.World(), b)
}

func (b *Button) OnDetach() {
	b.send = nil
}

// Press sends synchronously and reports whether a door reacted.
func (b *Button) Press() bool {
	if b.send == nil {
		return false
	}
	b.Presses++
	handled := b.send.Send(&MsgActivate{Source: b.OwnerObject().Name()}, nil)
	if handled {
		b.Handled++
	}
	return handled
}

// PressLater posts the activation for the next tick.
func (b *Button) PressLater() {
	if b.send == nil {
		return
	}
	b.Presses++
	b.send.Post(&MsgActivate{Source: b.OwnerObject().Name()}, nil, 0, routing.QueueNextFrame)
}

// Relay watches activations on their way up without consuming them.
type Relay struct {
	world.EventHandlerBase

	Seen int
}

func NewRelay() *Relay {
	r := &Relay{}
	r.SetPassThroughUnhandledEvents(true)
	r.On(ActivateType, func(messages.Message) bool {
		r.Seen++
		return false
	})
	return r
}

// Alarm is a global handler for intruder reports.
type Alarm struct {
	world.EventHandlerBase

	Triggered int
	Zones     []string
}

func NewAlarm() *Alarm {
	a := &Alarm{}
	a.SetGlobalEventHandlerMode(true)
	a.On(IntruderType, func(msg messages.Message) bool {
		a.Triggered++
		a.Zones = append(a.Zones, msg.(*MsgIntruder).Zone)
		return true
	})
	return a
}

// Sensor reports intruders in its zone.
type Sensor struct {
	world.ComponentBase

	Zone     string
	Reported int
	send     *routing.Sender[*MsgIntruder]
}

func (s *Sensor) OnAttach() {
	s.send = world.NewSender[*MsgIntruder](s.World(), s)
}

func (s *Sensor) OnDetach() {
	s.send = nil
}

func (s *Sensor) Report() bool {
	if s.send == nil {
		return false
	}
	s.Reported++
	return s.send.Send(&MsgIntruder{Zone: s.Zone}, nil)
}
