package routing

import (
	"time"

	"github.com/zeusync/worldcore/internal/core/events/global"
	"github.com/zeusync/worldcore/internal/core/messages"
	"github.com/zeusync/worldcore/internal/core/models"
)

var (
	activateType = messages.TypeIDOf("routing_test.Activate")
	damageType   = messages.TypeIDOf("routing_test.Damage")
)

type activate struct {
	messages.EventHeader
	Power int
}

func (*activate) TypeID() messages.TypeID   { return activateType }
func (m *activate) Clone() messages.Message { c := *m; return &c }

type damage struct {
	Amount int
}

func (damage) TypeID() messages.TypeID   { return damageType }
func (m damage) Clone() messages.Message { return m }

type object struct {
	handle     models.ObjectHandle
	parent     *object
	components []Component
}

func (o *object) Handle() models.ObjectHandle { return o.handle }

func (o *object) Parent() (Object, bool) {
	if o.parent == nil {
		return nil, false
	}
	return o.parent, true
}

func (o *object) Components() []Component { return o.components }

type plain struct {
	handle models.ComponentHandle
	owner  *object
}

func (p *plain) Handle() models.ComponentHandle        { return p.handle }
func (p *plain) Owner() Object                         { return p.owner }
func (p *plain) DispatchMessage(messages.Message) bool { return false }

type handler struct {
	name        string
	handle      models.ComponentHandle
	owner       *object
	types       []messages.TypeID
	consume     bool
	passThrough bool
	journal     *[]string
	received    []messages.Message
}

func (h *handler) Handle() models.ComponentHandle { return h.handle }

func (h *handler) Owner() Object {
	if h.owner == nil {
		return nil
	}
	return h.owner
}

func (h *handler) DispatchMessage(msg messages.Message) bool {
	h.received = append(h.received, msg)
	if h.journal != nil {
		*h.journal = append(*h.journal, h.name)
	}
	return h.consume
}

func (h *handler) HandlesMessage(id messages.TypeID) bool {
	for _, t := range h.types {
		if t == id {
			return true
		}
	}
	return false
}

func (h *handler) PassThroughUnhandledEvents() bool { return h.passThrough }

type table struct {
	live map[models.ComponentHandle]Component
}

func (t *table) TryResolve(h models.ComponentHandle) (Component, bool) {
	c, ok := t.live[h]
	return c, ok
}

type queued struct {
	receiver models.ComponentHandle
	msg      messages.Message
	delay    time.Duration
	slot     QueueSlot
}

type queue struct {
	entries []queued
}

func (q *queue) Enqueue(receiver models.ComponentHandle, msg messages.Message, delay time.Duration, slot QueueSlot) {
	q.entries = append(q.entries, queued{receiver: receiver, msg: msg, delay: delay, slot: slot})
}

// scene builds objects and components with sequential handles.
type scene struct {
	table   *table
	globals *global.Registry
	queue   *queue
	journal []string
	next    uint32
}

func newScene() *scene {
	return &scene{
		table:   &table{live: make(map[models.ComponentHandle]Component)},
		globals: global.NewRegistry(),
		queue:   &queue{},
	}
}

func (s *scene) nextHandle() models.Handle {
	s.next++
	return models.NewHandle(s.next, 1)
}

func (s *scene) object(parent *object) *object {
	return &object{handle: models.ObjectHandle{Handle: s.nextHandle()}, parent: parent}
}

func (s *scene) handler(owner *object, name string, consume bool, types ...messages.TypeID) *handler {
	h := &handler{
		name:    name,
		handle:  models.ComponentHandle{Handle: s.nextHandle()},
		owner:   owner,
		types:   types,
		consume: consume,
		journal: &s.journal,
	}
	s.table.live[h.handle] = h
	if owner != nil {
		owner.components = append(owner.components, h)
	}
	return h
}

func (s *scene) plain(owner *object) *plain {
	p := &plain{handle: models.ComponentHandle{Handle: s.nextHandle()}, owner: owner}
	s.table.live[p.handle] = p
	owner.components = append(owner.components, p)
	return p
}

func (s *scene) destroy(c Component) {
	delete(s.table.live, c.Handle())
}

func (s *scene) router(opts ...Option) *Router {
	return NewRouter(0, s.table, s.globals, s.queue, opts...)
}
