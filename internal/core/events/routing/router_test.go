package routing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/zeusync/worldcore/internal/core/messages"
	"github.com/zeusync/worldcore/internal/core/models"
	"github.com/zeusync/worldcore/internal/core/observability/log"
)

func TestSendStopsAtFirstHandlerAncestor(t *testing.T) {
	s := newScene()
	c := s.object(nil)
	b := s.object(c)
	a := s.object(b)
	s.plain(a)
	onB := s.handler(b, "b", true, activateType)
	onC := s.handler(c, "c", true, activateType)

	var cache ReceiverCache
	handled := s.router().Send(&activate{}, nil, a, &cache)

	assert.True(t, handled)
	assert.Equal(t, []models.ComponentHandle{onB.handle}, cache.Receivers())
	assert.Len(t, onB.received, 1)
	assert.Empty(t, onC.received)
}

func TestSendAttachmentOrderAndResultOr(t *testing.T) {
	s := newScene()
	o := s.object(nil)
	h1 := s.handler(o, "h1", false, activateType)
	s.handler(o, "other", true, damageType)
	h2 := s.handler(o, "h2", true, activateType)

	var cache ReceiverCache
	assert.True(t, s.router().Send(&activate{}, nil, o, &cache))
	assert.Equal(t, []string{"h1", "h2"}, s.journal)
	assert.Equal(t, []models.ComponentHandle{h1.handle, h2.handle}, cache.Receivers())

	h2.consume = false
	s.journal = nil
	assert.False(t, s.router().Send(&activate{}, nil, o, &cache))
	assert.Equal(t, []string{"h1", "h2"}, s.journal)
}

func TestSendFallsBackToGlobalHandlers(t *testing.T) {
	s := newScene()
	root := s.object(nil)
	leaf := s.object(root)
	g1 := s.handler(nil, "g1", false, activateType)
	g2 := s.handler(nil, "g2", true, activateType)
	deaf := s.handler(nil, "deaf", true, damageType)
	s.globals.Register(0, g1.handle)
	s.globals.Register(0, deaf.handle)
	s.globals.Register(0, g2.handle)

	var cache ReceiverCache
	assert.True(t, s.router().Send(&activate{}, nil, leaf, &cache))
	assert.Equal(t, []string{"g1", "g2"}, s.journal)
	assert.Equal(t, 1, cache.Levels())
}

func TestSendWithoutAnyReceiver(t *testing.T) {
	s := newScene()
	o := s.object(nil)
	s.plain(o)

	var cache ReceiverCache
	r := s.router()
	assert.False(t, r.Send(&activate{}, nil, o, &cache))
	assert.True(t, cache.Populated())
	assert.Empty(t, cache.Receivers())
	assert.Empty(t, s.journal)
	assert.Equal(t, uint64(1), r.Metrics().Unhandled)
}

func TestSendFillsSenderFields(t *testing.T) {
	s := newScene()
	parent := s.object(nil)
	child := s.object(parent)
	receiver := s.handler(parent, "door", true, activateType)
	other := s.handler(parent, "lamp", false, activateType)
	button := s.handler(child, "button", false)

	var cache ReceiverCache
	require.True(t, s.router().Send(&activate{Power: 2}, button, nil, &cache))

	for _, h := range []*handler{receiver, other} {
		require.Len(t, h.received, 1)
		msg := h.received[0].(*activate)
		assert.Equal(t, button.handle, msg.SenderComponent)
		assert.Equal(t, child.handle, msg.SenderObject)
		assert.Equal(t, 2, msg.Power)
	}
}

func TestSendWithoutSenderKeepsHeader(t *testing.T) {
	s := newScene()
	o := s.object(nil)
	h := s.handler(o, "h", true, activateType)

	var cache ReceiverCache
	s.router().Send(&activate{}, nil, o, &cache)

	msg := h.received[0].(*activate)
	assert.False(t, msg.SenderComponent.IsValid())
	assert.False(t, msg.SenderObject.IsValid())
}

func TestSendSkipsStaleReceivers(t *testing.T) {
	s := newScene()
	o := s.object(nil)
	gone := s.handler(o, "gone", true, activateType)
	s.handler(o, "alive", false, activateType)

	var cache ReceiverCache
	r := s.router()
	require.True(t, r.Send(&activate{}, nil, o, &cache))

	s.destroy(gone)
	s.journal = nil
	assert.False(t, r.Send(&activate{}, nil, o, &cache))
	assert.Equal(t, []string{"alive"}, s.journal)
	assert.Len(t, cache.Receivers(), 2, "stale handles stay cached until invalidated")
}

func TestCacheIsStableUntilInvalidated(t *testing.T) {
	s := newScene()
	root := s.object(nil)
	leaf := s.object(root)
	first := s.handler(root, "first", true, activateType)

	var cache ReceiverCache
	r := s.router()
	r.Send(&activate{}, nil, leaf, &cache)
	before := append([]models.ComponentHandle(nil), cache.Receivers()...)

	// unrelated changes and a closer handler do not affect the cached answer
	s.plain(leaf)
	closer := s.handler(leaf, "closer", true, activateType)
	r.Send(&activate{}, nil, leaf, &cache)
	r.Post(&activate{}, nil, leaf, &cache, 0, QueueNextFrame)
	assert.Equal(t, before, cache.Receivers())
	assert.Equal(t, uint64(1), r.Metrics().CacheMisses)

	r.Invalidate(&cache)
	assert.False(t, cache.Populated())
	assert.Empty(t, cache.Receivers())

	s.journal = nil
	r.Send(&activate{}, nil, leaf, &cache)
	assert.Equal(t, []models.ComponentHandle{closer.handle}, cache.Receivers())
	assert.Equal(t, []string{"closer"}, s.journal)
	assert.Len(t, first.received, 2)
}

func TestSearchStartsAtSenderOwner(t *testing.T) {
	s := newScene()
	root := s.object(nil)
	o := s.object(root)
	h := s.handler(root, "root", true, activateType)
	sender := s.handler(o, "sender", false)

	var cache ReceiverCache
	assert.True(t, s.router().Send(&activate{}, sender, nil, &cache))
	assert.Len(t, h.received, 1)
}

func TestPassThroughContinuesWhenUnconsumed(t *testing.T) {
	s := newScene()
	root := s.object(nil)
	mid := s.object(root)
	leaf := s.object(mid)
	relay := s.handler(leaf, "relay", false, activateType)
	relay.passThrough = true
	midHandler := s.handler(mid, "mid", true, activateType)
	rootHandler := s.handler(root, "root", true, activateType)

	var cache ReceiverCache
	r := s.router()
	assert.True(t, r.Send(&activate{}, nil, leaf, &cache))
	assert.Equal(t, []string{"relay", "mid"}, s.journal)
	assert.Equal(t, 2, cache.Levels())
	assert.Empty(t, rootHandler.received)

	// a consuming pass-through handler stops delivery at its own level
	relay.consume = true
	s.journal = nil
	assert.True(t, r.Send(&activate{}, nil, leaf, &cache))
	assert.Equal(t, []string{"relay"}, s.journal)
	assert.Len(t, midHandler.received, 1)
}

func TestPassThroughAtRootReachesGlobals(t *testing.T) {
	s := newScene()
	root := s.object(nil)
	relay := s.handler(root, "relay", false, activateType)
	relay.passThrough = true
	g := s.handler(nil, "global", true, activateType)
	s.globals.Register(0, g.handle)
	s.globals.Register(0, relay.handle)

	var cache ReceiverCache
	assert.True(t, s.router().Send(&activate{}, nil, root, &cache))
	assert.Equal(t, []string{"relay", "global"}, s.journal, "relay is not delivered twice")
}

func TestPostOnlyEnqueues(t *testing.T) {
	s := newScene()
	o := s.object(nil)
	h1 := s.handler(o, "h1", true, activateType)
	h2 := s.handler(o, "h2", true, activateType)
	sender := s.handler(o, "sender", false)

	var cache ReceiverCache
	r := s.router()
	msg := &activate{Power: 5}
	r.Post(msg, sender, nil, &cache, 250*time.Millisecond, QueueThisFrame)

	assert.Empty(t, s.journal)
	require.Len(t, s.queue.entries, 2)
	assert.Equal(t, h1.handle, s.queue.entries[0].receiver)
	assert.Equal(t, h2.handle, s.queue.entries[1].receiver)
	for _, e := range s.queue.entries {
		assert.Equal(t, 250*time.Millisecond, e.delay)
		assert.Equal(t, QueueThisFrame, e.slot)
		copied := e.msg.(*activate)
		assert.NotSame(t, msg, copied)
		assert.Equal(t, sender.handle, copied.SenderComponent)
		assert.Equal(t, 5, copied.Power)
	}
	assert.Equal(t, uint64(2), r.Metrics().Enqueued)
}

func TestNonEventMessagesRouteToo(t *testing.T) {
	s := newScene()
	o := s.object(nil)
	h := s.handler(o, "h", true, damageType)

	var cache ReceiverCache
	assert.True(t, s.router().Send(damage{Amount: 3}, h, o, &cache))
	assert.Equal(t, damage{Amount: 3}, h.received[0])
}

func TestDebugRoutingWarnsWithoutChangingResult(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	types := messages.NewTypeRegistry()
	_, err := types.Register("routing_test.Damage", damage{}, messages.WithDebugRouting())
	require.NoError(t, err)

	s := newScene()
	o := s.object(nil)
	r := s.router(WithLogger(log.NewWithCore(core, log.LevelDebug)), WithTypeRegistry(types))

	var cache ReceiverCache
	assert.False(t, r.Send(&activate{}, nil, o, &cache))
	assert.Equal(t, 0, logs.Len(), "no diagnostics unless requested")

	var cache2 ReceiverCache
	assert.False(t, r.Send(&activate{EventHeader: messages.EventHeader{DebugRouting: true}}, nil, o, &cache2))
	require.Equal(t, 1, logs.Len())
	assert.Contains(t, logs.All()[0].Message, "No event message handler found for message of type")

	var cache3 ReceiverCache
	r.Post(damage{}, nil, o, &cache3, 0, QueueNextFrame)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "routing_test.Damage", logs.All()[1].ContextMap()["type"])
	assert.Empty(t, s.queue.entries)
}

func TestDebugRoutingSilentWhenSomeoneListens(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := newScene()
	o := s.object(nil)
	s.handler(o, "h", false, activateType)
	r := s.router(WithLogger(log.NewWithCore(core, log.LevelDebug)))

	var cache ReceiverCache
	assert.False(t, r.Send(&activate{EventHeader: messages.EventHeader{DebugRouting: true}}, nil, o, &cache))
	assert.Equal(t, 0, logs.Len())
}

type denyAll struct{}

func (denyAll) IsEventMessageHandler(Component) bool      { return false }
func (denyAll) CanHandle(Component, messages.TypeID) bool { return false }

func TestCustomReflector(t *testing.T) {
	s := newScene()
	o := s.object(nil)
	s.handler(o, "h", true, activateType)

	var cache ReceiverCache
	assert.False(t, s.router(WithReflector(denyAll{})).Send(&activate{}, nil, o, &cache))
}

func TestSenderOwnsItsCache(t *testing.T) {
	s := newScene()
	parent := s.object(nil)
	child := s.object(parent)
	door := s.handler(parent, "door", true, activateType)
	button := s.handler(child, "button", false)

	sender := NewSender[*activate](s.router(), button)
	assert.False(t, sender.Populated())
	assert.True(t, sender.Send(&activate{}, parent))
	assert.True(t, sender.Populated())
	assert.Equal(t, []models.ComponentHandle{door.handle}, sender.Receivers())

	sender.Post(&activate{}, parent, 0, QueueNextFrame)
	assert.Len(t, s.queue.entries, 1)

	s.destroy(door)
	parent.components = nil
	sender.Invalidate()
	assert.False(t, sender.Send(&activate{}, parent))
	assert.Empty(t, sender.Receivers())
}

func TestWithDebugRoutingReportsEverything(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := newScene()
	o := s.object(nil)
	r := s.router(WithLogger(log.NewWithCore(core, log.LevelDebug)), WithDebugRouting(true))

	var cache ReceiverCache
	assert.False(t, r.Send(damage{}, nil, o, &cache))
	assert.Equal(t, 1, logs.Len())
}

func TestPostEnqueuesEveryCachedLevel(t *testing.T) {
	s := newScene()
	parent := s.object(nil)
	leaf := s.object(parent)
	relay := s.handler(leaf, "relay", true, activateType)
	relay.passThrough = true
	door := s.handler(parent, "door", true, activateType)

	var cache ReceiverCache
	r := s.router()
	assert.True(t, r.Send(&activate{}, nil, leaf, &cache))
	assert.Equal(t, []string{"relay"}, s.journal, "a consuming level stops Send")

	r.Post(&activate{}, nil, leaf, &cache, 0, QueueNextFrame)
	require.Len(t, s.queue.entries, 2)
	assert.Equal(t, relay.handle, s.queue.entries[0].receiver)
	assert.Equal(t, door.handle, s.queue.entries[1].receiver)
}
