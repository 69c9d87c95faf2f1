package routing

import (
	"strconv"
	"time"

	"github.com/zeusync/worldcore/internal/core/messages"
	"github.com/zeusync/worldcore/internal/core/models"
	"github.com/zeusync/worldcore/internal/core/observability/log"
)

// Router delivers event messages of one world.
//
// Receivers are searched once per ReceiverCache: starting at the search
// object (or the sender's owner) it walks up the parent chain and stops at the
// first object with at least one handler for the message type, keeping all of
// that object's handlers in attachment order. A handler with pass-through
// enabled lets the search and the delivery continue to the next handler
// object when nothing consumed the message. If the walk reaches the root the
// world's global handlers are used.
//
// A Router runs on its world's update goroutine only.
type Router struct {
	world     int
	table     HandleTable
	globals   GlobalHandlers
	queue     DeferredQueue
	reflector Reflector
	types     *messages.TypeRegistry
	logger    log.Log
	debugAll  bool
	metrics   Metrics
}

// Option configures a Router.
type Option func(*Router)

// WithReflector replaces the default InterfaceReflector.
func WithReflector(reflector Reflector) Option {
	return func(r *Router) { r.reflector = reflector }
}

// WithTypeRegistry enables type-level debug routing and type names in logs.
func WithTypeRegistry(types *messages.TypeRegistry) Option {
	return func(r *Router) { r.types = types }
}

func WithLogger(logger log.Log) Option {
	return func(r *Router) { r.logger = logger }
}

// WithDebugRouting reports every unreceived message, as if each one had
// requested debug routing.
func WithDebugRouting(enabled bool) Option {
	return func(r *Router) { r.debugAll = enabled }
}

// NewRouter creates the router of world index world.
func NewRouter(world int, table HandleTable, globals GlobalHandlers, queue DeferredQueue, opts ...Option) *Router {
	r := &Router{
		world:     world,
		table:     table,
		globals:   globals,
		queue:     queue,
		reflector: InterfaceReflector{},
		logger:    log.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// World returns the world index the router serves.
func (r *Router) World() int {
	return r.world
}

// Send delivers msg synchronously and reports whether any receiver consumed
// it. sender may be nil; searchStart defaults to the sender's owner.
func (r *Router) Send(msg messages.Message, sender Component, searchStart Object, cache *ReceiverCache) bool {
	r.prepare(msg, sender, searchStart, cache)
	r.metrics.Sent++

	handled := false
	live := 0
	begin := 0
	levels := cache.levels
	receivers := cache.receivers
	for _, end := range levels {
		levelHandled := false
		passThrough := false
		for _, h := range receivers[begin:end] {
			c, ok := r.table.TryResolve(h)
			if !ok {
				continue
			}
			live++
			if c.DispatchMessage(msg) {
				levelHandled = true
			}
			if passesThrough(c) {
				passThrough = true
			}
		}
		begin = end
		if levelHandled {
			handled = true
			break
		}
		if !passThrough {
			break
		}
	}

	if handled {
		r.metrics.Handled++
	} else {
		r.metrics.Unhandled++
	}
	if live == 0 {
		r.reportUnhandled(msg, sender)
	}
	return handled
}

// Post hands a copy of msg to the deferred queue for every cached receiver.
// No receiver runs during the call.
//
// Unlike Send, Post does not stop at a level whose receiver consumes the
// message: when a pass-through level was cached, every level behind it is
// enqueued too, since consumption is only known at delivery.
func (r *Router) Post(msg messages.Message, sender Component, searchStart Object, cache *ReceiverCache, delay time.Duration, slot QueueSlot) {
	r.prepare(msg, sender, searchStart, cache)
	r.metrics.Posted++

	if len(cache.receivers) == 0 {
		r.metrics.Unhandled++
		r.reportUnhandled(msg, sender)
		return
	}
	for _, h := range cache.receivers {
		r.queue.Enqueue(h, msg.Clone(), delay, slot)
		r.metrics.Enqueued++
	}
}

// Invalidate forces the next Send or Post on cache to search again.
func (r *Router) Invalidate(cache *ReceiverCache) {
	cache.Invalidate()
}

// Metrics returns the counters accumulated so far.
func (r *Router) Metrics() Metrics {
	return r.metrics
}

func (r *Router) prepare(msg messages.Message, sender Component, searchStart Object, cache *ReceiverCache) {
	if sender != nil {
		if header, ok := messages.AsEvent(msg); ok {
			object := models.InvalidObject
			if owner := sender.Owner(); owner != nil {
				object = owner.Handle()
			}
			header.FillFromSender(object, sender.Handle())
		}
	}

	if !cache.populated {
		r.metrics.CacheMisses++
		r.search(msg.TypeID(), sender, searchStart, cache)
	}
}

func (r *Router) search(id messages.TypeID, sender Component, start Object, cache *ReceiverCache) {
	cache.receivers = cache.receivers[:0]
	cache.levels = cache.levels[:0]
	cache.populated = true

	object := start
	if object == nil && sender != nil {
		object = sender.Owner()
	}

	for object != nil {
		begin := len(cache.receivers)
		passThrough := false
		for _, c := range object.Components() {
			if !r.qualifies(c, id) {
				continue
			}
			cache.receivers = append(cache.receivers, c.Handle())
			if passesThrough(c) {
				passThrough = true
			}
		}
		if cache.closeLevel(begin) && !passThrough {
			return
		}

		parent, ok := object.Parent()
		if !ok {
			break
		}
		object = parent
	}

	if r.globals == nil {
		return
	}
	begin := len(cache.receivers)
	for _, h := range r.globals.All(r.world) {
		c, ok := r.table.TryResolve(h)
		if !ok || !r.qualifies(c, id) || cache.contains(h) {
			continue
		}
		cache.receivers = append(cache.receivers, h)
	}
	cache.closeLevel(begin)
}

func (r *Router) qualifies(c Component, id messages.TypeID) bool {
	return r.reflector.IsEventMessageHandler(c) && r.reflector.CanHandle(c, id)
}

func (r *Router) reportUnhandled(msg messages.Message, sender Component) {
	if !r.debugAll && !r.types.DebugRoutingEnabled(msg) {
		return
	}

	fields := []log.Field{
		log.Uint64("type_id", uint64(msg.TypeID())),
		log.Int("world", r.world),
	}
	if r.types != nil {
		fields = append(fields, log.String("type", r.types.Name(msg.TypeID())))
	}
	if sender != nil {
		fields = append(fields, log.Stringer("sender", sender.Handle()))
	}
	r.logger.Warn("No event message handler found for message of type "+strconv.FormatUint(uint64(msg.TypeID()), 10), fields...)
}
