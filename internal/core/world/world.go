package world

import (
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/worldcore/internal/core/events/deferred"
	"github.com/zeusync/worldcore/internal/core/events/global"
	"github.com/zeusync/worldcore/internal/core/events/routing"
	"github.com/zeusync/worldcore/internal/core/messages"
	"github.com/zeusync/worldcore/internal/core/models"
	"github.com/zeusync/worldcore/internal/core/observability/log"
	"github.com/zeusync/worldcore/internal/core/system"
)

var _ routing.HandleTable = (*World)(nil)

// World owns game objects, their components, message routing and the
// scheduled update functions. A world is driven by a single goroutine; use a
// Runner to drive several worlds in parallel.
type World struct {
	id      uuid.UUID
	config  Config
	logger  log.Log
	types   *messages.TypeRegistry
	globals *global.Registry

	objects    handleTable[*GameObject]
	components handleTable[Component]

	router    *routing.Router
	queue     *deferred.Queue
	scheduler *system.IntervalScheduler[string]
	updates   map[string]UpdateFunctionDesc

	simulating bool
	time       time.Duration
	ticks      uint64
}

// Option configures a World.
type Option func(*World)

func WithLogger(logger log.Log) Option {
	return func(w *World) { w.logger = logger }
}

func WithTypeRegistry(types *messages.TypeRegistry) Option {
	return func(w *World) { w.types = types }
}

// WithGlobalRegistry shares a global handler registry between worlds driven
// by the same goroutine. Each world still uses its own index in it.
func WithGlobalRegistry(globals *global.Registry) Option {
	return func(w *World) { w.globals = globals }
}

// New creates an empty world. cfg is expected to be valid.
func New(cfg Config, opts ...Option) *World {
	w := &World{
		id:         uuid.New(),
		config:     cfg,
		logger:     log.Nop(),
		updates:    make(map[string]UpdateFunctionDesc),
		simulating: cfg.Simulating,
		queue:      deferred.NewQueue(),
		scheduler:  system.NewIntervalScheduler[string](cfg.schedulerConfig()),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.globals == nil {
		w.globals = global.NewRegistry()
	}
	w.logger = w.logger.With(log.String("world", cfg.Name), log.Stringer("world_id", w.id))

	routerOpts := []routing.Option{routing.WithLogger(w.logger)}
	if w.types != nil {
		routerOpts = append(routerOpts, routing.WithTypeRegistry(w.types))
	}
	if cfg.Routing.Debug {
		routerOpts = append(routerOpts, routing.WithDebugRouting(true))
	}
	w.router = routing.NewRouter(cfg.Index, w, w.globals, w.queue, routerOpts...)

	w.logger.Debug("world created", log.Int("index", cfg.Index), log.Duration("tick", cfg.Tick))
	return w
}

func (w *World) ID() uuid.UUID       { return w.id }
func (w *World) Name() string        { return w.config.Name }
func (w *World) Index() int          { return w.config.Index }
func (w *World) Config() Config      { return w.config }
func (w *World) Logger() log.Log     { return w.logger }
func (w *World) Time() time.Duration { return w.time }
func (w *World) Ticks() uint64       { return w.ticks }

func (w *World) Router() *routing.Router       { return w.router }
func (w *World) Globals() *global.Registry     { return w.globals }
func (w *World) Types() *messages.TypeRegistry { return w.types }
func (w *World) QueueStats() deferred.Stats    { return w.queue.Stats() }
func (w *World) SchedulerStats() system.SchedulerStats {
	return w.scheduler.Stats()
}

// Simulating reports whether gameplay simulation runs. Update functions
// flagged OnlyWhenSimulating are skipped while it is off.
func (w *World) Simulating() bool {
	return w.simulating
}

func (w *World) SetSimulating(enabled bool) {
	w.simulating = enabled
}

// TryResolve resolves a component handle for the router.
func (w *World) TryResolve(h models.ComponentHandle) (routing.Component, bool) {
	c, ok := w.components.get(h.Handle)
	if !ok {
		return nil, false
	}
	return c, true
}

// TryGetComponent resolves a component handle.
func (w *World) TryGetComponent(h models.ComponentHandle) (Component, bool) {
	return w.components.get(h.Handle)
}

// TryGetObject resolves an object handle.
func (w *World) TryGetObject(h models.ObjectHandle) (*GameObject, bool) {
	return w.objects.get(h.Handle)
}

func (w *World) ObjectCount() int    { return w.objects.len() }
func (w *World) ComponentCount() int { return w.components.len() }

// Step advances the world by its configured tick.
func (w *World) Step() {
	w.Update(w.config.Tick)
}

// Update runs one tick: messages posted for the next frame, then the due
// update functions, then messages posted for this frame.
func (w *World) Update(delta time.Duration) {
	w.ticks++
	w.time += delta

	w.queue.Advance(delta)
	w.queue.Deliver(routing.QueueNextFrame, w.deliverQueued)

	w.scheduler.RunScheduled(delta, w.invokeUpdate)

	w.queue.Deliver(routing.QueueThisFrame, w.deliverQueued)
}

// Clear tears the world down: every object is destroyed, update functions
// and pending messages are dropped.
func (w *World) Clear() {
	for i := range w.objects.slots {
		s := &w.objects.slots[i]
		if !s.alive || s.value.parent != nil {
			continue
		}
		if err := w.DestroyObject(s.value.handle); err != nil {
			w.logger.Error("destroy object on clear", log.Error(err))
		}
	}
	w.ClearUpdateFunctions()
	w.queue.Clear()
	w.globals.ClearWorld(w.config.Index)
	w.logger.Debug("world cleared")
}

func (w *World) deliverQueued(receiver models.ComponentHandle, msg messages.Message) bool {
	c, ok := w.components.get(receiver.Handle)
	if !ok {
		return false
	}
	c.DispatchMessage(msg)
	return true
}
