package world

import (
	"time"

	"github.com/pkg/errors"

	"github.com/zeusync/worldcore/internal/core/observability/log"
)

// UpdateContext is passed to an update function when it is due.
type UpdateContext struct {
	World *World
	// Elapsed is the world time since the function last ran.
	Elapsed time.Duration
}

type UpdateFunc func(ctx UpdateContext)

// UpdateFunctionDesc describes a periodic update function. An Interval of 0
// runs it every tick.
type UpdateFunctionDesc struct {
	Name               string
	Func               UpdateFunc
	Interval           time.Duration
	OnlyWhenSimulating bool
}

// AddUpdateFunctionToSchedule registers desc; its first run is on the next
// tick.
func (w *World) AddUpdateFunctionToSchedule(desc UpdateFunctionDesc) error {
	if desc.Name == "" || desc.Func == nil {
		return ErrInvalidUpdateFunction
	}
	if err := w.scheduler.Register(desc.Name, desc.Interval); err != nil {
		return errors.Wrapf(err, "schedule update function %q", desc.Name)
	}
	w.updates[desc.Name] = desc
	w.logger.Debug("update function scheduled",
		log.String("update", desc.Name),
		log.Duration("interval", desc.Interval),
		log.Bool("only_when_simulating", desc.OnlyWhenSimulating),
	)
	return nil
}

// RemoveUpdateFunctionToSchedule unregisters the named function. A function
// removed during a tick does not run later in that tick.
func (w *World) RemoveUpdateFunctionToSchedule(name string) error {
	if _, ok := w.updates[name]; !ok {
		return ErrUpdateFunctionNotFound
	}
	if err := w.scheduler.Unregister(name); err != nil {
		return errors.Wrapf(err, "unschedule update function %q", name)
	}
	delete(w.updates, name)
	w.logger.Debug("update function unscheduled", log.String("update", name))
	return nil
}

// SetUpdateInterval changes the interval of a scheduled function.
func (w *World) SetUpdateInterval(name string, interval time.Duration) error {
	desc, ok := w.updates[name]
	if !ok {
		return ErrUpdateFunctionNotFound
	}
	if err := w.scheduler.SetInterval(name, interval); err != nil {
		return errors.Wrapf(err, "reschedule update function %q", name)
	}
	desc.Interval = interval
	w.updates[name] = desc
	return nil
}

// ClearUpdateFunctions unregisters every update function.
func (w *World) ClearUpdateFunctions() {
	w.scheduler.Clear()
	clear(w.updates)
}

func (w *World) UpdateFunctionCount() int {
	return len(w.updates)
}

func (w *World) invokeUpdate(name string, elapsed time.Duration) {
	desc, ok := w.updates[name]
	if !ok {
		return
	}
	if desc.OnlyWhenSimulating && !w.simulating {
		return
	}
	desc.Func(UpdateContext{World: w, Elapsed: elapsed})
}
