package world

import (
	"context"

	"github.com/pkg/errors"

	"github.com/zeusync/worldcore/internal/core/observability/log"
	"github.com/zeusync/worldcore/pkg/concurrent"
)

// Runner ticks independent worlds in parallel, one goroutine per world per
// tick. Worlds must not share objects, components or a global registry.
type Runner struct {
	logger   log.Log
	worlds   []*World
	parallel int
}

func NewRunner(logger log.Log, worlds ...*World) *Runner {
	if logger == nil {
		logger = log.Nop()
	}
	return &Runner{logger: logger, worlds: worlds}
}

func (r *Runner) Worlds() []*World {
	return r.worlds
}

// SetParallel caps how many worlds tick at once; 0 means one goroutine per
// world.
func (r *Runner) SetParallel(limit int) {
	r.parallel = max(limit, 0)
}

// Step advances every world by its own tick and waits for all of them.
func (r *Runner) Step(ctx context.Context) error {
	if r.parallel > 0 {
		return concurrent.Throttle(ctx, r.worlds, r.parallel, stepWorldContext)
	}
	return concurrent.Concurrent(ctx, r.worlds, stepWorldContext)
}

// Run steps the worlds ticks times, stopping at the first failure or when ctx
// is done.
func (r *Runner) Run(ctx context.Context, ticks int) error {
	for i := 0; i < ticks; i++ {
		if err := r.Step(ctx); err != nil {
			r.logger.Error("world tick failed", log.Int("tick", i), log.Error(err))
			return errors.Wrapf(err, "tick %d", i)
		}
	}
	return nil
}

func stepWorldContext(ctx context.Context, w *World) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return stepWorld(w)
}

func stepWorld(w *World) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Errorf("world %s panicked: %v", w.Name(), p)
		}
	}()
	w.Step()
	return nil
}
