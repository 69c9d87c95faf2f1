package world

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateFunctionsRunOnInterval(t *testing.T) {
	w := newTestWorld()
	var every, slow []time.Duration
	require.NoError(t, w.AddUpdateFunctionToSchedule(UpdateFunctionDesc{
		Name: "every",
		Func: func(ctx UpdateContext) { every = append(every, ctx.Elapsed) },
	}))
	require.NoError(t, w.AddUpdateFunctionToSchedule(UpdateFunctionDesc{
		Name:     "slow",
		Interval: 50 * time.Millisecond,
		Func:     func(ctx UpdateContext) { slow = append(slow, ctx.Elapsed) },
	}))

	for i := 0; i < 6; i++ {
		w.Update(20 * time.Millisecond)
	}

	assert.Len(t, every, 6)
	// Runs at 20ms and 80ms; the next run would be at 140ms.
	assert.Equal(t, []time.Duration{20 * time.Millisecond, 60 * time.Millisecond}, slow)
	assert.Equal(t, 120*time.Millisecond, w.Time())
	assert.Equal(t, uint64(6), w.Ticks())
}

func TestOnlyWhenSimulating(t *testing.T) {
	w := newTestWorld()
	runs := 0
	require.NoError(t, w.AddUpdateFunctionToSchedule(UpdateFunctionDesc{
		Name:               "gameplay",
		OnlyWhenSimulating: true,
		Func:               func(UpdateContext) { runs++ },
	}))

	w.SetSimulating(false)
	w.Step()
	w.Step()
	assert.Equal(t, 0, runs)

	w.SetSimulating(true)
	w.Step()
	assert.Equal(t, 1, runs)
}

func TestUpdateFunctionRegistrationErrors(t *testing.T) {
	w := newTestWorld()
	desc := UpdateFunctionDesc{Name: "a", Func: func(UpdateContext) {}}

	assert.ErrorIs(t, w.AddUpdateFunctionToSchedule(UpdateFunctionDesc{Name: "nofunc"}), ErrInvalidUpdateFunction)
	assert.ErrorIs(t, w.AddUpdateFunctionToSchedule(UpdateFunctionDesc{Func: desc.Func}), ErrInvalidUpdateFunction)

	require.NoError(t, w.AddUpdateFunctionToSchedule(desc))
	assert.Error(t, w.AddUpdateFunctionToSchedule(desc))

	assert.ErrorIs(t, w.RemoveUpdateFunctionToSchedule("missing"), ErrUpdateFunctionNotFound)
	require.NoError(t, w.RemoveUpdateFunctionToSchedule("a"))
	assert.Equal(t, 0, w.UpdateFunctionCount())
}

func TestRemovedDuringTickDoesNotRun(t *testing.T) {
	w := newTestWorld()
	var order []string
	require.NoError(t, w.AddUpdateFunctionToSchedule(UpdateFunctionDesc{
		Name: "first",
		Func: func(ctx UpdateContext) {
			order = append(order, "first")
			assert.NoError(t, ctx.World.RemoveUpdateFunctionToSchedule("second"))
		},
	}))
	require.NoError(t, w.AddUpdateFunctionToSchedule(UpdateFunctionDesc{
		Name: "second",
		Func: func(UpdateContext) { order = append(order, "second") },
	}))

	w.Step()
	assert.Equal(t, []string{"first"}, order)
}

func TestSetUpdateInterval(t *testing.T) {
	w := newTestWorld()
	runs := 0
	require.NoError(t, w.AddUpdateFunctionToSchedule(UpdateFunctionDesc{
		Name: "f",
		Func: func(UpdateContext) { runs++ },
	}))
	w.Update(10 * time.Millisecond)
	require.NoError(t, w.SetUpdateInterval("f", time.Hour))
	w.Update(10 * time.Millisecond)
	w.Update(10 * time.Millisecond)
	assert.Equal(t, 1, runs)

	assert.ErrorIs(t, w.SetUpdateInterval("missing", time.Second), ErrUpdateFunctionNotFound)
}
