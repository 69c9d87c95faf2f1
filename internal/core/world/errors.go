package world

import "errors"

var (
	// Object errors

	ErrObjectNotFound  = errors.New("game object not found")
	ErrHierarchyCycle  = errors.New("parent would create a hierarchy cycle")
	ErrDifferentWorlds = errors.New("objects belong to different worlds")

	// Component errors

	ErrComponentNotFound = errors.New("component not found")
	ErrComponentAttached = errors.New("component is already attached")
	ErrNilComponent      = errors.New("component is nil")

	// Update function errors

	ErrInvalidUpdateFunction  = errors.New("update function needs a name and a func")
	ErrUpdateFunctionNotFound = errors.New("update function not found")

	// Config errors

	ErrInvalidTick       = errors.New("tick must be positive")
	ErrInvalidMaxPerTick = errors.New("max_per_tick must not be negative")
	ErrInvalidIndex      = errors.New("world index must not be negative")
)
