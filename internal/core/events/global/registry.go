package global

import (
	"errors"

	"github.com/zeusync/worldcore/internal/core/models"
)

var ErrHandlerNotRegistered = errors.New("global event handler not registered")

// Registry tracks, per world index, the components that receive event
// messages nobody in the hierarchy handled.
//
// Components register on the transition of their global-handler flag, so the
// registry does not de-duplicate. A registry belongs to the worlds that share
// its update goroutine and is not safe for concurrent use.
type Registry struct {
	worlds [][]models.ComponentHandle
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends h to the world's handler list.
func (r *Registry) Register(world int, h models.ComponentHandle) {
	r.grow(world)
	r.worlds[world] = append(r.worlds[world], h)
}

// Deregister removes h from the world's list. The last entry takes its place,
// so the order of the remaining handlers may change.
func (r *Registry) Deregister(world int, h models.ComponentHandle) error {
	if world < 0 || world >= len(r.worlds) {
		return ErrHandlerNotRegistered
	}

	list := r.worlds[world]
	for i := range list {
		if list[i] != h {
			continue
		}
		last := len(list) - 1
		list[i] = list[last]
		list[last] = models.InvalidComponent
		r.worlds[world] = list[:last]
		return nil
	}
	return ErrHandlerNotRegistered
}

// All returns the world's handlers. The slice is owned by the registry and
// must not be modified or retained across Register/Deregister calls.
func (r *Registry) All(world int) []models.ComponentHandle {
	if world < 0 || world >= len(r.worlds) {
		return nil
	}
	return r.worlds[world]
}

// Contains reports whether h is registered for world.
func (r *Registry) Contains(world int, h models.ComponentHandle) bool {
	for _, registered := range r.All(world) {
		if registered == h {
			return true
		}
	}
	return false
}

// ClearWorld drops every handler of a world, typically on world teardown.
func (r *Registry) ClearWorld(world int) {
	if world < 0 || world >= len(r.worlds) {
		return
	}
	clear(r.worlds[world])
	r.worlds[world] = r.worlds[world][:0]
}

// Worlds returns the number of world slots allocated so far.
func (r *Registry) Worlds() int {
	return len(r.worlds)
}

func (r *Registry) grow(world int) {
	if world < 0 {
		panic("global: negative world index")
	}
	for len(r.worlds) <= world {
		r.worlds = append(r.worlds, nil)
	}
}
