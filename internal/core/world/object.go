package world

import (
	"slices"

	"github.com/zeusync/worldcore/internal/core/events/routing"
	"github.com/zeusync/worldcore/internal/core/models"
	"github.com/zeusync/worldcore/internal/core/observability/log"
)

var _ routing.Object = (*GameObject)(nil)

// GameObject is a node of the world hierarchy holding components in
// attachment order.
type GameObject struct {
	handle     models.ObjectHandle
	name       string
	world      *World
	parent     *GameObject
	children   []*GameObject
	components []Component
}

func (o *GameObject) Handle() models.ObjectHandle { return o.handle }
func (o *GameObject) Name() string                { return o.name }
func (o *GameObject) World() *World               { return o.world }

func (o *GameObject) Parent() (routing.Object, bool) {
	if o.parent == nil {
		return nil, false
	}
	return o.parent, true
}

// ParentObject returns the parent or nil at the root.
func (o *GameObject) ParentObject() *GameObject {
	return o.parent
}

func (o *GameObject) Children() []*GameObject {
	return o.children
}

func (o *GameObject) Components() []routing.Component {
	out := make([]routing.Component, len(o.components))
	for i, c := range o.components {
		out[i] = c
	}
	return out
}

// AttachedComponents returns the components in attachment order.
func (o *GameObject) AttachedComponents() []Component {
	return o.components
}

// CreateObject adds a root object to the world.
func (w *World) CreateObject(name string) *GameObject {
	o := &GameObject{name: name, world: w}
	o.handle = models.ObjectHandle{Handle: w.objects.insert(o)}
	w.logger.Debug("object created", log.String("object", name), log.Stringer("handle", o.handle))
	return o
}

// CreateChild adds an object under parent.
func (w *World) CreateChild(parent *GameObject, name string) (*GameObject, error) {
	o := w.CreateObject(name)
	if err := w.SetParent(o, parent); err != nil {
		_ = w.DestroyObject(o.handle)
		return nil, err
	}
	return o, nil
}

// SetParent moves child under parent, or to the root when parent is nil.
// Receiver caches searching through child are not invalidated.
func (w *World) SetParent(child, parent *GameObject) error {
	if !w.alive(child) {
		return ErrObjectNotFound
	}
	if parent != nil {
		if parent.world != w {
			return ErrDifferentWorlds
		}
		if !w.alive(parent) {
			return ErrObjectNotFound
		}
		for p := parent; p != nil; p = p.parent {
			if p == child {
				return ErrHierarchyCycle
			}
		}
	}

	if child.parent != nil {
		child.parent.children = slices.DeleteFunc(child.parent.children, func(o *GameObject) bool { return o == child })
	}
	child.parent = parent
	if parent != nil {
		parent.children = append(parent.children, child)
	}
	return nil
}

// DestroyObject destroys the object, its components and all descendants.
func (w *World) DestroyObject(h models.ObjectHandle) error {
	o, ok := w.objects.get(h.Handle)
	if !ok {
		return ErrObjectNotFound
	}

	for len(o.children) > 0 {
		if err := w.DestroyObject(o.children[len(o.children)-1].handle); err != nil {
			return err
		}
	}
	for len(o.components) > 0 {
		if err := w.DestroyComponent(o.components[len(o.components)-1].Handle()); err != nil {
			return err
		}
	}
	if o.parent != nil {
		o.parent.children = slices.DeleteFunc(o.parent.children, func(c *GameObject) bool { return c == o })
		o.parent = nil
	}

	w.objects.remove(h.Handle)
	w.logger.Debug("object destroyed", log.String("object", o.name), log.Stringer("handle", h))
	return nil
}

func (w *World) alive(o *GameObject) bool {
	if o == nil {
		return false
	}
	found, ok := w.objects.get(o.handle.Handle)
	return ok && found == o
}
