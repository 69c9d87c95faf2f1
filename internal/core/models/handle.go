package models

import "fmt"

// Handle identifies a slot in a handle table. The generation changes every
// time the slot is reused, so a handle to a destroyed object never resolves
// to its successor. Generation 0 is reserved for the invalid handle.
type Handle struct {
	index      uint32
	generation uint32
}

func NewHandle(index, generation uint32) Handle {
	return Handle{index: index, generation: generation}
}

func (h Handle) Index() uint32      { return h.index }
func (h Handle) Generation() uint32 { return h.generation }

// IsValid reports whether the handle was ever issued. It says nothing about
// whether the referenced object is still alive.
func (h Handle) IsValid() bool { return h.generation != 0 }

func (h Handle) String() string {
	if !h.IsValid() {
		return "invalid"
	}
	return fmt.Sprintf("%d:%d", h.index, h.generation)
}

// ObjectHandle refers to a game object.
type ObjectHandle struct{ Handle }

// ComponentHandle refers to a component attached to a game object.
type ComponentHandle struct{ Handle }

var (
	InvalidObject    ObjectHandle
	InvalidComponent ComponentHandle
)
