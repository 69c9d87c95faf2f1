package messages

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrTypeAlreadyRegistered = errors.New("message type already registered")
	ErrTypeNotRegistered     = errors.New("message type not registered")
	ErrNilPrototype          = errors.New("message prototype is nil")
)

// TypeInfo is the metadata kept per message type.
type TypeInfo struct {
	ID           TypeID `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	Event        bool   `json:"event" yaml:"event"`
	DebugRouting bool   `json:"debug_routing" yaml:"debug_routing"`
}

// TypeOption customizes a registration.
type TypeOption func(*TypeInfo)

// WithDebugRouting turns on unhandled-message diagnostics for every instance
// of the type.
func WithDebugRouting() TypeOption {
	return func(info *TypeInfo) { info.DebugRouting = true }
}

// TypeRegistry maps message TypeIDs to their metadata. It is usually shared by
// every world of a process, so it is safe for concurrent use.
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[TypeID]TypeInfo
}

func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[TypeID]TypeInfo)}
}

// Register records the type of prototype under name.
func (r *TypeRegistry) Register(name string, prototype Message, opts ...TypeOption) (TypeInfo, error) {
	if prototype == nil {
		return TypeInfo{}, ErrNilPrototype
	}

	_, isEvent := prototype.(EventMessage)
	info := TypeInfo{ID: prototype.TypeID(), Name: name, Event: isEvent}
	for _, opt := range opts {
		opt(&info)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.types[info.ID]; ok {
		return existing, errors.Wrapf(ErrTypeAlreadyRegistered, "%s (id %d, registered as %s)", name, info.ID, existing.Name)
	}
	r.types[info.ID] = info
	return info, nil
}

func (r *TypeRegistry) Lookup(id TypeID) (TypeInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.types[id]
	return info, ok
}

// Name returns the registered name of id, or its numeric form when unknown.
func (r *TypeRegistry) Name(id TypeID) string {
	if info, ok := r.Lookup(id); ok {
		return info.Name
	}
	return fmt.Sprintf("%d", id)
}

// SetDebugRouting toggles type-level diagnostics.
func (r *TypeRegistry) SetDebugRouting(id TypeID, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.types[id]
	if !ok {
		return ErrTypeNotRegistered
	}
	info.DebugRouting = enabled
	r.types[id] = info
	return nil
}

// DebugRoutingEnabled reports whether msg asked for diagnostics, either on
// the instance or through its type.
func (r *TypeRegistry) DebugRoutingEnabled(msg Message) bool {
	if header, ok := AsEvent(msg); ok && header.DebugRouting {
		return true
	}
	if r == nil {
		return false
	}
	info, ok := r.Lookup(msg.TypeID())
	return ok && info.DebugRouting
}

// Types returns every registered type sorted by name.
func (r *TypeRegistry) Types() []TypeInfo {
	r.mu.RLock()
	out := make([]TypeInfo, 0, len(r.types))
	for _, info := range r.types {
		out = append(out, info)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
