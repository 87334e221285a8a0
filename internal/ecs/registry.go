package ecs

import (
	"fmt"
	"sort"
	"sync"
)

// ComponentFactory builds a fresh, unattached component of one kind.
type ComponentFactory func() Component

// SystemFactory builds a fresh, unattached system of one kind.
type SystemFactory func() System

// KindRegistry is an open polymorphic set of component and system kinds:
// collaborators register factories at startup, and device builders (the
// discovery bridge, tests) construct values by kind label without knowing
// concrete types.
//
// All public methods are thread-safe; registration typically happens during
// process startup, construction from inside gateway units.
type KindRegistry struct {
	mu         sync.RWMutex
	components map[string]ComponentFactory
	systems    map[string]SystemFactory
}

// NewKindRegistry creates an empty kind registry.
func NewKindRegistry() *KindRegistry {
	return &KindRegistry{
		components: make(map[string]ComponentFactory),
		systems:    make(map[string]SystemFactory),
	}
}

// RegisterComponent registers a component factory under a kind label.
// Returns ErrKindRegistered if the kind already has a factory.
func (r *KindRegistry) RegisterComponent(kind string, factory ComponentFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.components[kind]; exists {
		return fmt.Errorf("%w: component %q", ErrKindRegistered, kind)
	}
	r.components[kind] = factory
	return nil
}

// RegisterSystem registers a system factory under a kind label.
// Returns ErrKindRegistered if the kind already has a factory.
func (r *KindRegistry) RegisterSystem(kind string, factory SystemFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.systems[kind]; exists {
		return fmt.Errorf("%w: system %q", ErrKindRegistered, kind)
	}
	r.systems[kind] = factory
	return nil
}

// NewComponent builds a component by kind label.
// Returns ErrKindUnknown if no factory is registered.
func (r *KindRegistry) NewComponent(kind string) (Component, error) {
	r.mu.RLock()
	factory, ok := r.components[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: component %q", ErrKindUnknown, kind)
	}
	return factory(), nil
}

// NewSystem builds a system by kind label.
// Returns ErrKindUnknown if no factory is registered.
func (r *KindRegistry) NewSystem(kind string) (System, error) {
	r.mu.RLock()
	factory, ok := r.systems[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: system %q", ErrKindUnknown, kind)
	}
	return factory(), nil
}

// ComponentKinds returns registered component kinds in sorted order.
func (r *KindRegistry) ComponentKinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.components))
	for k := range r.components {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// SystemKinds returns registered system kinds in sorted order.
func (r *KindRegistry) SystemKinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.systems))
	for k := range r.systems {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
