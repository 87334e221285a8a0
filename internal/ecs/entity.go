package ecs

import (
	"fmt"
	"sort"
)

// lifecycleState tracks an entity through destruction. Transitions happen
// only inside gateway units, so external observers see Active or absence.
type lifecycleState uint8

const (
	stateActive lifecycleState = iota
	stateDestroying
	stateGone
)

// Entity is a bundle of components and systems grouped under one identifier.
// The identifier is immutable after creation. Component and system sets may
// grow and shrink, but a given kind appears at most once per slot table.
//
// Entities are owned by Storage and must only be touched inside a gateway
// unit of work.
type Entity struct {
	id         string
	components map[string]Component
	systems    map[string]System
	state      lifecycleState
}

func newEntity(id string) *Entity {
	return &Entity{
		id:         id,
		components: make(map[string]Component),
		systems:    make(map[string]System),
	}
}

// ID returns the entity's immutable identifier.
func (e *Entity) ID() string {
	return e.id
}

// AttachComponent adds a component to the entity and sets its owner
// back-reference. Returns ErrDuplicateComponentKind if the kind is already
// present.
func (e *Entity) AttachComponent(c Component) error {
	kind := c.Meta().Kind()
	if _, exists := e.components[kind]; exists {
		return fmt.Errorf("%w: %q on entity %q", ErrDuplicateComponentKind, kind, e.id)
	}
	c.Meta().setOwner(e.id)
	e.components[kind] = c
	return nil
}

// Component returns the component of the given kind.
// Returns ErrComponentMissing if the kind is not attached.
func (e *Entity) Component(kind string) (Component, error) {
	c, ok := e.components[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q on entity %q", ErrComponentMissing, kind, e.id)
	}
	return c, nil
}

// DetachComponent removes the component of the given kind and returns
// ownership to the caller. The owner back-reference is cleared; the
// component is no longer reachable through the entity.
func (e *Entity) DetachComponent(kind string) (Component, error) {
	c, ok := e.components[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q on entity %q", ErrComponentMissing, kind, e.id)
	}
	delete(e.components, kind)
	c.Meta().clearOwner()
	return c, nil
}

// HasComponent reports whether the kind is attached.
func (e *Entity) HasComponent(kind string) bool {
	_, ok := e.components[kind]
	return ok
}

// ComponentKinds returns the attached component kinds in sorted order.
func (e *Entity) ComponentKinds() []string {
	kinds := make([]string, 0, len(e.components))
	for k := range e.components {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// AttachSystem adds a system to the entity and sets its owner
// back-reference. Returns ErrDuplicateSystemKind if the kind is already
// present.
func (e *Entity) AttachSystem(s System) error {
	kind := s.Meta().Kind()
	if _, exists := e.systems[kind]; exists {
		return fmt.Errorf("%w: %q on entity %q", ErrDuplicateSystemKind, kind, e.id)
	}
	s.Meta().setOwner(e.id)
	e.systems[kind] = s
	return nil
}

// System returns the system of the given kind.
// Returns ErrSystemMissing if the kind is not attached.
func (e *Entity) System(kind string) (System, error) {
	s, ok := e.systems[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q on entity %q", ErrSystemMissing, kind, e.id)
	}
	return s, nil
}

// DetachSystem removes the system of the given kind and returns ownership
// to the caller, clearing its owner back-reference.
func (e *Entity) DetachSystem(kind string) (System, error) {
	s, ok := e.systems[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q on entity %q", ErrSystemMissing, kind, e.id)
	}
	delete(e.systems, kind)
	s.Meta().clearOwner()
	return s, nil
}

// SystemKinds returns the attached system kinds in sorted order.
func (e *Entity) SystemKinds() []string {
	kinds := make([]string, 0, len(e.systems))
	for k := range e.systems {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// detachAll drops every component and system, clearing back-references.
// Called during destruction; the values become unreachable afterwards.
func (e *Entity) detachAll() {
	for kind, c := range e.components {
		c.Meta().clearOwner()
		delete(e.components, kind)
	}
	for kind, s := range e.systems {
		s.Meta().clearOwner()
		delete(e.systems, kind)
	}
}

// ComponentAs returns the component of the given kind as concrete type T.
// Returns ErrKindMismatch if the stored component has a different type.
func ComponentAs[T Component](e *Entity, kind string) (T, error) {
	var zero T
	c, err := e.Component(kind)
	if err != nil {
		return zero, err
	}
	t, ok := c.(T)
	if !ok {
		return zero, fmt.Errorf("%w: component %q is %T", ErrKindMismatch, kind, c)
	}
	return t, nil
}

// SystemAs returns the system of the given kind as concrete type T.
func SystemAs[T System](e *Entity, kind string) (T, error) {
	var zero T
	s, err := e.System(kind)
	if err != nil {
		return zero, err
	}
	t, ok := s.(T)
	if !ok {
		return zero, fmt.Errorf("%w: system %q is %T", ErrKindMismatch, kind, s)
	}
	return t, nil
}

// DetachComponentAs detaches the component of the given kind and returns it
// as concrete type T. On ErrKindMismatch the component stays attached.
func DetachComponentAs[T Component](e *Entity, kind string) (T, error) {
	var zero T
	c, err := e.Component(kind)
	if err != nil {
		return zero, err
	}
	t, ok := c.(T)
	if !ok {
		return zero, fmt.Errorf("%w: component %q is %T", ErrKindMismatch, kind, c)
	}
	if _, err := e.DetachComponent(kind); err != nil {
		return zero, err
	}
	return t, nil
}
