package ecs

import "fmt"

// Lane lets a component or system that is already executing inside a
// gateway unit of work reach its owning entity and manipulate sibling
// components and systems. It operates on Storage directly; re-entering the
// gateway from inside a unit would deadlock, since the gateway is occupied
// by the current unit.
//
// A Lane is handed to each unit of work by the dispatcher and is only valid
// for the duration of that unit. It must not be retained or used from any
// other goroutine.
//
// Aliasing rule: within one lane, only one sibling handle is live at a
// time. Nested sibling acquisition fails with ErrSiblingHeld; Go cannot
// enforce the rule at compile time, so the lane enforces it at runtime.
type Lane struct {
	storage *Storage
	held    bool
}

func newLane(s *Storage) *Lane {
	return &Lane{storage: s}
}

// WithEntity resolves the owner of the given component or system and passes
// the owning entity to f. Returns ErrDetached if the owner back-reference
// is unset, or ErrEntityNotFound if the owner entity no longer exists.
func (l *Lane) WithEntity(owned Owned, f func(*Entity) error) error {
	ownerID, ok := owned.Meta().Owner()
	if !ok {
		return fmt.Errorf("%w: %q", ErrDetached, owned.Meta().Kind())
	}
	e, err := l.storage.Entity(ownerID)
	if err != nil {
		return err
	}
	return f(e)
}

// WithSibling locates the sibling component of the given kind on the
// caller's owning entity and invokes f with exclusive access to it.
// Fails with ErrComponentMissing if the kind is not attached, ErrDetached
// if the caller has no owner, or ErrSiblingHeld if another sibling handle
// is live on this lane.
func (l *Lane) WithSibling(owned Owned, kind string, f func(Component) error) error {
	if l.held {
		return fmt.Errorf("%w: while resolving %q", ErrSiblingHeld, kind)
	}
	return l.WithEntity(owned, func(e *Entity) error {
		c, err := e.Component(kind)
		if err != nil {
			return err
		}
		l.held = true
		defer func() { l.held = false }()
		return f(c)
	})
}

// WithSiblingSystem is WithSibling for system slots.
func (l *Lane) WithSiblingSystem(owned Owned, kind string, f func(System) error) error {
	if l.held {
		return fmt.Errorf("%w: while resolving %q", ErrSiblingHeld, kind)
	}
	return l.WithEntity(owned, func(e *Entity) error {
		s, err := e.System(kind)
		if err != nil {
			return err
		}
		l.held = true
		defer func() { l.held = false }()
		return f(s)
	})
}

// WithSiblingAs is WithSibling with a typed handle. Returns ErrKindMismatch
// if the sibling of that kind has a different concrete type.
func WithSiblingAs[T Component](l *Lane, owned Owned, kind string, f func(T) error) error {
	return l.WithSibling(owned, kind, func(c Component) error {
		t, ok := c.(T)
		if !ok {
			return fmt.Errorf("%w: sibling %q is %T", ErrKindMismatch, kind, c)
		}
		return f(t)
	})
}
