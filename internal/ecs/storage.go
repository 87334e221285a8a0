package ecs

import (
	"fmt"
	"sort"
)

// Storage holds the canonical table of entities, keyed by entity id.
//
// Storage is exclusively owned by the Runtime and mutated only on the
// gateway goroutine; it has no locking of its own. Units of work reach it
// through the Tx view.
type Storage struct {
	entities map[string]*Entity
}

func newStorage() *Storage {
	return &Storage{entities: make(map[string]*Entity)}
}

// CreateEntity adds a new empty entity under the given id.
// Returns ErrDuplicateEntity if the id is already present; state is
// unchanged after a failed call.
func (s *Storage) CreateEntity(id string) (*Entity, error) {
	if _, exists := s.entities[id]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateEntity, id)
	}
	e := newEntity(id)
	s.entities[id] = e
	return e, nil
}

// Entity returns the entity with the given id.
// Returns ErrEntityNotFound if absent or already being destroyed.
func (s *Storage) Entity(id string) (*Entity, error) {
	e, ok := s.entities[id]
	if !ok || e.state != stateActive {
		return nil, fmt.Errorf("%w: %q", ErrEntityNotFound, id)
	}
	return e, nil
}

// DestroyEntity detaches all components and systems, then removes the
// entity. Returns ErrEntityNotFound if the id is absent; a repeated destroy
// reports the failure rather than silently succeeding.
//
// Entities registered in the Device Index must be destroyed through
// Runtime.DestroyDevice so the index entry is removed in the same unit of
// work.
func (s *Storage) DestroyEntity(id string) error {
	e, ok := s.entities[id]
	if !ok || e.state != stateActive {
		return fmt.Errorf("%w: %q", ErrEntityNotFound, id)
	}
	e.state = stateDestroying
	e.detachAll()
	e.state = stateGone
	delete(s.entities, id)
	return nil
}

// Len returns the number of live entities.
func (s *Storage) Len() int {
	return len(s.entities)
}

// EntityIDs returns all entity ids in sorted order.
func (s *Storage) EntityIDs() []string {
	ids := make([]string, 0, len(s.entities))
	for id := range s.entities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
