package ecs

import (
	"context"
	"fmt"
	"time"
)

// Graph is a read-only snapshot of the runtime's entity graph, used by the
// debug API. Building it runs through the gateway like any other unit of
// work and mutates nothing.
type Graph struct {
	GeneratedAt time.Time     `json:"generated_at"`
	EntityCount int           `json:"entity_count"`
	DeviceCount int           `json:"device_count"`
	Entities    []GraphEntity `json:"entities"`
}

// GraphEntity describes one entity and its attached slots.
type GraphEntity struct {
	ID         string      `json:"id"`
	DeviceID   string      `json:"device_id,omitempty"`
	Components []GraphSlot `json:"components"`
	Systems    []GraphSlot `json:"systems"`
}

// GraphSlot describes one attached component or system.
type GraphSlot struct {
	Kind string `json:"kind"`
	Type string `json:"type"`
}

// Graph captures a snapshot of all entities, their device addresses, and
// their component and system kinds.
func (rt *Runtime) Graph(ctx context.Context) (Graph, error) {
	return Submit(ctx, rt, func(tx *Tx) (Graph, error) {
		// Reverse the index once so each entity can report its address.
		addrByEntity := make(map[string]string, tx.index.Len())
		for addr, entityID := range tx.index.Entries() {
			addrByEntity[entityID] = addr
		}

		g := Graph{
			GeneratedAt: time.Now(),
			EntityCount: tx.storage.Len(),
			DeviceCount: tx.index.Len(),
			Entities:    make([]GraphEntity, 0, tx.storage.Len()),
		}

		for _, id := range tx.storage.EntityIDs() {
			e, err := tx.storage.Entity(id)
			if err != nil {
				return Graph{}, err
			}

			ge := GraphEntity{
				ID:         id,
				DeviceID:   addrByEntity[id],
				Components: make([]GraphSlot, 0, len(e.components)),
				Systems:    make([]GraphSlot, 0, len(e.systems)),
			}
			for _, kind := range e.ComponentKinds() {
				ge.Components = append(ge.Components, GraphSlot{
					Kind: kind,
					Type: fmt.Sprintf("%T", e.components[kind]),
				})
			}
			for _, kind := range e.SystemKinds() {
				ge.Systems = append(ge.Systems, GraphSlot{
					Kind: kind,
					Type: fmt.Sprintf("%T", e.systems[kind]),
				})
			}
			g.Entities = append(g.Entities, ge)
		}
		return g, nil
	})
}
