package ecs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BuildFunc attaches the initial components and systems to a freshly
// created entity. It runs inside the registration unit of work; on error
// the entity is discarded and the device address stays unmapped.
type BuildFunc func(*Entity) error

// RegisterDevice creates an entity for the device address, runs build to
// attach its initial components and systems, and registers the address in
// the Device Index, all as one gateway unit of work. Returns the minted
// entity id.
//
// Fails with ErrDuplicateDeviceID if the address is already mapped. A build
// failure rolls the entity back; no half-registered device is observable.
func (rt *Runtime) RegisterDevice(ctx context.Context, addr string, build BuildFunc) (string, error) {
	entityID, err := Submit(ctx, rt, func(tx *Tx) (string, error) {
		if _, err := tx.index.Resolve(addr); err == nil {
			return "", fmt.Errorf("%w: %q", ErrDuplicateDeviceID, addr)
		}

		id := uuid.NewString()
		e, err := tx.storage.CreateEntity(id)
		if err != nil {
			return "", err
		}

		if build != nil {
			if buildErr := build(e); buildErr != nil {
				if destroyErr := tx.storage.DestroyEntity(id); destroyErr != nil {
					rt.logger.Error("rollback after failed device build",
						"device_id", addr, "entity_id", id, "error", destroyErr)
				}
				return "", fmt.Errorf("building device %q: %w", addr, buildErr)
			}
		}

		if err := tx.index.Register(addr, id); err != nil {
			if destroyErr := tx.storage.DestroyEntity(id); destroyErr != nil {
				rt.logger.Error("rollback after failed index registration",
					"device_id", addr, "entity_id", id, "error", destroyErr)
			}
			return "", err
		}

		// Emitted inside the unit so subscribers see lifecycle events in
		// the order the transitions were applied to Storage.
		rt.emitter.Emit(Event{
			Type:     EventDeviceRegistered,
			DeviceID: addr,
			EntityID: id,
			Time:     time.Now(),
		})
		return id, nil
	})
	if err != nil {
		return "", err
	}

	rt.logger.Info("device registered", "device_id", addr, "entity_id", entityID)
	return entityID, nil
}

// DestroyDevice removes the index entry and destroys the entity in one
// gateway unit of work. All components and systems are detached before the
// entity slot is freed; external observers see the device either fully
// present or fully absent.
//
// Fails with ErrUnknownDevice if the address is not mapped.
func (rt *Runtime) DestroyDevice(ctx context.Context, addr string) error {
	entityID, err := Submit(ctx, rt, func(tx *Tx) (string, error) {
		id, err := tx.index.Resolve(addr)
		if err != nil {
			return "", err
		}
		if err := tx.index.Unregister(addr); err != nil {
			return "", err
		}
		if err := tx.storage.DestroyEntity(id); err != nil {
			return "", err
		}

		rt.emitter.Emit(Event{
			Type:     EventDeviceDestroyed,
			DeviceID: addr,
			EntityID: id,
			Time:     time.Now(),
		})
		return id, nil
	})
	if err != nil {
		return err
	}

	rt.logger.Info("device destroyed", "device_id", addr, "entity_id", entityID)
	return nil
}

// ResolveDevice returns the entity id mapped to a device address, as a
// read-only unit of work.
func (rt *Runtime) ResolveDevice(ctx context.Context, addr string) (string, error) {
	return Submit(ctx, rt, func(tx *Tx) (string, error) {
		return tx.index.Resolve(addr)
	})
}

// DeviceAddresses returns all registered device addresses in sorted order.
func (rt *Runtime) DeviceAddresses(ctx context.Context) ([]string, error) {
	return Submit(ctx, rt, func(tx *Tx) ([]string, error) {
		return tx.index.Addresses(), nil
	})
}
