package ecs

import (
	"fmt"
	"sort"
)

// DeviceIndex maps external device addresses to internal entity ids.
//
// Each live address maps to exactly one live entity. Entries are added and
// removed only by the lifecycle operations, inside the same gateway unit as
// the corresponding Storage create/destroy, so a half-registered device is
// never observable.
type DeviceIndex struct {
	entries map[string]string
}

func newDeviceIndex() *DeviceIndex {
	return &DeviceIndex{entries: make(map[string]string)}
}

// Register maps a device address to an entity id.
// Returns ErrDuplicateDeviceID if the address is already mapped.
func (ix *DeviceIndex) Register(addr, entityID string) error {
	if _, exists := ix.entries[addr]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateDeviceID, addr)
	}
	ix.entries[addr] = entityID
	return nil
}

// Resolve returns the entity id mapped to the device address.
// Returns ErrUnknownDevice if the address is not mapped.
func (ix *DeviceIndex) Resolve(addr string) (string, error) {
	entityID, ok := ix.entries[addr]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDevice, addr)
	}
	return entityID, nil
}

// Unregister removes the mapping for a device address.
// Returns ErrUnknownDevice if the address is not mapped.
func (ix *DeviceIndex) Unregister(addr string) error {
	if _, ok := ix.entries[addr]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDevice, addr)
	}
	delete(ix.entries, addr)
	return nil
}

// Len returns the number of registered devices.
func (ix *DeviceIndex) Len() int {
	return len(ix.entries)
}

// Addresses returns all registered device addresses in sorted order.
func (ix *DeviceIndex) Addresses() []string {
	addrs := make([]string, 0, len(ix.entries))
	for addr := range ix.entries {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)
	return addrs
}

// Entries returns a copy of the address → entity id table.
func (ix *DeviceIndex) Entries() map[string]string {
	out := make(map[string]string, len(ix.entries))
	for addr, id := range ix.entries {
		out[addr] = id
	}
	return out
}
