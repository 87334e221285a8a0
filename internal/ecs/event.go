package ecs

import "time"

// EventType discriminates runtime lifecycle events.
type EventType string

// Runtime event types.
const (
	EventDeviceRegistered EventType = "device_registered"
	EventDeviceDestroyed  EventType = "device_destroyed"
	EventUnitFaulted      EventType = "unit_faulted"
)

// Event describes a lifecycle transition or fault observed by the runtime.
// Lifecycle events are emitted from inside the gateway unit that performed
// the transition, so consumers receive them in the order the transitions
// were applied to Storage. Fault events are emitted by the submitting
// caller and carry no ordering guarantee relative to other events.
type Event struct {
	Type     EventType `json:"type"`
	DeviceID string    `json:"device_id,omitempty"`
	EntityID string    `json:"entity_id,omitempty"`
	Error    string    `json:"error,omitempty"`
	Time     time.Time `json:"time"`
}

// Emitter receives runtime events. Implementations must not block: Emit is
// called from the gateway goroutine and from submit paths.
type Emitter interface {
	Emit(Event)
}

// noopEmitter discards events. Used when no emitter is configured.
type noopEmitter struct{}

func (noopEmitter) Emit(Event) {}
