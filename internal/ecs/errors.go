package ecs

import "errors"

// Domain errors for the ecs package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, ecs.ErrUnknownDevice) {
//	    // device was removed or never registered
//	}
var (
	// ErrDuplicateEntity is returned when creating an entity whose id already exists.
	ErrDuplicateEntity = errors.New("ecs: entity already exists")

	// ErrEntityNotFound is returned when an entity id does not exist.
	ErrEntityNotFound = errors.New("ecs: entity not found")

	// ErrComponentMissing is returned when an entity lacks the requested component kind.
	ErrComponentMissing = errors.New("ecs: component missing")

	// ErrSystemMissing is returned when an entity lacks the requested system kind.
	ErrSystemMissing = errors.New("ecs: system missing")

	// ErrDuplicateComponentKind is returned when attaching a component kind
	// that is already present on the entity.
	ErrDuplicateComponentKind = errors.New("ecs: component kind already attached")

	// ErrDuplicateSystemKind is returned when attaching a system kind that is
	// already present on the entity.
	ErrDuplicateSystemKind = errors.New("ecs: system kind already attached")

	// ErrKindMismatch is returned when a stored component or system does not
	// have the concrete type the caller asked for.
	ErrKindMismatch = errors.New("ecs: kind does not match requested type")

	// ErrDuplicateDeviceID is returned when registering a device address that
	// is already mapped.
	ErrDuplicateDeviceID = errors.New("ecs: device address already registered")

	// ErrUnknownDevice is returned when a device address is not mapped.
	ErrUnknownDevice = errors.New("ecs: unknown device")

	// ErrDetached is returned by lane operations when the caller has no owner
	// back-reference (created but never attached, or already detached).
	ErrDetached = errors.New("ecs: no owner back-reference")

	// ErrSiblingHeld is returned when a lane operation would create a second
	// live sibling handle on the same lane.
	ErrSiblingHeld = errors.New("ecs: sibling handle already held")

	// ErrGatewayFault is returned to the caller when a unit of work panicked.
	// The recovered cause is included in the wrapped message.
	ErrGatewayFault = errors.New("ecs: unit of work faulted")

	// ErrRuntimeClosed is returned when submitting work to a closed runtime.
	ErrRuntimeClosed = errors.New("ecs: runtime closed")

	// ErrAlreadyInitialized is returned by Init when the process-wide runtime
	// has already been created.
	ErrAlreadyInitialized = errors.New("ecs: runtime already initialised")

	// ErrNotInitialized is returned by Default before Init has been called.
	ErrNotInitialized = errors.New("ecs: runtime not initialised")

	// ErrKindRegistered is returned when registering a factory for a kind
	// that already has one.
	ErrKindRegistered = errors.New("ecs: kind already registered")

	// ErrKindUnknown is returned when no factory is registered for a kind.
	ErrKindUnknown = errors.New("ecs: kind not registered")
)
