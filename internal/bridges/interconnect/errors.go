package interconnect

import "errors"

// Domain-specific errors for the interconnect bridge.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrBadAnnounce is returned when an announce payload cannot be used.
	ErrBadAnnounce = errors.New("interconnect: malformed announce message")

	// ErrBadCommand is returned when a command payload or topic cannot be used.
	ErrBadCommand = errors.New("interconnect: malformed command message")

	// ErrNoCommandHandler is returned when no system on the target device
	// accepts commands.
	ErrNoCommandHandler = errors.New("interconnect: device has no command handler")
)
