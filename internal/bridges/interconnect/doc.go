// Package interconnect bridges the runtime onto the MQTT interconnect.
//
// Inbound, it consumes two topic families:
//
//	{prefix}/discovery/announce        device announcements; each announce
//	                                   registers a device and builds its
//	                                   components and systems by kind label
//	{prefix}/device/{address}/command  commands routed to a device's systems
//
// Outbound, it republishes runtime lifecycle events from the event bus on
// {prefix}/runtime/event so other services can follow registrations,
// destructions, and faults.
//
// The bridge holds no state of its own. Everything it learns from the wire
// is handed to the runtime through gateway units; everything it publishes
// comes off the event bus.
package interconnect
