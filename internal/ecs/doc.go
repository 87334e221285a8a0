// Package ecs implements the device runtime for Gray Logic Runtime.
//
// Every addressable device is modelled as an entity: a bundle of components
// (mutable data bags) and systems (behaviour units), each attached at most
// once per kind. The Device Index maps external device addresses to entity
// ids, and Storage holds the canonical entity table.
//
// # Access model
//
// All reads and mutations of runtime state happen on a single dedicated
// goroutine, the gateway. External callers never touch Storage directly;
// they submit a unit of work and wait for the result:
//
//	total, err := ecs.SubmitDevice(ctx, rt, "AA:BB:CC:DD",
//	    func(e *ecs.Entity, lane *ecs.Lane) (int, error) {
//	        c, err := ecs.ComponentAs[*Counter](e, "counter")
//	        if err != nil {
//	            return 0, err
//	        }
//	        c.Value++
//	        return c.Value, nil
//	    })
//
// Units of work run strictly in submission order and never interleave. A
// unit must not block on I/O or submit further work to the same runtime;
// doing so starves or deadlocks the gateway. Components and systems that
// need to reach siblings on their own entity use the Lane handed to the
// unit of work instead of re-entering the gateway.
//
// A panic inside a unit of work is recovered and reported to the caller as
// ErrGatewayFault; subsequent units observe uncorrupted state.
//
// # Ownership
//
// The Runtime exclusively owns Storage and the Device Index. Storage owns
// all entities; each entity owns its attached components and systems.
// Components and systems carry only a non-owning back-reference (the owner
// entity id) set on attach and cleared on detach. Live references obtained
// inside a unit of work must not escape it.
package ecs
