package ecs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

func TestRegisterDevice_ResolveUntilDestroyed(t *testing.T) {
	rt := New()
	defer rt.Close()

	ctx := context.Background()
	entityID, err := rt.RegisterDevice(ctx, "AA:BB:CC:DD", buildCounterDevice)
	if err != nil {
		t.Fatalf("RegisterDevice() error = %v", err)
	}

	resolved, err := rt.ResolveDevice(ctx, "AA:BB:CC:DD")
	if err != nil {
		t.Fatalf("ResolveDevice() error = %v", err)
	}
	if resolved != entityID {
		t.Errorf("ResolveDevice() = %q, want %q", resolved, entityID)
	}

	if err := rt.DestroyDevice(ctx, "AA:BB:CC:DD"); err != nil {
		t.Fatalf("DestroyDevice() error = %v", err)
	}

	if _, err := rt.ResolveDevice(ctx, "AA:BB:CC:DD"); !errors.Is(err, ErrUnknownDevice) {
		t.Errorf("ResolveDevice() after destroy error = %v, want ErrUnknownDevice", err)
	}
}

func TestRegisterDevice_DuplicateAddress(t *testing.T) {
	rt := New()
	defer rt.Close()

	ctx := context.Background()
	if _, err := rt.RegisterDevice(ctx, "AA:BB:CC:DD", nil); err != nil {
		t.Fatal(err)
	}

	_, err := rt.RegisterDevice(ctx, "AA:BB:CC:DD", nil)
	if !errors.Is(err, ErrDuplicateDeviceID) {
		t.Errorf("duplicate RegisterDevice() error = %v, want ErrDuplicateDeviceID", err)
	}
}

func TestRegisterDevice_BuildFailureRollsBack(t *testing.T) {
	rt := New()
	defer rt.Close()

	ctx := context.Background()
	buildErr := errors.New("driver refused")

	_, err := rt.RegisterDevice(ctx, "AA:BB:CC:DD", func(e *Entity) error {
		if attachErr := e.AttachComponent(newCounter()); attachErr != nil {
			return attachErr
		}
		return buildErr
	})
	if !errors.Is(err, buildErr) {
		t.Fatalf("RegisterDevice() error = %v, want %v", err, buildErr)
	}

	// Nothing half-registered: address unmapped, storage empty.
	if _, err := rt.ResolveDevice(ctx, "AA:BB:CC:DD"); !errors.Is(err, ErrUnknownDevice) {
		t.Errorf("ResolveDevice() after failed build error = %v, want ErrUnknownDevice", err)
	}
	count, err := Submit(ctx, rt, func(tx *Tx) (int, error) {
		return tx.Storage().Len(), nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("storage Len() after failed build = %d, want 0", count)
	}
}

func TestDestroyDevice_Unknown(t *testing.T) {
	rt := New()
	defer rt.Close()

	err := rt.DestroyDevice(context.Background(), "00:00:00:00")
	if !errors.Is(err, ErrUnknownDevice) {
		t.Errorf("DestroyDevice(unknown) error = %v, want ErrUnknownDevice", err)
	}
}

func TestDeviceAddresses_Sorted(t *testing.T) {
	rt := New()
	defer rt.Close()

	ctx := context.Background()
	for _, addr := range []string{"cc", "aa", "bb"} {
		if _, err := rt.RegisterDevice(ctx, addr, nil); err != nil {
			t.Fatal(err)
		}
	}

	addrs, err := rt.DeviceAddresses(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"aa", "bb", "cc"}
	if len(addrs) != len(want) {
		t.Fatalf("DeviceAddresses() = %v, want %v", addrs, want)
	}
	for i := range want {
		if addrs[i] != want[i] {
			t.Fatalf("DeviceAddresses() = %v, want %v", addrs, want)
		}
	}
}

func TestLifecycle_EmitsEvents(t *testing.T) {
	var events []Event
	sink := emitterFunc(func(ev Event) { events = append(events, ev) })

	rt := New(WithEmitter(sink))
	defer rt.Close()

	ctx := context.Background()
	entityID, err := rt.RegisterDevice(ctx, "dev-1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := rt.DestroyDevice(ctx, "dev-1"); err != nil {
		t.Fatal(err)
	}

	if len(events) != 2 {
		t.Fatalf("emitted %d events, want 2", len(events))
	}
	if events[0].Type != EventDeviceRegistered || events[0].EntityID != entityID {
		t.Errorf("first event = %+v, want device_registered for %q", events[0], entityID)
	}
	if events[1].Type != EventDeviceDestroyed || events[1].DeviceID != "dev-1" {
		t.Errorf("second event = %+v, want device_destroyed for dev-1", events[1])
	}
}

func TestLifecycle_EventsFollowStorageOrder(t *testing.T) {
	var events []Event
	sink := emitterFunc(func(ev Event) { events = append(events, ev) })

	rt := New(WithEmitter(sink))

	// Registration and destruction race from separate callers. Events are
	// emitted inside the gateway unit, so for every device the registration
	// event must reach the sink before the destruction event.
	ctx := context.Background()
	const n = 25
	for i := 0; i < n; i++ {
		addr := fmt.Sprintf("dev-%d", i)
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := rt.RegisterDevice(ctx, addr, nil); err != nil {
				t.Errorf("RegisterDevice(%q) error = %v", addr, err)
			}
		}()
		go func() {
			defer wg.Done()
			for {
				err := rt.DestroyDevice(ctx, addr)
				if err == nil {
					return
				}
				if !errors.Is(err, ErrUnknownDevice) {
					t.Errorf("DestroyDevice(%q) error = %v", addr, err)
					return
				}
			}
		}()
		wg.Wait()
	}
	rt.Close()

	if len(events) != 2*n {
		t.Fatalf("emitted %d events, want %d", len(events), 2*n)
	}
	last := make(map[string]EventType, n)
	for _, ev := range events {
		if ev.Type == EventDeviceDestroyed && last[ev.DeviceID] != EventDeviceRegistered {
			t.Errorf("destruction event for %q arrived before its registration event", ev.DeviceID)
		}
		last[ev.DeviceID] = ev.Type
	}
}

// emitterFunc adapts a function to the Emitter interface.
type emitterFunc func(Event)

func (f emitterFunc) Emit(ev Event) { f(ev) }

// TestScenario_CounterDevice walks the full documented scenario: register a
// device with a counter at zero, run ten increments through the system's
// lane, read back ten, destroy, and observe the address unmapped.
func TestScenario_CounterDevice(t *testing.T) {
	rt := New()
	defer rt.Close()

	ctx := context.Background()
	if _, err := rt.RegisterDevice(ctx, "AA:BB:CC:DD", buildCounterDevice); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		_, err := SubmitDevice(ctx, rt, "AA:BB:CC:DD", func(e *Entity, lane *Lane) (int, error) {
			sys, err := SystemAs[*incrementSystem](e, kindIncr)
			if err != nil {
				return 0, err
			}
			return sys.Increment(lane)
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	final, err := SubmitDevice(ctx, rt, "AA:BB:CC:DD", func(e *Entity, _ *Lane) (int, error) {
		c, err := ComponentAs[*counter](e, kindCounter)
		if err != nil {
			return 0, err
		}
		return c.Value, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if final != 10 {
		t.Errorf("final counter = %d, want 10", final)
	}

	if err := rt.DestroyDevice(ctx, "AA:BB:CC:DD"); err != nil {
		t.Fatal(err)
	}
	if _, err := rt.ResolveDevice(ctx, "AA:BB:CC:DD"); !errors.Is(err, ErrUnknownDevice) {
		t.Errorf("ResolveDevice() after destroy error = %v, want ErrUnknownDevice", err)
	}
}
