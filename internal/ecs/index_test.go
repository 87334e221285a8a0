package ecs

import (
	"errors"
	"testing"
)

func TestDeviceIndex_RegisterResolve(t *testing.T) {
	ix := newDeviceIndex()

	if err := ix.Register("AA:BB:CC:DD", "e1"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	id, err := ix.Resolve("AA:BB:CC:DD")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if id != "e1" {
		t.Errorf("Resolve() = %q, want %q", id, "e1")
	}
}

func TestDeviceIndex_RegisterDuplicate(t *testing.T) {
	ix := newDeviceIndex()
	if err := ix.Register("AA:BB:CC:DD", "e1"); err != nil {
		t.Fatal(err)
	}

	err := ix.Register("AA:BB:CC:DD", "e2")
	if !errors.Is(err, ErrDuplicateDeviceID) {
		t.Errorf("duplicate Register() error = %v, want ErrDuplicateDeviceID", err)
	}

	// Original mapping untouched.
	if id, _ := ix.Resolve("AA:BB:CC:DD"); id != "e1" {
		t.Errorf("Resolve() after failed register = %q, want %q", id, "e1")
	}
}

func TestDeviceIndex_Unregister(t *testing.T) {
	ix := newDeviceIndex()
	if err := ix.Register("AA:BB:CC:DD", "e1"); err != nil {
		t.Fatal(err)
	}

	if err := ix.Unregister("AA:BB:CC:DD"); err != nil {
		t.Fatalf("Unregister() error = %v", err)
	}
	if _, err := ix.Resolve("AA:BB:CC:DD"); !errors.Is(err, ErrUnknownDevice) {
		t.Errorf("Resolve() after unregister error = %v, want ErrUnknownDevice", err)
	}
	if err := ix.Unregister("AA:BB:CC:DD"); !errors.Is(err, ErrUnknownDevice) {
		t.Errorf("second Unregister() error = %v, want ErrUnknownDevice", err)
	}
}

func TestDeviceIndex_EntriesIsCopy(t *testing.T) {
	ix := newDeviceIndex()
	if err := ix.Register("a", "e1"); err != nil {
		t.Fatal(err)
	}

	entries := ix.Entries()
	entries["a"] = "tampered"
	entries["b"] = "injected"

	if id, _ := ix.Resolve("a"); id != "e1" {
		t.Errorf("Resolve() after tampering with copy = %q, want %q", id, "e1")
	}
	if ix.Len() != 1 {
		t.Errorf("Len() = %d, want 1", ix.Len())
	}
}
