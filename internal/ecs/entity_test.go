package ecs

import (
	"errors"
	"testing"
)

func TestEntity_AttachDetachRoundTrip(t *testing.T) {
	e := newEntity("e1")
	c := newCounter()
	c.Value = 42

	if err := e.AttachComponent(c); err != nil {
		t.Fatalf("AttachComponent() error = %v", err)
	}

	if owner, ok := c.Meta().Owner(); !ok || owner != "e1" {
		t.Errorf("owner after attach = %q, %v; want %q, true", owner, ok, "e1")
	}

	detached, err := e.DetachComponent(kindCounter)
	if err != nil {
		t.Fatalf("DetachComponent() error = %v", err)
	}

	got, ok := detached.(*counter)
	if !ok {
		t.Fatalf("detached component is %T, want *counter", detached)
	}
	if got.Value != 42 {
		t.Errorf("detached counter value = %d, want 42", got.Value)
	}
	if _, ok := got.Meta().Owner(); ok {
		t.Error("owner back-reference still set after detach")
	}
	if e.HasComponent(kindCounter) {
		t.Error("entity still has counter kind after detach")
	}
}

func TestEntity_AttachDuplicateKind(t *testing.T) {
	e := newEntity("e1")
	if err := e.AttachComponent(newCounter()); err != nil {
		t.Fatalf("first AttachComponent() error = %v", err)
	}

	err := e.AttachComponent(newCounter())
	if !errors.Is(err, ErrDuplicateComponentKind) {
		t.Errorf("second AttachComponent() error = %v, want ErrDuplicateComponentKind", err)
	}
}

func TestEntity_ComponentMissing(t *testing.T) {
	e := newEntity("e1")

	if _, err := e.Component(kindCounter); !errors.Is(err, ErrComponentMissing) {
		t.Errorf("Component() error = %v, want ErrComponentMissing", err)
	}
	if _, err := e.DetachComponent(kindCounter); !errors.Is(err, ErrComponentMissing) {
		t.Errorf("DetachComponent() error = %v, want ErrComponentMissing", err)
	}
}

func TestEntity_SystemSlots(t *testing.T) {
	e := newEntity("e1")
	if err := e.AttachSystem(newIncrementSystem()); err != nil {
		t.Fatalf("AttachSystem() error = %v", err)
	}

	if err := e.AttachSystem(newIncrementSystem()); !errors.Is(err, ErrDuplicateSystemKind) {
		t.Errorf("duplicate AttachSystem() error = %v, want ErrDuplicateSystemKind", err)
	}

	s, err := e.System(kindIncr)
	if err != nil {
		t.Fatalf("System() error = %v", err)
	}
	if owner, ok := s.Meta().Owner(); !ok || owner != "e1" {
		t.Errorf("system owner = %q, %v; want %q, true", owner, ok, "e1")
	}

	if _, err := e.System("nope"); !errors.Is(err, ErrSystemMissing) {
		t.Errorf("System(nope) error = %v, want ErrSystemMissing", err)
	}
}

func TestEntity_KindListings(t *testing.T) {
	e := newEntity("e1")
	if err := e.AttachComponent(newLabel("lamp")); err != nil {
		t.Fatal(err)
	}
	if err := e.AttachComponent(newCounter()); err != nil {
		t.Fatal(err)
	}

	kinds := e.ComponentKinds()
	if len(kinds) != 2 || kinds[0] != kindCounter || kinds[1] != kindLabel {
		t.Errorf("ComponentKinds() = %v, want sorted [counter label]", kinds)
	}
}

func TestComponentAs_KindMismatch(t *testing.T) {
	e := newEntity("e1")
	if err := e.AttachComponent(newCounter()); err != nil {
		t.Fatal(err)
	}

	if _, err := ComponentAs[*label](e, kindCounter); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("ComponentAs[*label]() error = %v, want ErrKindMismatch", err)
	}

	c, err := ComponentAs[*counter](e, kindCounter)
	if err != nil {
		t.Fatalf("ComponentAs[*counter]() error = %v", err)
	}
	if c.Meta().Kind() != kindCounter {
		t.Errorf("kind = %q, want %q", c.Meta().Kind(), kindCounter)
	}
}

func TestDetachComponentAs_MismatchKeepsAttachment(t *testing.T) {
	e := newEntity("e1")
	if err := e.AttachComponent(newCounter()); err != nil {
		t.Fatal(err)
	}

	if _, err := DetachComponentAs[*label](e, kindCounter); !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("DetachComponentAs[*label]() error = %v, want ErrKindMismatch", err)
	}
	if !e.HasComponent(kindCounter) {
		t.Error("component detached despite kind mismatch")
	}

	c, err := DetachComponentAs[*counter](e, kindCounter)
	if err != nil {
		t.Fatalf("DetachComponentAs[*counter]() error = %v", err)
	}
	if _, ok := c.Meta().Owner(); ok {
		t.Error("owner still set after typed detach")
	}
}
