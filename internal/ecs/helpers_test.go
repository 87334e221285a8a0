package ecs

// Test fixtures shared across the package tests. A counter component, a
// label component, and an increment system that reaches its sibling counter
// through the lane: the smallest realistic device shape.

const (
	kindCounter = "counter"
	kindLabel   = "label"
	kindIncr    = "increment"
)

type counter struct {
	Base
	Value int
}

func newCounter() *counter {
	return &counter{Base: NewBase(kindCounter)}
}

type label struct {
	Base
	Text string
}

func newLabel(text string) *label {
	return &label{Base: NewBase(kindLabel), Text: text}
}

type incrementSystem struct {
	Base
}

func newIncrementSystem() *incrementSystem {
	return &incrementSystem{Base: NewBase(kindIncr)}
}

// Increment bumps the sibling counter via the lane and returns the new value.
func (s *incrementSystem) Increment(lane *Lane) (int, error) {
	var value int
	err := WithSiblingAs[*counter](lane, s, kindCounter, func(c *counter) error {
		c.Value++
		value = c.Value
		return nil
	})
	return value, err
}

// buildCounterDevice attaches a counter component and an increment system.
func buildCounterDevice(e *Entity) error {
	if err := e.AttachComponent(newCounter()); err != nil {
		return err
	}
	return e.AttachSystem(newIncrementSystem())
}
