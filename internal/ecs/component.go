package ecs

// Meta carries the identity every component and system needs inside the
// runtime: its kind label and, once attached, the id of the owning entity.
//
// The owner field is a non-owning back-reference. It is set by the entity on
// attach and cleared on detach; nothing else may write it.
type Meta struct {
	kind  string
	owner string
}

// NewMeta returns metadata for the given kind with no owner set.
func NewMeta(kind string) Meta {
	return Meta{kind: kind}
}

// Kind returns the kind label. Kinds are immutable after construction and
// unique per entity: a given kind appears at most once on an entity.
func (m *Meta) Kind() string {
	return m.kind
}

// Owner returns the owning entity id and whether the value is attached.
func (m *Meta) Owner() (string, bool) {
	return m.owner, m.owner != ""
}

func (m *Meta) setOwner(entityID string) {
	m.owner = entityID
}

func (m *Meta) clearOwner() {
	m.owner = ""
}

// Component is a labelled mutable data bag attached to at most one entity
// at a time. Concrete components embed Base and add payload fields.
type Component interface {
	Meta() *Meta
}

// System is structurally identical to a component but represents behaviour:
// it is invoked to perform logic, typically touching sibling components
// through a Lane, rather than holding pure data.
type System interface {
	Meta() *Meta
}

// Owned is anything carrying runtime metadata. Both components and systems
// satisfy it; lane operations accept either.
type Owned interface {
	Meta() *Meta
}

// Base is the canonical Meta carrier. Embed it in component and system
// types:
//
//	type Counter struct {
//	    ecs.Base
//	    Value int
//	}
//
//	func NewCounter() *Counter {
//	    return &Counter{Base: ecs.NewBase("counter")}
//	}
type Base struct {
	meta Meta
}

// NewBase returns a Base for the given kind.
func NewBase(kind string) Base {
	return Base{meta: NewMeta(kind)}
}

// Meta returns the embedded runtime metadata.
func (b *Base) Meta() *Meta {
	return &b.meta
}
