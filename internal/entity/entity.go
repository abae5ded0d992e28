package entity

// Node is the property/value iteration contract shared by bare and managed
// entities. Properties must be iterable without side effects.
type Node interface {
	Identity() Identity
	Properties() []Property
}

// Entity is a bare, unmanaged graph node: an identity plus properties.
//
// An Entity may reference other entities, forming a directed and possibly
// cyclic graph. Entities are not safe for concurrent mutation; a graph handed
// to a store is assumed to be owned by the calling goroutine for the
// duration of the call.
type Entity struct {
	identity Identity
	order    []Predicate // first-insertion order of predicates
	props    map[Predicate][]Value
}

// New creates an entity with no properties.
func New(identity Identity) *Entity {
	return &Entity{
		identity: identity,
		props:    make(map[Predicate][]Value),
	}
}

// Identity returns the entity's identity.
func (e *Entity) Identity() Identity {
	return e.identity
}

// Add appends a value to the property keyed by predicate.
// Returns false if the value was already present, or if the predicate or
// value is empty.
func (e *Entity) Add(predicate Predicate, v Value) bool {
	if predicate.IsZero() || v == nil {
		return false
	}
	switch val := v.(type) {
	case Literal:
		if val.IsZero() {
			return false
		}
	case Reference:
		if val.IsZero() {
			return false
		}
	}
	values, seen := e.props[predicate]
	if containsValue(values, v) {
		return false
	}
	if !seen {
		e.order = append(e.order, predicate)
	}
	e.props[predicate] = append(values, v)
	return true
}

// AddLiteral appends a literal value.
func (e *Entity) AddLiteral(predicate Predicate, lit Literal) bool {
	return e.Add(predicate, lit)
}

// AddReference appends a reference to another bare entity.
func (e *Entity) AddReference(predicate Predicate, target *Entity) bool {
	return e.Add(predicate, Ref(target))
}

// AddReferenceTo appends an identity-only reference.
func (e *Entity) AddReferenceTo(predicate Predicate, target Identity) bool {
	return e.Add(predicate, RefTo(target))
}

// Remove drops a value from the property keyed by predicate.
// A property left without values is removed entirely.
func (e *Entity) Remove(predicate Predicate, v Value) bool {
	values, ok := e.props[predicate]
	if !ok {
		return false
	}
	for i, existing := range values {
		if SameValue(existing, v) {
			e.setValues(predicate, append(values[:i:i], values[i+1:]...))
			return true
		}
	}
	return false
}

// RemoveReferencesTo drops every reference to target across all properties
// and returns how many values were removed.
func (e *Entity) RemoveReferencesTo(target Identity) int {
	removed := 0
	for _, predicate := range append([]Predicate(nil), e.order...) {
		values := e.props[predicate]
		kept := values[:0:0]
		for _, v := range values {
			if ref, ok := v.(Reference); ok && ref.target == target {
				removed++
				continue
			}
			kept = append(kept, v)
		}
		if len(kept) != len(values) {
			e.setValues(predicate, kept)
		}
	}
	return removed
}

// Properties returns copies of all properties in first-insertion order.
func (e *Entity) Properties() []Property {
	out := make([]Property, 0, len(e.order))
	for _, predicate := range e.order {
		out = append(out, e.property(predicate))
	}
	return out
}

// Property returns a copy of the property keyed by predicate.
func (e *Entity) Property(predicate Predicate) (Property, bool) {
	if _, ok := e.props[predicate]; !ok {
		return Property{}, false
	}
	return e.property(predicate), true
}

// Len returns the number of properties.
func (e *Entity) Len() int {
	return len(e.order)
}

// ValueCount returns the total number of values across all properties.
func (e *Entity) ValueCount() int {
	n := 0
	for _, values := range e.props {
		n += len(values)
	}
	return n
}

func (e *Entity) property(predicate Predicate) Property {
	values := e.props[predicate]
	cp := make([]Value, len(values))
	copy(cp, values)
	return Property{predicate: predicate, values: cp}
}

// setValues replaces a property's values, deleting it when empty.
func (e *Entity) setValues(predicate Predicate, values []Value) {
	if len(values) > 0 {
		e.props[predicate] = values
		return
	}
	delete(e.props, predicate)
	for i, p := range e.order {
		if p == predicate {
			e.order = append(e.order[:i:i], e.order[i+1:]...)
			break
		}
	}
}
