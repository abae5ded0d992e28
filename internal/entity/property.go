package entity

// Property is a predicate-scoped, ordered collection of distinct values.
// Property is a read-only view; copies returned by Entity never alias the
// entity's internal storage.
type Property struct {
	predicate Predicate
	values    []Value
}

// NewProperty creates a property view over the given values.
// Duplicates are dropped, keeping the first occurrence.
func NewProperty(predicate Predicate, values ...Value) Property {
	p := Property{predicate: predicate}
	for _, v := range values {
		if !containsValue(p.values, v) {
			p.values = append(p.values, v)
		}
	}
	return p
}

// Predicate returns the predicate keying this property.
func (p Property) Predicate() Predicate {
	return p.predicate
}

// Len returns the number of values.
func (p Property) Len() int {
	return len(p.values)
}

// Values returns all values in insertion order.
func (p Property) Values() []Value {
	out := make([]Value, len(p.values))
	copy(out, p.values)
	return out
}

// Literals returns the literal values in insertion order.
func (p Property) Literals() []Literal {
	var out []Literal
	for _, v := range p.values {
		if lit, ok := v.(Literal); ok {
			out = append(out, lit)
		}
	}
	return out
}

// References returns the entity-reference values in insertion order.
func (p Property) References() []Reference {
	var out []Reference
	for _, v := range p.values {
		if ref, ok := v.(Reference); ok {
			out = append(out, ref)
		}
	}
	return out
}

// Has reports whether the property holds a value equal to v.
func (p Property) Has(v Value) bool {
	return containsValue(p.values, v)
}

// Refers reports whether any value references the given identity.
func (p Property) Refers(target Identity) bool {
	return containsValue(p.values, RefTo(target))
}

func containsValue(values []Value, v Value) bool {
	for _, existing := range values {
		if SameValue(existing, v) {
			return true
		}
	}
	return false
}
