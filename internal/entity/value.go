package entity

// Value is a sealed interface over property values.
// Only Literal and Reference implement it.
type Value interface {
	isValue() // Sealed
	String() string
}

// Reference is an entity-reference property value.
//
// A reference always names its target identity. References built from a
// bare entity also carry that entity so an unmanaged graph can be walked;
// references held by managed entities carry the identity only and are
// resolved through the owning store.
type Reference struct {
	target Identity
	node   *Entity
}

func (Reference) isValue() {}

// Ref creates a reference to a bare entity.
func Ref(target *Entity) Reference {
	if target == nil {
		return Reference{}
	}
	return Reference{target: target.identity, node: target}
}

// RefTo creates an identity-only reference.
func RefTo(target Identity) Reference {
	return Reference{target: target}
}

// Identity returns the identity of the referenced entity.
func (r Reference) Identity() Identity {
	return r.target
}

// Entity returns the bare entity the reference was built from, if any.
func (r Reference) Entity() (*Entity, bool) {
	return r.node, r.node != nil
}

// Detached returns an identity-only copy of the reference.
func (r Reference) Detached() Reference {
	return Reference{target: r.target}
}

// IsZero reports whether the reference names no target.
func (r Reference) IsZero() bool {
	return r.target.IsZero()
}

// String renders the reference as <identity>.
func (r Reference) String() string {
	return "<" + r.target.String() + ">"
}

// SameValue reports whether two values are equal: literals by datatype and
// lexical form, references by target identity.
func SameValue(a, b Value) bool {
	switch av := a.(type) {
	case Literal:
		bv, ok := b.(Literal)
		return ok && av == bv
	case Reference:
		bv, ok := b.(Reference)
		return ok && av.target == bv.target
	default:
		return false
	}
}
