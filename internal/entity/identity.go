package entity

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// IdentityKind distinguishes how an identity was minted.
type IdentityKind uint8

const (
	// KindExternal identifies an entity by an IRI-like name.
	KindExternal IdentityKind = iota + 1
	// KindLocal identifies an entity by a namespace plus a local key.
	KindLocal
)

// localPrefix marks the string form of a local identity.
const localPrefix = "local:"

// String returns the kind name.
func (k IdentityKind) String() string {
	switch k {
	case KindExternal:
		return "external"
	case KindLocal:
		return "local"
	default:
		return "unknown"
	}
}

// Identity is an opaque key distinguishing one entity from another.
// Two entities with equal identity denote the same logical node.
//
// The zero Identity is invalid; see IsZero.
type Identity struct {
	kind      IdentityKind
	namespace string
	key       string
}

// External creates an identity from an IRI-like name.
// Surrounding whitespace is trimmed and the name is NFC normalized.
// An empty name yields the zero Identity.
func External(iri string) Identity {
	iri = normalize(iri)
	if iri == "" {
		return Identity{}
	}
	return Identity{kind: KindExternal, key: iri}
}

// Local creates an identity scoped to a namespace, e.g. a resource class
// plus an application-level key. The key is formatted with fmt.Sprint.
// An empty namespace or key yields the zero Identity.
func Local(namespace string, key any) Identity {
	namespace = normalize(namespace)
	k := normalize(fmt.Sprint(key))
	if namespace == "" || k == "" {
		return Identity{}
	}
	return Identity{kind: KindLocal, namespace: namespace, key: k}
}

// ParseIdentity parses the String form of an identity.
// "local:<namespace>#<key>" yields a local identity; anything else is
// treated as an external name.
func ParseIdentity(s string) (Identity, error) {
	s = normalize(s)
	if s == "" {
		return Identity{}, fmt.Errorf("empty identity")
	}
	if rest, ok := strings.CutPrefix(s, localPrefix); ok {
		ns, key, found := strings.Cut(rest, "#")
		if !found || ns == "" || key == "" {
			return Identity{}, fmt.Errorf("malformed local identity %q: want local:<namespace>#<key>", s)
		}
		return Local(ns, key), nil
	}
	return External(s), nil
}

// MustParseIdentity is like ParseIdentity but panics on error.
// Use only in tests or with known-good input.
func MustParseIdentity(s string) Identity {
	id, err := ParseIdentity(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Kind returns how the identity was minted.
func (i Identity) Kind() IdentityKind {
	return i.kind
}

// Namespace returns the namespace of a local identity, or "" otherwise.
func (i Identity) Namespace() string {
	return i.namespace
}

// Key returns the IRI of an external identity or the key of a local one.
func (i Identity) Key() string {
	return i.key
}

// IsZero reports whether the identity is unset.
func (i Identity) IsZero() bool {
	return i.kind == 0 || i.key == ""
}

// String returns a stable textual form accepted by ParseIdentity.
func (i Identity) String() string {
	switch i.kind {
	case KindExternal:
		return i.key
	case KindLocal:
		return localPrefix + i.namespace + "#" + i.key
	default:
		return ""
	}
}

// Compare orders identities by kind, then namespace, then key.
// Suitable for slices.SortFunc.
func (i Identity) Compare(other Identity) int {
	if i.kind != other.kind {
		if i.kind < other.kind {
			return -1
		}
		return 1
	}
	if c := strings.Compare(i.namespace, other.namespace); c != 0 {
		return c
	}
	return strings.Compare(i.key, other.key)
}

// Predicate is a URI-like token keying a property.
type Predicate string

// NewPredicate creates a predicate, trimming whitespace and applying NFC.
func NewPredicate(s string) Predicate {
	return Predicate(normalize(s))
}

// String returns the predicate text.
func (p Predicate) String() string {
	return string(p)
}

// IsZero reports whether the predicate is empty.
func (p Predicate) IsZero() bool {
	return p == ""
}

func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
