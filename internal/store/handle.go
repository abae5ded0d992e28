package store

import (
	"github.com/google/uuid"
)

// Handle is the store-internal token assigned to an entity on admission.
// Handles are random; their order carries no meaning.
type Handle uuid.UUID

// ParseHandle parses the canonical UUID text form of a handle.
func ParseHandle(s string) (Handle, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Handle{}, err
	}
	return Handle(u), nil
}

// String returns the canonical UUID text form.
func (h Handle) String() string {
	return uuid.UUID(h).String()
}

// IsZero reports whether the handle is unset.
func (h Handle) IsZero() bool {
	return uuid.UUID(h) == uuid.Nil
}

// HandleSource produces candidate handles. The store probes each candidate
// against its handle index and asks again on collision, so a source need
// not guarantee uniqueness; it must eventually yield an unused handle.
//
// Implemented by RandomHandles (production) and testutil.ScriptedHandles
// (tests).
type HandleSource interface {
	NextHandle() Handle
}

// RandomHandles draws version 4 UUIDs from crypto/rand.
//
// Thread-safety: RandomHandles is stateless and safe for concurrent use.
type RandomHandles struct{}

// NextHandle returns a random handle.
func (RandomHandles) NextHandle() Handle {
	return Handle(uuid.New())
}
