package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/entitygraph/internal/entity"
)

// ErrorCode categorizes store errors.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates a missing identity, handle or entity.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrCodeNotFound indicates a lookup found no managed entity.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeDuplicateIdentity indicates NewEntity was called with an
	// identity the store already manages.
	ErrCodeDuplicateIdentity ErrorCode = "DUPLICATE_IDENTITY"

	// ErrCodeAlreadyAttached indicates a managed entity was attached twice.
	ErrCodeAlreadyAttached ErrorCode = "ALREADY_ATTACHED"

	// ErrCodeUnsupportedStrategy indicates a store was configured with an
	// unknown merge strategy. This is a programming error, never a data
	// error, and is classified as fatal.
	ErrCodeUnsupportedStrategy ErrorCode = "UNSUPPORTED_STRATEGY"
)

// Sentinel errors for use with errors.Is. Matching is by code only.
var (
	ErrInvalidArgument     = &Error{Code: ErrCodeInvalidArgument}
	ErrNotFound            = &Error{Code: ErrCodeNotFound}
	ErrDuplicateIdentity   = &Error{Code: ErrCodeDuplicateIdentity}
	ErrAlreadyAttached     = &Error{Code: ErrCodeAlreadyAttached}
	ErrUnsupportedStrategy = &Error{Code: ErrCodeUnsupportedStrategy}
)

// Error is the structured error returned by store operations.
//
// Failures are synchronous and never transient: they report caller misuse
// or a broken configuration. A failed operation leaves the store unchanged.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op names the failing operation, e.g. "merge".
	Op string

	// Message is a human-readable description.
	Message string

	// Identity is the identity involved, if any.
	Identity entity.Identity
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(string(e.Code))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if !e.Identity.IsZero() {
		fmt.Fprintf(&b, " (identity=%s)", e.Identity)
	}
	return b.String()
}

// Is matches any *Error with the same code, so sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// IsInvalidArgument reports whether err is a precondition failure.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsNotFound reports whether err is a lookup miss.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateIdentity reports whether err is a duplicate identity failure.
func IsDuplicateIdentity(err error) bool {
	return errors.Is(err, ErrDuplicateIdentity)
}

// IsFatal reports whether err signals broken internal state rather than
// caller misuse. Callers should not attempt to recover from fatal errors.
func IsFatal(err error) bool {
	return errors.Is(err, ErrUnsupportedStrategy)
}

// errorCode extracts the code from err, or "" if err is not an *Error.
func errorCode(err error) ErrorCode {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// resultLabel maps err to a metrics result label: the lower-cased code, or
// "error" for errors from outside this package.
func resultLabel(err error) string {
	if code := errorCode(err); code != "" {
		return strings.ToLower(string(code))
	}
	return "error"
}

func invalidArgument(op, message string) *Error {
	return &Error{Code: ErrCodeInvalidArgument, Op: op, Message: message}
}

func notFound(op string, id entity.Identity, message string) *Error {
	return &Error{Code: ErrCodeNotFound, Op: op, Message: message, Identity: id}
}

func duplicateIdentity(op string, id entity.Identity) *Error {
	return &Error{
		Code:     ErrCodeDuplicateIdentity,
		Op:       op,
		Message:  "an entity with the same identity is already managed by the store",
		Identity: id,
	}
}

func unsupportedStrategy(op string, s Strategy) *Error {
	return &Error{
		Code:    ErrCodeUnsupportedStrategy,
		Op:      op,
		Message: fmt.Sprintf("unsupported merge strategy %d", int(s)),
	}
}
