package graphdoc

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Error codes for document failures.
const (
	ErrCodeSyntax    = "E001" // malformed YAML or CUE
	ErrCodeEmpty     = "E002" // no entities
	ErrCodeID        = "E003" // missing or malformed entity id
	ErrCodeDuplicate = "E004" // entity id listed twice
	ErrCodePredicate = "E005" // missing predicate
	ErrCodeValue     = "E006" // value is neither a literal nor a ref, or both
	ErrCodeLiteral   = "E007" // literal does not parse as its datatype
	ErrCodeRoot      = "E008" // root does not name a listed entity
	ErrCodeFormat    = "E009" // unsupported file extension
)

// Error is a document error. Field is a path such as
// "entities[1].properties[0].values[2]".
type Error struct {
	Code    string
	Field   string
	Message string
	Pos     token.Pos // CUE source position, if known
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: [%s] %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Code, e.Field, e.Message)
	}
	if e.Field == "" {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// formatCUEError converts the first CUE error into an *Error with its
// source position.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &Error{Code: ErrCodeSyntax, Field: "cue", Message: err.Error()}
	}
	first := errs[0]
	out := &Error{Code: ErrCodeSyntax, Field: "cue", Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		out.Pos = positions[0]
	}
	return out
}
