package store

import (
	"fmt"
	"strings"
)

// Strategy selects how Merge absorbs an unmanaged entity graph.
type Strategy int

const (
	// ByIdentity resolves identity only. An existing entity is returned
	// unchanged; the input's values are never copied onto it. An absent
	// identity yields a new, empty managed entity.
	ByIdentity Strategy = iota + 1

	// ByReference attaches the input. An existing, distinct entity has the
	// input's properties joined into it (shallow: references are copied by
	// identity and not followed). An absent identity registers a managed copy
	// of the input.
	ByReference

	// ByValue deep-merges the graph reachable from the input, breadth first,
	// creating surrogates for unknown referenced identities. Each distinct
	// reachable identity is visited exactly once, so cyclic graphs terminate.
	ByValue
)

// DefaultStrategy is used when no strategy option is given.
const DefaultStrategy = ByValue

var strategyNames = map[Strategy]string{
	ByIdentity:  "identity",
	ByReference: "reference",
	ByValue:     "value",
}

// Strategies lists the supported strategies.
var Strategies = []Strategy{ByIdentity, ByReference, ByValue}

// ParseStrategy parses a strategy name: identity, reference or value.
// Unknown names yield INVALID_ARGUMENT.
func ParseStrategy(s string) (Strategy, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for strategy, n := range strategyNames {
		if n == name {
			return strategy, nil
		}
	}
	return 0, invalidArgument("parse_strategy",
		fmt.Sprintf("unknown merge strategy %q: must be one of identity, reference, value", s))
}

// String returns the strategy name.
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// IsValid reports whether s is a supported strategy.
func (s Strategy) IsValid() bool {
	_, ok := strategyNames[s]
	return ok
}
