package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/entitygraph/internal/graphdoc"
	"github.com/roach88/entitygraph/internal/store"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Strategy is the store's merge strategy name. Default: value.
	Strategy string `yaml:"strategy,omitempty"`

	// Setup steps establish initial state and must succeed.
	Setup []Step `yaml:"setup,omitempty"`

	// Flow contains the steps under test.
	Flow []Step `yaml:"flow"`

	// Assertions validate the final graph.
	Assertions []Assertion `yaml:"assertions"`

	// baseDir resolves Step.File. Set by LoadScenario.
	baseDir string
}

// Step is one store operation.
type Step struct {
	// Op is new, merge or remove.
	Op string `yaml:"op"`

	// ID is the identity for new and remove.
	ID string `yaml:"id,omitempty"`

	// Graph is an inline graph document for merge. The document root is
	// the entity handed to the store.
	Graph *graphdoc.Document `yaml:"graph,omitempty"`

	// File is a graph document path for merge, relative to the scenario.
	File string `yaml:"file,omitempty"`

	// Expect validates the outcome. Nil means the step must succeed.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of a step.
type ExpectClause struct {
	// Error is the expected error code, e.g. DUPLICATE_IDENTITY.
	// Empty means the step must succeed.
	Error string `yaml:"error,omitempty"`

	// Entity is the identity of the managed entity the step returns.
	Entity string `yaml:"entity,omitempty"`

	// Created is the number of entities the step adds to the store.
	Created *int `yaml:"created,omitempty"`
}

// Assertion validates the final graph.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// ID is the subject identity.
	ID string `yaml:"id,omitempty"`

	// Target is the referenced identity (references, not_references).
	Target string `yaml:"target,omitempty"`

	// Predicate keys the property checked by literal.
	Predicate string `yaml:"predicate,omitempty"`

	// Literal and Datatype describe the expected literal. Datatype
	// defaults to string.
	Literal  string `yaml:"literal,omitempty"`
	Datatype string `yaml:"datatype,omitempty"`

	// Count is the expected number (count, value_count).
	Count int `yaml:"count,omitempty"`

	// IDs is the expected relative order (order).
	IDs []string `yaml:"ids,omitempty"`
}

// Assertion type constants.
const (
	AssertCount         = "count"
	AssertContains      = "contains"
	AssertAbsent        = "absent"
	AssertReferences    = "references"
	AssertNotReferences = "not_references"
	AssertLiteral       = "literal"
	AssertValueCount    = "value_count"
	AssertNoDangling    = "no_dangling"
	AssertOrder         = "order"
)

// Step operation constants.
const (
	OpNew    = "new"
	OpMerge  = "merge"
	OpRemove = "remove"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	scenario.baseDir = filepath.Dir(path)

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// resolve returns a step file path relative to the scenario location.
func (s *Scenario) resolve(file string) string {
	if filepath.IsAbs(file) || s.baseDir == "" {
		return file
	}
	return filepath.Join(s.baseDir, file)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Strategy != "" {
		if _, err := store.ParseStrategy(s.Strategy); err != nil {
			return err
		}
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Setup {
		if err := validateStep(s, fmt.Sprintf("setup[%d]", i), step); err != nil {
			return err
		}
		if step.Expect != nil && step.Expect.Error != "" {
			return fmt.Errorf("setup[%d]: setup steps cannot expect errors", i)
		}
	}
	for i, step := range s.Flow {
		if err := validateStep(s, fmt.Sprintf("flow[%d]", i), step); err != nil {
			return err
		}
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(s *Scenario, field string, step Step) error {
	switch step.Op {
	case OpNew, OpRemove:
		if step.ID == "" {
			return fmt.Errorf("%s: id is required for %s", field, step.Op)
		}
		if step.Graph != nil || step.File != "" {
			return fmt.Errorf("%s: %s takes an id, not a graph", field, step.Op)
		}
	case OpMerge:
		if (step.Graph == nil) == (step.File == "") {
			return fmt.Errorf("%s: merge needs exactly one of graph or file", field)
		}
		if step.File != "" {
			if _, err := os.Stat(s.resolve(step.File)); os.IsNotExist(err) {
				return fmt.Errorf("%s: graph file not found: %s", field, step.File)
			}
		}
	case "":
		return fmt.Errorf("%s: op is required", field)
	default:
		return fmt.Errorf("%s: unknown op %q", field, step.Op)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertContains, AssertAbsent:
		if a.ID == "" {
			return fmt.Errorf("assertions[%d]: id is required for %s", index, a.Type)
		}
	case AssertReferences, AssertNotReferences:
		if a.ID == "" || a.Target == "" {
			return fmt.Errorf("assertions[%d]: id and target are required for %s", index, a.Type)
		}
	case AssertLiteral:
		if a.ID == "" || a.Predicate == "" {
			return fmt.Errorf("assertions[%d]: id and predicate are required for literal", index)
		}
	case AssertValueCount:
		if a.ID == "" {
			return fmt.Errorf("assertions[%d]: id is required for value_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertNoDangling:
	case AssertOrder:
		if len(a.IDs) < 2 {
			return fmt.Errorf("assertions[%d]: order needs at least two ids", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
