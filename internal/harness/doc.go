// Package harness provides conformance testing for entity graph stores.
//
// The harness runs YAML scenarios against a fresh store, records a trace of
// every operation and evaluates assertions on the final graph.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	strategy: value              # identity, reference or value (default)
//	setup:
//	  - op: new
//	    id: http://example.org/a
//	flow:
//	  - op: merge
//	    graph:                   # inline graph document
//	      entities:
//	        - id: http://example.org/b
//	          properties:
//	            - predicate: http://www.example.org/vocab#linkedTo
//	              values:
//	                - ref: http://example.org/a
//	    expect:
//	      entity: http://example.org/b
//	      created: 1
//	  - op: merge
//	    file: graphs/cycle.yaml  # graph document, relative to the scenario
//	  - op: new
//	    id: http://example.org/a
//	    expect:
//	      error: DUPLICATE_IDENTITY
//	  - op: remove
//	    id: http://example.org/a
//	assertions:
//	  - type: count
//	    count: 3
//	  - type: references
//	    id: http://example.org/b
//	    target: http://example.org/a
//
// Setup steps must succeed. Flow steps without an expect clause must
// succeed too; an expect clause may name the error code the step fails
// with instead.
//
// # Assertion Types
//
//   - count: the store manages exactly count entities
//   - contains / absent: an identity is or is not managed
//   - references / not_references: id has or lacks a reference to target
//   - literal: id has the literal (lexical form plus datatype) under predicate
//   - value_count: id holds exactly count values
//   - no_dangling: every reference targets a managed entity
//   - order: the listed identities appear in this relative order
//
// # Deterministic Testing
//
// Every scenario runs in a new store with a fixed ID and sequential handles
// (testutil.SequentialHandles), so the trace and final dump are identical
// across runs and can be compared against golden files.
package harness
