// Package graphdoc reads and writes graph documents: YAML or CUE files that
// describe a bare entity graph.
//
// A document lists entities by id. Each property has a predicate and values;
// a value is either a literal (lexical form plus optional datatype, default
// string) or a ref naming another entity's id:
//
//	root: http://example.org/a
//	entities:
//	  - id: http://example.org/a
//	    properties:
//	      - predicate: http://www.w3.org/2000/01/rdf-schema#label
//	        values:
//	          - literal: "A"
//	          - literal: "5"
//	            datatype: int
//	          - ref: http://example.org/b
//
// References to ids defined in the same document resolve to the bare
// entities, so a deep merge walks them. References to other ids stay
// identity-only. Ids use entity.ParseIdentity syntax, so
// "local:<namespace>#<key>" names a local identity.
//
// The CUE form is the same structure written as CUE, which allows
// definitions and references to shorten large documents.
package graphdoc
