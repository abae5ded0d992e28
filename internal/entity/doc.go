// Package entity provides the identity and value model for entity graphs.
//
// This package contains pure value types only. The store package builds on
// entity; entity imports nothing internal. Keeping the model a leaf lets
// callers construct graphs without touching a store.
//
// Key design constraints:
//   - Identity is comparable and usable as a map key
//   - Identity and predicate strings are NFC normalized at construction, so
//     separately built graphs naming the same IRI agree on identity
//   - Value is sealed: only Literal and Reference implement it
//   - Property values are de-duplicated (literals by value, references by
//     target identity) and keep insertion order
//   - Canonical JSON (RFC 8785 key order, NFC strings, no floats) is the only
//     encoding used for digests
package entity
