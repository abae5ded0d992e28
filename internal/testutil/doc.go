// Package testutil provides deterministic handle sources and entity graph
// builders for tests.
//
// Stores built with a fixed ID (store.WithID) and a SequentialHandles or
// ScriptedHandles source produce byte-identical dumps across runs, which
// golden file tests rely on.
package testutil
