// Package store implements the in-memory entity graph store.
//
// A Store owns a mutable, identity-keyed graph of managed entities and
// absorbs externally built entity graphs under one of three merge
// strategies:
//   - ByIdentity: resolve identity only; never copy values onto an
//     existing entity
//   - ByReference: shallow join of the input's properties
//   - ByValue: breadth-first deep merge of everything reachable from the
//     input, creating surrogates for unknown referenced identities
//
// # Index
//
// The store keeps one composite index: identity to managed entity, handle to
// identity, and insertion order. The two maps always form a bijection over
// the same set of entities, and iteration follows insertion order.
//
// # Concurrency
//
// One sync.RWMutex guards the index. Lookups and snapshots take the read
// lock; NewEntity, Merge and Remove hold the write lock for the whole
// operation, including a full deep-merge walk. Each ManagedEntity carries
// its own RW mutex for property data, always acquired after the store lock.
//
// # Removal
//
// Removing an entity cascades: every reference to it is stripped from every
// surviving entity, so no managed entity is left with a dangling edge to a
// removed one.
//
// # Errors
//
// Operations return *Error values classified by ErrorCode. A failed
// operation leaves the store unchanged.
package store
