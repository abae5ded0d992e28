package store

import (
	"fmt"
	"iter"

	"github.com/google/uuid"

	"github.com/roach88/entitygraph/internal/entity"
)

// Record is the state of one managed entity captured by a snapshot.
// It implements entity.Node.
type Record struct {
	managed    *ManagedEntity
	handle     Handle
	properties []entity.Property
}

// Identity returns the entity's identity.
func (r Record) Identity() entity.Identity {
	return r.managed.Identity()
}

// Handle returns the handle the entity had when the snapshot was taken.
func (r Record) Handle() Handle {
	return r.handle
}

// Properties returns the properties captured by the snapshot.
func (r Record) Properties() []entity.Property {
	out := make([]entity.Property, len(r.properties))
	copy(out, r.properties)
	return out
}

// Managed returns the live managed entity. Its properties may have changed
// since the snapshot was taken.
func (r Record) Managed() *ManagedEntity {
	return r.managed
}

// Snapshot is an immutable point-in-time view of a store: its entities in
// insertion order together with their handles and properties.
//
// A snapshot is taken under the store's read lock, so it never observes a
// half-applied NewEntity, Merge or Remove.
type Snapshot struct {
	storeID  uuid.UUID
	strategy Strategy
	version  int64
	records  []Record
	byID     map[entity.Identity]int
	handles  map[Handle]entity.Identity
}

// Snapshot captures the store's current state.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{
		storeID:  s.id,
		strategy: s.strategy,
		version:  s.idx.version,
		records:  make([]Record, 0, len(s.idx.order)),
		byID:     make(map[entity.Identity]int, len(s.idx.order)),
		handles:  make(map[Handle]entity.Identity, len(s.idx.handles)),
	}
	for h, id := range s.idx.handles {
		snap.handles[h] = id
	}
	for i, id := range s.idx.order {
		m := s.idx.entities[id]
		snap.records = append(snap.records, Record{
			managed:    m,
			handle:     m.Handle(),
			properties: m.Properties(),
		})
		snap.byID[id] = i
	}
	return snap
}

// StoreID returns the ID of the store the snapshot was taken from.
func (s *Snapshot) StoreID() uuid.UUID {
	return s.storeID
}

// Strategy returns the store's merge strategy.
func (s *Snapshot) Strategy() Strategy {
	return s.strategy
}

// Version returns the store version at snapshot time.
func (s *Snapshot) Version() int64 {
	return s.version
}

// Len returns the number of entities.
func (s *Snapshot) Len() int {
	return len(s.records)
}

// At returns the i-th record in insertion order.
func (s *Snapshot) At(i int) Record {
	return s.records[i]
}

// Records returns all records in insertion order.
func (s *Snapshot) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Nodes returns the records as entity nodes, e.g. for entity.Fingerprint.
func (s *Snapshot) Nodes() []entity.Node {
	out := make([]entity.Node, len(s.records))
	for i, r := range s.records {
		out[i] = r
	}
	return out
}

// Identities returns the entity identities in insertion order.
func (s *Snapshot) Identities() []entity.Identity {
	out := make([]entity.Identity, len(s.records))
	for i, r := range s.records {
		out[i] = r.Identity()
	}
	return out
}

// All iterates over the records in insertion order.
func (s *Snapshot) All() iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
		for i, r := range s.records {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Lookup returns the record for identity.
func (s *Snapshot) Lookup(identity entity.Identity) (Record, bool) {
	i, ok := s.byID[identity]
	if !ok {
		return Record{}, false
	}
	return s.records[i], true
}

// Validate checks the index invariants the snapshot captured: handles and
// identities are in one-to-one correspondence and every identity appears
// once. A failure means the store's internal state is corrupt.
func (s *Snapshot) Validate() error {
	if len(s.handles) != len(s.records) {
		return fmt.Errorf("snapshot: %d handles for %d entities", len(s.handles), len(s.records))
	}
	seen := make(map[entity.Identity]bool, len(s.records))
	for _, r := range s.records {
		id := r.Identity()
		if seen[id] {
			return fmt.Errorf("snapshot: identity %s appears twice", id)
		}
		seen[id] = true
		if r.handle.IsZero() {
			return fmt.Errorf("snapshot: identity %s has no handle", id)
		}
		if got, ok := s.handles[r.handle]; !ok || got != id {
			return fmt.Errorf("snapshot: handle %s does not map back to %s", r.handle, id)
		}
	}
	return nil
}

// Dangling returns the references whose target is not in the snapshot, as
// "source -> target" pairs in insertion order. ByValue merges and
// cascading removal never leave dangling references; ByReference merges
// may, since references are copied without being resolved.
func (s *Snapshot) Dangling() [][2]entity.Identity {
	var out [][2]entity.Identity
	for _, r := range s.records {
		for _, p := range r.properties {
			for _, ref := range p.References() {
				if _, ok := s.byID[ref.Identity()]; !ok {
					out = append(out, [2]entity.Identity{r.Identity(), ref.Identity()})
				}
			}
		}
	}
	return out
}
