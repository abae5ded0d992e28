package store

import (
	"sync"

	"github.com/google/uuid"

	"github.com/roach88/entitygraph/internal/entity"
)

// ManagedEntity is an entity owned by exactly one Store.
//
// It wraps the entity's own property data together with the handle assigned
// on admission and the ID of the owning store. The store ID is a non-owning
// back-reference used only to validate operations; the store is the sole
// owner of the managed entity. References held by a managed entity carry
// target identities only and resolve through the owning store.
//
// Callers get read access. All mutation goes through the owning Store.
//
// Lock ordering: the store lock, when held, is always acquired before mu.
type ManagedEntity struct {
	identity entity.Identity // immutable

	mu     sync.RWMutex
	handle Handle
	owner  uuid.UUID // uuid.Nil when detached
	data   *entity.Entity
}

// newManagedEntity creates a detached managed entity with no properties.
// It is the fixed entity construction factory for stores.
func newManagedEntity(identity entity.Identity) *ManagedEntity {
	return &ManagedEntity{
		identity: identity,
		data:     entity.New(identity),
	}
}

// Identity returns the entity's identity.
func (m *ManagedEntity) Identity() entity.Identity {
	return m.identity
}

// Handle returns the handle assigned when the entity was admitted.
// The handle is kept after removal for diagnostics.
func (m *ManagedEntity) Handle() Handle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.handle
}

// StoreID returns the ID of the owning store, or uuid.Nil once removed.
func (m *ManagedEntity) StoreID() uuid.UUID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.owner
}

// Attached reports whether the entity is currently owned by a store.
func (m *ManagedEntity) Attached() bool {
	return m.StoreID() != uuid.Nil
}

// Properties returns copies of all properties in first-insertion order.
// Implements entity.Node.
func (m *ManagedEntity) Properties() []entity.Property {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.Properties()
}

// Property returns a copy of the property keyed by predicate.
func (m *ManagedEntity) Property(predicate entity.Predicate) (entity.Property, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.Property(predicate)
}

// Refers reports whether any property value references target.
func (m *ManagedEntity) Refers(target entity.Identity) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.data.Properties() {
		if p.Refers(target) {
			return true
		}
	}
	return false
}

// ValueCount returns the total number of property values.
func (m *ManagedEntity) ValueCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data.ValueCount()
}

// attach binds the entity to a store. It may happen only once.
func (m *ManagedEntity) attach(handle Handle, storeID uuid.UUID) error {
	if handle.IsZero() || storeID == uuid.Nil {
		return invalidArgument("attach", "handle and store are required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.owner != uuid.Nil || !m.handle.IsZero() {
		return &Error{
			Code:     ErrCodeAlreadyAttached,
			Op:       "attach",
			Message:  "entity is already attached to a store",
			Identity: m.identity,
		}
	}
	m.handle = handle
	m.owner = storeID
	return nil
}

// detach clears the store binding. The entity must be attached to storeID.
func (m *ManagedEntity) detach(storeID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.owner == uuid.Nil || m.owner != storeID {
		return &Error{
			Code:     ErrCodeInvalidArgument,
			Op:       "detach",
			Message:  "entity is not attached to this store",
			Identity: m.identity,
		}
	}
	m.owner = uuid.Nil
	return nil
}

// join copies other's properties into m. References are copied by identity
// and not followed. Identity and handle are unchanged.
// Returns the number of values added.
func (m *ManagedEntity) join(other entity.Node) int {
	if other == nil {
		return 0
	}
	if o, ok := other.(*ManagedEntity); ok && o == m {
		return 0
	}
	// Read other before locking m so the two entity locks are never nested.
	props := other.Properties()

	m.mu.Lock()
	defer m.mu.Unlock()
	added := 0
	for _, p := range props {
		for _, v := range p.Values() {
			if m.addLocked(p.Predicate(), v) {
				added++
			}
		}
	}
	return added
}

// add appends a single value.
func (m *ManagedEntity) add(predicate entity.Predicate, v entity.Value) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addLocked(predicate, v)
}

func (m *ManagedEntity) addLocked(predicate entity.Predicate, v entity.Value) bool {
	if ref, ok := v.(entity.Reference); ok {
		v = ref.Detached()
	}
	return m.data.Add(predicate, v)
}

// removeReferences drops every value referencing target and returns how
// many were removed.
func (m *ManagedEntity) removeReferences(target entity.Identity) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data.RemoveReferencesTo(target)
}
