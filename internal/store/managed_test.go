package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/entitygraph/internal/entity"
)

var (
	label    = entity.NewPredicate("http://www.w3.org/2000/01/rdf-schema#label")
	linkedTo = entity.NewPredicate("http://www.example.org/vocab#linkedTo")
)

func handleOf(b byte) Handle {
	var h Handle
	h[15] = b
	return h
}

func TestManagedEntity_AttachOnce(t *testing.T) {
	m := newManagedEntity(entity.External("http://example.org/a"))
	storeID := uuid.New()

	require.NoError(t, m.attach(handleOf(1), storeID))
	assert.Equal(t, handleOf(1), m.Handle())
	assert.Equal(t, storeID, m.StoreID())
	assert.True(t, m.Attached())

	err := m.attach(handleOf(2), storeID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyAttached)
	assert.Equal(t, handleOf(1), m.Handle(), "failed attach must not change the handle")
}

func TestManagedEntity_AttachRequiresHandleAndStore(t *testing.T) {
	m := newManagedEntity(entity.External("http://example.org/a"))

	assert.True(t, IsInvalidArgument(m.attach(Handle{}, uuid.New())))
	assert.True(t, IsInvalidArgument(m.attach(handleOf(1), uuid.Nil)))
	assert.False(t, m.Attached())
}

func TestManagedEntity_Detach(t *testing.T) {
	m := newManagedEntity(entity.External("http://example.org/a"))
	storeID := uuid.New()

	// Not yet attached.
	assert.True(t, IsInvalidArgument(m.detach(storeID)))

	require.NoError(t, m.attach(handleOf(1), storeID))

	// Wrong store.
	assert.True(t, IsInvalidArgument(m.detach(uuid.New())))
	assert.True(t, m.Attached())

	require.NoError(t, m.detach(storeID))
	assert.False(t, m.Attached())
	assert.Equal(t, uuid.Nil, m.StoreID())
	assert.Equal(t, handleOf(1), m.Handle(), "handle is kept for diagnostics")

	// Twice.
	assert.True(t, IsInvalidArgument(m.detach(storeID)))

	// A removed entity cannot be re-attached.
	assert.ErrorIs(t, m.attach(handleOf(2), storeID), ErrAlreadyAttached)
}

func TestManagedEntity_JoinCopiesPropertiesByIdentity(t *testing.T) {
	b := entity.New(entity.External("http://example.org/b"))
	input := entity.New(entity.External("http://example.org/a"))
	input.AddLiteral(label, entity.String("A"))
	input.AddReference(linkedTo, b)

	m := newManagedEntity(input.Identity())
	added := m.join(input)

	assert.Equal(t, 2, added)
	p, ok := m.Property(linkedTo)
	require.True(t, ok)
	refs := p.References()
	require.Len(t, refs, 1)
	assert.Equal(t, b.Identity(), refs[0].Identity())
	_, walkable := refs[0].Entity()
	assert.False(t, walkable, "managed entities hold references by identity only")

	// Joining the same values again adds nothing.
	assert.Equal(t, 0, m.join(input))
	assert.Equal(t, 2, m.ValueCount())
}

func TestManagedEntity_JoinSelfAndNil(t *testing.T) {
	m := newManagedEntity(entity.External("http://example.org/a"))
	m.add(label, entity.String("A"))

	assert.Equal(t, 0, m.join(m))
	assert.Equal(t, 0, m.join(nil))
	assert.Equal(t, 1, m.ValueCount())
}

func TestManagedEntity_JoinAnotherManagedEntity(t *testing.T) {
	a := newManagedEntity(entity.External("http://example.org/a"))
	b := newManagedEntity(entity.External("http://example.org/a"))
	b.add(label, entity.String("from b"))

	assert.Equal(t, 1, a.join(b))

	p, ok := a.Property(label)
	require.True(t, ok)
	assert.Equal(t, []entity.Literal{entity.String("from b")}, p.Literals())
}

func TestManagedEntity_RemoveReferences(t *testing.T) {
	target := entity.External("http://example.org/e")
	other := entity.External("http://example.org/f")

	m := newManagedEntity(entity.External("http://example.org/d"))
	m.add(linkedTo, entity.RefTo(target))
	m.add(linkedTo, entity.RefTo(other))
	m.add(label, entity.String("D"))

	require.True(t, m.Refers(target))
	assert.Equal(t, 1, m.removeReferences(target))
	assert.False(t, m.Refers(target))
	assert.True(t, m.Refers(other))
	assert.Equal(t, 0, m.removeReferences(target))
	assert.Equal(t, 2, m.ValueCount())
}
