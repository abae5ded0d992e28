package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	label    = Predicate("http://www.w3.org/2000/01/rdf-schema#label")
	comment  = Predicate("http://www.w3.org/2000/01/rdf-schema#comment")
	linkedTo = Predicate("http://www.example.org/vocab#linkedTo")
)

func TestEntity_AddDeduplicates(t *testing.T) {
	e := New(External("http://example.org/a"))

	assert.True(t, e.AddLiteral(label, String("A")))
	assert.False(t, e.AddLiteral(label, String("A")), "duplicate literal should be ignored")
	assert.True(t, e.AddLiteral(label, Int(1)), "same lexical, different datatype is distinct")

	target := New(External("http://example.org/b"))
	assert.True(t, e.AddReference(linkedTo, target))
	assert.False(t, e.AddReferenceTo(linkedTo, target.Identity()), "references compare by identity")

	assert.Equal(t, 2, e.Len())
	assert.Equal(t, 3, e.ValueCount())
}

func TestEntity_AddRejectsEmpty(t *testing.T) {
	e := New(External("http://example.org/a"))

	assert.False(t, e.Add("", String("x")))
	assert.False(t, e.Add(label, nil))
	assert.False(t, e.Add(label, Literal{}))
	assert.False(t, e.Add(label, Reference{}))
	assert.Equal(t, 0, e.Len())
}

func TestEntity_PropertiesInInsertionOrder(t *testing.T) {
	e := New(External("http://example.org/a"))
	e.AddLiteral(comment, String("c"))
	e.AddLiteral(label, String("l"))
	e.AddLiteral(comment, String("c2"))

	props := e.Properties()
	require.Len(t, props, 2)
	assert.Equal(t, comment, props[0].Predicate())
	assert.Equal(t, label, props[1].Predicate())
	assert.Equal(t, []Literal{String("c"), String("c2")}, props[0].Literals())
}

func TestEntity_PropertyPartitionsValues(t *testing.T) {
	a := New(External("http://example.org/a"))
	b := New(External("http://example.org/b"))
	a.AddLiteral(linkedTo, String("text"))
	a.AddReference(linkedTo, b)

	p, ok := a.Property(linkedTo)
	require.True(t, ok)
	assert.Equal(t, []Literal{String("text")}, p.Literals())

	refs := p.References()
	require.Len(t, refs, 1)
	assert.Equal(t, b.Identity(), refs[0].Identity())
	node, ok := refs[0].Entity()
	require.True(t, ok)
	assert.Same(t, b, node)
	assert.True(t, p.Refers(b.Identity()))

	_, ok = a.Property(label)
	assert.False(t, ok)
}

func TestEntity_PropertiesAreCopies(t *testing.T) {
	e := New(External("http://example.org/a"))
	e.AddLiteral(label, String("x"))

	props := e.Properties()
	values := props[0].Values()
	values[0] = String("mutated")

	p, _ := e.Property(label)
	assert.Equal(t, []Literal{String("x")}, p.Literals())
}

func TestEntity_Remove(t *testing.T) {
	e := New(External("http://example.org/a"))
	e.AddLiteral(label, String("x"))
	e.AddLiteral(comment, String("y"))

	assert.True(t, e.Remove(label, String("x")))
	assert.False(t, e.Remove(label, String("x")))

	_, ok := e.Property(label)
	assert.False(t, ok, "empty property should be dropped")
	require.Len(t, e.Properties(), 1)
	assert.Equal(t, comment, e.Properties()[0].Predicate())
}

func TestEntity_RemoveReferencesTo(t *testing.T) {
	a := New(External("http://example.org/a"))
	target := External("http://example.org/t")
	other := External("http://example.org/o")

	a.AddReferenceTo(linkedTo, target)
	a.AddReferenceTo(linkedTo, other)
	a.AddReferenceTo(comment, target)
	a.AddLiteral(label, String(target.String()))

	removed := a.RemoveReferencesTo(target)
	assert.Equal(t, 2, removed)

	p, ok := a.Property(linkedTo)
	require.True(t, ok)
	assert.False(t, p.Refers(target))
	assert.True(t, p.Refers(other))

	_, ok = a.Property(comment)
	assert.False(t, ok)

	l, ok := a.Property(label)
	require.True(t, ok)
	assert.Equal(t, 1, l.Len(), "literal with same text is not a reference")
}

func TestReference_Detached(t *testing.T) {
	b := New(External("http://example.org/b"))
	r := Ref(b).Detached()

	_, ok := r.Entity()
	assert.False(t, ok)
	assert.Equal(t, b.Identity(), r.Identity())
	assert.True(t, SameValue(r, Ref(b)))
	assert.True(t, Ref(nil).IsZero())
}

func TestNewProperty_Deduplicates(t *testing.T) {
	p := NewProperty(label, String("a"), String("a"), Int(1))
	assert.Equal(t, 2, p.Len())
	assert.True(t, p.Has(Int(1)))
	assert.False(t, p.Has(Int(2)))
}
