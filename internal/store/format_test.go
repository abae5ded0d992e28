package store_test

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/entitygraph/internal/entity"
	"github.com/roach88/entitygraph/internal/store"
	"github.com/roach88/entitygraph/internal/testutil"
)

func TestFormat_Golden(t *testing.T) {
	s := newStore(t)
	x := testutil.Labeled("x")
	x.AddLiteral(testutil.PredicateComment, entity.Int(5))
	y := testutil.Labeled("y")
	x.AddReference(testutil.PredicateLinkedTo, y)
	y.AddReference(testutil.PredicateLinkedTo, x)

	_, err := s.Merge(x)
	require.NoError(t, err)
	_, err = s.NewEntity(testutil.ID("z"))
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, store.Format(&b, s.Snapshot()))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "format_cycle", []byte(b.String()))
}

func TestFormatString_EmptyStore(t *testing.T) {
	s := newStore(t, store.WithStrategy(store.ByReference))

	got := store.FormatString(s.Snapshot())

	assert.Equal(t, "store 00000000-0000-0000-0000-0000000000ff (strategy=reference, version=0, entities=0)\n", got)
}
