package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/entitygraph/internal/entity"
)

// reachable returns the identities of nodes walkable from root. Identity-only
// references do not count until a walkable node for the target is found.
func reachable(root *entity.Entity) map[entity.Identity]bool {
	seen := map[entity.Identity]bool{root.Identity(): true}
	queue := []*entity.Entity{root}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		for _, p := range e.Properties() {
			for _, ref := range p.References() {
				if seen[ref.Identity()] {
					continue
				}
				if next, ok := ref.Entity(); ok {
					seen[ref.Identity()] = true
					queue = append(queue, next)
				}
			}
		}
	}
	return seen
}

func TestCycle(t *testing.T) {
	nodes := Cycle(3)
	require.Len(t, nodes, 3)

	p, ok := nodes[2].Property(PredicateLinkedTo)
	require.True(t, ok)
	assert.True(t, p.Refers(nodes[0].Identity()))
	assert.Len(t, reachable(nodes[1]), 3)
}

func TestCycle_SelfLoop(t *testing.T) {
	nodes := Cycle(1)

	p, ok := nodes[0].Property(PredicateLinkedTo)
	require.True(t, ok)
	assert.True(t, p.Refers(nodes[0].Identity()))
}

func TestRandomGraph_Deterministic(t *testing.T) {
	a := RandomGraph(42, GraphConfig{Nodes: 12})
	b := RandomGraph(42, GraphConfig{Nodes: 12})

	nodesA := make([]entity.Node, len(a.Nodes))
	nodesB := make([]entity.Node, len(b.Nodes))
	for i := range a.Nodes {
		nodesA[i] = a.Nodes[i]
		nodesB[i] = b.Nodes[i]
	}
	fa, err := entity.Fingerprint(nodesA)
	require.NoError(t, err)
	fb, err := entity.Fingerprint(nodesB)
	require.NoError(t, err)
	assert.Equal(t, fa, fb)
}

func TestRandomGraph_AllNodesReachable(t *testing.T) {
	for seed := uint64(0); seed < 50; seed++ {
		g := RandomGraph(seed, GraphConfig{Nodes: 20, DetachedRate: 0.3})

		seen := reachable(g.Root)
		assert.Len(t, seen, 20, "seed %d", seed)
		assert.ElementsMatch(t, g.Identities(), keys(seen), "seed %d", seed)
	}
}

func TestRandomGraph_Defaults(t *testing.T) {
	g := RandomGraph(1, GraphConfig{})

	assert.Len(t, g.Nodes, 8)
	assert.Same(t, g.Root, g.Nodes[0])
}

func keys(m map[entity.Identity]bool) []entity.Identity {
	out := make([]entity.Identity, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
