package testutil

import (
	"fmt"
	"math/rand/v2"

	"github.com/roach88/entitygraph/internal/entity"
)

// Predicates used by generated graphs.
var (
	PredicateLabel    = entity.NewPredicate("http://www.w3.org/2000/01/rdf-schema#label")
	PredicateComment  = entity.NewPredicate("http://www.w3.org/2000/01/rdf-schema#comment")
	PredicateLinkedTo = entity.NewPredicate("http://www.example.org/vocab#linkedTo")
)

// ID returns the external identity http://example.org/<name>.
func ID(name string) entity.Identity {
	return entity.External("http://example.org/" + name)
}

// Labeled creates a bare entity named name with a label literal equal to
// name.
func Labeled(name string) *entity.Entity {
	e := entity.New(ID(name))
	e.AddLiteral(PredicateLabel, entity.String(name))
	return e
}

// Link adds a linkedTo reference from each entity to the next.
func Link(entities ...*entity.Entity) {
	for i := 0; i+1 < len(entities); i++ {
		entities[i].AddReference(PredicateLinkedTo, entities[i+1])
	}
}

// Cycle creates n labeled entities n0..n(n-1) linked in a ring and returns
// them in order. Cycle(1) is a single self-referencing entity.
func Cycle(n int) []*entity.Entity {
	nodes := make([]*entity.Entity, n)
	for i := range nodes {
		nodes[i] = Labeled(fmt.Sprintf("n%d", i))
	}
	Link(nodes...)
	if n > 0 {
		nodes[n-1].AddReference(PredicateLinkedTo, nodes[0])
	}
	return nodes
}

// GraphConfig configures RandomGraph.
type GraphConfig struct {
	// Nodes is the number of distinct identities. Default: 8.
	Nodes int

	// EdgesPerNode is the maximum number of outgoing references per node.
	// Default: 3.
	EdgesPerNode int

	// DetachedRate is the probability that a reference carries only the
	// target identity, so the target cannot be walked. Default: 0.
	DetachedRate float64
}

// Graph is a generated bare entity graph.
type Graph struct {
	// Root is the entity every node is reachable from.
	Root *entity.Entity

	// Nodes holds the canonical entity for each identity, Root first.
	Nodes []*entity.Entity
}

// Identities returns the distinct identities in the graph.
func (g *Graph) Identities() []entity.Identity {
	out := make([]entity.Identity, len(g.Nodes))
	for i, n := range g.Nodes {
		out[i] = n.Identity()
	}
	return out
}

// RandomGraph generates a connected, usually cyclic graph from a seeded
// source. Every node is reachable from Root through walkable references:
// a spanning chain guarantees reachability and random extra edges add
// cycles and self-loops.
func RandomGraph(seed uint64, cfg GraphConfig) *Graph {
	if cfg.Nodes <= 0 {
		cfg.Nodes = 8
	}
	if cfg.EdgesPerNode <= 0 {
		cfg.EdgesPerNode = 3
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	nodes := make([]*entity.Entity, cfg.Nodes)
	for i := range nodes {
		nodes[i] = entity.New(ID(fmt.Sprintf("g%d", i)))
		nodes[i].AddLiteral(PredicateLabel, entity.String(fmt.Sprintf("node %d", i)))
		nodes[i].AddLiteral(PredicateComment, entity.Int(int64(rng.IntN(1000))))
	}

	// Spanning chain so that everything is reachable by walking.
	perm := rng.Perm(cfg.Nodes - 1)
	order := []*entity.Entity{nodes[0]}
	for _, i := range perm {
		order = append(order, nodes[i+1])
	}
	Link(order...)

	for _, from := range nodes {
		for range rng.IntN(cfg.EdgesPerNode + 1) {
			to := nodes[rng.IntN(cfg.Nodes)]
			if rng.Float64() < cfg.DetachedRate {
				from.AddReferenceTo(PredicateLinkedTo, to.Identity())
				continue
			}
			from.AddReference(PredicateLinkedTo, to)
		}
	}

	return &Graph{Root: nodes[0], Nodes: nodes}
}
