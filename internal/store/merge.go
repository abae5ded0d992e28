package store

import (
	"github.com/roach88/entitygraph/internal/entity"
)

// Merge absorbs node, and for ByValue everything reachable from it, using
// the store's strategy, and returns the managed counterpart of node.
//
// Passing an entity this store already manages returns it unchanged under
// every strategy. The input graph is read, never modified, and must not be
// mutated by other goroutines during the call.
//
// Returns INVALID_ARGUMENT for a nil node or a zero identity. The write
// lock is held for the whole call.
func (s *Store) Merge(node entity.Node) (*ManagedEntity, error) {
	if isNilNode(node) {
		err := invalidArgument(opMerge, "entity is required")
		s.observe(opMerge, err)
		return nil, err
	}
	identity := node.Identity()
	if identity.IsZero() {
		err := invalidArgument(opMerge, "entity identity is required")
		s.observe(opMerge, err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := node.(*ManagedEntity); ok && s.ownsLocked(m) {
		s.observe(opMerge, nil)
		return m, nil
	}

	var (
		res mergeResult
		err error
	)
	switch s.strategy {
	case ByIdentity:
		res, err = s.mergeByIdentityLocked(identity)
	case ByReference:
		res, err = s.mergeByReferenceLocked(node)
	case ByValue:
		res, err = s.mergeByValueLocked(node)
	default:
		err = unsupportedStrategy(opMerge, s.strategy)
	}
	if err != nil {
		s.logger.Error("merge failed", "identity", identity.String(), "error", err)
		s.observe(opMerge, err)
		return nil, err
	}

	if res.changed() {
		s.idx.version++
	}
	s.logger.Debug("entity merged",
		"strategy", s.strategy.String(),
		"identity", identity.String(),
		"created", res.created,
		"values_added", res.added,
	)
	s.observe(opMerge, nil)
	s.metrics.AddSurrogates(s.strategy.String(), res.created)
	s.metrics.SetEntities(s.id.String(), len(s.idx.order))
	return res.entity, nil
}

// mergeResult summarizes one merge.
type mergeResult struct {
	entity  *ManagedEntity
	created int // managed entities registered by the call
	added   int // property values copied onto managed entities
}

func (r mergeResult) changed() bool {
	return r.created > 0 || r.added > 0
}

// mergeByIdentityLocked returns the existing entity untouched, or registers
// an empty one. The input's properties are never copied.
func (s *Store) mergeByIdentityLocked(identity entity.Identity) (mergeResult, error) {
	m, created, err := s.getOrCreateLocked(identity)
	if err != nil {
		return mergeResult{}, err
	}
	res := mergeResult{entity: m}
	if created {
		res.created = 1
	}
	return res, nil
}

// mergeByReferenceLocked joins node's properties into the existing entity,
// or registers a managed copy of node. References are copied by identity
// and not followed.
func (s *Store) mergeByReferenceLocked(node entity.Node) (mergeResult, error) {
	identity := node.Identity()
	if existing, ok := s.idx.entities[identity]; ok {
		return mergeResult{entity: existing, added: existing.join(node)}, nil
	}

	m := newManagedEntity(identity)
	added := m.join(node)
	if err := s.registerLocked(m); err != nil {
		return mergeResult{}, err
	}
	return mergeResult{entity: m, created: 1, added: added}, nil
}

// mergeByValueLocked deep-merges the graph reachable from node.
//
// Phase one walks the input graph breadth first with a worklist and a
// visited set keyed by identity, both local to the call, and decides which
// nodes to copy. Entities the store already managed before the call are
// linked but not walked. Phase two commits the plan in walk order: reuse or
// create the managed entity for each planned node, copy its literals, and
// link each reference to the managed entity for the target, creating an
// empty surrogate when the target is unknown.
//
// Every distinct reachable identity is visited once, so cyclic graphs
// terminate and the number of entities created equals the number of
// reachable identities the store did not already manage.
func (s *Store) mergeByValueLocked(node entity.Node) (mergeResult, error) {
	plan := s.planLocked(node)

	res := mergeResult{}
	resolve := func(identity entity.Identity) (*ManagedEntity, error) {
		m, created, err := s.getOrCreateLocked(identity)
		if created {
			res.created++
		}
		return m, err
	}

	for _, n := range plan {
		m, err := resolve(n.Identity())
		if err != nil {
			return mergeResult{}, err
		}
		if res.entity == nil {
			res.entity = m
		}
		for _, p := range n.Properties() {
			for _, v := range p.Values() {
				if ref, ok := v.(entity.Reference); ok {
					if _, err := resolve(ref.Identity()); err != nil {
						return mergeResult{}, err
					}
				}
				if m.add(p.Predicate(), v) {
					res.added++
				}
			}
		}
	}
	return res, nil
}

// planLocked returns the nodes whose properties a deep merge copies, in
// breadth-first order starting with start. Caller holds the write lock.
func (s *Store) planLocked(start entity.Node) []entity.Node {
	visited := map[entity.Identity]struct{}{start.Identity(): {}}
	queue := []entity.Node{start}

	for i := 0; i < len(queue); i++ {
		for _, p := range queue[i].Properties() {
			for _, ref := range p.References() {
				target := ref.Identity()
				if _, seen := visited[target]; seen {
					continue
				}
				if _, managed := s.idx.entities[target]; managed {
					visited[target] = struct{}{}
					continue
				}
				// An identity-only reference stays eligible until a
				// walkable node for the same identity turns up.
				if next, ok := ref.Entity(); ok {
					visited[target] = struct{}{}
					queue = append(queue, next)
				}
			}
		}
	}
	return queue
}

// isNilNode reports whether n is nil or a typed nil pointer.
func isNilNode(n entity.Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *entity.Entity:
		return v == nil
	case *ManagedEntity:
		return v == nil
	default:
		return false
	}
}
