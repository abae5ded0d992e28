package graphdoc

import (
	"fmt"

	"github.com/roach88/entitygraph/internal/entity"
)

// Graph is a decoded document: bare entities in document order.
type Graph struct {
	// Root is the entity named by the document's root, or the first entity.
	Root *entity.Entity

	// Entities lists every entity defined by the document.
	Entities []*entity.Entity
}

// Nodes returns the entities as entity nodes.
func (g *Graph) Nodes() []entity.Node {
	out := make([]entity.Node, len(g.Entities))
	for i, e := range g.Entities {
		out[i] = e
	}
	return out
}

// Stats summarizes a graph.
type Stats struct {
	Entities   int `json:"entities"`
	Properties int `json:"properties"`
	Literals   int `json:"literals"`
	References int `json:"references"`
	// External counts references to ids the document does not define.
	External int `json:"external"`
}

// Stats counts the graph's entities, properties and values.
func (g *Graph) Stats() Stats {
	defined := make(map[entity.Identity]bool, len(g.Entities))
	for _, e := range g.Entities {
		defined[e.Identity()] = true
	}
	st := Stats{Entities: len(g.Entities)}
	for _, e := range g.Entities {
		for _, p := range e.Properties() {
			st.Properties++
			st.Literals += len(p.Literals())
			for _, ref := range p.References() {
				st.References++
				if !defined[ref.Identity()] {
					st.External++
				}
			}
		}
	}
	return st
}

// Build validates doc and constructs its entity graph. All entities are
// created before any value is attached, so refs may point forward.
func Build(doc *Document) (*Graph, error) {
	if doc == nil || len(doc.Entities) == 0 {
		return nil, &Error{Code: ErrCodeEmpty, Field: "entities", Message: "document defines no entities"}
	}

	g := &Graph{Entities: make([]*entity.Entity, 0, len(doc.Entities))}
	byID := make(map[entity.Identity]*entity.Entity, len(doc.Entities))
	for i, ed := range doc.Entities {
		field := fmt.Sprintf("entities[%d].id", i)
		id, err := parseID(ed.ID, field)
		if err != nil {
			return nil, err
		}
		if _, dup := byID[id]; dup {
			return nil, &Error{Code: ErrCodeDuplicate, Field: field, Message: fmt.Sprintf("entity %s is defined twice", id)}
		}
		e := entity.New(id)
		byID[id] = e
		g.Entities = append(g.Entities, e)
	}

	for i, ed := range doc.Entities {
		e := g.Entities[i]
		for j, pd := range ed.Properties {
			field := fmt.Sprintf("entities[%d].properties[%d]", i, j)
			predicate := entity.NewPredicate(pd.Predicate)
			if predicate.IsZero() {
				return nil, &Error{Code: ErrCodePredicate, Field: field + ".predicate", Message: "predicate is required"}
			}
			for k, vd := range pd.Values {
				v, err := buildValue(vd, byID, fmt.Sprintf("%s.values[%d]", field, k))
				if err != nil {
					return nil, err
				}
				e.Add(predicate, v)
			}
		}
	}

	g.Root = g.Entities[0]
	if doc.Root != "" {
		id, err := parseID(doc.Root, "root")
		if err != nil {
			return nil, err
		}
		root, ok := byID[id]
		if !ok {
			return nil, &Error{Code: ErrCodeRoot, Field: "root", Message: fmt.Sprintf("root %s is not a listed entity", id)}
		}
		g.Root = root
	}
	return g, nil
}

func buildValue(vd ValueDoc, byID map[entity.Identity]*entity.Entity, field string) (entity.Value, error) {
	switch {
	case vd.Literal != nil && vd.Ref != "":
		return nil, &Error{Code: ErrCodeValue, Field: field, Message: "value has both literal and ref"}
	case vd.Literal != nil:
		lit, err := entity.ParseLiteral(entity.Datatype(vd.Datatype), *vd.Literal)
		if err != nil {
			return nil, &Error{Code: ErrCodeLiteral, Field: field, Message: err.Error()}
		}
		return lit, nil
	case vd.Ref != "":
		if vd.Datatype != "" {
			return nil, &Error{Code: ErrCodeValue, Field: field, Message: "ref cannot carry a datatype"}
		}
		id, err := parseID(vd.Ref, field+".ref")
		if err != nil {
			return nil, err
		}
		if target, ok := byID[id]; ok {
			return entity.Ref(target), nil
		}
		return entity.RefTo(id), nil
	default:
		return nil, &Error{Code: ErrCodeValue, Field: field, Message: "value needs a literal or a ref"}
	}
}

func parseID(s, field string) (entity.Identity, error) {
	id, err := entity.ParseIdentity(s)
	if err != nil {
		return entity.Identity{}, &Error{Code: ErrCodeID, Field: field, Message: err.Error()}
	}
	return id, nil
}
