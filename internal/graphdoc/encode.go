package graphdoc

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/entitygraph/internal/entity"
)

// FromNodes builds a document from nodes in the given order. root may be
// the zero identity. String literals are written without a datatype.
func FromNodes(nodes []entity.Node, root entity.Identity) *Document {
	doc := &Document{Entities: make([]EntityDoc, 0, len(nodes))}
	if !root.IsZero() {
		doc.Root = root.String()
	}
	for _, n := range nodes {
		ed := EntityDoc{ID: n.Identity().String()}
		for _, p := range n.Properties() {
			pd := PropertyDoc{Predicate: p.Predicate().String()}
			for _, v := range p.Values() {
				switch val := v.(type) {
				case entity.Literal:
					datatype := string(val.Datatype())
					if val.Datatype() == entity.TypeString {
						datatype = ""
					}
					pd.Values = append(pd.Values, LiteralValue(val.Lexical(), datatype))
				case entity.Reference:
					pd.Values = append(pd.Values, RefValue(val.Identity().String()))
				}
			}
			ed.Properties = append(ed.Properties, pd)
		}
		doc.Entities = append(doc.Entities, ed)
	}
	return doc
}

// EncodeYAML writes doc as YAML with two-space indentation.
func EncodeYAML(w io.Writer, doc *Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
