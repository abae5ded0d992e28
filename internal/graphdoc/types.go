package graphdoc

// Document is the serialized form of an entity graph.
// Field tags serve both yaml.v3 and CUE decoding (which uses json tags).
type Document struct {
	Root     string      `yaml:"root,omitempty" json:"root,omitempty"`
	Entities []EntityDoc `yaml:"entities" json:"entities"`
}

// EntityDoc describes one entity.
type EntityDoc struct {
	ID         string        `yaml:"id" json:"id"`
	Properties []PropertyDoc `yaml:"properties,omitempty" json:"properties,omitempty"`
}

// PropertyDoc describes one property.
type PropertyDoc struct {
	Predicate string     `yaml:"predicate" json:"predicate"`
	Values    []ValueDoc `yaml:"values" json:"values"`
}

// ValueDoc is a literal or a reference. Exactly one of Literal and Ref is
// set.
type ValueDoc struct {
	Literal  *string `yaml:"literal,omitempty" json:"literal,omitempty"`
	Datatype string  `yaml:"datatype,omitempty" json:"datatype,omitempty"`
	Ref      string  `yaml:"ref,omitempty" json:"ref,omitempty"`
}

// LiteralValue builds a literal ValueDoc.
func LiteralValue(lexical, datatype string) ValueDoc {
	return ValueDoc{Literal: &lexical, Datatype: datatype}
}

// RefValue builds a reference ValueDoc.
func RefValue(id string) ValueDoc {
	return ValueDoc{Ref: id}
}
