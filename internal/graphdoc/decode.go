package graphdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// DecodeYAML parses a YAML (or JSON) document. Unknown fields are errors.
func DecodeYAML(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &Error{Code: ErrCodeEmpty, Message: "document is empty"}
		}
		return nil, &Error{Code: ErrCodeSyntax, Field: "yaml", Message: err.Error()}
	}
	return &doc, nil
}

// DecodeCUE evaluates a CUE document. The value must be concrete.
// filename is used for error positions only.
func DecodeCUE(src []byte, filename string) (*Document, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var doc Document
	if err := v.Decode(&doc); err != nil {
		return nil, formatCUEError(err)
	}
	return &doc, nil
}

// Decode parses src according to the file extension of name:
// .cue for CUE, .yaml, .yml or .json for YAML.
func Decode(src []byte, name string) (*Document, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".cue":
		return DecodeCUE(src, name)
	case ".yaml", ".yml", ".json":
		return DecodeYAML(bytes.NewReader(src))
	default:
		return nil, &Error{Code: ErrCodeFormat, Field: name, Message: fmt.Sprintf("unsupported document extension %q", ext)}
	}
}

// Load reads and builds the graph document at path.
func Load(path string) (*Graph, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph document: %w", err)
	}
	doc, err := Decode(src, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	g, err := Build(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
