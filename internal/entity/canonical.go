package entity

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// DomainGraph is the domain-separation prefix for graph fingerprints.
// The version suffix allows a future change of encoding.
const DomainGraph = "entitygraph/graph/v1"

// MarshalCanonical produces RFC 8785 style canonical JSON.
//
// Differences from encoding/json:
//  1. Object keys sorted by UTF-16 code units
//  2. No HTML escaping; U+2028/U+2029 emitted literally
//  3. Strings NFC normalized
//  4. Floats and null rejected (literals are encoded by lexical form)
//
// Supported inputs: string, bool, int, int64, []any, map[string]any and the
// model types Identity, Predicate, Literal and Reference.
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("null is forbidden in canonical JSON")
	case string:
		return writeCanonicalString(buf, val)
	case Identity:
		return writeCanonicalString(buf, val.String())
	case Predicate:
		return writeCanonicalString(buf, string(val))
	case Literal:
		return writeCanonical(buf, map[string]any{
			"datatype": string(val.datatype),
			"lexical":  val.lexical,
		})
	case Reference:
		return writeCanonical(buf, map[string]any{"ref": val.target.String()})
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case int:
		fmt.Fprintf(buf, "%d", val)
		return nil
	case int64:
		fmt.Fprintf(buf, "%d", val)
		return nil
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
		return nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, compareUTF16)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonicalString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("object[%q]: %w", k, err)
			}
		}
		buf.WriteByte('}')
		return nil
	case float32, float64:
		return fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

// writeCanonicalString writes a JSON string: NFC normalized, no HTML
// escaping, U+2028/U+2029 left unescaped.
func writeCanonicalString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	out := bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'})
	buf.Write(unescapeLineSeparators(out))
	return nil
}

// unescapeLineSeparators rewrites \u2028 and \u2029 escapes emitted by
// encoding/json back to literal characters. An escape preceded by an odd
// run of backslashes is itself escaped text and is kept.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] == '\\' && i+5 < len(data) && string(data[i+1:i+5]) == "u202" &&
			(data[i+5] == '8' || data[i+5] == '9') && trailingBackslashes(out)%2 == 0 {
			if data[i+5] == '8' {
				out = append(out, "\u2028"...)
			} else {
				out = append(out, "\u2029"...)
			}
			i += 5
			continue
		}
		out = append(out, data[i])
	}
	return out
}

func trailingBackslashes(b []byte) int {
	n := 0
	for i := len(b) - 1; i >= 0 && b[i] == '\\'; i-- {
		n++
	}
	return n
}

// compareUTF16 orders strings by UTF-16 code units as RFC 8785 requires.
// Go's native string order is by UTF-8 bytes, which differs above U+FFFF.
func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}

// CanonicalNode returns the canonical document form of a node: identity,
// properties sorted by predicate, values sorted by their canonical encoding.
func CanonicalNode(n Node) (map[string]any, error) {
	props := n.Properties()
	slices.SortFunc(props, func(a, b Property) int {
		return compareUTF16(string(a.predicate), string(b.predicate))
	})
	encoded := make([]any, 0, len(props))
	for _, p := range props {
		values := make([]string, 0, len(p.values))
		for _, v := range p.values {
			b, err := MarshalCanonical(v)
			if err != nil {
				return nil, fmt.Errorf("%s %s: %w", n.Identity(), p.predicate, err)
			}
			values = append(values, string(b))
		}
		slices.Sort(values)
		list := make([]any, len(values))
		for i, v := range values {
			list[i] = v
		}
		encoded = append(encoded, map[string]any{
			"predicate": string(p.predicate),
			"values":    list,
		})
	}
	return map[string]any{
		"id":         n.Identity().String(),
		"properties": encoded,
	}, nil
}

// Fingerprint computes a SHA-256 digest over the canonical form of a set of
// nodes. The result does not depend on node, property or value order.
// Format: hex(SHA256(DomainGraph + 0x00 + canonical JSON)).
func Fingerprint(nodes []Node) (string, error) {
	docs := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		doc, err := CanonicalNode(n)
		if err != nil {
			return "", err
		}
		docs = append(docs, doc)
	}
	slices.SortFunc(docs, func(a, b map[string]any) int {
		return compareUTF16(a["id"].(string), b["id"].(string))
	})
	list := make([]any, len(docs))
	for i, d := range docs {
		list[i] = d
	}
	canonical, err := MarshalCanonical(list)
	if err != nil {
		return "", fmt.Errorf("fingerprint: %w", err)
	}
	h := sha256.New()
	h.Write([]byte(DomainGraph))
	h.Write([]byte{0x00})
	h.Write(canonical)
	return hex.EncodeToString(h.Sum(nil)), nil
}
