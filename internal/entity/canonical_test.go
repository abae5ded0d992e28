package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"no html escaping", "<a&b>", `"<a&b>"`},
		{"int", 42, "42"},
		{"int64", int64(-7), "-7"},
		{"bool", true, "true"},
		{"empty array", []any{}, "[]"},
		{"sorted keys", map[string]any{"b": 1, "a": 2}, `{"a":2,"b":1}`},
		{"identity", External("http://x"), `"http://x"`},
		{"literal", Int(5), `{"datatype":"int","lexical":"5"}`},
		{"reference", RefTo(Local("ns", "k")), `{"ref":"local:ns#k"}`},
		{"line separator", "a\u2028b", "\"a\u2028b\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalRejects(t *testing.T) {
	for _, v := range []any{nil, 1.5, float32(2), struct{}{}, []any{nil}} {
		_, err := MarshalCanonical(v)
		assert.Error(t, err, "%#v", v)
	}
}

func TestMarshalCanonical_EscapedBackslashKept(t *testing.T) {
	// A literal backslash followed by "u2028" text must stay escaped.
	result, err := MarshalCanonical(`\u2028`)
	require.NoError(t, err)
	assert.Equal(t, `"\\u2028"`, string(result))
}

func TestFingerprint_OrderIndependent(t *testing.T) {
	build := func(reverse bool) []Node {
		a := New(External("http://example.org/a"))
		b := New(External("http://example.org/b"))
		if reverse {
			b.AddLiteral(label, String("B"))
			a.AddLiteral(comment, String("c"))
			a.AddLiteral(label, String("A2"))
			a.AddLiteral(label, String("A"))
			a.AddReference(linkedTo, b)
			return []Node{b, a}
		}
		a.AddLiteral(label, String("A"))
		a.AddLiteral(label, String("A2"))
		a.AddReference(linkedTo, b)
		a.AddLiteral(comment, String("c"))
		b.AddLiteral(label, String("B"))
		return []Node{a, b}
	}

	f1, err := Fingerprint(build(false))
	require.NoError(t, err)
	f2, err := Fingerprint(build(true))
	require.NoError(t, err)

	assert.Equal(t, f1, f2)
	assert.Len(t, f1, 64)
}

func TestFingerprint_DetectsChange(t *testing.T) {
	a := New(External("http://example.org/a"))
	a.AddLiteral(label, String("A"))
	before, err := Fingerprint([]Node{a})
	require.NoError(t, err)

	a.AddLiteral(label, String("B"))
	after, err := Fingerprint([]Node{a})
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
}
