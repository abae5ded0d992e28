package entity

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Datatype names the scalar type of a literal.
type Datatype string

const (
	TypeString   Datatype = "string"
	TypeInt      Datatype = "int"
	TypeFloat    Datatype = "float"
	TypeBool     Datatype = "bool"
	TypeDateTime Datatype = "datetime"
)

// Datatypes lists every supported datatype in declaration order.
var Datatypes = []Datatype{TypeString, TypeInt, TypeFloat, TypeBool, TypeDateTime}

// Literal is a scalar property value: a datatype plus a canonical lexical form.
//
// Literals are comparable with ==. Two literals built from equal Go values
// (or parsed from lexical forms denoting equal values) are equal.
type Literal struct {
	datatype Datatype
	lexical  string
}

func (Literal) isValue() {}

// String creates a string literal. The text is NFC normalized.
func String(s string) Literal {
	return Literal{datatype: TypeString, lexical: norm.NFC.String(s)}
}

// Int creates an integer literal.
func Int(n int64) Literal {
	return Literal{datatype: TypeInt, lexical: strconv.FormatInt(n, 10)}
}

// Float creates a floating point literal using the shortest lexical form
// that round-trips.
func Float(f float64) Literal {
	return Literal{datatype: TypeFloat, lexical: formatFloat(f)}
}

// Bool creates a boolean literal.
func Bool(b bool) Literal {
	return Literal{datatype: TypeBool, lexical: strconv.FormatBool(b)}
}

// Time creates a datetime literal, normalized to UTC RFC 3339.
func Time(t time.Time) Literal {
	return Literal{datatype: TypeDateTime, lexical: t.UTC().Format(time.RFC3339Nano)}
}

// ParseError reports a lexical form that does not denote a value of its
// declared datatype.
type ParseError struct {
	Datatype Datatype
	Raw      string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot parse %q as %s: %v", e.Raw, e.Datatype, e.Err)
	}
	return fmt.Sprintf("cannot parse %q as %s", e.Raw, e.Datatype)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// literalCodec converts between lexical forms and literals for one datatype.
type literalCodec func(raw string) (Literal, error)

var codecs = map[Datatype]literalCodec{
	TypeString: func(raw string) (Literal, error) {
		return String(raw), nil
	},
	TypeInt: func(raw string) (Literal, error) {
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return Literal{}, err
		}
		return Int(n), nil
	},
	TypeFloat: func(raw string) (Literal, error) {
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Literal{}, err
		}
		return Float(f), nil
	},
	TypeBool: func(raw string) (Literal, error) {
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return Literal{}, err
		}
		return Bool(b), nil
	},
	TypeDateTime: func(raw string) (Literal, error) {
		t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(raw))
		if err != nil {
			return Literal{}, err
		}
		return Time(t), nil
	},
}

// ParseLiteral parses a lexical form of the given datatype.
// An empty datatype defaults to TypeString.
// The result is canonical: ParseLiteral(TypeInt, "007") equals Int(7).
func ParseLiteral(datatype Datatype, raw string) (Literal, error) {
	if datatype == "" {
		datatype = TypeString
	}
	codec, ok := codecs[datatype]
	if !ok {
		return Literal{}, &ParseError{Datatype: datatype, Raw: raw, Err: fmt.Errorf("unknown datatype")}
	}
	lit, err := codec(raw)
	if err != nil {
		return Literal{}, &ParseError{Datatype: datatype, Raw: raw, Err: err}
	}
	return lit, nil
}

// LiteralOf converts a native Go value to a literal.
// Supported: string, bool, all int kinds, float32/64, time.Time.
func LiteralOf(v any) (Literal, error) {
	switch val := v.(type) {
	case Literal:
		return val, nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case int:
		return Int(int64(val)), nil
	case int32:
		return Int(int64(val)), nil
	case int64:
		return Int(val), nil
	case uint32:
		return Int(int64(val)), nil
	case uint64:
		if val > math.MaxInt64 {
			return Literal{}, fmt.Errorf("integer %d overflows int64", val)
		}
		return Int(int64(val)), nil
	case float32:
		return Float(float64(val)), nil
	case float64:
		return Float(val), nil
	case time.Time:
		return Time(val), nil
	default:
		return Literal{}, fmt.Errorf("unsupported literal type: %T", v)
	}
}

// Datatype returns the literal's datatype.
func (l Literal) Datatype() Datatype {
	return l.datatype
}

// Lexical returns the canonical lexical form.
func (l Literal) Lexical() string {
	return l.lexical
}

// IsZero reports whether the literal is unset.
func (l Literal) IsZero() bool {
	return l.datatype == ""
}

// String renders the literal for diagnostics, e.g. "5"^^int.
func (l Literal) String() string {
	return strconv.Quote(l.lexical) + "^^" + string(l.datatype)
}

// Native returns the literal as a Go value: string, int64, float64, bool
// or time.Time.
func (l Literal) Native() any {
	switch l.datatype {
	case TypeInt:
		n, _ := strconv.ParseInt(l.lexical, 10, 64)
		return n
	case TypeFloat:
		f, _ := strconv.ParseFloat(l.lexical, 64)
		return f
	case TypeBool:
		return l.lexical == "true"
	case TypeDateTime:
		t, _ := time.Parse(time.RFC3339Nano, l.lexical)
		return t
	default:
		return l.lexical
	}
}

// AsInt returns the integer value of an int literal.
func (l Literal) AsInt() (int64, error) {
	if l.datatype != TypeInt {
		return 0, l.mismatch(TypeInt)
	}
	return strconv.ParseInt(l.lexical, 10, 64)
}

// AsFloat returns the value of a float or int literal.
func (l Literal) AsFloat() (float64, error) {
	if l.datatype != TypeFloat && l.datatype != TypeInt {
		return 0, l.mismatch(TypeFloat)
	}
	return strconv.ParseFloat(l.lexical, 64)
}

// AsBool returns the value of a bool literal.
func (l Literal) AsBool() (bool, error) {
	if l.datatype != TypeBool {
		return false, l.mismatch(TypeBool)
	}
	return strconv.ParseBool(l.lexical)
}

// AsTime returns the value of a datetime literal.
func (l Literal) AsTime() (time.Time, error) {
	if l.datatype != TypeDateTime {
		return time.Time{}, l.mismatch(TypeDateTime)
	}
	return time.Parse(time.RFC3339Nano, l.lexical)
}

func (l Literal) mismatch(want Datatype) error {
	return fmt.Errorf("literal %s is not of datatype %s", l, want)
}

func formatFloat(f float64) string {
	if f == 0 {
		// Fold -0 into 0 so equal values stay equal under ==.
		return "0"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
