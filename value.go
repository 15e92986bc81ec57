package mindb

import (
	"io"
	"strconv"
	"strings"
)

// Type identifies one of the four primitive value types a column can hold.
type Type uint8

const (
	TypeBool Type = iota
	TypeInt32
	TypeDouble
	TypeString
)

func (t Type) String() string {
	switch t {
	case TypeBool:
		return "bool"
	case TypeInt32:
		return "int32"
	case TypeDouble:
		return "double"
	case TypeString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a tagged sum type over the four primitive types. Only one of
// the payload fields is meaningful, selected by Typ.
type Value struct {
	Typ Type
	B   bool
	I   int32
	D   float64
	S   string
}

func BoolValue(b bool) Value { return Value{Typ: TypeBool, B: b} }
func Int32Value(i int32) Value { return Value{Typ: TypeInt32, I: i} }
func DoubleValue(d float64) Value { return Value{Typ: TypeDouble, D: d} }
func StringValue(s string) Value { return Value{Typ: TypeString, S: s} }

// Size returns the on-disk byte size of the value: 1, 4, 8, or 4+len(bytes).
func (v Value) Size() int {
	switch v.Typ {
	case TypeBool:
		return 1
	case TypeInt32:
		return 4
	case TypeDouble:
		return 8
	case TypeString:
		return 4 + len(v.S)
	default:
		return 0
	}
}

func (v Value) String() string {
	switch v.Typ {
	case TypeBool:
		return strconv.FormatBool(v.B)
	case TypeInt32:
		return strconv.FormatInt(int64(v.I), 10)
	case TypeDouble:
		return strconv.FormatFloat(v.D, 'g', -1, 64)
	case TypeString:
		// output formatting doubles single quotes; round-trip through the
		// textual literal path is intentionally lossy for strings that
		// contain a quote (spec open question, not guessed further).
		return "'" + strings.ReplaceAll(v.S, "'", "''") + "'"
	default:
		return "<invalid>"
	}
}

// write serializes the value using the codec in §4.1, no separators.
func (v Value) write(w io.Writer) error {
	switch v.Typ {
	case TypeBool:
		return writeBool(w, v.B)
	case TypeInt32:
		return writeI32(w, v.I)
	case TypeDouble:
		return writeF64(w, v.D)
	case TypeString:
		return writeString(w, v.S)
	default:
		return integrityErr("write: unknown value type %v", v.Typ)
	}
}

// readValue reads a single value of the given type from r.
func readValue(r io.Reader, typ Type) (Value, error) {
	switch typ {
	case TypeBool:
		b, err := readBool(r)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(b), nil
	case TypeInt32:
		i, err := readI32(r)
		if err != nil {
			return Value{}, err
		}
		return Int32Value(i), nil
	case TypeDouble:
		d, err := readF64(r)
		if err != nil {
			return Value{}, err
		}
		return DoubleValue(d), nil
	case TypeString:
		s, err := readString(r)
		if err != nil {
			return Value{}, err
		}
		return StringValue(s), nil
	default:
		return Value{}, integrityErr("read: unknown value type %v", typ)
	}
}

// Cmp compares a and b. Ordering is only defined between like-typed
// numeric values (Int32/Int32, Double/Double); any other pairing —
// including same-typed Bool/Bool or String/String, which have no ordering
// in this model — returns ok=false ("incomparable").
func (v Value) Cmp(o Value) (result int, ok bool) {
	if v.Typ != o.Typ {
		return 0, false
	}
	switch v.Typ {
	case TypeInt32:
		switch {
		case v.I < o.I:
			return -1, true
		case v.I > o.I:
			return 1, true
		default:
			return 0, true
		}
	case TypeDouble:
		switch {
		case v.D < o.D:
			return -1, true
		case v.D > o.D:
			return 1, true
		default:
			return 0, true
		}
	default:
		return 0, false
	}
}

// Equal reports variant-wise equality. Unlike Cmp, equality is defined for
// every type (including Bool and String) so `=`/`!=` predicates work on
// them; ordering comparisons stay restricted to the numeric types.
func (v Value) Equal(o Value) bool {
	if v.Typ != o.Typ {
		return false
	}
	switch v.Typ {
	case TypeBool:
		return v.B == o.B
	case TypeInt32:
		return v.I == o.I
	case TypeDouble:
		return v.D == o.D
	case TypeString:
		return v.S == o.S
	default:
		return false
	}
}

// ParseLiteral parses a textual literal in the order the spec prescribes:
// bool, then int32, then float64, then single-quoted string, else a parse
// error. No escape processing is performed on quoted strings.
func ParseLiteral(lit string) (Value, error) {
	if lit == "true" || lit == "false" {
		return BoolValue(lit == "true"), nil
	}
	if i, err := strconv.ParseInt(lit, 10, 32); err == nil {
		return Int32Value(int32(i)), nil
	}
	if d, err := strconv.ParseFloat(lit, 64); err == nil {
		return DoubleValue(d), nil
	}
	if len(lit) >= 2 && strings.HasPrefix(lit, "'") && strings.HasSuffix(lit, "'") {
		return StringValue(lit[1 : len(lit)-1]), nil
	}
	return Value{}, parseErr("cannot parse literal %q as bool, int32, double, or quoted string", lit)
}
