package knob

import (
	"fmt"
	"strconv"
)

// ValueKind enumerates the types a Value can hold.
type ValueKind int

const (
	KindNil ValueKind = iota
	KindBool
	KindInt // also used for enumerated choices (ComboBox index)
	KindDouble
	KindString
)

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is the tagged union stored per knob dimension. Extracting the
// wrong type is a caller bug and panics; there is no implicit numeric
// coercion beyond the Float view used for interpolation.
type Value struct {
	kind ValueKind
	b    bool
	i    int64
	f    float64
	s    string
}

// BoolValue wraps a bool.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// IntValue wraps an int.
func IntValue(i int) Value { return Value{kind: KindInt, i: int64(i)} }

// DoubleValue wraps a float64.
func DoubleValue(f float64) Value { return Value{kind: KindDouble, f: f} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// Kind returns the tag of the value.
func (v Value) Kind() ValueKind { return v.kind }

// IsNil reports whether the value has never been set.
func (v Value) IsNil() bool { return v.kind == KindNil }

func (v Value) mustBe(k ValueKind) {
	if v.kind != k {
		panic(fmt.Sprintf("knob: value is %s, not %s", v.kind, k))
	}
}

// Bool extracts the bool payload. Panics if the value is not a bool.
func (v Value) Bool() bool {
	v.mustBe(KindBool)
	return v.b
}

// Int extracts the int payload. Panics if the value is not an int.
func (v Value) Int() int {
	v.mustBe(KindInt)
	return int(v.i)
}

// Double extracts the float payload. Panics if the value is not a double.
func (v Value) Double() float64 {
	v.mustBe(KindDouble)
	return v.f
}

// Str extracts the string payload. Panics if the value is not a string.
func (v Value) Str() string {
	v.mustBe(KindString)
	return v.s
}

// IsNumeric reports whether the value participates in interpolation.
func (v Value) IsNumeric() bool {
	return v.kind == KindInt || v.kind == KindDouble
}

// Float returns a numeric view of the value for interpolation and
// range checks. Panics for string values.
func (v Value) Float() float64 {
	switch v.kind {
	case KindBool:
		if v.b {
			return 1
		}
		return 0
	case KindInt:
		return float64(v.i)
	case KindDouble:
		return v.f
	}
	panic(fmt.Sprintf("knob: value of kind %s has no numeric view", v.kind))
}

// numberOfKind rebuilds a Value of the given numeric kind from a float.
// Int values round to nearest.
func numberOfKind(kind ValueKind, f float64) Value {
	switch kind {
	case KindInt:
		if f >= 0 {
			return IntValue(int(f + 0.5))
		}
		return IntValue(int(f - 0.5))
	case KindDouble:
		return DoubleValue(f)
	}
	panic(fmt.Sprintf("knob: cannot build number of kind %s", kind))
}

// Equal reports exact equality of tag and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindDouble:
		return v.f == o.f
	default:
		return v.s == o.s
	}
}

// Less orders two values of the same kind. Numeric kinds compare by the
// float view, strings lexicographically. Mixed kinds are a caller bug.
func (v Value) Less(o Value) bool {
	if v.kind == KindString || o.kind == KindString {
		return v.Str() < o.Str()
	}
	return v.Float() < o.Float()
}

// String renders the value for logs and error messages.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "<nil>"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindDouble:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	default:
		return strconv.Quote(v.s)
	}
}
