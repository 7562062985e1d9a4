package record

import (
	"fmt"
	"time"
)

type valueKind uint8

const (
	nullValue valueKind = iota
	numberValue
	stringValue
	boolValue
	dateValue
)

// Value is one typed field value: number, string, boolean or date.
// The zero Value is null.
type Value struct {
	kind valueKind
	num  float64
	str  string
	b    bool
	t    time.Time
}

func NumberValue(n float64) Value  { return Value{kind: numberValue, num: n} }
func StringValue(s string) Value   { return Value{kind: stringValue, str: s} }
func BoolValue(b bool) Value       { return Value{kind: boolValue, b: b} }
func DateValue(t time.Time) Value  { return Value{kind: dateValue, t: t} }

func (v Value) IsNull() bool { return v.kind == nullValue }

func (v Value) Number() (float64, bool) { return v.num, v.kind == numberValue }
func (v Value) Text() (string, bool)    { return v.str, v.kind == stringValue }
func (v Value) Bool() (bool, bool)      { return v.b, v.kind == boolValue }
func (v Value) Date() (time.Time, bool) { return v.t, v.kind == dateValue }

// Equal reports whether two values carry the same type and content.
// Used to detect conflicting duplicates at snapshot load.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case numberValue:
		return v.num == o.num
	case stringValue:
		return v.str == o.str
	case boolValue:
		return v.b == o.b
	case dateValue:
		return v.t.Equal(o.t)
	}
	return true // both null
}

func (v Value) String() string {
	switch v.kind {
	case numberValue:
		return fmt.Sprintf("%g", v.num)
	case stringValue:
		return v.str
	case boolValue:
		return fmt.Sprintf("%t", v.b)
	case dateValue:
		return v.t.Format("2006-01-02")
	}
	return "null"
}
