// Package model defines the data types shared across sysu: values, units,
// targets, dependencies, and the emit/operation vocabulary units speak.
package model

import (
	"fmt"
	"strconv"
)

// ValueType identifies the runtime type carried by a Value.
type ValueType int

const (
	TypeString ValueType = iota
	TypeInt
	TypeFloat
	TypeBool
)

func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeBool:
		return "bool"
	default:
		return "unknown"
	}
}

// ValueTypeFromString parses the `string|int|bool|float` type vocabulary
// used by param and capture declarations.
func ValueTypeFromString(s string) (ValueType, error) {
	switch s {
	case "string":
		return TypeString, nil
	case "int":
		return TypeInt, nil
	case "bool":
		return TypeBool, nil
	case "float":
		return TypeFloat, nil
	default:
		return 0, fmt.Errorf("invalid value type: %s", s)
	}
}

// Value is a tagged variant over {string, int, float, bool}, as emitted by
// units and passed as unit arguments.
type Value interface {
	Type() ValueType
	// Tag renders a display-friendly, possibly-truncated representation.
	Tag(maxLen int) string
	fmt.Stringer
}

type StringValue string

func (v StringValue) Type() ValueType { return TypeString }
func (v StringValue) String() string  { return string(v) }
func (v StringValue) Tag(maxLen int) string {
	s := string(v)
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}

type IntValue int64

func (v IntValue) Type() ValueType      { return TypeInt }
func (v IntValue) String() string       { return strconv.FormatInt(int64(v), 10) }
func (v IntValue) Tag(maxLen int) string { return v.String() }

type FloatValue float64

func (v FloatValue) Type() ValueType { return TypeFloat }
func (v FloatValue) String() string  { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (v FloatValue) Tag(maxLen int) string { return v.String() }

type BoolValue bool

func (v BoolValue) Type() ValueType { return TypeBool }
func (v BoolValue) String() string  { return strconv.FormatBool(bool(v)) }
func (v BoolValue) Tag(maxLen int) string { return v.String() }

// ParseFromString picks the first successful interpretation of s, in order
// bool -> int -> float -> string. Bool only matches the literal tokens
// "true"/"false" (not strconv.ParseBool's wider "1"/"t"/"T" vocabulary),
// so that numeric-looking args never get misread as booleans.
func ParseFromString(s string) Value {
	switch s {
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntValue(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return FloatValue(f)
	}
	return StringValue(s)
}
