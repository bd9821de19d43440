// Package runtime implements the tree-walking interpreter and the runtime
// value system for BLang.
package runtime

import (
	"strconv"
)

// Value is a runtime value: IntVal, StringVal or BoolVal. No other
// implementations exist.
type Value interface {
	TypeName() string
	String() string
}

// IntVal is an Integer.
type IntVal int64

func (v IntVal) TypeName() string { return "int" }
func (v IntVal) String() string   { return strconv.FormatInt(int64(v), 10) }

// StringVal is a String.
type StringVal string

func (v StringVal) TypeName() string { return "string" }
func (v StringVal) String() string   { return string(v) }

// BoolVal is a Boolean. It has no literal syntax; comparisons produce it.
type BoolVal bool

func (v BoolVal) TypeName() string { return "bool" }
func (v BoolVal) String() string   { return strconv.FormatBool(bool(v)) }

// IsTruthy reports whether v selects the taken branch of an if or keeps a
// loop running. Integers are truthy when nonzero, booleans are themselves,
// and every string (including "") is truthy.
func IsTruthy(v Value) bool {
	switch val := v.(type) {
	case IntVal:
		return val != 0
	case BoolVal:
		return bool(val)
	default:
		return true
	}
}

// valuesEqual implements ==. Values of different kinds are never equal.
func valuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case IntVal:
		bv, ok := b.(IntVal)
		return ok && av == bv
	case StringVal:
		bv, ok := b.(StringVal)
		return ok && av == bv
	case BoolVal:
		bv, ok := b.(BoolVal)
		return ok && av == bv
	default:
		return false
	}
}
