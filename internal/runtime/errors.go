package runtime

import (
	"blang/internal/span"
	"errors"
	"fmt"
)

// Error categories. Every *Error wraps exactly one of these, so callers can
// match with errors.Is.
var (
	ErrUndefinedVariable = errors.New("undefined variable")
	ErrUndefinedFunction = errors.New("undefined function")
	ErrArityMismatch     = errors.New("arity mismatch")
	ErrTypeMismatch      = errors.New("type mismatch")
	ErrAdditionType      = errors.New("addition type error")
	ErrOperandType       = errors.New("operand type error")
)

var categoryNames = map[error]string{
	ErrUndefinedVariable: "UndefinedVariable",
	ErrUndefinedFunction: "UndefinedFunction",
	ErrArityMismatch:     "ArityMismatch",
	ErrTypeMismatch:      "TypeMismatch",
	ErrAdditionType:      "AdditionTypeError",
	ErrOperandType:       "OperandTypeError",
}

// Error is a runtime failure. The first Error raised aborts the run.
type Error struct {
	Kind    error
	Message string
	Span    span.Span
}

// Category returns the report name of the error's kind, e.g. "TypeMismatch".
func (e *Error) Category() string {
	if name, ok := categoryNames[e.Kind]; ok {
		return name
	}
	return "RuntimeError"
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Category(), e.Span.Start, e.Message)
}

func (e *Error) Unwrap() error { return e.Kind }

func runtimeErr(kind error, s span.Span, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Span: s}
}
