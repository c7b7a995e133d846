// Package runtime holds the value model, the environment chain and the
// callable types shared between a running function and the interpreter
// that invokes it. It is kept free of any dependency on the interpreter
// package itself: a Callable invokes its body through the narrow Interp
// interface in callable.go, so this package can be imported by both the
// interpreter and (in principle) any future caller without a cycle.
package runtime

import "github.com/sdcook/lox/internal/token"

// Value is the runtime value union: String, Number, Boolean, Nil or
// Callable. There is deliberately no method for arithmetic or comparison
// here — those require source-line diagnostics and live in the
// interpreter, which is the only place that can fail gracefully.
type Value interface {
	// String renders the user-facing ("stringify") form of the value —
	// what `print` writes, not a debug dump.
	String() string
}

// Nil is the canonical nil value. Interned rather than re-allocated: all
// NilValue occurrences compare equal under Go's `==` as well as ValuesEqual.
var Nil Value = NilValue{}

type NilValue struct{}

func (NilValue) String() string { return "nil" }

type BoolValue bool

func (b BoolValue) String() string {
	if b {
		return "true"
	}
	return "false"
}

type NumberValue float64

func (n NumberValue) String() string { return token.StrippedNumber(float64(n)) }

type StringValue string

func (s StringValue) String() string { return string(s) }

// IsTruthy implements the language's truthiness: only Nil and false are
// falsey, everything else — including 0 and "" — is truthy.
func IsTruthy(v Value) bool {
	switch t := v.(type) {
	case NilValue:
		return false
	case BoolValue:
		return bool(t)
	default:
		return true
	}
}

// ValuesEqual is defined for any pair; cross-variant comparisons are always
// false, and Number equality inherits float64's NaN-is-never-equal rule
// from Go's `==` operator.
func ValuesEqual(a, b Value) bool {
	switch av := a.(type) {
	case NilValue:
		_, ok := b.(NilValue)
		return ok
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av == bv
	case NumberValue:
		bv, ok := b.(NumberValue)
		return ok && av == bv
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av == bv
	default:
		// Callables compare by identity.
		return a == b
	}
}
