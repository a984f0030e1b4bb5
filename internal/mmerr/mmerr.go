// Package mmerr defines the structured errors raised by every pipeline
// stage (parser, compiler, vm, callable). Each error names the component
// that raised it, a position within that component's input, and the
// offending fragment: component identity, source location, and context
// travel with every error.
package mmerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind discriminates the error categories callers may want to switch on
// without string-matching Msg.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnmatchedOpenParen
	KindUnmatchedCloseParen
	KindUnknownSymbol
	KindInvalidName
	KindOperatorNotFound
	KindNullToken
	KindUnknownToken
	KindInvalidAssignment
	KindBroadcastConstruction
	KindStackUnderflow
)

func (k Kind) String() string {
	switch k {
	case KindUnmatchedOpenParen:
		return "unmatched_opening_par"
	case KindUnmatchedCloseParen:
		return "unmatched_closing_par"
	case KindUnknownSymbol:
		return "unknown_symbol"
	case KindInvalidName:
		return "invalid_name"
	case KindOperatorNotFound:
		return "operator_not_found"
	case KindNullToken:
		return "null_token"
	case KindUnknownToken:
		return "unknown_token"
	case KindInvalidAssignment:
		return "invalid_assignment"
	case KindBroadcastConstruction:
		return "broadcast_construction"
	case KindStackUnderflow:
		return "stack_underflow"
	default:
		return "unknown"
	}
}

// Position locates an error within the input of the component that raised
// it, not in this module's Go source: a byte offset into the expression
// text for parser validation errors, a token index for compiler errors,
// an instruction index for vm errors. Callable errors and the parser's
// tokenize-stage errors carry 0.
type Position struct {
	Offset int
}

// Error is the structured error raised by the scanner/parser/compiler/vm.
type Error struct {
	Component string
	Kind      Kind
	Pos       Position
	Msg       string
	Context   string
	cause     error
}

func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s at %d: %s (%q)", e.Component, e.Kind, e.Pos.Offset, e.Msg, e.Context)
	}
	return fmt.Sprintf("%s: %s at %d: %s", e.Component, e.Kind, e.Pos.Offset, e.Msg)
}

// Unwrap lets errors.Is/As reach a wrapped cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// New builds an Error carrying a stack trace via pkg/errors, so a %+v
// format during development shows where in this module the error was
// raised (component identity plus Go-level call site), in addition to the
// Position within the user's expression text.
func New(component string, kind Kind, pos int, context string, format string, args ...interface{}) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{
		Component: component,
		Kind:      kind,
		Pos:       Position{Offset: pos},
		Msg:       msg,
		Context:   context,
		cause:     errors.WithStack(errors.New(msg)),
	}
}

// Wrap attaches component/kind/position metadata to an existing error,
// preserving it as the cause.
func Wrap(component string, kind Kind, pos int, context string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Component: component,
		Kind:      kind,
		Pos:       Position{Offset: pos},
		Msg:       err.Error(),
		Context:   context,
		cause:     errors.WithStack(err),
	}
}
