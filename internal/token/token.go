// Package token defines the tagged-variant token stream the parser
// produces and the compiler consumes.
package token

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the token variants.
type Kind int

const (
	Value Kind = iota
	Name
	Function
	Operator
	Unknown
)

func (k Kind) String() string {
	switch k {
	case Value:
		return "Value"
	case Name:
		return "Name"
	case Function:
		return "Function"
	case Operator:
		return "Operator"
	default:
		return "Unknown"
	}
}

// Token is the tagged variant: Value | Name | Function | Operator | Unknown.
// Go has no sum types, so each variant is its own struct and Kind() is the
// discriminant switch callers use instead of a type-only switch — one
// struct per variant, since the Function/Operator variants carry arity
// metadata Value/Name don't.
type Token interface {
	Kind() Kind
	String() string
}

// ValueTok is a numeric literal, still in its original text form; the
// compiler parses it with strconv when it lowers to a LoadConst.
type ValueTok struct {
	Text string
}

func (ValueTok) Kind() Kind        { return Value }
func (t ValueTok) String() string  { return t.Text }

// NameTok is a bare identifier: a variable, constant, or (when count_args
// is off) a zero-arg function reference.
type NameTok struct {
	Name string
}

func (NameTok) Kind() Kind       { return Name }
func (t NameTok) String() string { return t.Name }

// FunctionTok is a resolved function call, annotated with declared input
// arity (ArgsIn) and, when known, output arity (ArgsOut == -1 means
// unknown / not tracked).
type FunctionTok struct {
	Name    string
	ArgsIn  int
	ArgsOut int
}

func (FunctionTok) Kind() Kind { return Function }
func (t FunctionTok) String() string {
	if t.ArgsOut >= 0 {
		return fmt.Sprintf("%s[%d %d]", t.Name, t.ArgsIn, t.ArgsOut)
	}
	return fmt.Sprintf("%s[%d]", t.Name, t.ArgsIn)
}

// OperatorTok is a resolved (or, with count_args off, unresolved — LArgs
// RArgs Outs all -1) operator occurrence.
type OperatorTok struct {
	Name  string
	LArgs int
	RArgs int
	Outs  int
}

func (OperatorTok) Kind() Kind { return Operator }
func (t OperatorTok) String() string {
	if t.LArgs < 0 && t.RArgs < 0 && t.Outs < 0 {
		return t.Name
	}
	return fmt.Sprintf("%s[%d %d %d]", t.Name, t.LArgs, t.RArgs, t.Outs)
}

// UnknownTok is an unrecognized lexeme; it always becomes an
// unknown_token compile error, never a valid instruction.
type UnknownTok struct {
	Text string
}

func (UnknownTok) Kind() Kind       { return Unknown }
func (t UnknownTok) String() string { return t.Text }

// Render re-emits a token stream as the space-separated RPN text the
// parser's tokenizer stage would itself accept as input to re-derive the
// same stream — the round-trip property from the testable-properties
// section.
func Render(toks []Token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// ParseFloat is the single place the module converts a Value token's text
// into a float64, so the scanner's number grammar and the compiler's
// literal parsing can never disagree about what counts as a valid number.
func ParseFloat(text string) (float64, error) {
	return strconv.ParseFloat(text, 64)
}
