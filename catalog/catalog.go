// Package catalog assembles a ready-to-use env.Environment: the default
// function/operator/constant/variable table a host wires up before
// handing expressions to the parser and compiler. It is deliberately
// outside internal/ — nothing in internal/parser, internal/compiler,
// internal/vm or internal/env imports it, only cmd/mathvm and this
// package's own tests — because it is a *collaborator* assembling those
// packages' public pieces, not infrastructure they depend on.
//
// Registration order matters: env.Environment.LookupFunction is a linear
// scan in which the earliest registration wins on an arity-agnostic
// lookup, and two entries can legitimately share a name
// (scalar `*` vs the 3-tuple dot-product `*`) as long as their (largs,
// rargs) pairs differ.
package catalog

import (
	"math"

	"github.com/candycode/micromath/internal/callable"
	"github.com/candycode/micromath/internal/env"
	"github.com/candycode/micromath/internal/parser"
)

// Default returns a freshly built Environment with a standard set of
// functions, operators, constants and variables already registered: the
// seventeen unary math functions plus unary negate, the six symbolic binary
// operators plus five word-named aliases and atan2, vector assignment for
// 2/3/4-tuples, the 3D cross and dot products, 3-tuple component-wise
// broadcasts of every symbolic binary except `*` (reserved for the dot
// product — see the note on Operators, below), scalar assignment, and the
// constants/variables a bare expression evaluator expects to already
// exist.
func Default() *env.Environment {
	e := env.New()
	registerUnary(e)
	registerBinary(e)
	registerVectorAssign(e)
	registerVectorProducts(e)
	registerBroadcasts(e)
	e.RegisterFunction(callable.ScalarAssign("="))
	registerConstants(e)
	registerVariables(e)
	return e
}

// registerUnary registers the seventeen T->T math functions plus unary
// negate. negate is registered as a prefix operator (lvalues=0) so its
// arity matches the parser-side operator table's own entry for "-" —
// see DESIGN.md.
func registerUnary(e *env.Environment) {
	fns := []struct {
		name string
		f    func(float64) float64
	}{
		{"abs", math.Abs},
		{"acos", math.Acos},
		{"asin", math.Asin},
		{"atan", math.Atan},
		{"ceil", math.Ceil},
		{"cos", math.Cos},
		{"cosh", math.Cosh},
		{"exp", math.Exp},
		{"floor", math.Floor},
		{"inv", func(v float64) float64 { return 1 / v }},
		{"log", math.Log},
		{"log10", math.Log10},
		{"sin", math.Sin},
		{"sinh", math.Sinh},
		{"sqrt", math.Sqrt},
		{"tan", math.Tan},
		{"tanh", math.Tanh},
	}
	for _, fn := range fns {
		e.RegisterFunction(callable.Unary(fn.name, fn.f, 0))
	}
	e.RegisterFunction(callable.Unary("-", func(v float64) float64 { return -v }, 0))
}

// registerBinary registers the six symbolic infix operators, then the
// word-named aliases add, sub, div, mul and pow (same native operations,
// same (1,1) left/right split as the symbolic operators), then atan2 as a
// two-argument function (0,2).
func registerBinary(e *env.Environment) {
	ops := []struct {
		name string
		f    func(float64, float64) float64
	}{
		{"^", math.Pow},
		{"*", func(a, b float64) float64 { return a * b }},
		{"/", func(a, b float64) float64 { return a / b }},
		{"+", func(a, b float64) float64 { return a + b }},
		{"-", func(a, b float64) float64 { return a - b }},
		{"%", math.Mod},
	}
	for _, op := range ops {
		e.RegisterFunction(callable.Binary(op.name, op.f, 1, 1))
	}
	aliases := []struct {
		name string
		f    func(float64, float64) float64
	}{
		{"add", func(a, b float64) float64 { return a + b }},
		{"sub", func(a, b float64) float64 { return a - b }},
		{"div", func(a, b float64) float64 { return a / b }},
		{"mul", func(a, b float64) float64 { return a * b }},
		{"pow", math.Pow},
		{"atan2", math.Atan2},
	}
	for _, fn := range aliases {
		lvalues := 1
		if fn.name == "atan2" {
			lvalues = 0
		}
		e.RegisterFunction(callable.Binary(fn.name, fn.f, lvalues, 2-lvalues))
	}
}

// registerVectorAssign registers `=[n n n]` for n in {4,3,2}, in that
// descending order. Order among these three never matters for lookup
// (each n picks a disjoint arity).
func registerVectorAssign(e *env.Environment) {
	e.RegisterFunction(callable.VectorAssign(4))
	e.RegisterFunction(callable.VectorAssign(3))
	e.RegisterFunction(callable.VectorAssign(2))
}

// registerVectorProducts registers cross3 then the 3D dot-product
// overload of `*`.
func registerVectorProducts(e *env.Environment) {
	e.RegisterFunction(callable.Cross3())
	e.RegisterFunction(callable.Dot3())
}

// registerBroadcasts registers a 3-tuple component-wise broadcast for
// every symbolic binary operator except `*`. A broadcast `*[3 3 3]` would
// share the dot product's exact (largs=3, rargs=3) lookup key and
// permanently shadow or be shadowed by it depending on registration
// order — env.LookupFunction's exact-arity match can't disambiguate them
// by ValuesOut. This catalog drops the colliding broadcast rather than
// register an unreachable overload; see DESIGN.md.
func registerBroadcasts(e *env.Environment) {
	names := []string{"^", "/", "+", "-", "%"}
	for _, name := range names {
		base, ok := e.LookupFunction(name, 1, 1)
		if !ok {
			continue
		}
		b, err := callable.Broadcast(name, base, 3)
		if err != nil {
			continue
		}
		e.RegisterFunction(b)
	}
}

// registerConstants registers e, log2e and Pi.
func registerConstants(e *env.Environment) {
	e.RegisterConstant("e", 2.71828182845904523536)
	e.RegisterConstant("log2e", 1.44269504088896340736)
	e.RegisterConstant("Pi", 3.14159265358979323846)
}

// Operators returns the parser-side operator table matching the
// functions Default registers: the scalar infix shapes, the 3D
// dot-product overload of `*`, and the five 3-tuple broadcasts. cross3
// is deliberately absent — it's called function-call style
// ("cross3(...)"), so it belongs to the parser's function-call path, not
// its operator table, and needs no OperatorDef entry to be found.
//
// Table order is significant (see parser.DefaultOperators): this
// sequence — ^ (scalar then broadcast), * (dot then scalar), / and %
// (scalar then broadcast), unary -, binary - then its broadcast, +
// (broadcast then scalar), = (1 to 4 values) — fixes which operand
// shape postfixOperators tries first at each operator name. Order
// between two entries sharing one (name, Operands) pair (e.g. both `+`
// shapes) never changes which converts first in practice — once
// converted, an occurrence's brackets shield it from rematching — so it
// only needs to be stable enough to read, not exactly order-sensitive
// there; order between *different* operand-group shapes is what
// actually fixes precedence.
func Operators() []parser.OperatorDef {
	return []parser.OperatorDef{
		{Name: "^", Operands: 2, LArgs: 1, RArgs: 1, OutVals: 1},
		{Name: "^", Operands: 2, LArgs: 3, RArgs: 3, OutVals: 3},
		{Name: "*", Operands: 2, LArgs: 3, RArgs: 3, OutVals: 1}, // dot product
		{Name: "*", Operands: 2, LArgs: 1, RArgs: 1, OutVals: 1},
		{Name: "/", Operands: 2, LArgs: 1, RArgs: 1, OutVals: 1},
		{Name: "/", Operands: 2, LArgs: 3, RArgs: 3, OutVals: 3},
		{Name: "%", Operands: 2, LArgs: 1, RArgs: 1, OutVals: 1},
		{Name: "%", Operands: 2, LArgs: 3, RArgs: 3, OutVals: 3},
		{Name: "-", Operands: 1, LArgs: 0, RArgs: 1, OutVals: 1},
		{Name: "-", Operands: 2, LArgs: 1, RArgs: 1, OutVals: 1},
		{Name: "-", Operands: 2, LArgs: 3, RArgs: 3, OutVals: 3},
		{Name: "+", Operands: 2, LArgs: 3, RArgs: 3, OutVals: 3},
		{Name: "+", Operands: 2, LArgs: 1, RArgs: 1, OutVals: 1},
		{Name: "=", Operands: 2, LArgs: 1, RArgs: 1, OutVals: 1, Swap: true},
		{Name: "=", Operands: 2, LArgs: 2, RArgs: 2, OutVals: 2, Swap: true},
		{Name: "=", Operands: 2, LArgs: 3, RArgs: 3, OutVals: 3, Swap: true},
		{Name: "=", Operands: 2, LArgs: 4, RArgs: 4, OutVals: 4, Swap: true},
	}
}

// registerVariables pre-declares x, y, z, w at 0 — a host running with
// compiler.Config.CreateVars off still has these four names available
// without an explicit declaration step.
func registerVariables(e *env.Environment) {
	for _, name := range []string{"x", "y", "z", "w"} {
		e.RegisterVariable(name, 0)
	}
}
