package parser

// OperatorDef is the parser's own operator descriptor: it
// drives the text-scanning passes (validate/wrap/postfix) and is
// intentionally independent of any run-time environment — the compiler
// resolves the *real* overload against an env.Environment later. A
// single operator name may appear multiple times in the table (e.g. `*`
// once as a binary scalar and once as the 3D dot product); the parser
// matches by (Name, LArgs, RArgs), picking the first entry whose arity
// matches the operand groups actually found in the text.
type OperatorDef struct {
	Name     string
	Operands int // total syntactic operand count this entry expects (0, 1, or 2)
	LArgs    int
	RArgs    int
	OutVals  int
	Swap     bool
}

// DefaultOperators is a minimal operator table covering the expression
// surface's required shapes; hosts assembling a full catalog (see the
// top-level catalog package) pass their own table instead — this one
// exists so the parser is independently testable without a catalog.
//
// Table order is significant, not cosmetic: postfixOperators tries each
// entry's name in order and converts every matching occurrence it finds
// before moving to the next entry, so an entry earlier in the table
// effectively binds tighter. The order below — ^, *, /, %, unary -,
// binary -, +, = — places unary minus ahead of both binary - and + so
// that e.g. "-x+1" converts as "(-x)+1", not "-(x+1)".
func DefaultOperators() []OperatorDef {
	return []OperatorDef{
		{Name: "^", Operands: 2, LArgs: 1, RArgs: 1, OutVals: 1},
		{Name: "*", Operands: 2, LArgs: 1, RArgs: 1, OutVals: 1},
		{Name: "/", Operands: 2, LArgs: 1, RArgs: 1, OutVals: 1},
		{Name: "%", Operands: 2, LArgs: 1, RArgs: 1, OutVals: 1},
		{Name: "-", Operands: 1, LArgs: 0, RArgs: 1, OutVals: 1},
		{Name: "-", Operands: 2, LArgs: 1, RArgs: 1, OutVals: 1},
		{Name: "+", Operands: 2, LArgs: 1, RArgs: 1, OutVals: 1},
		{Name: "=", Operands: 2, LArgs: 1, RArgs: 1, OutVals: 1, Swap: true},
	}
}
