// Package compiler lowers a parser token stream into an ir.Program: a
// flat sequence of LoadConst/LoadVar/Call instructions resolved against a
// concrete env.Environment. A single-pass walk resolving names against a
// symbol table and emitting instructions as it goes, over a flat postfix
// token list instead of an AST, since this language has no control flow
// to structure a tree around.
package compiler

import (
	"github.com/candycode/micromath/internal/env"
	"github.com/candycode/micromath/internal/ir"
	"github.com/candycode/micromath/internal/mmerr"
	"github.com/candycode/micromath/internal/token"
)

// Config governs name resolution for tokens the parser left arity-agnostic
// or bare.
type Config struct {
	// CountArgs must match the Parser's own CountArgs: it decides whether
	// a Function token's declared ArgsIn is trusted as the lookup arity,
	// or the lookup is arity-agnostic (first function registered under
	// that name wins).
	CountArgs bool
	// CreateVars, when true, auto-registers an unresolved bare Name as a
	// new variable initialized to 0 instead of raising unknown_token —
	// the behavior an interactive host wants so `x = 1` can introduce `x`
	// on the spot; a host compiling a fixed, pre-declared program leaves
	// this off.
	CreateVars bool
}

// Compile lowers toks into a Program against env. Each Name token is
// resolved constant, then variable, then (only when CountArgs is off) a
// zero-arg function, in that order — constants and variables never
// collide in practice since a host registers a given identifier as only
// one of the two, but the order matters when it does.
func Compile(toks []token.Token, e *env.Environment, cfg Config) (*ir.Program, error) {
	code := make([]ir.Instruction, 0, len(toks))

	for pos, tok := range toks {
		if tok == nil {
			return nil, mmerr.New("compiler", mmerr.KindNullToken, pos, "", "nil token in stream")
		}

		switch t := tok.(type) {
		case token.ValueTok:
			v, err := token.ParseFloat(t.Text)
			if err != nil {
				return nil, mmerr.Wrap("compiler", mmerr.KindUnknownToken, pos, t.Text, err)
			}
			code = append(code, ir.Instruction{Op: ir.OpLoadConst, Const: v})

		case token.FunctionTok:
			rargs := -1
			if cfg.CountArgs {
				rargs = t.ArgsIn
			}
			c, ok := e.LookupFunction(t.Name, rargs, 0)
			if !ok {
				return nil, mmerr.New("compiler", mmerr.KindUnknownToken, pos, t.Name,
					"function %q not found", t.Name)
			}
			code = append(code, ir.Instruction{Op: ir.OpCall, Call: c})

		case token.OperatorTok:
			c, ok := e.LookupFunction(t.Name, t.RArgs, t.LArgs)
			if !ok {
				return nil, mmerr.New("compiler", mmerr.KindUnknownToken, pos, t.Name,
					"operator %q[%d %d] not found", t.Name, t.LArgs, t.RArgs)
			}
			code = append(code, ir.Instruction{Op: ir.OpCall, Call: c})

		case token.NameTok:
			inst, err := compileName(t.Name, e, cfg, pos)
			if err != nil {
				return nil, err
			}
			code = append(code, inst)

		case token.UnknownTok:
			return nil, mmerr.New("compiler", mmerr.KindUnknownToken, pos, t.Text, "unrecognized token")

		default:
			return nil, mmerr.New("compiler", mmerr.KindUnknownToken, pos, tok.String(), "unhandled token kind %v", tok.Kind())
		}
	}

	return ir.NewProgram(code), nil
}

func compileName(name string, e *env.Environment, cfg Config, pos int) (ir.Instruction, error) {
	if v, ok := e.LookupConstant(name); ok {
		return ir.Instruction{Op: ir.OpLoadVar, Var: v}, nil
	}
	if v, ok := e.LookupVariable(name); ok {
		return ir.Instruction{Op: ir.OpLoadVar, Var: v}, nil
	}
	if !cfg.CountArgs {
		if c, ok := e.LookupFunction(name, -1, 0); ok {
			return ir.Instruction{Op: ir.OpCall, Call: c}, nil
		}
	}
	if cfg.CreateVars {
		v := e.RegisterVariable(name, 0)
		return ir.Instruction{Op: ir.OpLoadVar, Var: v}, nil
	}
	return ir.Instruction{}, mmerr.New("compiler", mmerr.KindUnknownToken, pos, name, "unresolved identifier %q", name)
}
