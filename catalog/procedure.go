package catalog

import (
	"fmt"
	"strings"

	"github.com/candycode/micromath/internal/callable"
	"github.com/candycode/micromath/internal/compiler"
	"github.com/candycode/micromath/internal/env"
	"github.com/candycode/micromath/internal/parser"
	"github.com/candycode/micromath/internal/value"
	"github.com/candycode/micromath/internal/vm"
)

// DefineProcedure compiles body against a nested environment — one that
// shares e's already-registered functions and constants but owns its own
// variable table, seeded with one variable per entry in params — and
// registers the result back into e as a callable named name. The
// procedure runs on its own vm.VM over that nested environment, so a call
// never touches the caller's stack or variables; every invocation of the
// procedure shares that one VM and one set of parameter variables, and
// rebinds the parameters before running. The body cannot call the
// procedure itself: the nested environment's function table is taken
// before the procedure is registered.
//
// e must already carry every function/constant the body needs to resolve
// against — DefineProcedure snapshots e.Functions/e.Constants by value at
// call time, it does not track later registrations.
func DefineProcedure(e *env.Environment, name string, params []string, body string, outs int) error {
	nested := env.New()
	nested.Functions = e.Functions
	nested.Constants = e.Constants

	handles := make([]*value.Value, len(params))
	for i, p := range params {
		handles[i] = nested.RegisterVariable(p, 0)
	}

	p := parser.New(Operators(), false, true, false, nil)
	toks, err := p.Parse(body)
	if err != nil {
		return err
	}
	prog, err := compiler.Compile(toks, nested, compiler.Config{CountArgs: true, CreateVars: false})
	if err != nil {
		return err
	}

	runner := vm.New(nested, nil)
	e.RegisterFunction(callable.Procedure(name, prog, runner, handles, outs))
	return nil
}

// ParseProcedureDef parses the "name(p1,p2)=body" shorthand a host CLI
// accepts for -proc and calls DefineProcedure with it, assuming a single
// scalar output — the common case for a user-defined math function.
func ParseProcedureDef(e *env.Environment, def string) error {
	eq := strings.Index(def, "=")
	if eq < 0 {
		return fmt.Errorf("procedure definition %q: missing '='", def)
	}
	head, body := def[:eq], def[eq+1:]

	open := strings.Index(head, "(")
	closeParen := strings.LastIndex(head, ")")
	if open < 0 || closeParen < open {
		return fmt.Errorf("procedure definition %q: expected name(params)=body", def)
	}
	name := head[:open]
	if name == "" {
		return fmt.Errorf("procedure definition %q: missing name", def)
	}

	var params []string
	if inner := strings.TrimSpace(head[open+1 : closeParen]); inner != "" {
		for _, p := range strings.Split(inner, ",") {
			params = append(params, strings.TrimSpace(p))
		}
	}

	return DefineProcedure(e, name, params, body, 1)
}
