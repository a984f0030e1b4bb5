package catalog_test

import (
	"testing"

	"github.com/candycode/micromath/catalog"
	"github.com/candycode/micromath/internal/compiler"
	"github.com/candycode/micromath/internal/env"
	"github.com/candycode/micromath/internal/parser"
	"github.com/candycode/micromath/internal/vm"
)

// runExpr compiles and runs expr against e — the same parser/compiler/vm
// wiring eval in eval_test.go uses, but taking an already-built
// environment instead of a fresh one, so callers can evaluate an
// expression after registering a procedure into it.
func runExpr(t *testing.T, e *env.Environment, expr string) []float64 {
	t.Helper()
	p := parser.New(catalog.Operators(), false, true, false, nil)
	toks, err := p.Parse(expr)
	if err != nil {
		t.Fatalf("Parse(%q): %v", expr, err)
	}
	prog, err := compiler.Compile(toks, e, compiler.Config{CountArgs: true, CreateVars: true})
	if err != nil {
		t.Fatalf("Compile(%q): %v", expr, err)
	}
	m := vm.New(e, nil)
	result, err := m.Run(prog)
	if err != nil {
		t.Fatalf("Run(%q): %v", expr, err)
	}
	return result
}

func TestScenarioUserDefinedProcedure(t *testing.T) {
	e := catalog.Default()
	if err := catalog.DefineProcedure(e, "square", []string{"a"}, "a*a", 1); err != nil {
		t.Fatalf("DefineProcedure: %v", err)
	}

	got := runExpr(t, e, "square(5)")
	if len(got) != 1 || got[0] != 25 {
		t.Fatalf("square(5) = %v, want [25]", got)
	}
}

func TestScenarioProcedureCalledTwiceInOneExpression(t *testing.T) {
	e := catalog.Default()
	if err := catalog.DefineProcedure(e, "square", []string{"a"}, "a*a", 1); err != nil {
		t.Fatalf("DefineProcedure: %v", err)
	}

	// two calls to the same procedure within one expression must not
	// clobber each other's parameter bindings — each Invoke rebinds its
	// own nested environment's variable slots before running.
	got := runExpr(t, e, "square(3)+square(4)")
	if len(got) != 1 || got[0] != 25 {
		t.Fatalf("square(3)+square(4) = %v, want [25] (9+16)", got)
	}
}

func TestScenarioProcedureComposesWithAnotherProcedure(t *testing.T) {
	e := catalog.Default()
	if err := catalog.DefineProcedure(e, "square", []string{"a"}, "a*a", 1); err != nil {
		t.Fatalf("DefineProcedure(square): %v", err)
	}
	// sum_of_squares's own nested environment snapshots e.Functions at
	// definition time, which already includes square — one procedure's
	// body can call another.
	if err := catalog.DefineProcedure(e, "sum_of_squares", []string{"a", "b"}, "square(a)+square(b)", 1); err != nil {
		t.Fatalf("DefineProcedure(sum_of_squares): %v", err)
	}

	got := runExpr(t, e, "sum_of_squares(3,4)")
	if len(got) != 1 || got[0] != 25 {
		t.Fatalf("sum_of_squares(3,4) = %v, want [25]", got)
	}
}

func TestParseProcedureDefRegistersNamedParams(t *testing.T) {
	e := catalog.Default()
	if err := catalog.ParseProcedureDef(e, "area(r)=Pi*r^2"); err != nil {
		t.Fatalf("ParseProcedureDef: %v", err)
	}

	got := runExpr(t, e, "area(2)")
	if len(got) != 1 {
		t.Fatalf("area(2) = %v, want one value", got)
	}
	want := 3.14159265358979323846 * 4
	if diff := got[0] - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("area(2) = %v, want %v", got[0], want)
	}
}

func TestParseProcedureDefRejectsMalformedDefinitions(t *testing.T) {
	e := catalog.Default()
	for _, def := range []string{"area=Pi*r^2", "area(r)Pi*r^2", "(r)=r*r"} {
		if err := catalog.ParseProcedureDef(e, def); err == nil {
			t.Errorf("ParseProcedureDef(%q): expected an error, got nil", def)
		}
	}
}
