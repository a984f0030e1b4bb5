package catalog_test

import (
	"math"
	"testing"

	"github.com/candycode/micromath/catalog"
	"github.com/candycode/micromath/internal/compiler"
	"github.com/candycode/micromath/internal/parser"
	"github.com/candycode/micromath/internal/vm"
)

// eval runs the full parse -> compile -> execute pipeline against a fresh
// default environment, the same wiring cmd/mathvm uses — each of these
// cases is one of the end-to-end scenarios.
func eval(t *testing.T, expr string) []float64 {
	t.Helper()
	e := catalog.Default()
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

func almostEqual(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestScenarioScalarArithmetic(t *testing.T) {
	got := eval(t, "1 + 2 * 3")
	if len(got) != 1 || got[0] != 7 {
		t.Fatalf("stack = %v, want [7]", got)
	}
}

func TestScenarioAssignment(t *testing.T) {
	e := catalog.Default()
	p := parser.New(catalog.Operators(), false, true, false, nil)
	run := func(expr string) []float64 {
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

	got := run("x = 2 + 3")
	if len(got) != 1 || got[0] != 5 {
		t.Fatalf("stack = %v, want [5]", got)
	}
	got = run("x")
	if len(got) != 1 || got[0] != 5 {
		t.Fatalf("stack after re-reading x = %v, want [5]", got)
	}
}

func TestScenarioReciprocal(t *testing.T) {
	got := eval(t, "inv(4)")
	if len(got) != 1 || got[0] != 0.25 {
		t.Fatalf("stack = %v, want [0.25]", got)
	}
}

func TestScenarioFunctionCall(t *testing.T) {
	got := eval(t, "atan2(1, 1)")
	if len(got) != 1 || !almostEqual(got[0], math.Pi/4) {
		t.Fatalf("stack = %v, want [%v]", got, math.Pi/4)
	}
}

func TestScenarioVectorCrossProduct(t *testing.T) {
	got := eval(t, "cross3(1,0,0,0,1,0)")
	if len(got) != 3 || got[0] != 0 || got[1] != 0 || got[2] != 1 {
		t.Fatalf("stack = %v, want [0 0 1]", got)
	}
}

func TestScenarioComponentWiseVectorAdd(t *testing.T) {
	got := eval(t, "(1,2,3)+(4,5,6)")
	if len(got) != 3 || got[0] != 5 || got[1] != 7 || got[2] != 9 {
		t.Fatalf("stack = %v, want [5 7 9]", got)
	}
}

func TestScenarioUnknownIdentifierWithoutAutoCreate(t *testing.T) {
	e := catalog.Default()
	p := parser.New(catalog.Operators(), false, true, false, nil)
	toks, err := p.Parse("foo + 1")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, err := compiler.Compile(toks, e, compiler.Config{CountArgs: true, CreateVars: false}); err == nil {
		t.Fatal("expected unknown_token for unresolved identifier foo, got nil")
	}
}
