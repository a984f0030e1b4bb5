package catalog_test

import (
	"testing"

	"github.com/candycode/micromath/catalog"
)

func TestDefaultRegistersScalarBinaries(t *testing.T) {
	e := catalog.Default()
	for _, name := range []string{"^", "*", "/", "+", "-", "%"} {
		if _, ok := e.LookupFunction(name, 1, 1); !ok {
			t.Errorf("scalar %q[1 1] not found", name)
		}
	}
}

func TestDefaultDotAndCrossCoexist(t *testing.T) {
	e := catalog.Default()
	if c, ok := e.LookupFunction("*", 3, 3); !ok || c.ValuesOut() != 1 {
		t.Fatalf("dot-product *[3 3] not found or wrong arity: %v %v", ok, c)
	}
	if c, ok := e.LookupFunction("cross3", 6, 0); !ok || c.ValuesOut() != 3 {
		t.Fatalf("cross3[0 6] not found or wrong arity: %v %v", ok, c)
	}
}

func TestDefaultBroadcastsExcludeStar(t *testing.T) {
	e := catalog.Default()
	for _, name := range []string{"^", "/", "+", "-", "%"} {
		c, ok := e.LookupFunction(name, 3, 3)
		if !ok {
			t.Errorf("broadcast %q[3 3] not found", name)
			continue
		}
		if c.ValuesOut() != 3 {
			t.Errorf("broadcast %q[3 3] has ValuesOut=%d, want 3", name, c.ValuesOut())
		}
	}
	// "*" at (3,3) must resolve to the dot product (ValuesOut=1), not a
	// broadcast (ValuesOut=3) — the collision this catalog avoids.
	c, ok := e.LookupFunction("*", 3, 3)
	if !ok {
		t.Fatal("*[3 3] not found")
	}
	if c.ValuesOut() != 1 {
		t.Errorf("*[3 3] resolved to ValuesOut=%d, want 1 (dot product)", c.ValuesOut())
	}
}

func TestDefaultVectorAssign(t *testing.T) {
	e := catalog.Default()
	for _, n := range []int{2, 3, 4} {
		if _, ok := e.LookupFunction("=", n, n); !ok {
			t.Errorf("vector assign =[%d %d] not found", n, n)
		}
	}
	if _, ok := e.LookupFunction("=", 1, 1); !ok {
		t.Error("scalar assign =[1 1] not found")
	}
}

func TestDefaultUnaryMinusIsPrefix(t *testing.T) {
	e := catalog.Default()
	c, ok := e.LookupFunction("-", 1, 0)
	if !ok {
		t.Fatal("unary - [0 1] not found")
	}
	if c.LValuesIn() != 0 || c.RValuesIn() != 1 {
		t.Errorf("unary - arity = (%d,%d), want (0,1)", c.LValuesIn(), c.RValuesIn())
	}
}

func TestDefaultRegistersInv(t *testing.T) {
	e := catalog.Default()
	if _, ok := e.LookupFunction("inv", 1, 0); !ok {
		t.Fatal("inv[0 1] not found")
	}
}

func TestDefaultWordAliases(t *testing.T) {
	e := catalog.Default()
	for _, name := range []string{"add", "sub", "div", "mul", "pow"} {
		if _, ok := e.LookupFunction(name, 1, 1); !ok {
			t.Errorf("word alias %q not found", name)
		}
	}
	if _, ok := e.LookupFunction("atan2", 2, 0); !ok {
		t.Error("atan2[0 2] not found")
	}
}

func TestDefaultConstantsAndVariables(t *testing.T) {
	e := catalog.Default()
	for _, name := range []string{"e", "log2e", "Pi"} {
		if _, ok := e.LookupConstant(name); !ok {
			t.Errorf("constant %q not found", name)
		}
	}
	for _, name := range []string{"x", "y", "z", "w"} {
		v, ok := e.LookupVariable(name)
		if !ok {
			t.Errorf("variable %q not found", name)
			continue
		}
		if v.Val != 0 {
			t.Errorf("variable %q = %v, want 0", name, v.Val)
		}
	}
}

func TestOperatorsTableEntriesAllResolveInCatalog(t *testing.T) {
	e := catalog.Default()
	for _, op := range catalog.Operators() {
		if _, ok := e.LookupFunction(op.Name, op.RArgs, op.LArgs); !ok {
			t.Errorf("operator table entry %q[%d %d] has no matching catalog function", op.Name, op.LArgs, op.RArgs)
		}
	}
}
