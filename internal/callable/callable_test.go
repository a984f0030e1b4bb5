package callable_test

import (
	"math"
	"testing"

	"github.com/candycode/micromath/internal/callable"
	"github.com/candycode/micromath/internal/ir"
	"github.com/candycode/micromath/internal/value"
)

// fakeMachine is a minimal ir.Machine over a plain slice stack, used to
// exercise a Callable's Invoke in isolation from internal/vm.
type fakeMachine struct {
	stack []float64
	prog  []ir.Instruction
	ip    int
}

func (m *fakeMachine) Push(v float64) { m.stack = append(m.stack, v) }

func (m *fakeMachine) Pop() (float64, error) {
	vs, err := m.PopN(1)
	if err != nil {
		return 0, err
	}
	return vs[0], nil
}

func (m *fakeMachine) PopN(n int) ([]float64, error) {
	if len(m.stack) < n {
		return nil, errUnderflow
	}
	start := len(m.stack) - n
	out := append([]float64(nil), m.stack[start:]...)
	m.stack = m.stack[:start]
	return out, nil
}

func (m *fakeMachine) PrecedingVar(back int) (*value.Value, error) {
	idx := m.ip - 1 - back
	if idx < 0 || idx >= len(m.prog) || m.prog[idx].Op != ir.OpLoadVar {
		return nil, errNotLoadVar
	}
	return m.prog[idx].Var, nil
}

type sentinelError string

func (e sentinelError) Error() string { return string(e) }

const (
	errUnderflow  = sentinelError("stack underflow")
	errNotLoadVar = sentinelError("preceding instruction is not LoadVar")
)

func TestUnaryInvoke(t *testing.T) {
	neg := callable.Unary("-", func(v float64) float64 { return -v }, 0)
	m := &fakeMachine{stack: []float64{2}}
	if err := neg.Invoke(m); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if len(m.stack) != 1 || m.stack[0] != -2 {
		t.Fatalf("stack = %v, want [-2]", m.stack)
	}
}

func TestBinaryInvokeOperandOrder(t *testing.T) {
	sub := callable.Binary("-", func(a, b float64) float64 { return a - b }, 1, 1)
	m := &fakeMachine{stack: []float64{10, 3}} // left pushed first, right on top
	if err := sub.Invoke(m); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if len(m.stack) != 1 || m.stack[0] != 7 {
		t.Fatalf("stack = %v, want [7] (10-3)", m.stack)
	}
}

func TestDot3Invoke(t *testing.T) {
	m := &fakeMachine{stack: []float64{1, 2, 3, 4, 5, 6}}
	if err := callable.Dot3().Invoke(m); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	want := 1*4 + 2*5 + 3*6
	if len(m.stack) != 1 || m.stack[0] != float64(want) {
		t.Fatalf("stack = %v, want [%v]", m.stack, want)
	}
}

func TestCross3Invoke(t *testing.T) {
	m := &fakeMachine{stack: []float64{1, 0, 0, 0, 1, 0}}
	if err := callable.Cross3().Invoke(m); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if len(m.stack) != 3 || m.stack[0] != 0 || m.stack[1] != 0 || m.stack[2] != 1 {
		t.Fatalf("stack = %v, want [0 0 1]", m.stack)
	}
}

func TestBroadcastElementWise(t *testing.T) {
	add := callable.Binary("+", func(a, b float64) float64 { return a + b }, 1, 1)
	b, err := callable.Broadcast("+", add, 3)
	if err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	m := &fakeMachine{stack: []float64{1, 2, 3, 4, 5, 6}}
	if err := b.Invoke(m); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if len(m.stack) != 3 || m.stack[0] != 5 || m.stack[1] != 7 || m.stack[2] != 9 {
		t.Fatalf("stack = %v, want [5 7 9]", m.stack)
	}
}

func TestBroadcastRejectsNonBinaryScalar(t *testing.T) {
	sin := callable.Unary("sin", math.Sin, 0)
	if _, err := callable.Broadcast("sin", sin, 3); err == nil {
		t.Fatal("expected broadcast_construction error wrapping a unary callable, got nil")
	}
	dot := callable.Dot3()
	if _, err := callable.Broadcast("*", dot, 3); err == nil {
		t.Fatal("expected broadcast_construction error wrapping dot3 (values_out=1 but values_in=6), got nil")
	}
}

func TestScalarAssignWritesVariableAndKeepsValueOnStack(t *testing.T) {
	x := value.New("x", 0)
	prog := []ir.Instruction{
		{Op: ir.OpLoadConst, Const: 5},
		{Op: ir.OpLoadVar, Var: x},
	}
	m := &fakeMachine{stack: []float64{5, 0}, prog: prog, ip: 3}
	if err := callable.ScalarAssign("=").Invoke(m); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if x.Val != 5 {
		t.Errorf("x.Val = %v, want 5", x.Val)
	}
	if len(m.stack) != 1 || m.stack[0] != 5 {
		t.Fatalf("stack = %v, want [5]", m.stack)
	}
}

func TestScalarAssignRejectsNonLoadVarPredecessor(t *testing.T) {
	prog := []ir.Instruction{
		{Op: ir.OpLoadConst, Const: 5},
		{Op: ir.OpLoadConst, Const: 0},
	}
	m := &fakeMachine{stack: []float64{5, 0}, prog: prog, ip: 3}
	if err := callable.ScalarAssign("=").Invoke(m); err == nil {
		t.Fatal("expected invalid_assignment error, got nil")
	}
}

// fakeRunner is a minimal callable.Runner that records the program it was
// asked to run and returns a canned result, used to exercise Procedure's
// own param-binding and output-pushing logic in isolation from vm.VM.
type fakeRunner struct {
	result []float64
	err    error
	ran    *ir.Program
}

func (r *fakeRunner) Run(prog *ir.Program) ([]float64, error) {
	r.ran = prog
	return r.result, r.err
}

func TestProcedureInvoke(t *testing.T) {
	x := value.New("x", 0)
	y := value.New("y", 0)
	run := &fakeRunner{result: []float64{42}}
	proc := callable.Procedure("double_sum", &ir.Program{}, run, []*value.Value{x, y}, 1)

	if proc.Name() != "double_sum" {
		t.Errorf("Name() = %q, want double_sum", proc.Name())
	}
	if proc.LValuesIn() != 0 || proc.RValuesIn() != 2 || proc.ValuesOut() != 1 {
		t.Errorf("arity = (%d,%d)->%d, want (0,2)->1", proc.LValuesIn(), proc.RValuesIn(), proc.ValuesOut())
	}

	m := &fakeMachine{stack: []float64{3, 4}}
	if err := proc.Invoke(m); err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if x.Val != 3 || y.Val != 4 {
		t.Errorf("params bound to x=%v y=%v, want 3,4", x.Val, y.Val)
	}
	if run.ran == nil {
		t.Error("Invoke never ran the wrapped program")
	}
	if len(m.stack) != 1 || m.stack[0] != 42 {
		t.Errorf("stack = %v, want [42] (the runner's result pushed through)", m.stack)
	}
}

func TestProcedureInvokeUnderflowsExplicitly(t *testing.T) {
	x := value.New("x", 0)
	run := &fakeRunner{result: []float64{0}}
	proc := callable.Procedure("needs_one_arg", &ir.Program{}, run, []*value.Value{x}, 1)

	m := &fakeMachine{stack: nil}
	if err := proc.Invoke(m); err == nil {
		t.Fatal("expected a stack_underflow error popping a missing argument, got nil")
	}
}

func TestVectorAssignUnderflowErrorsExplicitly(t *testing.T) {
	x, y, z := value.New("x", 0), value.New("y", 0), value.New("z", 0)
	prog := []ir.Instruction{
		{Op: ir.OpLoadVar, Var: x},
		{Op: ir.OpLoadVar, Var: y},
		{Op: ir.OpLoadVar, Var: z},
	}
	// only 2 values on the stack where 2*3=6 are required (3 echoed
	// destinations + 3 sources) — this must raise an explicit error
	// rather than silently degrade.
	m := &fakeMachine{stack: []float64{1, 2}, prog: prog, ip: 4}
	if err := callable.VectorAssign(3).Invoke(m); err == nil {
		t.Fatal("expected an explicit stack_underflow error, got nil")
	}
}
