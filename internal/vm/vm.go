// Package vm implements the stack machine: a straight-line interpreter
// over an ir.Program's instructions, driven by an instruction pointer,
// against a value stack and a run-time environment.
package vm

import (
	"fmt"

	"github.com/candycode/micromath/internal/env"
	"github.com/candycode/micromath/internal/ir"
	"github.com/candycode/micromath/internal/mmerr"
	"github.com/candycode/micromath/internal/obslog"
	"github.com/candycode/micromath/internal/value"
)

// VM is a stack-based virtual machine executing one program at a time
// against one environment. Two VMs never share a stack or ip even if
// they happen to share an Environment — each procedure runs on its own
// VM (built once, when the procedure is defined, over the procedure's
// nested Environment), so a procedure call never disturbs its caller's
// stack, ip or variable bindings.
type VM struct {
	env   *env.Environment
	stack []float64
	prog  *ir.Program
	ip    int
	log   *obslog.Sink
}

// New creates a VM bound to env. If log is nil, trace output is
// discarded.
func New(e *env.Environment, log *obslog.Sink) *VM {
	return &VM{env: e, stack: make([]float64, 0, 16), log: log}
}

// Run executes prog from instruction 0 to completion. There is no
// jump/branch opcode, so termination is always by exhausting the
// program (or by a Callable returning an error, which aborts the run and
// propagates outward).
func (m *VM) Run(prog *ir.Program) ([]float64, error) {
	m.prog = prog
	m.stack = m.stack[:0]
	m.ip = 0

	for m.ip < len(prog.Code) {
		inst := prog.Code[m.ip]
		m.log.LogVf("program %s ip=%d %s", prog.ID, m.ip, inst)
		m.ip++

		switch inst.Op {
		case ir.OpLoadConst:
			m.Push(inst.Const)
		case ir.OpLoadVar:
			m.Push(inst.Var.Val)
		case ir.OpCall:
			if err := inst.Call.Invoke(m); err != nil {
				return nil, mmerr.Wrap("vm", mmerr.KindUnknown, m.ip-1, inst.Call.Name(), err)
			}
		default:
			return nil, mmerr.New("vm", mmerr.KindUnknown, m.ip-1, "", "unknown opcode %v", inst.Op)
		}
	}

	result := make([]float64, len(m.stack))
	copy(result, m.stack)
	return result, nil
}

// Push implements ir.Machine.
func (m *VM) Push(v float64) {
	m.stack = append(m.stack, v)
}

// Pop implements ir.Machine.
func (m *VM) Pop() (float64, error) {
	if len(m.stack) == 0 {
		return 0, mmerr.New("vm", mmerr.KindStackUnderflow, m.ip, "", "pop from empty stack")
	}
	n := len(m.stack) - 1
	v := m.stack[n]
	m.stack = m.stack[:n]
	return v, nil
}

// PopN implements ir.Machine, returning the n popped values oldest-first.
func (m *VM) PopN(n int) ([]float64, error) {
	if n < 0 || len(m.stack) < n {
		return nil, mmerr.New("vm", mmerr.KindStackUnderflow, m.ip, "",
			"need %d values on stack, have %d", n, len(m.stack))
	}
	start := len(m.stack) - n
	out := make([]float64, n)
	copy(out, m.stack[start:])
	m.stack = m.stack[:start]
	return out, nil
}

// PrecedingVar implements ir.Machine: the assignment callables look
// back from the instruction they're executing (one past the Call
// instruction's own index, since ip was already advanced) to find the
// LoadVar that named their destination.
func (m *VM) PrecedingVar(back int) (*value.Value, error) {
	// m.ip currently points one past the Call instruction being executed.
	idx := m.ip - 1 - back
	if idx < 0 || idx >= len(m.prog.Code) {
		return nil, mmerr.New("vm", mmerr.KindInvalidAssignment, m.ip, "",
			"no instruction %d steps before ip %d", back, m.ip)
	}
	inst := m.prog.Code[idx]
	if inst.Op != ir.OpLoadVar {
		return nil, mmerr.New("vm", mmerr.KindInvalidAssignment, m.ip, fmt.Sprint(inst),
			"instruction preceding assignment is not LoadVar")
	}
	return inst.Var, nil
}

// StackLen reports the current stack depth.
func (m *VM) StackLen() int { return len(m.stack) }
