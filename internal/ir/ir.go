// Package ir defines the instruction set the compiler emits and the
// virtual machine executes, plus the Callable/Machine interfaces that
// invert the dependency between the environment (which only needs to
// hold Callables) and the concrete adapters and VM that implement/drive
// them.
package ir

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/candycode/micromath/internal/value"
)

// OpCode is the opcode of one instruction. There is no jump/branch
// opcode: execution is always straight-line.
type OpCode byte

const (
	OpLoadConst OpCode = iota
	OpLoadVar
	OpCall
)

func (op OpCode) String() string {
	switch op {
	case OpLoadConst:
		return "LoadConst"
	case OpLoadVar:
		return "LoadVar"
	case OpCall:
		return "Call"
	default:
		return "Unknown"
	}
}

// Instruction is one bytecode instruction. Exactly one of Const/Var/Call
// is meaningful, selected by Op.
type Instruction struct {
	Op    OpCode
	Const float64
	Var   *value.Value
	Call  Callable
}

func (i Instruction) String() string {
	switch i.Op {
	case OpLoadConst:
		return fmt.Sprintf("LoadConst %g", i.Const)
	case OpLoadVar:
		return fmt.Sprintf("LoadVar %s", i.Var.Name)
	case OpCall:
		return fmt.Sprintf("Call %s", i.Call.Name())
	default:
		return "?"
	}
}

// Program is an ordered, linear sequence of instructions, plus a stable
// ID stamped once at compile time. The ID lets the VM's trace output and
// nested-procedure logging identify which compiled program is running
// without threading an extra parameter through every call.
type Program struct {
	ID   uuid.UUID
	Code []Instruction
}

// NewProgram wraps code with a freshly minted ID.
func NewProgram(code []Instruction) *Program {
	return &Program{ID: uuid.New(), Code: code}
}

// Callable is anything invocable from a program: pop ValuesIn items off
// the machine's stack (rightmost-argument-on-top), push ValuesOut items.
// LValuesIn/RValuesIn split ValuesIn by syntactic origin for operators
// (for plain functions LValuesIn is zero and RValuesIn equals ValuesIn).
type Callable interface {
	Name() string
	ValuesIn() int
	ValuesOut() int
	LValuesIn() int
	RValuesIn() int
	Invoke(m Machine) error
}

// Machine is the execution context a Callable needs: stack access and,
// for assignment callables, the ability to look back at already-executed
// instructions to find the LoadVar that named their destination.
type Machine interface {
	Push(v float64)
	Pop() (float64, error)
	// PopN pops n values and returns them oldest-first (i.e. in the order
	// they were originally pushed), matching the stack's
	// rightmost-argument-on-top convention read back out left-to-right.
	PopN(n int) ([]float64, error)
	// PrecedingVar returns the variable handle referenced by the LoadVar
	// instruction `back` instructions before the one currently executing
	// (back=1 is the immediately preceding instruction). It is an error
	// if that instruction is not a LoadVar.
	PrecedingVar(back int) (*value.Value, error)
}
