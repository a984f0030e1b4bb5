// Package env implements the run-time environment: the tables of
// callables (functions and operators) and values (variables and
// constants) that the compiler resolves names against and the virtual
// machine invokes through.
//
// Lookups are linear scans over plain slices, never a map, because
// insertion order is observable: the earliest registration wins on an
// arity-agnostic (rargs<0) lookup, so a later registration with the same
// name is only reached by an exact-arity lookup (see catalog, which
// registers vector-assign before scalar-assign, so an arity-agnostic
// lookup of `=` returns the 4-tuple overload).
package env

import (
	"github.com/candycode/micromath/internal/ir"
	"github.com/candycode/micromath/internal/value"
)

// Environment is the run-time environment: functions, variables, constants.
// The currently executing program, stack and instruction pointer belong
// to whatever is driving it (the VM), not to the Environment itself, so
// that one Environment can be shared by a VM and a procedure's own
// nested VM without aliasing execution state.
type Environment struct {
	Functions []ir.Callable
	Variables []*value.Value
	Constants []*value.Value
}

// New returns an empty environment.
func New() *Environment {
	return &Environment{}
}

// RegisterFunction appends c to the function/operator table. Appending
// (never overwriting an existing entry by name) keeps every overload
// reachable and makes lookup order follow insertion order.
func (e *Environment) RegisterFunction(c ir.Callable) {
	e.Functions = append(e.Functions, c)
}

// RegisterVariable appends a new mutable variable and returns its handle.
func (e *Environment) RegisterVariable(name string, val float64) *value.Value {
	v := value.New(name, val)
	e.Variables = append(e.Variables, v)
	return v
}

// RegisterConstant appends a new constant and returns its handle. Nothing
// in this package prevents writing through the returned pointer, and
// constants are not write-protected at run time: the compiler lowers a
// constant to a LoadVar on this handle, so an assignment whose
// destination names a constant writes through it.
func (e *Environment) RegisterConstant(name string, val float64) *value.Value {
	v := value.New(name, val)
	e.Constants = append(e.Constants, v)
	return v
}

// LookupFunction matches a callable by name and, when rargs is
// non-negative, by exact (rvalues_in, lvalues_in). rargs<0 returns the
// first callable whose name matches, regardless of arity — used for
// count_args-off operator/plain-name resolution.
func (e *Environment) LookupFunction(name string, rargs, largs int) (ir.Callable, bool) {
	for _, c := range e.Functions {
		if c.Name() != name {
			continue
		}
		if rargs < 0 {
			return c, true
		}
		if c.RValuesIn() == rargs && c.LValuesIn() == largs {
			return c, true
		}
	}
	return nil, false
}

// LookupVariable performs a linear search by name.
func (e *Environment) LookupVariable(name string) (*value.Value, bool) {
	for _, v := range e.Variables {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}

// LookupConstant performs a linear search by name.
func (e *Environment) LookupConstant(name string) (*value.Value, bool) {
	for _, v := range e.Constants {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}
