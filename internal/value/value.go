// Package value holds the scalar value type shared by the environment,
// the compiler and the virtual machine.
package value

import "fmt"

// Value is a named scalar. Variables and constants are both represented
// this way; the only difference is which slice of the environment holds
// the pointer and whether anything is allowed to write through it.
//
// Instructions and callables never copy a Value they intend to mutate —
// they hold a *Value so that a write through one LoadVar is visible to
// every other LoadVar referencing the same variable, in the same program
// and across re-runs.
type Value struct {
	Name string
	Val  float64
}

func (v *Value) String() string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s=%g", v.Name, v.Val)
}

// New returns a fresh handle. Callers that need a constant simply don't
// write through the returned pointer again.
func New(name string, val float64) *Value {
	return &Value{Name: name, Val: val}
}
