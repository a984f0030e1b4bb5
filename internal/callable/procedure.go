package callable

import (
	"github.com/candycode/micromath/internal/ir"
	"github.com/candycode/micromath/internal/mmerr"
	"github.com/candycode/micromath/internal/value"
)

// Runner is the minimal interface a Procedure needs to execute its
// wrapped program; internal/vm.VM satisfies it. Keeping it minimal (and
// defined here, in the leaf package) lets callable depend on vm without
// vm ever depending back on callable.
type Runner interface {
	Run(prog *ir.Program) ([]float64, error)
}

// procedure wraps a compiled program as a Callable: a user-defined
// function with closures over its own nested environment. Params are the
// procedure's own environment's variable handles, bound positionally on
// each invocation — the nested environment's variable list acts as the
// parameter list.
type procedure struct {
	name   string
	prog   *ir.Program
	run    Runner
	params []*value.Value
	outs   int
}

// Procedure wraps prog as a Callable. params are handles into the
// procedure's own nested environment (its "parameter slots"); run
// executes prog against that same environment. outs is the procedure's
// declared output arity.
func Procedure(name string, prog *ir.Program, run Runner, params []*value.Value, outs int) ir.Callable {
	return &procedure{name: name, prog: prog, run: run, params: params, outs: outs}
}

func (p *procedure) Name() string   { return p.name }
func (p *procedure) ValuesIn() int  { return len(p.params) }
func (p *procedure) ValuesOut() int { return p.outs }
func (p *procedure) LValuesIn() int { return 0 }
func (p *procedure) RValuesIn() int { return len(p.params) }

func (p *procedure) Invoke(m ir.Machine) error {
	args, err := m.PopN(len(p.params))
	if err != nil {
		return mmerr.Wrap("callable", mmerr.KindStackUnderflow, 0, p.name, err)
	}
	for i, arg := range args {
		p.params[i].Val = arg
	}
	result, err := p.run.Run(p.prog)
	if err != nil {
		return mmerr.Wrap("callable", mmerr.KindUnknown, 0, p.name, err)
	}
	if len(result) < p.outs {
		return mmerr.New("callable", mmerr.KindStackUnderflow, 0, p.name,
			"procedure left %d values, declared %d outputs", len(result), p.outs)
	}
	// Moves values_out scalars from the inner stack onto the caller's
	// stack in source order: first pushed = first appeared in source
	// order, matching the inner program's own final stack order.
	for _, v := range result[len(result)-p.outs:] {
		m.Push(v)
	}
	return nil
}
