// Package callable provides the concrete Callable adapters: native
// unary/binary scalar wrappers, scalar and vector assignment, the 3D dot
// and cross products, an element-wise broadcast wrapper, and procedures
// (compiled programs exposed as callables).
//
// Each shape is its own small struct implementing ir.Callable, rather
// than one boxed closure type, per the design note preferring a tagged
// variant over a single trait-object-everywhere scheme: a caller
// switching on concrete type (e.g. to special-case Broadcast's
// construction-time validation) doesn't need a type assertion into an
// opaque closure.
package callable

import (
	"github.com/candycode/micromath/internal/ir"
	"github.com/candycode/micromath/internal/mmerr"
	"github.com/candycode/micromath/internal/value"
)

// unaryScalar wraps a native T->T function. lvalues is 0 for a plain
// function (sin, cos, ...) and also 0 for a prefix unary operator
// (negate) — both shapes take their single operand from the right.
type unaryScalar struct {
	name    string
	f       func(float64) float64
	lvalues int
}

// Unary returns a Callable wrapping f as either a plain function
// (lvalues=0) or a prefix unary operator (lvalues=0 as well — kept as an
// explicit parameter so a postfix unary operator, which this runtime
// doesn't define by default but a host could register, is representable
// too, with lvalues=1).
func Unary(name string, f func(float64) float64, lvalues int) ir.Callable {
	return unaryScalar{name: name, f: f, lvalues: lvalues}
}

func (u unaryScalar) Name() string   { return u.name }
func (u unaryScalar) ValuesIn() int  { return 1 }
func (u unaryScalar) ValuesOut() int { return 1 }
func (u unaryScalar) LValuesIn() int { return u.lvalues }
func (u unaryScalar) RValuesIn() int { return 1 - u.lvalues }

func (u unaryScalar) Invoke(m ir.Machine) error {
	v, err := m.Pop()
	if err != nil {
		return err
	}
	m.Push(u.f(v))
	return nil
}

// binaryScalar wraps a native (T,T)->T function. lvalues=1,rvalues=1
// gives an infix operator (+, -, *, /, ^, %); lvalues=0,rvalues=2 gives
// a two-argument function (atan2).
type binaryScalar struct {
	name    string
	f       func(float64, float64) float64
	lvalues int
	rvalues int
}

// Binary returns a Callable wrapping f with the given left/right arity
// split.
func Binary(name string, f func(float64, float64) float64, lvalues, rvalues int) ir.Callable {
	return binaryScalar{name: name, f: f, lvalues: lvalues, rvalues: rvalues}
}

func (b binaryScalar) Name() string   { return b.name }
func (b binaryScalar) ValuesIn() int  { return b.lvalues + b.rvalues }
func (b binaryScalar) ValuesOut() int { return 1 }
func (b binaryScalar) LValuesIn() int { return b.lvalues }
func (b binaryScalar) RValuesIn() int { return b.rvalues }

func (b binaryScalar) Invoke(m ir.Machine) error {
	vals, err := m.PopN(2)
	if err != nil {
		return err
	}
	// vals is oldest-first: vals[0] was pushed first (left operand),
	// vals[1] second (right operand) — rightmost argument ends up on top.
	m.Push(b.f(vals[0], vals[1]))
	return nil
}

// IsUnaryBinaryScalar reports whether c is a plain (1,1)->1 binary
// scalar, the only shape Broadcast is allowed to wrap.
func IsUnaryBinaryScalar(c ir.Callable) bool {
	_, ok := c.(binaryScalar)
	return ok && c.LValuesIn() == 1 && c.RValuesIn() == 1 && c.ValuesOut() == 1
}

// scalarAssign implements `=[1 1 1]`. The parser's swap flag places the
// destination's LoadVar immediately before this Call, so Invoke looks
// back exactly one instruction.
type scalarAssign struct{ name string }

// ScalarAssign returns the `=` callable for single-variable assignment.
func ScalarAssign(name string) ir.Callable { return scalarAssign{name: name} }

func (scalarAssign) Name() string   { return "=" }
func (scalarAssign) ValuesIn() int  { return 2 } // 1 echoed destination + 1 source value
func (scalarAssign) ValuesOut() int { return 1 }
func (scalarAssign) LValuesIn() int { return 1 }
func (scalarAssign) RValuesIn() int { return 1 }

func (a scalarAssign) Invoke(m ir.Machine) error {
	dst, err := m.PrecedingVar(1)
	if err != nil {
		return mmerr.Wrap("callable", mmerr.KindInvalidAssignment, 0, a.name, err)
	}
	// pop the echoed destination value the swap placed on the stack,
	// then pop the source value actually being assigned.
	if _, err := m.Pop(); err != nil {
		return err
	}
	src, err := m.Pop()
	if err != nil {
		return err
	}
	dst.Val = src
	m.Push(src)
	return nil
}

// vectorAssign implements `=[n n n]` for n in {2,3,4}.
type vectorAssign struct{ n int }

// VectorAssign returns the `=` callable for n-tuple assignment, n in
// {2,3,4}.
func VectorAssign(n int) ir.Callable { return vectorAssign{n: n} }

func (v vectorAssign) Name() string   { return "=" }
func (v vectorAssign) ValuesIn() int  { return 2 * v.n } // n echoed destinations + n source values
func (v vectorAssign) ValuesOut() int { return v.n }
func (v vectorAssign) LValuesIn() int { return v.n }
func (v vectorAssign) RValuesIn() int { return v.n }

func (va vectorAssign) Invoke(m ir.Machine) error {
	dsts := make([]*value.Value, va.n)
	for i := 0; i < va.n; i++ {
		// PrecedingVar(1) is nearest the call; PrecedingVar(n) is farthest.
		// The destinations were emitted left-to-right, so the nearest
		// LoadVar to the call is the last-named destination.
		dst, err := m.PrecedingVar(va.n - i)
		if err != nil {
			return mmerr.Wrap("callable", mmerr.KindInvalidAssignment, 0, "=", err)
		}
		dsts[i] = dst
	}
	// Pop the n echoed destination values (swap placed them last).
	if _, err := m.PopN(va.n); err != nil {
		return mmerr.Wrap("callable", mmerr.KindStackUnderflow, 0, "=", err)
	}
	srcs, err := m.PopN(va.n)
	if err != nil {
		return mmerr.Wrap("callable", mmerr.KindStackUnderflow, 0, "=", err)
	}
	for i, src := range srcs {
		dsts[i].Val = src
		m.Push(src)
	}
	return nil
}

// dot3 implements the 3D dot-product overload of `*`: `*[3 3 1]`.
type dot3 struct{}

// Dot3 returns the 3-tuple dot-product Callable.
func Dot3() ir.Callable { return dot3{} }

func (dot3) Name() string   { return "*" }
func (dot3) ValuesIn() int  { return 6 }
func (dot3) ValuesOut() int { return 1 }
func (dot3) LValuesIn() int { return 3 }
func (dot3) RValuesIn() int { return 3 }

func (dot3) Invoke(m ir.Machine) error {
	v, err := m.PopN(6)
	if err != nil {
		return err
	}
	x1, y1, z1, x2, y2, z2 := v[0], v[1], v[2], v[3], v[4], v[5]
	m.Push(x1*x2 + y1*y2 + z1*z2)
	return nil
}

// cross3 implements `cross3[0 6 3]`: a single six-value right-hand group
// (called "cross3(x1,y1,z1,x2,y2,z2)", not infix), per the grounding
// example's crossprod3 registration — unlike dot3, which splits its six
// inputs 3-and-3 across two infix tuple operands.
type cross3 struct{}

// Cross3 returns the 3-tuple cross-product Callable.
func Cross3() ir.Callable { return cross3{} }

func (cross3) Name() string   { return "cross3" }
func (cross3) ValuesIn() int  { return 6 }
func (cross3) ValuesOut() int { return 3 }
func (cross3) LValuesIn() int { return 0 }
func (cross3) RValuesIn() int { return 6 }

func (cross3) Invoke(m ir.Machine) error {
	v, err := m.PopN(6)
	if err != nil {
		return err
	}
	x1, y1, z1, x2, y2, z2 := v[0], v[1], v[2], v[3], v[4], v[5]
	m.Push(y1*z2 - z1*y2)
	m.Push(z1*x2 - x1*z2)
	m.Push(x1*y2 - y1*x2)
	return nil
}

// broadcast wraps a binary (1,1)->1 Callable into an element-wise
// [n n n] operator.
type broadcast struct {
	name string
	f    ir.Callable
	n    int
}

// Broadcast wraps f (which must be a binary (1,1)->1 scalar Callable)
// into an n-component element-wise operator. Construction fails — rather
// than the wrapped call failing at invocation time — if f has the wrong
// shape.
func Broadcast(name string, f ir.Callable, n int) (ir.Callable, error) {
	if !IsUnaryBinaryScalar(f) {
		return nil, mmerr.New("callable", mmerr.KindBroadcastConstruction, 0, f.Name(),
			"broadcast requires a binary (1,1)->1 callable, got values_in=%d values_out=%d",
			f.ValuesIn(), f.ValuesOut())
	}
	return broadcast{name: name, f: f, n: n}, nil
}

func (b broadcast) Name() string   { return b.name }
func (b broadcast) ValuesIn() int  { return 2 * b.n }
func (b broadcast) ValuesOut() int { return b.n }
func (b broadcast) LValuesIn() int { return b.n }
func (b broadcast) RValuesIn() int { return b.n }

func (b broadcast) Invoke(m ir.Machine) error {
	vals, err := m.PopN(2 * b.n)
	if err != nil {
		return err
	}
	left, right := vals[:b.n], vals[b.n:]
	out := make([]float64, b.n)
	for i := 0; i < b.n; i++ {
		sub := &pairMachine{a: left[i], b: right[i]}
		if err := b.f.Invoke(sub); err != nil {
			return err
		}
		out[i] = sub.result
	}
	for _, v := range out {
		m.Push(v)
	}
	return nil
}

// pairMachine is a minimal ir.Machine that feeds exactly one (a,b) pair
// to a binary scalar Callable and captures its single pushed result —
// used by Broadcast to re-invoke the wrapped callable once per element
// without involving the outer VM's real stack.
type pairMachine struct {
	a, b    float64
	popped  int
	result  float64
	haveRes bool
}

func (p *pairMachine) Push(v float64) { p.result = v; p.haveRes = true }

func (p *pairMachine) Pop() (float64, error) {
	vals, err := p.PopN(1)
	if err != nil {
		return 0, err
	}
	return vals[0], nil
}

func (p *pairMachine) PopN(n int) ([]float64, error) {
	out := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		switch p.popped {
		case 0:
			out = append(out, p.a)
		case 1:
			out = append(out, p.b)
		default:
			return nil, mmerr.New("callable", mmerr.KindStackUnderflow, 0, "", "broadcast element exhausted")
		}
		p.popped++
	}
	return out, nil
}

func (p *pairMachine) PrecedingVar(int) (*value.Value, error) {
	return nil, mmerr.New("callable", mmerr.KindInvalidAssignment, 0, "", "assignment cannot be broadcast")
}
