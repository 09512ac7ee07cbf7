package consteval

import (
	"math"
	"math/bits"

	"wgslfront/internal/ast"
	"wgslfront/internal/types"
)

type builtinFn func(e *Evaluator, ret types.TypeID, args []Value) (Value, error)

var constBuiltins = map[string]builtinFn{
	"abs":             elementwise(absScalar),
	"min":             elementwise(minMax(true)),
	"max":             elementwise(minMax(false)),
	"clamp":           elementwise(clampScalar),
	"sign":            elementwise(signScalar),
	"floor":           elementwise(floatFn(math.Floor)),
	"ceil":            elementwise(floatFn(math.Ceil)),
	"round":           elementwise(floatFn(math.RoundToEven)),
	"trunc":           elementwise(floatFn(math.Trunc)),
	"sqrt":            elementwise(sqrtScalar),
	"countOneBits":    elementwise(countOneBits),
	"reverseBits":     elementwise(reverseBits),
	"firstLeadingBit": elementwise(firstLeadingBit),
	"select":          selectFn,
	"all":             allAny(true),
	"any":             allAny(false),
	"dot":             dotFn,
	"length":          lengthFn,
}

// HasBuiltin reports whether name can be folded at shader-creation time.
func HasBuiltin(name string) bool {
	_, ok := constBuiltins[name]
	return ok
}

// Builtin folds a call to a builtin function. ret is the resolved return type;
// arguments are already converted to the overload parameter types.
func (e *Evaluator) Builtin(name string, ret types.TypeID, args []Value) (Value, error) {
	fn, ok := constBuiltins[name]
	if !ok {
		return Value{}, errorf("'%s' cannot be called in a constant expression", name)
	}
	return fn(e, ret, args)
}

type scalarFn func(e *Evaluator, t types.TypeID, args []Value) (Value, error)

// elementwise lifts a scalar function over vectors; scalar arguments of a
// vector call are broadcast.
func elementwise(f scalarFn) builtinFn {
	var apply builtinFn
	apply = func(e *Evaluator, ret types.TypeID, args []Value) (Value, error) {
		n := -1
		for _, a := range args {
			if a.Composite() {
				n = len(a.Elems)
				break
			}
		}
		if n < 0 {
			return f(e, ret, args)
		}
		out := Value{Type: ret, Elems: make([]Value, n)}
		lane := make([]Value, len(args))
		for i := range n {
			for j, a := range args {
				if a.Composite() {
					lane[j] = a.Elems[i]
				} else {
					lane[j] = a
				}
			}
			v, err := apply(e, e.elemType(ret, i), lane)
			if err != nil {
				return Value{}, err
			}
			out.Elems[i] = v
		}
		return out, nil
	}
	return apply
}

func isFloat(e *Evaluator, t types.TypeID) bool { return e.Types.IsFloatScalar(t) }

func absScalar(e *Evaluator, t types.TypeID, args []Value) (Value, error) {
	v := args[0]
	v.Type = t
	if isFloat(e, t) {
		v.Float = math.Abs(v.Float)
		return v, nil
	}
	if e.Types.Kind(t) == types.KindI32 && v.Int == math.MinInt32 {
		return v, nil
	}
	if v.Int < 0 {
		if e.Types.Kind(t) == types.KindAbstractInt && v.Int == math.MinInt64 {
			return Value{}, errorf("'abs(%d)' cannot be represented as 'abstract-int'", v.Int)
		}
		v.Int = -v.Int
	}
	return v, nil
}

func minMax(isMin bool) scalarFn {
	return func(e *Evaluator, t types.TypeID, args []Value) (Value, error) {
		a, b := args[0], args[1]
		less := compare(ast.BinaryLess, e.Types.Kind(t), a, b)
		if less == isMin {
			a.Type = t
			return a, nil
		}
		b.Type = t
		return b, nil
	}
}

func clampScalar(e *Evaluator, t types.TypeID, args []Value) (Value, error) {
	lo, err := minMax(false)(e, t, args[:2])
	if err != nil {
		return Value{}, err
	}
	return minMax(true)(e, t, []Value{lo, args[2]})
}

func signScalar(e *Evaluator, t types.TypeID, args []Value) (Value, error) {
	v := args[0]
	out := Value{Type: t}
	if isFloat(e, t) {
		switch {
		case v.Float > 0:
			out.Float = 1
		case v.Float < 0:
			out.Float = -1
		}
		return out, nil
	}
	switch {
	case v.Int > 0:
		out.Int = 1
	case v.Int < 0:
		out.Int = -1
	}
	return out, nil
}

func floatFn(f func(float64) float64) scalarFn {
	return func(e *Evaluator, t types.TypeID, args []Value) (Value, error) {
		return Value{Type: t, Float: f(args[0].Float)}, nil
	}
}

func sqrtScalar(e *Evaluator, t types.TypeID, args []Value) (Value, error) {
	if args[0].Float < 0 {
		return Value{}, errorf("sqrt must be called with a value >= 0")
	}
	q, _ := quantize(e.Types.Kind(t), math.Sqrt(args[0].Float))
	return Value{Type: t, Float: q}, nil
}

func countOneBits(e *Evaluator, t types.TypeID, args []Value) (Value, error) {
	return Value{Type: t, Int: int64(bits.OnesCount32(uint32(args[0].Int)))}, nil
}

func reverseBits(e *Evaluator, t types.TypeID, args []Value) (Value, error) {
	r := bits.Reverse32(uint32(args[0].Int))
	if e.Types.Kind(t) == types.KindI32 {
		return Value{Type: t, Int: int64(int32(r))}, nil
	}
	return Value{Type: t, Int: int64(r)}, nil
}

// firstLeadingBit: for signed values the first bit that differs from the sign
// bit, -1 (all ones for u32) when there is none.
func firstLeadingBit(e *Evaluator, t types.TypeID, args []Value) (Value, error) {
	u := uint32(args[0].Int)
	signed := e.Types.Kind(t) == types.KindI32
	if signed && int32(u) < 0 {
		u = ^u
	}
	if u == 0 {
		if signed {
			return Value{Type: t, Int: -1}, nil
		}
		return Value{Type: t, Int: math.MaxUint32}, nil
	}
	return Value{Type: t, Int: int64(31 - bits.LeadingZeros32(u))}, nil
}

// select(f, t, cond): component-wise when cond is a vector.
func selectFn(e *Evaluator, ret types.TypeID, args []Value) (Value, error) {
	f, t, cond := args[0], args[1], args[2]
	if !cond.Composite() {
		if cond.Bool {
			return t, nil
		}
		return f, nil
	}
	out := Value{Type: ret, Elems: make([]Value, len(cond.Elems))}
	for i, c := range cond.Elems {
		if c.Bool {
			out.Elems[i] = t.Elems[i]
		} else {
			out.Elems[i] = f.Elems[i]
		}
	}
	return out, nil
}

func allAny(all bool) builtinFn {
	return func(e *Evaluator, ret types.TypeID, args []Value) (Value, error) {
		v := args[0]
		if !v.Composite() {
			return e.Bool(v.Bool), nil
		}
		for _, el := range v.Elems {
			if el.Bool != all {
				return e.Bool(!all), nil
			}
		}
		return e.Bool(all), nil
	}
}

func dotFn(e *Evaluator, ret types.TypeID, args []Value) (Value, error) {
	a, b := args[0], args[1]
	sum := Value{Type: ret}
	for i := range a.Elems {
		p, err := e.binaryScalar(ast.BinaryMul, ret, a.Elems[i], b.Elems[i])
		if err != nil {
			return Value{}, &Error{Msg: err.Error() + " (when calculating dot)"}
		}
		sum, err = e.binaryScalar(ast.BinaryAdd, ret, sum, p)
		if err != nil {
			return Value{}, &Error{Msg: err.Error() + " (when calculating dot)"}
		}
	}
	return sum, nil
}

func lengthFn(e *Evaluator, ret types.TypeID, args []Value) (Value, error) {
	v := args[0]
	if !v.Composite() {
		return Value{Type: ret, Float: math.Abs(v.Float)}, nil
	}
	var sq float64
	for _, el := range v.Elems {
		sq += el.Float * el.Float
	}
	q, ok := quantize(e.Types.Kind(ret), math.Sqrt(sq))
	if !ok {
		return Value{}, errorf("value cannot be represented as '%s' (when calculating length)", e.Types.Name(ret))
	}
	return Value{Type: ret, Float: q}, nil
}
