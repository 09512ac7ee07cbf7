package consteval

import (
	"fmt"
	"math"

	"wgslfront/internal/types"
)

// Error is a constant-evaluation failure. The resolver reports Msg at the span
// of the expression being evaluated.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

func errorf(format string, args ...any) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// Evaluator folds constant expressions over values of one type interner.
type Evaluator struct {
	Types *types.Interner
}

func New(in *types.Interner) *Evaluator {
	return &Evaluator{Types: in}
}

// Scalar constructors ---------------------------------------------------------

func (e *Evaluator) AbstractInt(v int64) Value {
	return Value{Type: e.Types.Builtins().AbstractInt, Int: v}
}

func (e *Evaluator) AbstractFloat(v float64) Value {
	return Value{Type: e.Types.Builtins().AbstractFloat, Float: v}
}

func (e *Evaluator) Bool(v bool) Value {
	return Value{Type: e.Types.Builtins().Bool, Bool: v}
}

func (e *Evaluator) I32(v int64) Value { return Value{Type: e.Types.Builtins().I32, Int: v} }
func (e *Evaluator) U32(v int64) Value { return Value{Type: e.Types.Builtins().U32, Int: v} }
func (e *Evaluator) F32(v float64) Value {
	return Value{Type: e.Types.Builtins().F32, Float: float64(float32(v))}
}

// Zero returns the zero value of a constructible type.
func (e *Evaluator) Zero(t types.TypeID) Value {
	tt, ok := e.Types.Lookup(t)
	if !ok {
		return Value{Type: t}
	}
	switch tt.Kind {
	case types.KindVector:
		return e.fill(t, int(tt.Width), func(int) Value { return e.Zero(tt.Elem) })
	case types.KindMatrix:
		return e.fill(t, int(tt.Columns), func(int) Value { return e.Zero(tt.Elem) })
	case types.KindArray:
		return e.fill(t, int(tt.Count), func(int) Value { return e.Zero(tt.Elem) })
	case types.KindStruct:
		info, _ := e.Types.StructInfo(t)
		n := 0
		if info != nil {
			n = len(info.Members)
		}
		return e.fill(t, n, func(i int) Value { return e.Zero(info.Members[i].Type) })
	}
	return Value{Type: t}
}

func (e *Evaluator) fill(t types.TypeID, n int, f func(int) Value) Value {
	elems := make([]Value, n)
	for i := range elems {
		elems[i] = f(i)
	}
	return Value{Type: t, Elems: elems}
}

// elemType is the type of the i-th sub-value of a composite type.
func (e *Evaluator) elemType(t types.TypeID, i int) types.TypeID {
	tt := e.Types.MustLookup(t)
	if tt.Kind == types.KindStruct {
		info, _ := e.Types.StructInfo(t)
		return info.Members[i].Type
	}
	return tt.Elem
}

// Conversion ------------------------------------------------------------------

// Convert performs an automatic conversion: abstract values are materialized
// to the target type, element-wise for composites. A value that does not fit
// the target is an error, "value 3000000000 cannot be represented as 'i32'".
// Converting to the value's own type is the identity.
func (e *Evaluator) Convert(v Value, to types.TypeID) (Value, error) {
	if v.Type == to {
		return v, nil
	}
	if v.Composite() {
		out := Value{Type: to, Elems: make([]Value, len(v.Elems))}
		for i, el := range v.Elems {
			c, err := e.Convert(el, e.elemType(to, i))
			if err != nil {
				return Value{}, err
			}
			out.Elems[i] = c
		}
		return out, nil
	}
	return e.convertScalar(v, to, false)
}

// ValueConvert is an explicit conversion such as `i32(x)` or `f32(u)`.
// Float to integer truncates and saturates, i32 and u32 reinterpret bits,
// anything to bool tests for non-zero.
func (e *Evaluator) ValueConvert(v Value, to types.TypeID) (Value, error) {
	if v.Type == to {
		return v, nil
	}
	if v.Composite() {
		out := Value{Type: to, Elems: make([]Value, len(v.Elems))}
		for i, el := range v.Elems {
			c, err := e.ValueConvert(el, e.elemType(to, i))
			if err != nil {
				return Value{}, err
			}
			out.Elems[i] = c
		}
		return out, nil
	}
	return e.convertScalar(v, to, true)
}

func (e *Evaluator) convertScalar(v Value, to types.TypeID, explicit bool) (Value, error) {
	in := e.Types
	from := in.Kind(v.Type)
	out := Value{Type: to}
	notRepresentable := func() error {
		return errorf("value %s cannot be represented as '%s'", scalarText(in, v), in.Name(to))
	}

	switch in.Kind(to) {
	case types.KindBool:
		switch from {
		case types.KindBool:
			out.Bool = v.Bool
		case types.KindAbstractFloat, types.KindF32, types.KindF16:
			out.Bool = v.Float != 0
		default:
			out.Bool = v.Int != 0
		}
		return out, nil

	case types.KindAbstractInt, types.KindI32, types.KindU32:
		lo, hi := intRange(in.Kind(to))
		switch from {
		case types.KindBool:
			if v.Bool {
				out.Int = 1
			}
		case types.KindAbstractFloat, types.KindF32, types.KindF16:
			f := math.Trunc(v.Float)
			if !explicit && (f != v.Float || f < float64(lo) || f > float64(hi)) {
				return Value{}, notRepresentable()
			}
			switch {
			case math.IsNaN(f):
				out.Int = 0
			case f <= float64(lo):
				out.Int = lo
			case f >= float64(hi):
				out.Int = hi
			default:
				out.Int = int64(f)
			}
		default:
			if v.Int >= lo && v.Int <= hi {
				out.Int = v.Int
				break
			}
			if !explicit || from == types.KindAbstractInt {
				return Value{}, notRepresentable()
			}
			// i32 <-> u32 reinterpret the bit pattern
			if in.Kind(to) == types.KindU32 {
				out.Int = int64(uint32(int32(v.Int)))
			} else {
				out.Int = int64(int32(uint32(v.Int)))
			}
		}
		return out, nil

	case types.KindAbstractFloat, types.KindF32, types.KindF16:
		var f float64
		switch from {
		case types.KindBool:
			if v.Bool {
				f = 1
			}
		case types.KindAbstractFloat, types.KindF32, types.KindF16:
			f = v.Float
		default:
			f = float64(v.Int)
		}
		q, ok := quantize(in.Kind(to), f)
		if !ok {
			return Value{}, notRepresentable()
		}
		out.Float = q
		return out, nil
	}
	return Value{}, errorf("cannot convert '%s' to '%s'", in.Name(v.Type), in.Name(to))
}

func intRange(k types.Kind) (lo, hi int64) {
	switch k {
	case types.KindI32:
		return math.MinInt32, math.MaxInt32
	case types.KindU32:
		return 0, math.MaxUint32
	}
	return math.MinInt64, math.MaxInt64
}

// quantize rounds f to the precision of the float kind; ok is false when the
// rounded value is not finite.
func quantize(k types.Kind, f float64) (float64, bool) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return f, false
	}
	switch k {
	case types.KindF32:
		q := float64(float32(f))
		return q, !math.IsInf(q, 0)
	case types.KindF16:
		return roundF16(f)
	}
	return f, true
}

const maxF16 = 65504

// roundF16 rounds to the nearest binary16 value, ties to even.
func roundF16(f float64) (float64, bool) {
	if f == 0 {
		return f, true
	}
	abs := math.Abs(f)
	var quantum float64
	if abs < 0x1p-14 {
		quantum = 0x1p-24
	} else {
		_, exp := math.Frexp(abs) // abs = m * 2^exp, m in [0.5, 1)
		quantum = math.Ldexp(1, exp-11)
	}
	q := math.RoundToEven(f/quantum) * quantum
	if math.Abs(q) > maxF16 {
		return q, false
	}
	return q, true
}
