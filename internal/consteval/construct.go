package consteval

import (
	"math"
	"strconv"

	"wgslfront/internal/types"
)

// Construct builds a value of type t from already-typed arguments, covering
// zero-value, conversion, splat and component-wise constructors.
func (e *Evaluator) Construct(t types.TypeID, args []Value) (Value, error) {
	in := e.Types
	if len(args) == 0 {
		return e.Zero(t), nil
	}
	tt, ok := in.Lookup(t)
	if !ok {
		return Value{}, errorf("invalid constructor type")
	}

	switch tt.Kind {
	case types.KindVector:
		if len(args) == 1 && !args[0].Composite() {
			el, err := e.ValueConvert(args[0], tt.Elem)
			if err != nil {
				return Value{}, err
			}
			return e.Splat(t, el), nil
		}
		if len(args) == 1 && in.Kind(args[0].Type) == types.KindVector {
			return e.ValueConvert(args[0], t)
		}
		var lanes []Value
		for _, a := range args {
			if a.Composite() {
				lanes = append(lanes, a.Elems...)
			} else {
				lanes = append(lanes, a)
			}
		}
		if len(lanes) != int(tt.Width) {
			return Value{}, errorf("wrong number of components for '%s': got %d", in.Name(t), len(lanes))
		}
		return e.convertElems(t, lanes)

	case types.KindMatrix:
		if len(args) == 1 && in.Kind(args[0].Type) == types.KindMatrix {
			return e.ValueConvert(args[0], t)
		}
		cols := int(tt.Columns)
		rows := int(in.MustLookup(tt.Elem).Width)
		if len(args) == cols && in.Kind(args[0].Type) == types.KindVector {
			return e.convertElems(t, args)
		}
		if len(args) != cols*rows {
			return Value{}, errorf("wrong number of components for '%s': got %d", in.Name(t), len(args))
		}
		out := Value{Type: t, Elems: make([]Value, cols)}
		for c := range cols {
			col, err := e.convertElems(tt.Elem, args[c*rows:(c+1)*rows])
			if err != nil {
				return Value{}, err
			}
			out.Elems[c] = col
		}
		return out, nil

	case types.KindArray, types.KindStruct:
		return e.convertElems(t, args)
	}

	if len(args) != 1 {
		return Value{}, errorf("too many arguments for '%s'", in.Name(t))
	}
	return e.ValueConvert(args[0], t)
}

func (e *Evaluator) convertElems(t types.TypeID, elems []Value) (Value, error) {
	out := Value{Type: t, Elems: make([]Value, len(elems))}
	for i, el := range elems {
		c, err := e.Convert(el, e.elemType(t, i))
		if err != nil {
			return Value{}, err
		}
		out.Elems[i] = c
	}
	return out, nil
}

// Splat replicates a scalar into every lane of vector type t.
func (e *Evaluator) Splat(t types.TypeID, v Value) Value {
	tt := e.Types.MustLookup(t)
	return e.fill(t, int(tt.Width), func(int) Value { return v })
}

// Index returns element i of a vector, matrix or array value.
func (e *Evaluator) Index(v Value, i int64) (Value, error) {
	n := int64(len(v.Elems))
	if i < 0 || i >= n {
		rng := ""
		if n > 0 {
			rng = " [0.." + strconv.FormatInt(n-1, 10) + "]"
		}
		return Value{}, errorf("index %d out of bounds%s", i, rng)
	}
	return v.Elems[i], nil
}

// Member returns struct member i.
func (e *Evaluator) Member(v Value, i int) Value {
	return v.Elems[i]
}

// Swizzle picks lanes of a vector. A single index yields a scalar.
func (e *Evaluator) Swizzle(v Value, t types.TypeID, idx []int) Value {
	if len(idx) == 1 {
		return v.Elems[idx[0]]
	}
	return e.fill(t, len(idx), func(i int) Value { return v.Elems[idx[i]] })
}

// Bitcast reinterprets the bits of 32-bit scalars or vectors of them.
func (e *Evaluator) Bitcast(v Value, to types.TypeID) (Value, error) {
	in := e.Types
	if v.Composite() {
		out := Value{Type: to, Elems: make([]Value, len(v.Elems))}
		for i, el := range v.Elems {
			c, err := e.Bitcast(el, e.elemType(to, i))
			if err != nil {
				return Value{}, err
			}
			out.Elems[i] = c
		}
		return out, nil
	}
	var raw uint32
	switch in.Kind(v.Type) {
	case types.KindF32:
		raw = math.Float32bits(float32(v.Float))
	case types.KindI32, types.KindU32, types.KindAbstractInt:
		raw = uint32(v.Int)
	default:
		return Value{}, errorf("cannot bitcast from '%s'", in.Name(v.Type))
	}
	out := Value{Type: to}
	switch in.Kind(to) {
	case types.KindF32:
		f := math.Float32frombits(raw)
		if math.IsInf(float64(f), 0) || math.IsNaN(float64(f)) {
			return Value{}, errorf("value cannot be represented as 'f32'")
		}
		out.Float = float64(f)
	case types.KindI32:
		out.Int = int64(int32(raw))
	case types.KindU32:
		out.Int = int64(raw)
	default:
		return Value{}, errorf("cannot bitcast to '%s'", in.Name(to))
	}
	return out, nil
}
