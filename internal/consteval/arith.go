package consteval

import (
	"math"

	"wgslfront/internal/ast"
	"wgslfront/internal/types"
)

// Unary folds -x, !x and ~x. Deref and address-of are never constant.
func (e *Evaluator) Unary(op ast.UnaryOp, v Value) (Value, error) {
	if v.Composite() {
		out := Value{Type: v.Type, Elems: make([]Value, len(v.Elems))}
		for i, el := range v.Elems {
			r, err := e.Unary(op, el)
			if err != nil {
				return Value{}, err
			}
			out.Elems[i] = r
		}
		return out, nil
	}

	in := e.Types
	out := Value{Type: v.Type}
	switch op {
	case ast.UnaryNegate:
		switch in.Kind(v.Type) {
		case types.KindAbstractInt:
			if v.Int == math.MinInt64 {
				return Value{}, errorf("'-%s' cannot be represented as 'abstract-int'", scalarText(in, v))
			}
			out.Int = -v.Int
		case types.KindI32:
			out.Int = int64(-int32(v.Int))
		default:
			out.Float = -v.Float
		}
	case ast.UnaryNot:
		out.Bool = !v.Bool
	case ast.UnaryComplement:
		switch in.Kind(v.Type) {
		case types.KindU32:
			out.Int = int64(^uint32(v.Int))
		case types.KindI32:
			out.Int = int64(^int32(v.Int))
		default:
			out.Int = ^v.Int
		}
	default:
		return Value{}, errorf("operator '%s' is not a constant operation", op)
	}
	return out, nil
}

// Binary folds `l op r`. Both operands already share their element type and
// resultType is the type computed by the resolver. Scalar operands of vector
// operations are broadcast.
func (e *Evaluator) Binary(op ast.BinaryOp, resultType types.TypeID, l, r Value) (Value, error) {
	in := e.Types
	if op == ast.BinaryMul && in.Kind(l.Type) == types.KindMatrix || op == ast.BinaryMul && in.Kind(r.Type) == types.KindMatrix {
		if out, ok, err := e.matrixMul(resultType, l, r); ok || err != nil {
			return out, err
		}
	}
	if l.Composite() || r.Composite() {
		n := max(len(l.Elems), len(r.Elems))
		out := Value{Type: resultType, Elems: make([]Value, n)}
		for i := range n {
			le, re := l, r
			if l.Composite() {
				le = l.Elems[i]
			}
			if r.Composite() {
				re = r.Elems[i]
			}
			v, err := e.Binary(op, e.elemType(resultType, i), le, re)
			if err != nil {
				return Value{}, err
			}
			out.Elems[i] = v
		}
		return out, nil
	}
	return e.binaryScalar(op, resultType, l, r)
}

func (e *Evaluator) binaryScalar(op ast.BinaryOp, resultType types.TypeID, l, r Value) (Value, error) {
	in := e.Types
	kind := in.Kind(l.Type)
	out := Value{Type: resultType}
	overflow := func() error {
		return errorf("'%s %s %s' cannot be represented as '%s'", scalarText(in, l), op, scalarText(in, r), in.Name(l.Type))
	}

	switch op {
	case ast.BinaryLogicalAnd:
		out.Bool = l.Bool && r.Bool
		return out, nil
	case ast.BinaryLogicalOr:
		out.Bool = l.Bool || r.Bool
		return out, nil
	case ast.BinaryEqual, ast.BinaryNotEqual, ast.BinaryLess, ast.BinaryLessEqual, ast.BinaryGreater, ast.BinaryGreaterEqual:
		out.Bool = compare(op, kind, l, r)
		return out, nil
	case ast.BinaryShiftLeft:
		return e.shiftLeft(l, r)
	case ast.BinaryShiftRight:
		return e.shiftRight(l, r)
	}

	if kind == types.KindBool {
		switch op {
		case ast.BinaryAnd:
			out.Bool = l.Bool && r.Bool
		case ast.BinaryOr:
			out.Bool = l.Bool || r.Bool
		case ast.BinaryXor:
			out.Bool = l.Bool != r.Bool
		}
		return out, nil
	}

	switch kind {
	case types.KindAbstractFloat, types.KindF32, types.KindF16:
		var f float64
		switch op {
		case ast.BinaryAdd:
			f = l.Float + r.Float
		case ast.BinarySub:
			f = l.Float - r.Float
		case ast.BinaryMul:
			f = l.Float * r.Float
		case ast.BinaryDiv:
			if r.Float == 0 {
				return Value{}, overflow()
			}
			f = l.Float / r.Float
		case ast.BinaryMod:
			if r.Float == 0 {
				return Value{}, overflow()
			}
			f = math.Mod(l.Float, r.Float)
		}
		q, ok := quantize(kind, f)
		if !ok {
			return Value{}, overflow()
		}
		out.Float = q
		return out, nil

	case types.KindAbstractInt:
		a, b := l.Int, r.Int
		switch op {
		case ast.BinaryAdd:
			s := a + b
			if (a >= 0) == (b >= 0) && (s >= 0) != (a >= 0) {
				return Value{}, overflow()
			}
			out.Int = s
		case ast.BinarySub:
			s := a - b
			if (a >= 0) != (b >= 0) && (s >= 0) != (a >= 0) {
				return Value{}, overflow()
			}
			out.Int = s
		case ast.BinaryMul:
			if a != 0 && b != 0 {
				p := a * b
				if p/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
					return Value{}, overflow()
				}
				out.Int = p
			}
		case ast.BinaryDiv, ast.BinaryMod:
			if b == 0 || (b == -1 && a == math.MinInt64) {
				return Value{}, overflow()
			}
			if op == ast.BinaryDiv {
				out.Int = a / b
			} else {
				out.Int = a % b
			}
		default:
			out.Int = bitwise(op, a, b)
		}
		return out, nil

	case types.KindI32:
		a, b := int32(l.Int), int32(r.Int)
		switch op {
		case ast.BinaryAdd:
			out.Int = int64(a + b)
		case ast.BinarySub:
			out.Int = int64(a - b)
		case ast.BinaryMul:
			out.Int = int64(a * b)
		case ast.BinaryDiv, ast.BinaryMod:
			if b == 0 || (b == -1 && a == math.MinInt32) {
				return Value{}, overflow()
			}
			if op == ast.BinaryDiv {
				out.Int = int64(a / b)
			} else {
				out.Int = int64(a % b)
			}
		default:
			out.Int = int64(int32(bitwise(op, l.Int, r.Int)))
		}
		return out, nil

	case types.KindU32:
		a, b := uint32(l.Int), uint32(r.Int)
		switch op {
		case ast.BinaryAdd:
			out.Int = int64(a + b)
		case ast.BinarySub:
			out.Int = int64(a - b)
		case ast.BinaryMul:
			out.Int = int64(a * b)
		case ast.BinaryDiv, ast.BinaryMod:
			if b == 0 {
				return Value{}, overflow()
			}
			if op == ast.BinaryDiv {
				out.Int = int64(a / b)
			} else {
				out.Int = int64(a % b)
			}
		default:
			out.Int = int64(uint32(bitwise(op, l.Int, r.Int)))
		}
		return out, nil
	}
	return Value{}, errorf("operator '%s' is not defined for '%s'", op, in.Name(l.Type))
}

func bitwise(op ast.BinaryOp, a, b int64) int64 {
	switch op {
	case ast.BinaryAnd:
		return a & b
	case ast.BinaryOr:
		return a | b
	case ast.BinaryXor:
		return a ^ b
	}
	return 0
}

func compare(op ast.BinaryOp, kind types.Kind, l, r Value) bool {
	var c int
	switch kind {
	case types.KindBool:
		eq := l.Bool == r.Bool
		if op == ast.BinaryEqual {
			return eq
		}
		return !eq
	case types.KindAbstractFloat, types.KindF32, types.KindF16:
		switch {
		case l.Float < r.Float:
			c = -1
		case l.Float > r.Float:
			c = 1
		case l.Float != r.Float: // NaN
			return op == ast.BinaryNotEqual
		}
	default:
		switch {
		case l.Int < r.Int:
			c = -1
		case l.Int > r.Int:
			c = 1
		}
	}
	switch op {
	case ast.BinaryEqual:
		return c == 0
	case ast.BinaryNotEqual:
		return c != 0
	case ast.BinaryLess:
		return c < 0
	case ast.BinaryLessEqual:
		return c <= 0
	case ast.BinaryGreater:
		return c > 0
	case ast.BinaryGreaterEqual:
		return c >= 0
	}
	return false
}

func (e *Evaluator) bitWidth(t types.TypeID) uint64 {
	if e.Types.Kind(t) == types.KindAbstractInt {
		return 64
	}
	return 32
}

// shiftLeft: the shifted-out bits plus the new sign bit must all match for
// signed types, and must be zero for u32.
func (e *Evaluator) shiftLeft(l, r Value) (Value, error) {
	in := e.Types
	width := e.bitWidth(l.Type)
	shift := uint64(r.Int)
	out := Value{Type: l.Type}
	kind := in.Kind(l.Type)

	if kind != types.KindAbstractInt && shift >= width {
		return Value{}, errorf("shift left value must be less than the bit width of the lhs, which is %d", width)
	}
	if kind == types.KindAbstractInt && shift >= width {
		if l.Int != 0 {
			return Value{}, errorf("'%s << %s' cannot be represented as 'abstract-int'", scalarText(in, l), scalarText(in, r))
		}
		return out, nil
	}

	u := uint64(l.Int)
	if width == 32 {
		u = uint64(uint32(l.Int))
	}
	switch kind {
	case types.KindU32:
		if shift > 0 {
			mask := (^uint64(0) << (width - shift)) & (1<<width - 1)
			if u&mask != 0 {
				return Value{}, errorf("'%s << %s' cannot be represented as 'u32'", scalarText(in, l), scalarText(in, r))
			}
		}
		out.Int = int64(uint32(u << shift))
	default:
		var mask uint64
		if width == 64 {
			mask = ^uint64(0) << (width - shift - 1)
		} else {
			mask = (^uint64(0) << (width - shift - 1)) & (1<<width - 1)
		}
		if u&mask != 0 && u&mask != mask {
			return Value{}, errorf("shift left operation results in sign change")
		}
		if kind == types.KindI32 {
			out.Int = int64(int32(uint32(u << shift)))
		} else {
			out.Int = int64(u << shift)
		}
	}
	return out, nil
}

func (e *Evaluator) shiftRight(l, r Value) (Value, error) {
	width := e.bitWidth(l.Type)
	shift := uint64(r.Int)
	out := Value{Type: l.Type}
	switch e.Types.Kind(l.Type) {
	case types.KindAbstractInt:
		if shift >= width {
			if l.Int < 0 {
				out.Int = -1
			}
			return out, nil
		}
		out.Int = l.Int >> shift
		return out, nil
	case types.KindI32:
		if shift >= width {
			return Value{}, errorf("shift right value must be less than the bit width of the lhs, which is %d", width)
		}
		out.Int = int64(int32(l.Int) >> shift)
	default:
		if shift >= width {
			return Value{}, errorf("shift right value must be less than the bit width of the lhs, which is %d", width)
		}
		out.Int = int64(uint32(l.Int) >> shift)
	}
	return out, nil
}

// matrixMul handles the linear-algebra products; ok is false for
// matrix*scalar which is element-wise.
func (e *Evaluator) matrixMul(resultType types.TypeID, l, r Value) (Value, bool, error) {
	in := e.Types
	lk, rk := in.Kind(l.Type), in.Kind(r.Type)
	elem := in.DeepestElement(resultType)
	dot := func(a, b []Value) (Value, error) {
		sum := Value{Type: elem}
		for i := range a {
			p, err := e.binaryScalar(ast.BinaryMul, elem, a[i], b[i])
			if err != nil {
				return Value{}, err
			}
			sum, err = e.binaryScalar(ast.BinaryAdd, elem, sum, p)
			if err != nil {
				return Value{}, err
			}
		}
		return sum, nil
	}
	row := func(m Value, i int) []Value {
		out := make([]Value, len(m.Elems))
		for c, col := range m.Elems {
			out[c] = col.Elems[i]
		}
		return out
	}

	switch {
	case lk == types.KindMatrix && rk == types.KindVector:
		// (M * v)[i] = row_i(M) . v
		rows := len(l.Elems[0].Elems)
		out := Value{Type: resultType, Elems: make([]Value, rows)}
		for i := range rows {
			d, err := dot(row(l, i), r.Elems)
			if err != nil {
				return Value{}, true, err
			}
			out.Elems[i] = d
		}
		return out, true, nil
	case lk == types.KindVector && rk == types.KindMatrix:
		out := Value{Type: resultType, Elems: make([]Value, len(r.Elems))}
		for c, col := range r.Elems {
			d, err := dot(l.Elems, col.Elems)
			if err != nil {
				return Value{}, true, err
			}
			out.Elems[c] = d
		}
		return out, true, nil
	case lk == types.KindMatrix && rk == types.KindMatrix:
		rows := len(l.Elems[0].Elems)
		out := Value{Type: resultType, Elems: make([]Value, len(r.Elems))}
		colType := e.elemType(resultType, 0)
		for c, col := range r.Elems {
			cv := Value{Type: colType, Elems: make([]Value, rows)}
			for i := range rows {
				d, err := dot(row(l, i), col.Elems)
				if err != nil {
					return Value{}, true, err
				}
				cv.Elems[i] = d
			}
			out.Elems[c] = cv
		}
		return out, true, nil
	}
	return Value{}, false, nil
}
