package types

import "wgslfront/internal/ast"

// FamilyMask describes broad categories of element types an operator accepts.
type FamilyMask uint8

const (
	FamilyNone FamilyMask = 0
	FamilyBool FamilyMask = 1 << iota
	FamilySignedInt
	FamilyUnsignedInt
	FamilyFloat
)

const (
	FamilyIntegral = FamilySignedInt | FamilyUnsignedInt
	FamilyNumeric  = FamilyIntegral | FamilyFloat
	FamilyAny      = FamilyNumeric | FamilyBool
)

// ShapeMask lists operand shape pairs an operator accepts.
type ShapeMask uint8

const (
	ShapeScalar       ShapeMask = 1 << iota // T op T
	ShapeVector                             // vecN<T> op vecN<T>
	ShapeScalarVector                       // T op vecN<T> and vecN<T> op T
	ShapeMatrix                             // matrix arithmetic, see matrixResult
)

// BinaryResult describes how to derive the result type for an operator.
type BinaryResult uint8

const (
	BinaryResultOperand BinaryResult = iota + 1 // widest operand
	BinaryResultBool                            // bool or vecN<bool>
)

// BinarySpec lists operand families and expected result for an operation.
type BinarySpec struct {
	Family FamilyMask
	Shapes ShapeMask
	Result BinaryResult
}

var binarySpecTable = map[ast.BinaryOp]BinarySpec{
	ast.BinaryAdd:          {Family: FamilyNumeric, Shapes: ShapeScalar | ShapeVector | ShapeScalarVector | ShapeMatrix, Result: BinaryResultOperand},
	ast.BinarySub:          {Family: FamilyNumeric, Shapes: ShapeScalar | ShapeVector | ShapeScalarVector | ShapeMatrix, Result: BinaryResultOperand},
	ast.BinaryMul:          {Family: FamilyNumeric, Shapes: ShapeScalar | ShapeVector | ShapeScalarVector | ShapeMatrix, Result: BinaryResultOperand},
	ast.BinaryDiv:          {Family: FamilyNumeric, Shapes: ShapeScalar | ShapeVector | ShapeScalarVector, Result: BinaryResultOperand},
	ast.BinaryMod:          {Family: FamilyNumeric, Shapes: ShapeScalar | ShapeVector | ShapeScalarVector, Result: BinaryResultOperand},
	ast.BinaryAnd:          {Family: FamilyIntegral | FamilyBool, Shapes: ShapeScalar | ShapeVector, Result: BinaryResultOperand},
	ast.BinaryOr:           {Family: FamilyIntegral | FamilyBool, Shapes: ShapeScalar | ShapeVector, Result: BinaryResultOperand},
	ast.BinaryXor:          {Family: FamilyIntegral, Shapes: ShapeScalar | ShapeVector, Result: BinaryResultOperand},
	ast.BinaryLogicalAnd:   {Family: FamilyBool, Shapes: ShapeScalar, Result: BinaryResultBool},
	ast.BinaryLogicalOr:    {Family: FamilyBool, Shapes: ShapeScalar, Result: BinaryResultBool},
	ast.BinaryEqual:        {Family: FamilyAny, Shapes: ShapeScalar | ShapeVector, Result: BinaryResultBool},
	ast.BinaryNotEqual:     {Family: FamilyAny, Shapes: ShapeScalar | ShapeVector, Result: BinaryResultBool},
	ast.BinaryLess:         {Family: FamilyNumeric, Shapes: ShapeScalar | ShapeVector, Result: BinaryResultBool},
	ast.BinaryLessEqual:    {Family: FamilyNumeric, Shapes: ShapeScalar | ShapeVector, Result: BinaryResultBool},
	ast.BinaryGreater:      {Family: FamilyNumeric, Shapes: ShapeScalar | ShapeVector, Result: BinaryResultBool},
	ast.BinaryGreaterEqual: {Family: FamilyNumeric, Shapes: ShapeScalar | ShapeVector, Result: BinaryResultBool},
}

// BinarySpecFor returns operand rules for the given non-shift operator.
func BinarySpecFor(op ast.BinaryOp) (BinarySpec, bool) {
	spec, ok := binarySpecTable[op]
	return spec, ok
}

// FamilyOf classifies a scalar type.
func (in *Interner) FamilyOf(scalar TypeID) FamilyMask {
	switch in.Kind(scalar) {
	case KindBool:
		return FamilyBool
	case KindAbstractInt, KindI32:
		return FamilySignedInt
	case KindU32:
		return FamilyUnsignedInt
	case KindAbstractFloat, KindF32, KindF16:
		return FamilyFloat
	}
	return FamilyNone
}

// BinaryResultType computes the type of `lhs op rhs` once both operands share
// a common element type. It returns NoTypeID when no overload matches.
// Shifts are handled by the caller.
func (in *Interner) BinaryResultType(op ast.BinaryOp, lhs, rhs TypeID) TypeID {
	spec, ok := binarySpecTable[op]
	if !ok {
		return NoTypeID
	}
	lt, lok := in.Lookup(lhs)
	rt, rok := in.Lookup(rhs)
	if !lok || !rok {
		return NoTypeID
	}
	if in.ElemOf(lhs) != in.ElemOf(rhs) || in.FamilyOf(in.ElemOf(lhs))&spec.Family == 0 {
		return NoTypeID
	}

	operand := NoTypeID
	switch {
	case in.IsScalar(lhs) && in.IsScalar(rhs):
		if spec.Shapes&ShapeScalar != 0 {
			operand = lhs
		}
	case lt.Kind == KindVector && rt.Kind == KindVector:
		if spec.Shapes&ShapeVector != 0 && lt.Width == rt.Width {
			operand = lhs
		}
	case lt.Kind == KindVector && in.IsScalar(rhs):
		if spec.Shapes&ShapeScalarVector != 0 {
			operand = lhs
		}
	case in.IsScalar(lhs) && rt.Kind == KindVector:
		if spec.Shapes&ShapeScalarVector != 0 {
			operand = rhs
		}
	default:
		if spec.Shapes&ShapeMatrix != 0 && in.IsFloatScalar(in.ElemOf(lhs)) {
			return in.matrixResult(op, lt, rt, lhs, rhs)
		}
	}
	if operand == NoTypeID {
		return NoTypeID
	}
	if spec.Result == BinaryResultBool {
		if tt := in.MustLookup(operand); tt.Kind == KindVector {
			return in.Vector(in.builtins.Bool, tt.Width)
		}
		return in.builtins.Bool
	}
	return operand
}

// matrixResult: mat+mat, mat-mat of equal shape; mat*scalar, scalar*mat;
// matCxR*vecC -> vecR; vecR*matCxR -> vecC; matKxR*matCxK -> matCxR.
func (in *Interner) matrixResult(op ast.BinaryOp, lt, rt Type, lhs, rhs TypeID) TypeID {
	elem := in.ElemOf(lhs)
	switch op {
	case ast.BinaryAdd, ast.BinarySub:
		if lt.Kind == KindMatrix && lhs == rhs {
			return lhs
		}
	case ast.BinaryMul:
		switch {
		case lt.Kind == KindMatrix && in.IsScalar(rhs):
			return lhs
		case in.IsScalar(lhs) && rt.Kind == KindMatrix:
			return rhs
		case lt.Kind == KindMatrix && rt.Kind == KindVector && lt.Columns == rt.Width:
			return in.Vector(elem, lt.Width)
		case lt.Kind == KindVector && rt.Kind == KindMatrix && lt.Width == rt.Width:
			return in.Vector(elem, rt.Columns)
		case lt.Kind == KindMatrix && rt.Kind == KindMatrix && lt.Columns == rt.Width:
			return in.Matrix(elem, rt.Columns, lt.Width)
		}
	}
	return NoTypeID
}
