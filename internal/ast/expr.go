package ast

import (
	"wgslfront/internal/source"
)

type ExprKind uint8

const (
	ExprIdent ExprKind = iota + 1
	ExprLit
	ExprUnary
	ExprBinary
	ExprCall
	ExprIndex
	ExprMember
	ExprBitcast
	ExprPhony // '_' on the left of an assignment
)

func (k ExprKind) String() string {
	switch k {
	case ExprIdent:
		return "Ident"
	case ExprLit:
		return "Literal"
	case ExprUnary:
		return "Unary"
	case ExprBinary:
		return "Binary"
	case ExprCall:
		return "Call"
	case ExprIndex:
		return "Index"
	case ExprMember:
		return "Member"
	case ExprBitcast:
		return "Bitcast"
	case ExprPhony:
		return "Phony"
	}
	return "Invalid"
}

type Expr struct {
	Kind    ExprKind
	Node    NodeID
	Span    source.Span
	Payload PayloadID
}

// ExprIdentData is a (possibly templated) identifier: `x`, `vec3<f32>`,
// `array<u32, N>`. Type expressions use this same shape.
type ExprIdentData struct {
	Name         source.StringID
	TemplateArgs []ExprID
}

type LitKind uint8

const (
	LitAbstractInt LitKind = iota
	LitI32
	LitU32
	LitAbstractFloat
	LitF32
	LitF16
	LitBool
)

type ExprLitData struct {
	Kind  LitKind
	Int   int64
	Float float64
	Bool  bool
}

type UnaryOp uint8

const (
	UnaryNegate     UnaryOp = iota + 1 // -
	UnaryNot                           // !
	UnaryComplement                    // ~
	UnaryDeref                         // *
	UnaryAddressOf                     // &
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryNegate:
		return "-"
	case UnaryNot:
		return "!"
	case UnaryComplement:
		return "~"
	case UnaryDeref:
		return "*"
	case UnaryAddressOf:
		return "&"
	}
	return "?"
}

type ExprUnaryData struct {
	Op      UnaryOp
	Operand ExprID
}

type BinaryOp uint8

const (
	BinaryAnd BinaryOp = iota + 1
	BinaryOr
	BinaryXor
	BinaryLogicalAnd
	BinaryLogicalOr
	BinaryEqual
	BinaryNotEqual
	BinaryLess
	BinaryGreater
	BinaryLessEqual
	BinaryGreaterEqual
	BinaryShiftLeft
	BinaryShiftRight
	BinaryAdd
	BinarySub
	BinaryMul
	BinaryDiv
	BinaryMod
)

var binaryOpText = [...]string{
	BinaryAnd:          "&",
	BinaryOr:           "|",
	BinaryXor:          "^",
	BinaryLogicalAnd:   "&&",
	BinaryLogicalOr:    "||",
	BinaryEqual:        "==",
	BinaryNotEqual:     "!=",
	BinaryLess:         "<",
	BinaryGreater:      ">",
	BinaryLessEqual:    "<=",
	BinaryGreaterEqual: ">=",
	BinaryShiftLeft:    "<<",
	BinaryShiftRight:   ">>",
	BinaryAdd:          "+",
	BinarySub:          "-",
	BinaryMul:          "*",
	BinaryDiv:          "/",
	BinaryMod:          "%",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpText) && op != 0 {
		return binaryOpText[op]
	}
	return "?"
}

func (op BinaryOp) IsLogical() bool {
	return op == BinaryLogicalAnd || op == BinaryLogicalOr
}

func (op BinaryOp) IsComparison() bool {
	return op >= BinaryEqual && op <= BinaryGreaterEqual
}

func (op BinaryOp) IsShift() bool {
	return op == BinaryShiftLeft || op == BinaryShiftRight
}

type ExprBinaryData struct {
	Op          BinaryOp
	Left, Right ExprID
}

// ExprCallData: Target is always an ExprIdent (function, type constructor or builtin).
type ExprCallData struct {
	Target ExprID
	Args   []ExprID
}

type ExprIndexData struct {
	Target, Index ExprID
}

type ExprMemberData struct {
	Target ExprID
	Member Ident
}

type ExprBitcastData struct {
	Type  ExprID
	Value ExprID
}
