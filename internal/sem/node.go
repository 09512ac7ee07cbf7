package sem

import (
	"wgslfront/internal/ast"
	"wgslfront/internal/builtin"
	"wgslfront/internal/consteval"
	"wgslfront/internal/source"
	"wgslfront/internal/types"
)

// ExprKind says what an identifier or expression resolved to.
type ExprKind uint8

const (
	ExprValue ExprKind = iota + 1
	ExprType
	ExprFunction
	ExprBuiltinFunction
	// ExprEnumerant: address space, access mode, texel format, builtin value
	// and similar template-only names.
	ExprEnumerant
)

func (k ExprKind) String() string {
	switch k {
	case ExprValue:
		return "value"
	case ExprType:
		return "type"
	case ExprFunction:
		return "function"
	case ExprBuiltinFunction:
		return "builtin function"
	case ExprEnumerant:
		return "enumerant"
	}
	return "invalid"
}

// Expr is the resolved counterpart of one ast expression.
type Expr struct {
	Node  ast.ExprID
	Kind  ExprKind
	Type  types.TypeID
	Stage Stage
	// Value is set for constant-stage values only.
	Value     *consteval.Value
	Behaviors Behaviors
	// Root is the variable whose memory a reference or pointer expression
	// designates, nil otherwise.
	Root *Variable
	// Var is the variable a plain identifier names.
	Var  *Variable
	Func *Function
	// Builtin is the intrinsic name for ExprBuiltinFunction.
	Builtin   string
	Enumerant string
	Span      source.Span
}

// BindingPoint is a @group/@binding pair.
type BindingPoint struct {
	Group   uint32
	Binding uint32
}

// IOAttributes are the pipeline IO decorations of a parameter, return value or
// struct member.
type IOAttributes struct {
	Location      *uint32
	Builtin       builtin.Value
	Interpolation builtin.InterpolationType
	Sampling      builtin.InterpolationSampling
	Invariant     bool
	// Span of the attribute list owner, for diagnostics.
	Span source.Span
}

// HasAny reports whether at least one IO attribute is present.
func (io IOAttributes) HasAny() bool {
	return io.Location != nil || io.Builtin != builtin.ValueUndefined
}

// Variable is a global, local or parameter.
type Variable struct {
	Decl    ast.DeclID
	Param   ast.ParamID
	Name    string
	Kind    ast.DeclKind
	IsParam bool
	Global  bool
	// Index is the position among globals, or among the parameters of the
	// owning function.
	Index  int
	Type   types.TypeID
	Space  builtin.AddressSpace
	Access builtin.Access
	Stage  Stage
	Init   *Expr
	Value  *consteval.Value
	// Binding is set for resource variables.
	Binding *BindingPoint
	// OverrideID is meaningful for overrides only; HasOverrideID tells whether
	// it has been assigned yet.
	OverrideID    uint16
	HasOverrideID bool
	IO            IOAttributes
	// TransitivelyReferenced: globals this global's initializer reaches.
	TransitivelyReferenced []*Variable
	Span                   source.Span
	Function               *Function
}

// IsResource reports whether v lives in a bound address space.
func (v *Variable) IsResource() bool {
	return v.Binding != nil
}
