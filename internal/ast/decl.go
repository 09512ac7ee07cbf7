package ast

import (
	"wgslfront/internal/source"
)

type DeclKind uint8

const (
	DeclVar DeclKind = iota + 1
	DeclLet
	DeclConst
	DeclOverride
	DeclFunc
	DeclStruct
	DeclAlias
	DeclConstAssert
)

func (k DeclKind) String() string {
	switch k {
	case DeclVar:
		return "var"
	case DeclLet:
		return "let"
	case DeclConst:
		return "const"
	case DeclOverride:
		return "override"
	case DeclFunc:
		return "function"
	case DeclStruct:
		return "struct"
	case DeclAlias:
		return "alias"
	case DeclConstAssert:
		return "const_assert"
	}
	return "invalid"
}

// IsVariable reports var/let/const/override.
func (k DeclKind) IsVariable() bool {
	return k >= DeclVar && k <= DeclOverride
}

type Decl struct {
	Kind    DeclKind
	Node    NodeID
	Span    source.Span
	Name    Ident // пусто для const_assert
	Payload PayloadID
	Attrs   []AttrID
}

// DeclVarData covers var, let, const and override. AddressSpace and Access are
// the template arguments of `var<...>`.
type DeclVarData struct {
	Type         ExprID
	Init         ExprID
	AddressSpace ExprID
	Access       ExprID
}

type DeclFuncData struct {
	Params      []ParamID
	ReturnType  ExprID
	ReturnAttrs []AttrID
	Body        StmtID
}

type Param struct {
	Node  NodeID
	Span  source.Span
	Name  Ident
	Type  ExprID
	Attrs []AttrID
}

type DeclStructData struct {
	Members []MemberID
}

type Member struct {
	Node  NodeID
	Span  source.Span
	Name  Ident
	Type  ExprID
	Attrs []AttrID
}

type DeclAliasData struct {
	Type ExprID
}

type DeclConstAssertData struct {
	Cond ExprID
}
