package ast

import (
	"wgslfront/internal/source"
)

// Decls manages allocation of declarations, parameters and struct members.
type Decls struct {
	Arena        *Arena[Decl]
	Vars         *Arena[DeclVarData]
	Funcs        *Arena[DeclFuncData]
	Structs      *Arena[DeclStructData]
	Aliases      *Arena[DeclAliasData]
	ConstAsserts *Arena[DeclConstAssertData]
	Params       *Arena[Param]
	Members      *Arena[Member]

	nodes *nodeCounter
}

func newDecls(capHint uint, nodes *nodeCounter) *Decls {
	if capHint == 0 {
		capHint = 1 << 6
	}
	return &Decls{
		Arena:        NewArena[Decl](capHint),
		Vars:         NewArena[DeclVarData](capHint),
		Funcs:        NewArena[DeclFuncData](capHint / 4),
		Structs:      NewArena[DeclStructData](capHint / 8),
		Aliases:      NewArena[DeclAliasData](2),
		ConstAsserts: NewArena[DeclConstAssertData](2),
		Params:       NewArena[Param](capHint / 2),
		Members:      NewArena[Member](capHint / 2),
		nodes:        nodes,
	}
}

func (d *Decls) new(kind DeclKind, span source.Span, name Ident, payload uint32, attrs []AttrID) DeclID {
	return DeclID(d.Arena.Allocate(Decl{
		Kind:    kind,
		Node:    d.nodes.alloc(),
		Span:    span,
		Name:    name,
		Payload: PayloadID(payload),
		Attrs:   attrs,
	}))
}

func (d *Decls) Get(id DeclID) *Decl {
	return d.Arena.Get(uint32(id))
}

// NewVariable creates a var/let/const/override declaration.
func (d *Decls) NewVariable(kind DeclKind, span source.Span, name Ident, data DeclVarData, attrs []AttrID) DeclID {
	if !kind.IsVariable() {
		panic("ast: NewVariable with non-variable kind " + kind.String())
	}
	return d.new(kind, span, name, d.Vars.Allocate(data), attrs)
}

func (d *Decls) Var(id DeclID) (*DeclVarData, bool) {
	decl := d.Get(id)
	if decl == nil || !decl.Kind.IsVariable() {
		return nil, false
	}
	return d.Vars.Get(uint32(decl.Payload)), true
}

func (d *Decls) NewFunc(span source.Span, name Ident, data DeclFuncData, attrs []AttrID) DeclID {
	return d.new(DeclFunc, span, name, d.Funcs.Allocate(data), attrs)
}

func (d *Decls) Func(id DeclID) (*DeclFuncData, bool) {
	decl := d.Get(id)
	if decl == nil || decl.Kind != DeclFunc {
		return nil, false
	}
	return d.Funcs.Get(uint32(decl.Payload)), true
}

func (d *Decls) NewParam(span source.Span, name Ident, typ ExprID, attrs []AttrID) ParamID {
	return ParamID(d.Params.Allocate(Param{
		Node:  d.nodes.alloc(),
		Span:  span,
		Name:  name,
		Type:  typ,
		Attrs: attrs,
	}))
}

func (d *Decls) Param(id ParamID) *Param {
	return d.Params.Get(uint32(id))
}

func (d *Decls) NewStruct(span source.Span, name Ident, members []MemberID, attrs []AttrID) DeclID {
	return d.new(DeclStruct, span, name, d.Structs.Allocate(DeclStructData{Members: members}), attrs)
}

func (d *Decls) Struct(id DeclID) (*DeclStructData, bool) {
	decl := d.Get(id)
	if decl == nil || decl.Kind != DeclStruct {
		return nil, false
	}
	return d.Structs.Get(uint32(decl.Payload)), true
}

func (d *Decls) NewMember(span source.Span, name Ident, typ ExprID, attrs []AttrID) MemberID {
	return MemberID(d.Members.Allocate(Member{
		Node:  d.nodes.alloc(),
		Span:  span,
		Name:  name,
		Type:  typ,
		Attrs: attrs,
	}))
}

func (d *Decls) Member(id MemberID) *Member {
	return d.Members.Get(uint32(id))
}

func (d *Decls) NewAlias(span source.Span, name Ident, typ ExprID) DeclID {
	return d.new(DeclAlias, span, name, d.Aliases.Allocate(DeclAliasData{Type: typ}), nil)
}

func (d *Decls) Alias(id DeclID) (*DeclAliasData, bool) {
	decl := d.Get(id)
	if decl == nil || decl.Kind != DeclAlias {
		return nil, false
	}
	return d.Aliases.Get(uint32(decl.Payload)), true
}

func (d *Decls) NewConstAssert(span source.Span, cond ExprID) DeclID {
	return d.new(DeclConstAssert, span, Ident{}, d.ConstAsserts.Allocate(DeclConstAssertData{Cond: cond}), nil)
}

func (d *Decls) ConstAssert(id DeclID) (*DeclConstAssertData, bool) {
	decl := d.Get(id)
	if decl == nil || decl.Kind != DeclConstAssert {
		return nil, false
	}
	return d.ConstAsserts.Get(uint32(decl.Payload)), true
}
