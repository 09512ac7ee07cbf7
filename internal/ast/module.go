package ast

import (
	"wgslfront/internal/source"
)

// Module is one parsed translation unit.
type Module struct {
	File        source.FileID
	Enables     []Enable
	Requires    []Requires
	Diagnostics []DiagnosticDirective
	Decls       []DeclID
}

type Hints struct{ Decls, Stmts, Exprs, Attrs uint }

// Builder owns every node of one translation unit. Other packages hold IDs into
// it and never pointers that outlive it.
type Builder struct {
	Strings *source.Interner
	Decls   *Decls
	Stmts   *Stmts
	Exprs   *Exprs
	Attrs   *Attrs
	Module  Module

	nodes *nodeCounter
}

func NewBuilder(hints Hints, strings *source.Interner) *Builder {
	if strings == nil {
		strings = source.NewInterner()
	}
	if hints.Attrs == 0 {
		hints.Attrs = 1 << 5
	}
	nodes := &nodeCounter{}
	return &Builder{
		Strings: strings,
		Decls:   newDecls(hints.Decls, nodes),
		Stmts:   newStmts(hints.Stmts, nodes),
		Exprs:   newExprs(hints.Exprs, nodes),
		Attrs:   newAttrs(hints.Attrs, nodes),
		nodes:   nodes,
	}
}

// NodeCount is the number of NodeIDs handed out; valid IDs are 1..NodeCount.
func (b *Builder) NodeCount() int {
	return int(b.nodes.next)
}

// NewNode allocates a bare NodeID for nodes that live outside the arenas (directives).
func (b *Builder) NewNode() NodeID {
	return b.nodes.alloc()
}

func (b *Builder) Intern(s string) source.StringID {
	return b.Strings.Intern(s)
}

// Name returns the text of an interned identifier.
func (b *Builder) Name(id source.StringID) string {
	s, _ := b.Strings.Lookup(id)
	return s
}

// IdentName is a shortcut for the name of an ExprIdent; "" for anything else.
func (b *Builder) IdentName(id ExprID) string {
	if data, ok := b.Exprs.Ident(id); ok {
		return b.Name(data.Name)
	}
	return ""
}

func (b *Builder) PushDecl(id DeclID) {
	b.Module.Decls = append(b.Module.Decls, id)
}
