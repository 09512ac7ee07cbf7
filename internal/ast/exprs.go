package ast

import (
	"wgslfront/internal/source"
)

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena    *Arena[Expr]
	Idents   *Arena[ExprIdentData]
	Literals *Arena[ExprLitData]
	Unaries  *Arena[ExprUnaryData]
	Binaries *Arena[ExprBinaryData]
	Calls    *Arena[ExprCallData]
	Indices  *Arena[ExprIndexData]
	Members  *Arena[ExprMemberData]
	Bitcasts *Arena[ExprBitcastData]

	nodes *nodeCounter
}

func newExprs(capHint uint, nodes *nodeCounter) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Exprs{
		Arena:    NewArena[Expr](capHint),
		Idents:   NewArena[ExprIdentData](capHint),
		Literals: NewArena[ExprLitData](capHint / 4),
		Unaries:  NewArena[ExprUnaryData](capHint / 8),
		Binaries: NewArena[ExprBinaryData](capHint / 4),
		Calls:    NewArena[ExprCallData](capHint / 8),
		Indices:  NewArena[ExprIndexData](capHint / 16),
		Members:  NewArena[ExprMemberData](capHint / 16),
		Bitcasts: NewArena[ExprBitcastData](4),
		nodes:    nodes,
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Node:    e.nodes.alloc(),
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

// Get returns the expression with the given ID, nil for NoExprID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) NewIdent(span source.Span, name source.StringID, templateArgs []ExprID) ExprID {
	payload := e.Idents.Allocate(ExprIdentData{Name: name, TemplateArgs: templateArgs})
	return e.new(ExprIdent, span, payload)
}

func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIdent {
		return nil, false
	}
	return e.Idents.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewLiteral(span source.Span, lit ExprLitData) ExprID {
	payload := e.Literals.Allocate(lit)
	return e.new(ExprLit, span, payload)
}

func (e *Exprs) Literal(id ExprID) (*ExprLitData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprLit {
		return nil, false
	}
	return e.Literals.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewUnary(span source.Span, op UnaryOp, operand ExprID) ExprID {
	payload := e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand})
	return e.new(ExprUnary, span, payload)
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprUnary {
		return nil, false
	}
	return e.Unaries.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewBinary(span source.Span, op BinaryOp, left, right ExprID) ExprID {
	payload := e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right})
	return e.new(ExprBinary, span, payload)
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBinary {
		return nil, false
	}
	return e.Binaries.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewCall(span source.Span, target ExprID, args []ExprID) ExprID {
	payload := e.Calls.Allocate(ExprCallData{Target: target, Args: args})
	return e.new(ExprCall, span, payload)
}

func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprCall {
		return nil, false
	}
	return e.Calls.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewIndex(span source.Span, target, index ExprID) ExprID {
	payload := e.Indices.Allocate(ExprIndexData{Target: target, Index: index})
	return e.new(ExprIndex, span, payload)
}

func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprIndex {
		return nil, false
	}
	return e.Indices.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewMember(span source.Span, target ExprID, member Ident) ExprID {
	payload := e.Members.Allocate(ExprMemberData{Target: target, Member: member})
	return e.new(ExprMember, span, payload)
}

func (e *Exprs) Member(id ExprID) (*ExprMemberData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprMember {
		return nil, false
	}
	return e.Members.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewBitcast(span source.Span, typ, value ExprID) ExprID {
	payload := e.Bitcasts.Allocate(ExprBitcastData{Type: typ, Value: value})
	return e.new(ExprBitcast, span, payload)
}

func (e *Exprs) Bitcast(id ExprID) (*ExprBitcastData, bool) {
	expr := e.Get(id)
	if expr == nil || expr.Kind != ExprBitcast {
		return nil, false
	}
	return e.Bitcasts.Get(uint32(expr.Payload)), true
}

func (e *Exprs) NewPhony(span source.Span) ExprID {
	return e.new(ExprPhony, span, 0)
}

// Children returns the direct sub-expressions of id in source order.
// Template arguments of identifiers are included.
func (e *Exprs) Children(id ExprID) []ExprID {
	expr := e.Get(id)
	if expr == nil {
		return nil
	}
	switch expr.Kind {
	case ExprIdent:
		return e.Idents.Get(uint32(expr.Payload)).TemplateArgs
	case ExprUnary:
		return []ExprID{e.Unaries.Get(uint32(expr.Payload)).Operand}
	case ExprBinary:
		b := e.Binaries.Get(uint32(expr.Payload))
		return []ExprID{b.Left, b.Right}
	case ExprCall:
		c := e.Calls.Get(uint32(expr.Payload))
		return append([]ExprID{c.Target}, c.Args...)
	case ExprIndex:
		ix := e.Indices.Get(uint32(expr.Payload))
		return []ExprID{ix.Target, ix.Index}
	case ExprMember:
		return []ExprID{e.Members.Get(uint32(expr.Payload)).Target}
	case ExprBitcast:
		bc := e.Bitcasts.Get(uint32(expr.Payload))
		return []ExprID{bc.Type, bc.Value}
	}
	return nil
}
