package ast

import (
	"wgslfront/internal/source"
)

// Stmts manages allocation of statements.
type Stmts struct {
	Arena        *Arena[Stmt]
	Blocks       *Arena[StmtBlockData]
	Ifs          *Arena[StmtIfData]
	Switches     *Arena[StmtSwitchData]
	Cases        *Arena[StmtCaseData]
	Loops        *Arena[StmtLoopData]
	Fors         *Arena[StmtForData]
	Whiles       *Arena[StmtWhileData]
	Returns      *Arena[StmtReturnData]
	BreakIfs     *Arena[StmtBreakIfData]
	Assigns      *Arena[StmtAssignData]
	IncDecs      *Arena[StmtIncDecData]
	Calls        *Arena[StmtCallData]
	Decls        *Arena[StmtDeclData]
	ConstAsserts *Arena[StmtConstAssertData]

	nodes *nodeCounter
}

func newStmts(capHint uint, nodes *nodeCounter) *Stmts {
	if capHint == 0 {
		capHint = 1 << 7
	}
	small := capHint/8 + 1
	return &Stmts{
		Arena:        NewArena[Stmt](capHint),
		Blocks:       NewArena[StmtBlockData](small),
		Ifs:          NewArena[StmtIfData](small),
		Switches:     NewArena[StmtSwitchData](2),
		Cases:        NewArena[StmtCaseData](4),
		Loops:        NewArena[StmtLoopData](2),
		Fors:         NewArena[StmtForData](2),
		Whiles:       NewArena[StmtWhileData](2),
		Returns:      NewArena[StmtReturnData](small),
		BreakIfs:     NewArena[StmtBreakIfData](2),
		Assigns:      NewArena[StmtAssignData](small),
		IncDecs:      NewArena[StmtIncDecData](2),
		Calls:        NewArena[StmtCallData](small),
		Decls:        NewArena[StmtDeclData](small),
		ConstAsserts: NewArena[StmtConstAssertData](2),
		nodes:        nodes,
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload uint32, attrs []AttrID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind:    kind,
		Node:    s.nodes.alloc(),
		Span:    span,
		Payload: PayloadID(payload),
		Attrs:   attrs,
	}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

// stmtPayload fetches the payload of id from arena when id has the expected kind.
func stmtPayload[T any](s *Stmts, arena *Arena[T], id StmtID, kind StmtKind) (*T, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != kind {
		return nil, false
	}
	return arena.Get(uint32(st.Payload)), true
}

func (s *Stmts) NewBlock(span source.Span, stmts []StmtID, attrs []AttrID) StmtID {
	return s.new(StmtBlock, span, s.Blocks.Allocate(StmtBlockData{Stmts: stmts}), attrs)
}

func (s *Stmts) Block(id StmtID) (*StmtBlockData, bool) {
	return stmtPayload(s, s.Blocks, id, StmtBlock)
}

func (s *Stmts) NewIf(span source.Span, data StmtIfData, attrs []AttrID) StmtID {
	return s.new(StmtIf, span, s.Ifs.Allocate(data), attrs)
}

func (s *Stmts) If(id StmtID) (*StmtIfData, bool) {
	return stmtPayload(s, s.Ifs, id, StmtIf)
}

func (s *Stmts) NewSwitch(span source.Span, data StmtSwitchData, attrs []AttrID) StmtID {
	return s.new(StmtSwitch, span, s.Switches.Allocate(data), attrs)
}

func (s *Stmts) Switch(id StmtID) (*StmtSwitchData, bool) {
	return stmtPayload(s, s.Switches, id, StmtSwitch)
}

func (s *Stmts) NewCase(span source.Span, data StmtCaseData) StmtID {
	return s.new(StmtCase, span, s.Cases.Allocate(data), nil)
}

func (s *Stmts) Case(id StmtID) (*StmtCaseData, bool) {
	return stmtPayload(s, s.Cases, id, StmtCase)
}

func (s *Stmts) NewLoop(span source.Span, data StmtLoopData, attrs []AttrID) StmtID {
	return s.new(StmtLoop, span, s.Loops.Allocate(data), attrs)
}

func (s *Stmts) Loop(id StmtID) (*StmtLoopData, bool) {
	return stmtPayload(s, s.Loops, id, StmtLoop)
}

func (s *Stmts) NewFor(span source.Span, data StmtForData, attrs []AttrID) StmtID {
	return s.new(StmtFor, span, s.Fors.Allocate(data), attrs)
}

func (s *Stmts) For(id StmtID) (*StmtForData, bool) {
	return stmtPayload(s, s.Fors, id, StmtFor)
}

func (s *Stmts) NewWhile(span source.Span, data StmtWhileData, attrs []AttrID) StmtID {
	return s.new(StmtWhile, span, s.Whiles.Allocate(data), attrs)
}

func (s *Stmts) While(id StmtID) (*StmtWhileData, bool) {
	return stmtPayload(s, s.Whiles, id, StmtWhile)
}

func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	return s.new(StmtReturn, span, s.Returns.Allocate(StmtReturnData{Value: value}), nil)
}

func (s *Stmts) Return(id StmtID) (*StmtReturnData, bool) {
	return stmtPayload(s, s.Returns, id, StmtReturn)
}

func (s *Stmts) NewBreak(span source.Span) StmtID {
	return s.new(StmtBreak, span, 0, nil)
}

func (s *Stmts) NewBreakIf(span source.Span, cond ExprID) StmtID {
	return s.new(StmtBreakIf, span, s.BreakIfs.Allocate(StmtBreakIfData{Cond: cond}), nil)
}

func (s *Stmts) BreakIf(id StmtID) (*StmtBreakIfData, bool) {
	return stmtPayload(s, s.BreakIfs, id, StmtBreakIf)
}

func (s *Stmts) NewContinue(span source.Span) StmtID {
	return s.new(StmtContinue, span, 0, nil)
}

func (s *Stmts) NewDiscard(span source.Span) StmtID {
	return s.new(StmtDiscard, span, 0, nil)
}

func (s *Stmts) NewAssign(span source.Span, lhs, rhs ExprID, op BinaryOp) StmtID {
	return s.new(StmtAssign, span, s.Assigns.Allocate(StmtAssignData{LHS: lhs, RHS: rhs, Op: op}), nil)
}

func (s *Stmts) Assign(id StmtID) (*StmtAssignData, bool) {
	return stmtPayload(s, s.Assigns, id, StmtAssign)
}

func (s *Stmts) NewIncDec(span source.Span, lhs ExprID, increment bool) StmtID {
	return s.new(StmtIncDec, span, s.IncDecs.Allocate(StmtIncDecData{LHS: lhs, Increment: increment}), nil)
}

func (s *Stmts) IncDec(id StmtID) (*StmtIncDecData, bool) {
	return stmtPayload(s, s.IncDecs, id, StmtIncDec)
}

func (s *Stmts) NewCall(span source.Span, call ExprID) StmtID {
	return s.new(StmtCall, span, s.Calls.Allocate(StmtCallData{Call: call}), nil)
}

func (s *Stmts) Call(id StmtID) (*StmtCallData, bool) {
	return stmtPayload(s, s.Calls, id, StmtCall)
}

func (s *Stmts) NewDecl(span source.Span, decl DeclID) StmtID {
	return s.new(StmtDecl, span, s.Decls.Allocate(StmtDeclData{Decl: decl}), nil)
}

func (s *Stmts) Decl(id StmtID) (*StmtDeclData, bool) {
	return stmtPayload(s, s.Decls, id, StmtDecl)
}

func (s *Stmts) NewConstAssert(span source.Span, cond ExprID) StmtID {
	return s.new(StmtConstAssert, span, s.ConstAsserts.Allocate(StmtConstAssertData{Cond: cond}), nil)
}

func (s *Stmts) ConstAssert(id StmtID) (*StmtConstAssertData, bool) {
	return stmtPayload(s, s.ConstAsserts, id, StmtConstAssert)
}
