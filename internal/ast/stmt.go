package ast

import (
	"wgslfront/internal/source"
)

type StmtKind uint8

const (
	StmtBlock StmtKind = iota + 1
	StmtIf
	StmtSwitch
	StmtCase
	StmtLoop
	StmtFor
	StmtWhile
	StmtReturn
	StmtBreak
	StmtBreakIf
	StmtContinue
	StmtDiscard
	StmtAssign
	StmtIncDec
	StmtCall
	StmtDecl
	StmtConstAssert
)

var stmtKindNames = [...]string{
	StmtBlock:       "block",
	StmtIf:          "if",
	StmtSwitch:      "switch",
	StmtCase:        "case",
	StmtLoop:        "loop",
	StmtFor:         "for",
	StmtWhile:       "while",
	StmtReturn:      "return",
	StmtBreak:       "break",
	StmtBreakIf:     "break if",
	StmtContinue:    "continue",
	StmtDiscard:     "discard",
	StmtAssign:      "assignment",
	StmtIncDec:      "increment",
	StmtCall:        "call",
	StmtDecl:        "declaration",
	StmtConstAssert: "const_assert",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) && k != 0 {
		return stmtKindNames[k]
	}
	return "invalid"
}

type Stmt struct {
	Kind    StmtKind
	Node    NodeID
	Span    source.Span
	Payload PayloadID
	Attrs   []AttrID
}

type StmtBlockData struct {
	Stmts []StmtID
}

// StmtIfData: Else is a block, another if, or NoStmtID.
type StmtIfData struct {
	Cond ExprID
	Body StmtID
	Else StmtID
}

type StmtSwitchData struct {
	Cond      ExprID
	Cases     []StmtID // StmtCase
	BodyAttrs []AttrID
}

// CaseSelector is either an expression or `default` (Expr == NoExprID).
type CaseSelector struct {
	Expr ExprID
	Span source.Span
}

func (s CaseSelector) IsDefault() bool { return !s.Expr.IsValid() }

type StmtCaseData struct {
	Selectors []CaseSelector
	Body      StmtID
}

// StmtLoopData: Continuing is a block or NoStmtID.
type StmtLoopData struct {
	Body       StmtID
	Continuing StmtID
}

type StmtForData struct {
	Init StmtID
	Cond ExprID
	Cont StmtID
	Body StmtID
}

type StmtWhileData struct {
	Cond ExprID
	Body StmtID
}

type StmtReturnData struct {
	Value ExprID
}

type StmtBreakIfData struct {
	Cond ExprID
}

// StmtAssignData: Op == 0 for plain '='.
type StmtAssignData struct {
	LHS, RHS ExprID
	Op       BinaryOp
}

type StmtIncDecData struct {
	LHS       ExprID
	Increment bool
}

type StmtCallData struct {
	Call ExprID
}

type StmtDeclData struct {
	Decl DeclID
}

type StmtConstAssertData struct {
	Cond ExprID
}
