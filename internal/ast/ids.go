package ast

import "wgslfront/internal/source"

type (
	// главные сущности
	DeclID uint32
	StmtID uint32
	ExprID uint32
	AttrID uint32
	// подсущности
	PayloadID uint32
	ParamID   uint32
	MemberID  uint32

	// NodeID numbers every node of every family in creation order.
	// Passes index per-node side tables (visited bits, semantic info) with it.
	NodeID uint32
)

const (
	NoDeclID    DeclID    = 0
	NoStmtID    StmtID    = 0
	NoExprID    ExprID    = 0
	NoAttrID    AttrID    = 0
	NoPayloadID PayloadID = 0
	NoParamID   ParamID   = 0
	NoMemberID  MemberID  = 0
	NoNodeID    NodeID    = 0
)

func (id DeclID) IsValid() bool    { return id != NoDeclID }
func (id StmtID) IsValid() bool    { return id != NoStmtID }
func (id ExprID) IsValid() bool    { return id != NoExprID }
func (id AttrID) IsValid() bool    { return id != NoAttrID }
func (id PayloadID) IsValid() bool { return id != NoPayloadID }
func (id ParamID) IsValid() bool   { return id != NoParamID }
func (id MemberID) IsValid() bool  { return id != NoMemberID }
func (id NodeID) IsValid() bool    { return id != NoNodeID }

// nodeCounter is shared by all families of one Builder.
type nodeCounter struct{ next NodeID }

func (c *nodeCounter) alloc() NodeID {
	c.next++
	return c.next
}

// Ident is a name together with where it was written.
type Ident struct {
	Name source.StringID
	Span source.Span
}

func (i Ident) IsValid() bool { return i.Name != source.NoStringID }
