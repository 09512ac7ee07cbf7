package trace

import "time"

// Kind of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	}
	return "unknown"
}

// Scope is the granularity of an event. Smaller values are coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // CLI command, directory walk
	ScopePhase                   // lex, classify, parse, resolve, validate
	ScopeDecl                    // one module-scope declaration
	ScopeNode                    // single AST node
)

func (s Scope) String() string {
	switch s {
	case ScopeDriver:
		return "driver"
	case ScopePhase:
		return "phase"
	case ScopeDecl:
		return "decl"
	case ScopeNode:
		return "node"
	}
	return "unknown"
}

// Event is one record in the trace stream.
type Event struct {
	Time     time.Time
	Seq      uint64 // присваивает sink, монотонный
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 для корня
	Name     string // "parse", "fn main", "file:shaders/a.wgsl"
	Detail   string
	Extra    map[string]string
}
