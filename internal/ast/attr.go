package ast

import (
	"wgslfront/internal/source"
)

type AttrKind uint8

const (
	AttrUnknown AttrKind = iota
	AttrAlign
	AttrBinding
	AttrBuiltin
	AttrCompute
	AttrConst
	AttrDiagnostic
	AttrFragment
	AttrGroup
	AttrIdent
	AttrInterpolate
	AttrInvariant
	AttrLocation
	AttrMustUse
	AttrOffset
	AttrSize
	AttrStride
	AttrVertex
	AttrWorkgroupSize
)

// Attr описывает атрибут вида `@name(args...)`.
type Attr struct {
	Kind AttrKind
	Node NodeID
	Span source.Span
	Name Ident
	Args []ExprID
	// Diagnostic is set only for @diagnostic(severity, rule).
	Diagnostic *DiagnosticControl
}

// DiagnosticControl is the `(severity, rule)` pair of a diagnostic directive or
// attribute. Rules may be qualified: `chromium.unreachable_code`.
type DiagnosticControl struct {
	Severity Ident
	Category Ident // первая часть qualified-имени, иначе пусто
	Rule     Ident
	Span     source.Span
}

type Attrs struct {
	Arena *Arena[Attr]
	nodes *nodeCounter
}

func newAttrs(capHint uint, nodes *nodeCounter) *Attrs {
	return &Attrs{Arena: NewArena[Attr](capHint), nodes: nodes}
}

func (a *Attrs) New(kind AttrKind, span source.Span, name Ident, args []ExprID) AttrID {
	return AttrID(a.Arena.Allocate(Attr{
		Kind: kind,
		Node: a.nodes.alloc(),
		Span: span,
		Name: name,
		Args: args,
	}))
}

func (a *Attrs) NewDiagnostic(span source.Span, name Ident, ctrl DiagnosticControl) AttrID {
	id := a.New(AttrDiagnostic, span, name, nil)
	a.Get(id).Diagnostic = &ctrl
	return id
}

func (a *Attrs) Get(id AttrID) *Attr {
	return a.Arena.Get(uint32(id))
}

// Find returns the first attribute of the given kind in list.
func (a *Attrs) Find(list []AttrID, kind AttrKind) (AttrID, *Attr) {
	for _, id := range list {
		if at := a.Get(id); at != nil && at.Kind == kind {
			return id, at
		}
	}
	return NoAttrID, nil
}

// Has reports whether list contains an attribute of the given kind.
func (a *Attrs) Has(list []AttrID, kind AttrKind) bool {
	_, at := a.Find(list, kind)
	return at != nil
}
