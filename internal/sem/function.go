package sem

import (
	"wgslfront/internal/ast"
	"wgslfront/internal/source"
	"wgslfront/internal/types"
)

// PipelineStage is the entry point stage of a function, if any.
type PipelineStage uint8

const (
	StageNone PipelineStage = iota
	StageVertex
	StageFragment
	StageCompute
)

func (s PipelineStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageCompute:
		return "compute"
	}
	return "none"
}

// WorkgroupDim is one dimension of @workgroup_size.
type WorkgroupDim struct {
	// Value is set when the dimension is a creation-time constant.
	Value    *uint32
	Override *Variable
	Span     source.Span
}

// BuiltinCall is a call to a stage-restricted builtin, checked against the
// stages of every entry point that reaches it.
type BuiltinCall struct {
	Name   string
	Stages []PipelineStage
	Span   source.Span
}

// TextureSamplerPair records a texture used together with a sampler. Sampler is
// nil for textureLoad style calls.
type TextureSamplerPair struct {
	Texture *Variable
	Sampler *Variable
}

// AliasInfo describes which memory roots a function touches, keyed by the
// first expression that does so.
type AliasInfo struct {
	ModuleScopeReads  map[*Variable]*Expr
	ModuleScopeWrites map[*Variable]*Expr
	ParameterReads    map[*Variable]struct{}
	ParameterWrites   map[*Variable]struct{}
}

func newAliasInfo() AliasInfo {
	return AliasInfo{
		ModuleScopeReads:  make(map[*Variable]*Expr),
		ModuleScopeWrites: make(map[*Variable]*Expr),
		ParameterReads:    make(map[*Variable]struct{}),
		ParameterWrites:   make(map[*Variable]struct{}),
	}
}

// Function is a user declared function.
type Function struct {
	Decl       ast.DeclID
	Name       string
	Span       source.Span
	Params     []*Variable
	ReturnType types.TypeID
	ReturnIO   IOAttributes
	Stage      PipelineStage
	Workgroup  [3]WorkgroupDim
	// HasWorkgroupSize is set when @workgroup_size was present.
	HasWorkgroupSize bool
	MustUse          bool
	Behaviors        Behaviors
	// DiscardsFragment is set when the body (or a callee) contains `discard`.
	DiscardsFragment bool
	DiscardSpan      source.Span

	DirectCalls        []*Function
	TransitivelyCalled []*Function
	CallSites          []*Expr
	// DirectGlobals are the globals named in the body, in first-use order.
	DirectGlobals     []*Variable
	TransitiveGlobals []*Variable
	TextureSamplers   []TextureSamplerPair
	// RestrictedBuiltins lists stage-restricted builtin calls made by f or
	// any function it calls.
	RestrictedBuiltins []BuiltinCall
	Alias              AliasInfo
	Locals             []*Variable
	Body               ast.StmtID
	ancestorEntryPoint []*Function

	calledSet  map[*Function]struct{}
	globalSet  map[*Variable]struct{}
	directSet  map[*Variable]struct{}
	pairSet    map[TextureSamplerPair]struct{}
	directCall map[*Function]struct{}
}

// NewFunction prepares an empty function node.
func NewFunction(decl ast.DeclID, name string, span source.Span) *Function {
	return &Function{
		Decl:       decl,
		Name:       name,
		Span:       span,
		Alias:      newAliasInfo(),
		calledSet:  make(map[*Function]struct{}),
		globalSet:  make(map[*Variable]struct{}),
		directSet:  make(map[*Variable]struct{}),
		pairSet:    make(map[TextureSamplerPair]struct{}),
		directCall: make(map[*Function]struct{}),
	}
}

// IsEntryPoint reports whether f has a pipeline stage attribute.
func (f *Function) IsEntryPoint() bool { return f.Stage != StageNone }

// AddDirectGlobal records a global named in the body of f.
func (f *Function) AddDirectGlobal(v *Variable) {
	if _, ok := f.directSet[v]; !ok {
		f.directSet[v] = struct{}{}
		f.DirectGlobals = append(f.DirectGlobals, v)
	}
	f.AddTransitiveGlobal(v)
}

// AddTransitiveGlobal records a global reachable from f.
func (f *Function) AddTransitiveGlobal(v *Variable) {
	if _, ok := f.globalSet[v]; ok {
		return
	}
	f.globalSet[v] = struct{}{}
	f.TransitiveGlobals = append(f.TransitiveGlobals, v)
	for _, dep := range v.TransitivelyReferenced {
		f.AddTransitiveGlobal(dep)
	}
}

// AddTextureSampler records a texture/sampler pair used by a builtin call.
func (f *Function) AddTextureSampler(p TextureSamplerPair) {
	if _, ok := f.pairSet[p]; ok {
		return
	}
	f.pairSet[p] = struct{}{}
	f.TextureSamplers = append(f.TextureSamplers, p)
}

// AddCall records that f calls callee at site. Everything callee reaches
// becomes reachable from f; callee is always resolved before f.
func (f *Function) AddCall(callee *Function, site *Expr) {
	f.CallSites = append(f.CallSites, site)
	if _, ok := f.directCall[callee]; !ok {
		f.directCall[callee] = struct{}{}
		f.DirectCalls = append(f.DirectCalls, callee)
		f.RestrictedBuiltins = append(f.RestrictedBuiltins, callee.RestrictedBuiltins...)
	}
	f.addTransitiveCall(callee)
	for _, c := range callee.TransitivelyCalled {
		f.addTransitiveCall(c)
	}
	for _, g := range callee.TransitiveGlobals {
		f.AddTransitiveGlobal(g)
	}
	for _, p := range callee.TextureSamplers {
		f.AddTextureSampler(p)
	}
	if callee.DiscardsFragment && !f.DiscardsFragment {
		f.DiscardsFragment = true
		f.DiscardSpan = callee.DiscardSpan
	}
}

func (f *Function) addTransitiveCall(c *Function) {
	if _, ok := f.calledSet[c]; ok {
		return
	}
	f.calledSet[c] = struct{}{}
	f.TransitivelyCalled = append(f.TransitivelyCalled, c)
}

// Calls reports whether f reaches c through any chain of calls.
func (f *Function) Calls(c *Function) bool {
	_, ok := f.calledSet[c]
	return ok
}

// References reports whether v is reachable from f.
func (f *Function) References(v *Variable) bool {
	_, ok := f.globalSet[v]
	return ok
}

// AddAncestorEntryPoint records an entry point that reaches f.
func (f *Function) AddAncestorEntryPoint(ep *Function) {
	for _, e := range f.ancestorEntryPoint {
		if e == ep {
			return
		}
	}
	f.ancestorEntryPoint = append(f.ancestorEntryPoint, ep)
}

// AncestorEntryPoints lists the entry points from which f is reachable.
func (f *Function) AncestorEntryPoints() []*Function {
	return f.ancestorEntryPoint
}
