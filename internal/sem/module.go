package sem

import (
	"cmp"
	"slices"

	"wgslfront/internal/ast"
	"wgslfront/internal/builtin"
	"wgslfront/internal/consteval"
	"wgslfront/internal/diag"
	"wgslfront/internal/layout"
	"wgslfront/internal/types"
)

// Module is the resolved form of one translation unit. It is filled by the
// resolver and read-only afterwards.
type Module struct {
	Types      *types.Interner
	Layout     *layout.LayoutEngine
	Extensions builtin.Extensions

	Globals     []*Variable
	Functions   []*Function
	EntryPoints []*Function
	// Structs in declaration order.
	Structs []types.TypeID
	// DeclOrder is the dependency order the globals were resolved in.
	DeclOrder []ast.DeclID

	// MemberIO holds the pipeline IO attributes of struct members, indexed
	// like the members.
	MemberIO map[types.TypeID][]IOAttributes

	exprs     map[ast.ExprID]*Expr
	stmts     map[ast.StmtID]Behaviors
	vars      map[ast.DeclID]*Variable
	params    map[ast.ParamID]*Variable
	funcs     map[ast.DeclID]*Function
	globals   map[string]*Variable
	funcNames map[string]*Function
	visited   []bool
}

// NewModule prepares an empty module that shares the given interner.
func NewModule(in *types.Interner, ext builtin.Extensions) *Module {
	return &Module{
		Types:      in,
		Layout:     layout.New(in),
		Extensions: ext,
		MemberIO:   make(map[types.TypeID][]IOAttributes),
		exprs:      make(map[ast.ExprID]*Expr),
		stmts:      make(map[ast.StmtID]Behaviors),
		vars:       make(map[ast.DeclID]*Variable),
		params:     make(map[ast.ParamID]*Variable),
		funcs:      make(map[ast.DeclID]*Function),
		globals:    make(map[string]*Variable),
		funcNames:  make(map[string]*Function),
	}
}

// MarkVisited records that the ast node n got its semantic counterpart. A
// second visit is an internal error.
func (m *Module) MarkVisited(n ast.NodeID) {
	idx := int(n)
	if idx >= len(m.visited) {
		grow := make([]bool, idx+1+len(m.visited))
		copy(grow, m.visited)
		m.visited = grow
	}
	if m.visited[idx] {
		diag.Panicf("resolve", "ast node %d resolved twice", n)
	}
	m.visited[idx] = true
}

// Visited reports whether n has been resolved.
func (m *Module) Visited(n ast.NodeID) bool {
	idx := int(n)
	return idx < len(m.visited) && m.visited[idx]
}

// AddExpr stores e for its ast node.
func (m *Module) AddExpr(e *Expr) {
	m.exprs[e.Node] = e
}

// Expr returns the semantic node of an ast expression.
func (m *Module) Expr(id ast.ExprID) (*Expr, bool) {
	e, ok := m.exprs[id]
	return e, ok
}

// TypeOf returns the resolved type of an expression, NoTypeID if it was not
// resolved.
func (m *Module) TypeOf(id ast.ExprID) types.TypeID {
	if e, ok := m.exprs[id]; ok {
		return e.Type
	}
	return types.NoTypeID
}

// ValueOf returns the constant value of an expression when it has one.
func (m *Module) ValueOf(id ast.ExprID) (consteval.Value, bool) {
	e, ok := m.exprs[id]
	if !ok || e.Value == nil {
		return consteval.Value{}, false
	}
	return *e.Value, true
}

// SetStmtBehaviors records the behaviors of a statement.
func (m *Module) SetStmtBehaviors(id ast.StmtID, b Behaviors) {
	m.stmts[id] = b
}

// StmtBehaviors returns the behaviors of a resolved statement.
func (m *Module) StmtBehaviors(id ast.StmtID) (Behaviors, bool) {
	b, ok := m.stmts[id]
	return b, ok
}

// AddGlobal registers a module-scope variable.
func (m *Module) AddGlobal(v *Variable) {
	v.Global = true
	v.Index = len(m.Globals)
	m.Globals = append(m.Globals, v)
	m.vars[v.Decl] = v
	m.globals[v.Name] = v
}

// AddLocal registers a function-scope let/var/const.
func (m *Module) AddLocal(v *Variable) {
	m.vars[v.Decl] = v
}

// AddParam registers a function parameter.
func (m *Module) AddParam(v *Variable) {
	m.params[v.Param] = v
}

// AddFunction registers a function; entry points are also listed separately.
func (m *Module) AddFunction(f *Function) {
	m.Functions = append(m.Functions, f)
	m.funcs[f.Decl] = f
	m.funcNames[f.Name] = f
	if f.IsEntryPoint() {
		m.EntryPoints = append(m.EntryPoints, f)
	}
}

// Variable returns the variable declared by decl.
func (m *Module) Variable(decl ast.DeclID) (*Variable, bool) {
	v, ok := m.vars[decl]
	return v, ok
}

// Param returns the variable for a function parameter.
func (m *Module) Param(id ast.ParamID) (*Variable, bool) {
	v, ok := m.params[id]
	return v, ok
}

// FunctionOf returns the function declared by decl.
func (m *Module) FunctionOf(decl ast.DeclID) (*Function, bool) {
	f, ok := m.funcs[decl]
	return f, ok
}

// Function looks up a function by name.
func (m *Module) Function(name string) (*Function, bool) {
	f, ok := m.funcNames[name]
	return f, ok
}

// Global looks up a module-scope variable by name.
func (m *Module) Global(name string) (*Variable, bool) {
	v, ok := m.globals[name]
	return v, ok
}

// BindingOf returns the binding point of a resource variable.
func (m *Module) BindingOf(v *Variable) (BindingPoint, bool) {
	if v == nil || v.Binding == nil {
		return BindingPoint{}, false
	}
	return *v.Binding, true
}

// TransitivelyReferencedGlobals lists every global reachable from f, through
// its body, its callees and the initializers of the globals themselves.
func (m *Module) TransitivelyReferencedGlobals(f *Function) []*Variable {
	if f == nil {
		return nil
	}
	out := make([]*Variable, len(f.TransitiveGlobals))
	copy(out, f.TransitiveGlobals)
	return out
}

// Overrides lists override declarations in declaration order.
func (m *Module) Overrides() []*Variable {
	var out []*Variable
	for _, v := range m.Globals {
		if v.Kind == ast.DeclOverride {
			out = append(out, v)
		}
	}
	slices.SortFunc(out, func(a, b *Variable) int { return cmp.Compare(a.Decl, b.Decl) })
	return out
}
