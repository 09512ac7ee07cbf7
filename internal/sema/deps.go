package sema

import (
	"wgslfront/internal/ast"
	"wgslfront/internal/dag"
	"wgslfront/internal/source"
)

// dependencyOrder sorts module-scope declarations so that every declaration
// comes after the declarations it names. Redeclarations and cycles are
// reported here and stop resolution.
func (tc *typeChecker) dependencyOrder() ([]ast.DeclID, bool) {
	decls := tc.builder.Module.Decls
	metas := make([]dag.DeclMeta, len(decls))
	tc.declNames = make(map[string]ast.DeclID, len(decls))
	for i, id := range decls {
		decl := tc.builder.Decls.Get(id)
		name := ""
		if decl.Name.IsValid() {
			name = tc.builder.Name(decl.Name.Name)
		}
		if _, dup := tc.declNames[name]; !dup && name != "" {
			tc.declNames[name] = id
		}
		c := depCollector{b: tc.builder}
		c.decl(id, decl)
		metas[i] = dag.DeclMeta{
			Name: name,
			Kind: decl.Kind.String(),
			Span: declNameSpan(decl),
			Uses: c.uses,
		}
	}

	before := tc.counter.Errors
	idx := dag.BuildIndex(metas)
	g := dag.BuildGraph(idx, metas, tc.reporter)
	if cycle := g.FindCycle(); cycle != nil {
		dag.ReportCycle(idx, metas, g, cycle, tc.reporter)
		return nil, false
	}
	if tc.counter.Errors != before {
		return nil, false
	}
	topo := dag.ToposortKahn(g)
	out := make([]ast.DeclID, 0, len(topo.Order))
	for _, n := range topo.Order {
		out = append(out, decls[n])
	}
	return out, true
}

func declNameSpan(decl *ast.Decl) source.Span {
	if decl.Name.IsValid() {
		return decl.Name.Span
	}
	return decl.Span
}

// depCollector gathers the free identifiers of one declaration. Names bound by
// parameters and local declarations are not dependencies while they are in
// scope.
type depCollector struct {
	b      *ast.Builder
	scopes []map[string]struct{}
	uses   []dag.UseMeta
}

func (c *depCollector) push() { c.scopes = append(c.scopes, make(map[string]struct{})) }
func (c *depCollector) pop()  { c.scopes = c.scopes[:len(c.scopes)-1] }

func (c *depCollector) bind(name ast.Ident) {
	if len(c.scopes) > 0 && name.IsValid() {
		c.scopes[len(c.scopes)-1][c.b.Name(name.Name)] = struct{}{}
	}
}

func (c *depCollector) bound(name string) bool {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if _, ok := c.scopes[i][name]; ok {
			return true
		}
	}
	return false
}

func (c *depCollector) expr(id ast.ExprID) {
	c.b.WalkExpr(id, func(eid ast.ExprID, e *ast.Expr) bool {
		if e.Kind != ast.ExprIdent {
			return true
		}
		data, _ := c.b.Exprs.Ident(eid)
		name := c.b.Name(data.Name)
		if !c.bound(name) {
			c.uses = append(c.uses, dag.UseMeta{Name: name, Span: e.Span})
		}
		return true
	})
}

func (c *depCollector) attrs(list []ast.AttrID) {
	for _, id := range list {
		if a := c.b.Attrs.Get(id); a != nil {
			for _, arg := range a.Args {
				c.expr(arg)
			}
		}
	}
}

func (c *depCollector) decl(id ast.DeclID, decl *ast.Decl) {
	c.attrs(decl.Attrs)
	switch decl.Kind {
	case ast.DeclVar, ast.DeclLet, ast.DeclConst, ast.DeclOverride:
		data, _ := c.b.Decls.Var(id)
		c.expr(data.Type)
		c.expr(data.AddressSpace)
		c.expr(data.Access)
		c.expr(data.Init)
	case ast.DeclFunc:
		data, _ := c.b.Decls.Func(id)
		c.push()
		for _, pid := range data.Params {
			p := c.b.Decls.Param(pid)
			c.attrs(p.Attrs)
			c.expr(p.Type)
		}
		c.attrs(data.ReturnAttrs)
		c.expr(data.ReturnType)
		for _, pid := range data.Params {
			c.bind(c.b.Decls.Param(pid).Name)
		}
		c.stmt(data.Body)
		c.pop()
	case ast.DeclStruct:
		data, _ := c.b.Decls.Struct(id)
		for _, mid := range data.Members {
			m := c.b.Decls.Member(mid)
			c.attrs(m.Attrs)
			c.expr(m.Type)
		}
	case ast.DeclAlias:
		data, _ := c.b.Decls.Alias(id)
		c.expr(data.Type)
	case ast.DeclConstAssert:
		data, _ := c.b.Decls.ConstAssert(id)
		c.expr(data.Cond)
	}
}

func (c *depCollector) stmt(id ast.StmtID) {
	st := c.b.Stmts.Get(id)
	if st == nil {
		return
	}
	c.attrs(st.Attrs)
	switch st.Kind {
	case ast.StmtBlock:
		data, _ := c.b.Stmts.Block(id)
		c.push()
		for _, s := range data.Stmts {
			c.stmt(s)
		}
		c.pop()
	case ast.StmtFor:
		data, _ := c.b.Stmts.For(id)
		c.push()
		c.stmt(data.Init)
		c.expr(data.Cond)
		c.stmt(data.Cont)
		c.stmt(data.Body)
		c.pop()
	case ast.StmtLoop:
		// continuing видит объявления тела цикла
		data, _ := c.b.Stmts.Loop(id)
		c.push()
		if body, ok := c.b.Stmts.Block(data.Body); ok {
			for _, s := range body.Stmts {
				c.stmt(s)
			}
		}
		c.stmt(data.Continuing)
		c.pop()
	case ast.StmtDecl:
		data, _ := c.b.Stmts.Decl(id)
		decl := c.b.Decls.Get(data.Decl)
		c.decl(data.Decl, decl)
		c.bind(decl.Name)
	default:
		for _, e := range c.b.StmtExprs(id) {
			c.expr(e)
		}
		for _, s := range c.b.StmtChildren(id) {
			c.stmt(s)
		}
	}
}
