package ast

// WalkExpr visits root and its sub-expressions in pre-order.
// Returning false from fn skips the children of that node.
func (b *Builder) WalkExpr(root ExprID, fn func(ExprID, *Expr) bool) {
	if !root.IsValid() {
		return
	}
	stack := []ExprID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		expr := b.Exprs.Get(id)
		if expr == nil || !fn(id, expr) {
			continue
		}
		children := b.Exprs.Children(id)
		for i := len(children) - 1; i >= 0; i-- {
			if children[i].IsValid() {
				stack = append(stack, children[i])
			}
		}
	}
}

// StmtChildren returns nested statements of id in source order.
func (b *Builder) StmtChildren(id StmtID) []StmtID {
	st := b.Stmts.Get(id)
	if st == nil {
		return nil
	}
	var out []StmtID
	push := func(ids ...StmtID) {
		for _, s := range ids {
			if s.IsValid() {
				out = append(out, s)
			}
		}
	}
	switch st.Kind {
	case StmtBlock:
		data, _ := b.Stmts.Block(id)
		push(data.Stmts...)
	case StmtIf:
		data, _ := b.Stmts.If(id)
		push(data.Body, data.Else)
	case StmtSwitch:
		data, _ := b.Stmts.Switch(id)
		push(data.Cases...)
	case StmtCase:
		data, _ := b.Stmts.Case(id)
		push(data.Body)
	case StmtLoop:
		data, _ := b.Stmts.Loop(id)
		push(data.Body, data.Continuing)
	case StmtFor:
		data, _ := b.Stmts.For(id)
		push(data.Init, data.Cont, data.Body)
	case StmtWhile:
		data, _ := b.Stmts.While(id)
		push(data.Body)
	}
	return out
}

// StmtExprs returns the expressions directly owned by statement id.
func (b *Builder) StmtExprs(id StmtID) []ExprID {
	st := b.Stmts.Get(id)
	if st == nil {
		return nil
	}
	var out []ExprID
	push := func(ids ...ExprID) {
		for _, e := range ids {
			if e.IsValid() {
				out = append(out, e)
			}
		}
	}
	switch st.Kind {
	case StmtIf:
		data, _ := b.Stmts.If(id)
		push(data.Cond)
	case StmtSwitch:
		data, _ := b.Stmts.Switch(id)
		push(data.Cond)
	case StmtCase:
		data, _ := b.Stmts.Case(id)
		for _, sel := range data.Selectors {
			push(sel.Expr)
		}
	case StmtFor:
		data, _ := b.Stmts.For(id)
		push(data.Cond)
	case StmtWhile:
		data, _ := b.Stmts.While(id)
		push(data.Cond)
	case StmtReturn:
		data, _ := b.Stmts.Return(id)
		push(data.Value)
	case StmtBreakIf:
		data, _ := b.Stmts.BreakIf(id)
		push(data.Cond)
	case StmtAssign:
		data, _ := b.Stmts.Assign(id)
		push(data.LHS, data.RHS)
	case StmtIncDec:
		data, _ := b.Stmts.IncDec(id)
		push(data.LHS)
	case StmtCall:
		data, _ := b.Stmts.Call(id)
		push(data.Call)
	case StmtConstAssert:
		data, _ := b.Stmts.ConstAssert(id)
		push(data.Cond)
	case StmtDecl:
		data, _ := b.Stmts.Decl(id)
		if v, ok := b.Decls.Var(data.Decl); ok {
			push(v.Type, v.Init)
		}
	}
	return out
}

// WalkStmt visits root and every nested statement in pre-order.
func (b *Builder) WalkStmt(root StmtID, fn func(StmtID, *Stmt) bool) {
	if !root.IsValid() {
		return
	}
	st := b.Stmts.Get(root)
	if st == nil || !fn(root, st) {
		return
	}
	for _, child := range b.StmtChildren(root) {
		b.WalkStmt(child, fn)
	}
}
