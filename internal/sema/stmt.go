package sema

import (
	"wgslfront/internal/ast"
	"wgslfront/internal/builtin"
	"wgslfront/internal/diag"
	"wgslfront/internal/sem"
	"wgslfront/internal/types"
	"wgslfront/internal/validator"
)

// maxStmtDepth bounds statement nesting, else-if chains included.
const maxStmtDepth = 127

// stmt resolves one statement and records its behaviors.
func (tc *typeChecker) stmt(id ast.StmtID) (sem.Behaviors, bool) {
	st := tc.builder.Stmts.Get(id)
	if st == nil {
		diag.Panicf("resolve", "statement %d does not exist", id)
	}
	c := tc.fn
	c.depth++
	defer func() { c.depth-- }()
	if c.depth > maxStmtDepth {
		tc.report(diag.ResNestingLimit, st.Span, "statement nesting depth / chaining length exceeds limit of %d", maxStmtDepth)
		return 0, false
	}
	if len(st.Attrs) > 0 {
		if !tc.checkAttrs(st.Attrs, ast.AttrTargetStmt) {
			return 0, false
		}
		if tc.pushAttrFilters(st.Attrs) {
			defer tc.popFilters()
		}
	}

	var (
		b  sem.Behaviors
		ok bool
	)
	switch st.Kind {
	case ast.StmtBlock:
		b, ok = tc.block(id, true)
	case ast.StmtIf:
		b, ok = tc.ifStmt(id)
	case ast.StmtSwitch:
		b, ok = tc.switchStmt(id)
	case ast.StmtLoop:
		b, ok = tc.loopStmt(id, st)
	case ast.StmtFor:
		b, ok = tc.forStmt(id, st)
	case ast.StmtWhile:
		b, ok = tc.whileStmt(id, st)
	case ast.StmtReturn:
		b, ok = tc.returnStmt(id, st)
	case ast.StmtBreak:
		b, ok = tc.breakStmt(st)
	case ast.StmtBreakIf:
		b, ok = tc.breakIfStmt(id, st)
	case ast.StmtContinue:
		b, ok = tc.continueStmt(st)
	case ast.StmtDiscard:
		f := c.fn
		if !f.DiscardsFragment {
			f.DiscardsFragment, f.DiscardSpan = true, st.Span
		}
		b, ok = sem.Next, true
	case ast.StmtAssign:
		b, ok = tc.assignStmt(id, st)
	case ast.StmtIncDec:
		b, ok = tc.incDecStmt(id, st)
	case ast.StmtCall:
		b, ok = tc.callStmt(id)
	case ast.StmtDecl:
		data, _ := tc.builder.Stmts.Decl(id)
		b, ok = sem.Next, tc.localVariable(data.Decl)
	case ast.StmtConstAssert:
		data, _ := tc.builder.Stmts.ConstAssert(id)
		b, ok = sem.Next, tc.constAssert(data.Cond)
	default:
		diag.Panicf("resolve", "unexpected %s statement", st.Kind)
	}
	if ok {
		tc.module.SetStmtBehaviors(id, b)
	}
	return b, ok
}

// block resolves the statements of a block in order. scoped is false for a
// function body, which shares the parameters' scope.
func (tc *typeChecker) block(id ast.StmtID, scoped bool) (sem.Behaviors, bool) {
	data, ok := tc.builder.Stmts.Block(id)
	if !ok {
		diag.Panicf("resolve", "statement %d is not a block", id)
	}
	var out sem.Behaviors
	run := func() bool {
		b, ok := tc.sequence(data.Stmts)
		out = b
		return ok
	}
	if scoped {
		ok = tc.withScope(run)
	} else {
		ok = run()
	}
	return out, ok
}

// sequence composes the behaviors of consecutive statements. Statements after
// one that cannot fall through are still resolved, and the first of them is
// reported as unreachable.
func (tc *typeChecker) sequence(list []ast.StmtID) (sem.Behaviors, bool) {
	b := sem.Next
	warned := false
	for _, s := range list {
		if !b.Has(sem.BehaviorNext) && !warned {
			tc.reportRule(builtin.RuleUnreachableCode, diag.ResUnreachableCode, tc.stmtSpan(s), "code is unreachable")
			warned = true
		}
		sb, ok := tc.stmt(s)
		if !ok {
			return 0, false
		}
		if b.Has(sem.BehaviorNext) {
			b = b.Remove(sem.BehaviorNext).Union(sb)
		}
	}
	return b, true
}

func (tc *typeChecker) condition(what string, id ast.ExprID) (*sem.Expr, bool) {
	e, ok := tc.valueExpr(id)
	if !ok {
		return nil, false
	}
	if !tc.validator.Condition(what, e) {
		return nil, false
	}
	return e, true
}

func (tc *typeChecker) ifStmt(id ast.StmtID) (sem.Behaviors, bool) {
	data, _ := tc.builder.Stmts.If(id)
	cond, ok := tc.condition("if statement", data.Cond)
	if !ok {
		return 0, false
	}
	body, ok := tc.block(data.Body, true)
	if !ok {
		return 0, false
	}
	els := sem.Next
	if data.Else.IsValid() {
		if els, ok = tc.stmt(data.Else); !ok {
			return 0, false
		}
	}
	return cond.Behaviors.Union(body).Union(els), true
}

// loopResult folds the behaviors of a loop body: break and continue end at the
// loop, the loop falls through only if something breaks out of it.
func loopResult(body sem.Behaviors, exitCond bool) sem.Behaviors {
	out := body.Remove(sem.BehaviorContinue)
	if out.Has(sem.BehaviorBreak) || exitCond {
		return out.Remove(sem.BehaviorBreak).Add(sem.BehaviorNext)
	}
	return out.Remove(sem.BehaviorNext)
}

func (tc *typeChecker) loopStmt(id ast.StmtID, st *ast.Stmt) (sem.Behaviors, bool) {
	data, _ := tc.builder.Stmts.Loop(id)
	var body sem.Behaviors
	ok := tc.withScope(func() bool {
		tc.fn.push(frameLoop)
		b, ok := tc.block(data.Body, false)
		tc.fn.pop()
		if !ok {
			return false
		}
		tc.module.SetStmtBehaviors(data.Body, b)
		body = b
		if data.Continuing.IsValid() {
			cb, ok := tc.continuing(data.Continuing)
			if !ok {
				return false
			}
			body = body.Union(cb)
		}
		return true
	})
	if !ok {
		return 0, false
	}
	if !tc.validator.LoopExit(ast.StmtLoop, st.Span, body, false) {
		return 0, false
	}
	return loopResult(body, false), true
}

// continuing resolves a continuing block. Only its last statement may be a
// break-if.
func (tc *typeChecker) continuing(id ast.StmtID) (sem.Behaviors, bool) {
	data, _ := tc.builder.Stmts.Block(id)
	c := tc.fn
	prev := c.breakIf
	c.breakIf = ast.NoStmtID
	if n := len(data.Stmts); n > 0 {
		if last := tc.builder.Stmts.Get(data.Stmts[n-1]); last != nil && last.Kind == ast.StmtBreakIf {
			c.breakIf = data.Stmts[n-1]
		}
	}
	c.push(frameContinuing)
	b, ok := tc.block(id, true)
	c.pop()
	c.breakIf = prev
	if ok {
		tc.module.SetStmtBehaviors(id, b)
	}
	return b, ok
}

func (tc *typeChecker) forStmt(id ast.StmtID, st *ast.Stmt) (sem.Behaviors, bool) {
	data, _ := tc.builder.Stmts.For(id)
	var (
		body     sem.Behaviors
		exitCond bool
	)
	ok := tc.withScope(func() bool {
		if data.Init.IsValid() {
			if _, ok := tc.stmt(data.Init); !ok {
				return false
			}
		}
		if data.Cond.IsValid() {
			if _, ok := tc.condition("for-loop", data.Cond); !ok {
				return false
			}
			// любое условие считается выходом, даже константное true
			exitCond = true
		}
		tc.fn.push(frameLoop)
		b, ok := tc.block(data.Body, true)
		tc.fn.pop()
		if !ok {
			return false
		}
		body = b
		if data.Cont.IsValid() {
			cb, ok := tc.stmt(data.Cont)
			if !ok {
				return false
			}
			body = body.Union(cb)
		}
		return true
	})
	if !ok {
		return 0, false
	}
	if !tc.validator.LoopExit(ast.StmtFor, st.Span, body, exitCond) {
		return 0, false
	}
	return loopResult(body, exitCond), true
}

func (tc *typeChecker) whileStmt(id ast.StmtID, st *ast.Stmt) (sem.Behaviors, bool) {
	data, _ := tc.builder.Stmts.While(id)
	if _, ok := tc.condition("while", data.Cond); !ok {
		return 0, false
	}
	tc.fn.push(frameLoop)
	body, ok := tc.block(data.Body, true)
	tc.fn.pop()
	if !ok {
		return 0, false
	}
	if !tc.validator.LoopExit(ast.StmtWhile, st.Span, body, true) {
		return 0, false
	}
	return loopResult(body, true), true
}

func (tc *typeChecker) switchStmt(id ast.StmtID) (sem.Behaviors, bool) {
	data, _ := tc.builder.Stmts.Switch(id)
	sel, ok := tc.valueExpr(data.Cond)
	if !ok {
		return 0, false
	}

	cases := make([]validator.SwitchCase, len(data.Cases))
	common := types.NoTypeID
	if !tc.types.IsAbstract(sel.Type) {
		common = sel.Type
	}
	for i, cid := range data.Cases {
		cd, _ := tc.builder.Stmts.Case(cid)
		sc := validator.SwitchCase{Span: tc.stmtSpan(cid), Selectors: cd.Selectors, Values: make([]*sem.Expr, len(cd.Selectors))}
		for j, s := range cd.Selectors {
			if s.IsDefault() {
				continue
			}
			e, ok := tc.withStageLimit(sem.StageConstant, "case selector", func() (*sem.Expr, bool) {
				return tc.valueExpr(s.Expr)
			})
			if !ok {
				return 0, false
			}
			if common == types.NoTypeID && tc.types.IsIntegerScalar(e.Type) && !tc.types.IsAbstract(e.Type) {
				common = e.Type
			}
			sc.Values[j] = e
		}
		cases[i] = sc
	}
	if common == types.NoTypeID {
		common = tc.types.Concrete(sel.Type)
	}
	if tc.types.IsIntegerScalar(common) {
		if !tc.materializeTo(sel, common) {
			return 0, false
		}
		for _, c := range cases {
			for _, v := range c.Values {
				if v != nil && tc.types.IsIntegerScalar(v.Type) && !tc.materializeTo(v, common) {
					return 0, false
				}
			}
		}
	}
	if !tc.validator.Switch(sel, cases) {
		return 0, false
	}

	if len(data.BodyAttrs) > 0 {
		if !tc.checkAttrs(data.BodyAttrs, ast.AttrTargetStmt) {
			return 0, false
		}
		if tc.pushAttrFilters(data.BodyAttrs) {
			defer tc.popFilters()
		}
	}
	out := sel.Behaviors
	for _, cid := range data.Cases {
		cd, _ := tc.builder.Stmts.Case(cid)
		tc.fn.push(frameSwitch)
		b, ok := tc.block(cd.Body, true)
		tc.fn.pop()
		if !ok {
			return 0, false
		}
		tc.module.SetStmtBehaviors(cid, b)
		out = out.Union(b)
	}
	if out.Has(sem.BehaviorBreak) {
		out = out.Remove(sem.BehaviorBreak).Add(sem.BehaviorNext)
	}
	return out, true
}

func (tc *typeChecker) returnStmt(id ast.StmtID, st *ast.Stmt) (sem.Behaviors, bool) {
	if tc.fn.inContinuing() {
		tc.report(diag.ValBreakContinue, st.Span, "continuing blocks must not contain a return statement")
		return 0, false
	}
	data, _ := tc.builder.Stmts.Return(id)
	f := tc.fn.fn
	var value *sem.Expr
	if data.Value.IsValid() {
		e, ok := tc.valueExpr(data.Value)
		if !ok {
			return 0, false
		}
		if ok, incompatible := tc.convertTo(e, f.ReturnType); !ok && !incompatible {
			return 0, false
		}
		value = e
	}
	if !tc.validator.Return(f, value, st.Span) {
		return 0, false
	}
	out := sem.Of(sem.BehaviorReturn)
	if value != nil {
		out = out.Union(value.Behaviors.Remove(sem.BehaviorNext))
	}
	return out, true
}

func (tc *typeChecker) breakStmt(st *ast.Stmt) (sem.Behaviors, bool) {
	switch tc.fn.innermost() {
	case frameLoop, frameSwitch:
		return sem.Of(sem.BehaviorBreak), true
	case frameContinuing:
		tc.report(diag.ValBreakContinue, st.Span, "`break` must not be used to exit from a continuing block. Use `break-if` instead.")
		return 0, false
	}
	tc.report(diag.ValBreakContinue, st.Span, "break statement must be in a loop or switch case")
	return 0, false
}

func (tc *typeChecker) breakIfStmt(id ast.StmtID, st *ast.Stmt) (sem.Behaviors, bool) {
	c := tc.fn
	if id != c.breakIf || c.innermost() != frameContinuing {
		if c.innermost() == frameContinuing {
			tc.report(diag.ValBreakContinue, st.Span, "break-if must be the last statement in a continuing block")
		} else {
			tc.report(diag.ValBreakContinue, st.Span, "break-if must be in a continuing block")
		}
		return 0, false
	}
	data, _ := tc.builder.Stmts.BreakIf(id)
	if _, ok := tc.condition("break-if statement", data.Cond); !ok {
		return 0, false
	}
	return sem.Of(sem.BehaviorBreak, sem.BehaviorNext), true
}

func (tc *typeChecker) continueStmt(st *ast.Stmt) (sem.Behaviors, bool) {
	frames := tc.fn.frames
	for i := len(frames) - 1; i >= 0; i-- {
		switch frames[i] {
		case frameLoop:
			return sem.Of(sem.BehaviorContinue), true
		case frameContinuing:
			tc.report(diag.ValBreakContinue, st.Span, "continuing blocks must not contain a continue statement")
			return 0, false
		}
	}
	tc.report(diag.ValBreakContinue, st.Span, "continue statement must be in a loop")
	return 0, false
}

func (tc *typeChecker) assignStmt(id ast.StmtID, st *ast.Stmt) (sem.Behaviors, bool) {
	data, _ := tc.builder.Stmts.Assign(id)
	lhsNode := tc.builder.Exprs.Get(data.LHS)

	if lhsNode.Kind == ast.ExprPhony {
		rhs, ok := tc.expr(data.RHS)
		if !ok {
			return 0, false
		}
		if rhs, ok = tc.rvalue(rhs); !ok {
			return 0, false
		}
		if _, ok := tc.materialize(rhs, types.NoTypeID); !ok {
			return 0, false
		}
		tc.module.MarkVisited(lhsNode.Node)
		if !tc.validator.Assignment(nil, rhs, st.Span) {
			return 0, false
		}
		return sem.Next.Union(rhs.Behaviors), true
	}

	lhs, ok := tc.expr(data.LHS)
	if !ok {
		return 0, false
	}
	if lhs.Kind != sem.ExprValue {
		_, _ = tc.rvalue(lhs)
		return 0, false
	}
	rhs, ok := tc.valueExpr(data.RHS)
	if !ok {
		return 0, false
	}
	store := tc.types.UnwrapRef(lhs.Type)
	if data.Op != 0 {
		result := tc.types.BinaryResultType(data.Op, store, tc.types.Concrete(rhs.Type))
		if result == types.NoTypeID || result != store {
			tc.report(diag.ResInvalidOperand, st.Span, "no matching overload for 'operator %s (%s, %s)'",
				data.Op, tc.typeName(store), tc.typeName(rhs.Type))
			return 0, false
		}
		if tc.types.IsAbstract(rhs.Type) {
			target := tc.types.WithElement(rhs.Type, tc.types.ElemOf(store))
			if !tc.materializeTo(rhs, target) {
				return 0, false
			}
		}
		tc.registerLoad(lhs)
	} else if ok, incompatible := tc.convertTo(rhs, store); !ok && !incompatible {
		return 0, false
	}
	tc.registerStore(lhs)
	if !tc.validator.Assignment(lhs, tc.compoundRHS(data.Op, lhs, rhs), st.Span) {
		return 0, false
	}
	return sem.Next.Union(lhs.Behaviors).Union(rhs.Behaviors), true
}

// compoundRHS is the value a compound assignment stores: the result of the
// operator, typed like the store type.
func (tc *typeChecker) compoundRHS(op ast.BinaryOp, lhs, rhs *sem.Expr) *sem.Expr {
	if op == 0 {
		return rhs
	}
	out := *rhs
	out.Type = tc.types.UnwrapRef(lhs.Type)
	return &out
}

func (tc *typeChecker) incDecStmt(id ast.StmtID, st *ast.Stmt) (sem.Behaviors, bool) {
	data, _ := tc.builder.Stmts.IncDec(id)
	lhs, ok := tc.expr(data.LHS)
	if !ok {
		return 0, false
	}
	if lhs.Kind != sem.ExprValue {
		_, _ = tc.rvalue(lhs)
		return 0, false
	}
	if !tc.validator.IncDec(lhs, st.Span) {
		return 0, false
	}
	tc.registerLoad(lhs)
	tc.registerStore(lhs)
	return sem.Next.Union(lhs.Behaviors), true
}

// callStmt resolves a call whose result is discarded.
func (tc *typeChecker) callStmt(id ast.StmtID) (sem.Behaviors, bool) {
	data, _ := tc.builder.Stmts.Call(id)
	e, ok := tc.expr(data.Call)
	if !ok {
		return 0, false
	}
	switch {
	case e.Func != nil:
		if e.Func.MustUse {
			diag.ReportError(tc.reporter, diag.ResMustUse, e.Span, "ignoring return value of function '"+e.Func.Name+"' annotated with @must_use").
				WithNote(e.Func.Span, "function '"+e.Func.Name+"' declared here").
				Emit()
			return 0, false
		}
	case e.Builtin != "":
		if intrinsics[e.Builtin].mustUse {
			tc.report(diag.ResMustUse, e.Span, "ignoring return value of builtin '%s'", e.Builtin)
			return 0, false
		}
	default:
		tc.report(diag.ResMustUse, e.Span, "value constructor evaluated but not used")
		return 0, false
	}
	return sem.Next.Union(e.Behaviors), true
}
