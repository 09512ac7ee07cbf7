package parser

import (
	"wgslfront/internal/ast"
	"wgslfront/internal/diag"
	"wgslfront/internal/source"
	"wgslfront/internal/token"
)

// compound_statement: attribute* '{' statement* '}'
//
// When statements inside fail but the closing '}' is found, the block is still
// returned with ok == false.
func (p *Parser) expectCompoundStatement(use string) (ast.StmtID, bool) {
	attrs, res := p.attributeList()
	if res == errored {
		return ast.NoStmtID, false
	}
	return p.expectCompoundStatementWithAttrs(&attrs, use)
}

func (p *Parser) expectCompoundStatementWithAttrs(attrs *[]ast.AttrID, use string) (ast.StmtID, bool) {
	start := p.peek(0).Span
	var stmts []ast.StmtID
	failed := false
	res := p.expectBraceBlock(use, func() outcome {
		list, ok := p.expectStatements()
		stmts = list
		if !ok {
			failed = true
			if !p.synced {
				return errored
			}
		}
		return matched
	})
	if res == errored {
		return ast.NoStmtID, false
	}
	// блок закрыт, даже если внутри были ошибки: отдаём его вместе с ok=false
	id := p.b.Stmts.NewBlock(p.spanFrom(start), stmts, *attrs)
	*attrs = nil
	return id, !failed
}

// statements: statement*
// Keeps going after a failed statement so every error in a block is reported.
func (p *Parser) expectStatements() ([]ast.StmtID, bool) {
	var stmts []ast.StmtID
	failed := false
	for p.continueParsing() {
		id, res := p.statement()
		if res == errored {
			failed = true
			continue
		}
		if res == noMatch {
			break
		}
		stmts = append(stmts, id)
	}
	return stmts, !failed
}

// statement
//
//	: ';'
//	| attribute* if_statement
//	| attribute* switch_statement
//	| attribute* loop_statement
//	| attribute* for_statement
//	| attribute* while_statement
//	| attribute* compound_statement
//	| non_block_statement
func (p *Parser) statement() (ast.StmtID, outcome) {
	for p.accept(token.Semicolon) {
	}

	attrs, res := p.attributeList()
	if res == errored {
		return ast.NoStmtID, errored
	}
	defer func() { p.expectAttributesConsumed(attrs) }()

	// ошибка в простом операторе синхронизируется по ';'
	var id ast.StmtID
	res = p.sync(token.Semicolon, func() outcome {
		var r outcome
		id, r = p.nonBlockStatement()
		return r
	})
	if res != noMatch {
		return id, res
	}

	for _, parse := range []func(*[]ast.AttrID) (ast.StmtID, outcome){
		p.ifStatement,
		p.switchStatement,
		p.loopStatement,
		p.forStatement,
		p.whileStatement,
	} {
		if id, res := parse(&attrs); res != noMatch {
			return id, res
		}
	}

	if p.at(token.LBrace) {
		id, ok := p.expectCompoundStatementWithAttrs(&attrs, "block statement")
		if !ok {
			return ast.NoStmtID, errored
		}
		return id, matched
	}
	return ast.NoStmtID, noMatch
}

// non_block_statement: one of the simple statements followed by ';'.
func (p *Parser) nonBlockStatement() (ast.StmtID, outcome) {
	id, res, use := p.simpleStatement()
	if res == matched && !p.expect(use, token.Semicolon) {
		return ast.NoStmtID, errored
	}
	return id, res
}

// simpleStatement returns the statement and the name used in "expected ';' for X".
func (p *Parser) simpleStatement() (ast.StmtID, outcome, string) {
	if id, res := p.returnStatement(); res != noMatch {
		return id, res, "return statement"
	}
	if id, res := p.funcCallStatement(); res != noMatch {
		return id, res, "function call"
	}
	if id, res := p.variableStatement(); res != noMatch {
		return id, res, "variable declaration"
	}
	if t, ok := p.match(token.KwBreak); ok {
		return p.b.Stmts.NewBreak(t.Span), matched, "break statement"
	}
	if t, ok := p.match(token.KwContinue); ok {
		return p.b.Stmts.NewContinue(t.Span), matched, "continue statement"
	}
	if t, ok := p.match(token.KwDiscard); ok {
		return p.b.Stmts.NewDiscard(t.Span), matched, "discard statement"
	}
	if id, res := p.variableUpdatingStatement(); res != noMatch {
		return id, res, p.updateStatementName(id)
	}
	if sp, cond, res := p.constAssert(); res != noMatch {
		if res == errored {
			return ast.NoStmtID, errored, ""
		}
		return p.b.Stmts.NewConstAssert(sp, cond), matched, "statement"
	}
	return ast.NoStmtID, noMatch, ""
}

func (p *Parser) updateStatementName(id ast.StmtID) string {
	s := p.b.Stmts.Get(id)
	if s == nil {
		return "statement"
	}
	switch s.Kind {
	case ast.StmtIncDec:
		if d, _ := p.b.Stmts.IncDec(id); d != nil && !d.Increment {
			return "decrement statement"
		}
		return "increment statement"
	case ast.StmtAssign:
		if d, _ := p.b.Stmts.Assign(id); d != nil && d.Op != 0 {
			return "compound assignment statement"
		}
	}
	return "assignment statement"
}

// return_statement: 'return' expression?
func (p *Parser) returnStatement() (ast.StmtID, outcome) {
	kw, ok := p.match(token.KwReturn)
	if !ok {
		return ast.NoStmtID, noMatch
	}
	if p.at(token.Semicolon) {
		return p.b.Stmts.NewReturn(kw.Span, ast.NoExprID), matched
	}
	e, res := p.expression()
	if res == errored {
		return ast.NoStmtID, errored
	}
	return p.b.Stmts.NewReturn(p.spanFrom(kw.Span), e), matched
}

// variable_statement
//
//	: variable_decl ('=' expression)?
//	| 'let' optionally_typed_ident '=' expression
//	| 'const' optionally_typed_ident '=' expression
func (p *Parser) variableStatement() (ast.StmtID, outcome) {
	start := p.peek(0)
	var kind ast.DeclKind
	switch start.Kind {
	case token.KwConst:
		kind = ast.DeclConst
	case token.KwLet:
		kind = ast.DeclLet
	}

	if kind != 0 {
		p.next()
		use := "'" + kind.String() + "' declaration"
		ti, ok := p.expectOptionallyTypedIdent(use)
		if !ok {
			return ast.NoStmtID, errored
		}
		if !p.expect(use, token.Equal) {
			return ast.NoStmtID, errored
		}
		init, res := p.expression()
		switch res {
		case errored:
			return ast.NoStmtID, errored
		case noMatch:
			return ast.NoStmtID, p.errorAt(diag.SynMissingInitializer, p.peek(0).Span, "missing initializer for "+use)
		}
		sp := p.spanFrom(start.Span)
		decl := p.b.Decls.NewVariable(kind, sp, ti.name, ast.DeclVarData{Type: ti.typ, Init: init}, nil)
		return p.b.Stmts.NewDecl(sp, decl), matched
	}

	vd, res := p.variableDecl()
	if res != matched {
		return ast.NoStmtID, res
	}
	init := ast.NoExprID
	if p.accept(token.Equal) {
		e, r := p.expression()
		switch r {
		case errored:
			return ast.NoStmtID, errored
		case noMatch:
			return ast.NoStmtID, p.errorAt(diag.SynMissingInitializer, p.peek(0).Span, "missing initializer for 'var' declaration")
		}
		init = e
	}
	sp := p.spanFrom(vd.start)
	decl := p.b.Decls.NewVariable(ast.DeclVar, sp, vd.name, ast.DeclVarData{
		Type:         vd.typ,
		Init:         init,
		AddressSpace: vd.space,
		Access:       vd.access,
	}, nil)
	return p.b.Stmts.NewDecl(sp, decl), matched
}

// func_call_statement: ident argument_expression_list
func (p *Parser) funcCallStatement() (ast.StmtID, outcome) {
	t := p.peek(0)
	if t.Kind != token.Ident || !p.peekIs(token.LParen, 1) {
		return ast.NoStmtID, noMatch
	}
	p.next()

	args, ok := p.expectArgumentList("function call")
	if !ok {
		return ast.NoStmtID, errored
	}
	sp := p.spanFrom(t.Span)
	target := p.b.Exprs.NewIdent(t.Span, p.b.Intern(t.Text), nil)
	call := p.b.Exprs.NewCall(sp, target, args)
	return p.b.Stmts.NewCall(sp, call), matched
}

var compoundOps = map[token.Kind]ast.BinaryOp{
	token.PlusEqual:       ast.BinaryAdd,
	token.MinusEqual:      ast.BinarySub,
	token.StarEqual:       ast.BinaryMul,
	token.SlashEqual:      ast.BinaryDiv,
	token.PercentEqual:    ast.BinaryMod,
	token.AndEqual:        ast.BinaryAnd,
	token.OrEqual:         ast.BinaryOr,
	token.XorEqual:        ast.BinaryXor,
	token.ShiftLeftEqual:  ast.BinaryShiftLeft,
	token.ShiftRightEqual: ast.BinaryShiftRight,
}

// variable_updating_statement
//
//	: lhs_expression ('=' | compound_assignment_operator) expression
//	| lhs_expression '++'
//	| lhs_expression '--'
//	| '_' '=' expression
func (p *Parser) variableUpdatingStatement() (ast.StmtID, outcome) {
	t := p.peek(0)

	// `x : i32 = 1` без var: подсказываем var, а не "expected '='"
	if t.Kind == token.Ident && p.peekIs(token.Colon, 1) {
		return ast.NoStmtID, p.errorAt(diag.SynExpectedToken, t.Span, "expected 'var' for variable declaration")
	}

	var (
		lhs ast.ExprID
		op  ast.BinaryOp
	)
	if t.Kind == token.Underscore {
		p.next()
		if !p.expect("assignment", token.Equal) {
			return ast.NoStmtID, errored
		}
		lhs = p.b.Exprs.NewPhony(t.Span)
	} else {
		e, res := p.lhsExpression()
		if res != matched {
			return ast.NoStmtID, res
		}
		lhs = e

		if p.accept(token.PlusPlus) {
			return p.b.Stmts.NewIncDec(p.spanFrom(t.Span), lhs, true), matched
		}
		if p.accept(token.MinusMinus) {
			return p.b.Stmts.NewIncDec(p.spanFrom(t.Span), lhs, false), matched
		}

		if cop, ok := compoundOps[p.peek(0).Kind]; ok {
			p.next()
			op = cop
		} else if !p.expect("assignment", token.Equal) {
			return ast.NoStmtID, errored
		}
	}

	rhs, res := p.expression()
	switch res {
	case errored:
		return ast.NoStmtID, errored
	case noMatch:
		return ast.NoStmtID, p.errorAt(diag.SynExpectedExpression, p.peek(0).Span, "unable to parse right side of assignment")
	}
	return p.b.Stmts.NewAssign(p.spanFrom(t.Span), lhs, rhs, op), matched
}

// core_lhs_expression: ident | '(' lhs_expression ')'
func (p *Parser) coreLhsExpression() (ast.ExprID, outcome) {
	t := p.peek(0)
	if t.Kind == token.Ident {
		p.next()
		return p.b.Exprs.NewIdent(t.Span, p.b.Intern(t.Text), nil), matched
	}
	if t.Kind != token.LParen {
		return ast.NoExprID, noMatch
	}

	var inner ast.ExprID
	res := p.expectParenBlock("", func() outcome {
		e, r := p.lhsExpression()
		switch r {
		case errored:
			return errored
		case noMatch:
			return p.errorAt(diag.SynExpectedExpression, t.Span, "invalid expression")
		}
		inner = e
		return matched
	})
	if res == errored {
		return ast.NoExprID, errored
	}
	return inner, matched
}

type lhsPrefix struct {
	span source.Span
	op   ast.UnaryOp
}

// lhs_expression
//
//	: core_lhs_expression component_or_swizzle_specifier?
//	| '&' lhs_expression
//	| '*' lhs_expression
//
// Prefix operators are collected in a loop, so `****...x` does not recurse.
func (p *Parser) lhsExpression() (ast.ExprID, outcome) {
	core, res := p.coreLhsExpression()
	if res == errored {
		return ast.NoExprID, errored
	}
	if res == matched {
		return p.postfixExpression(core)
	}

	var ops []lhsPrefix
	for {
		t := p.peek(0)
		switch t.Kind {
		case token.AndAnd:
			// первый '&' от '&&' съеден, второй остаётся на месте placeholder
			p.next()
			p.splitToken(token.And, token.And)
			ops = append(ops, lhsPrefix{span: p.lastSpan(), op: ast.UnaryAddressOf})
			continue
		case token.And:
			p.next()
			ops = append(ops, lhsPrefix{span: t.Span, op: ast.UnaryAddressOf})
			continue
		case token.Star:
			p.next()
			ops = append(ops, lhsPrefix{span: t.Span, op: ast.UnaryDeref})
			continue
		}
		break
	}
	if len(ops) == 0 {
		return ast.NoExprID, noMatch
	}

	t := p.peek(0)
	e, res := p.lhsExpression()
	switch res {
	case errored:
		return ast.NoExprID, errored
	case noMatch:
		return ast.NoExprID, p.errorAt(diag.SynExpectedExpression, t.Span, "missing expression")
	}
	for i := len(ops) - 1; i >= 0; i-- {
		end := p.exprSpan(e)
		sp := ops[i].span
		sp.End = end.End
		e = p.b.Exprs.NewUnary(sp, ops[i].op, e)
	}
	return e, matched
}
