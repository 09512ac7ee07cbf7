package parser

import (
	"wgslfront/internal/ast"
	"wgslfront/internal/diag"
	"wgslfront/internal/source"
	"wgslfront/internal/token"
)

type ifClause struct {
	span  source.Span
	cond  ast.ExprID
	body  ast.StmtID
	attrs []ast.AttrID
}

// if_statement: attribute* if_clause else_if_clause* else_clause?
//
// Chains are parsed in a loop, a long `else if` chain does not grow the stack.
func (p *Parser) ifStatement(attrs *[]ast.AttrID) (ast.StmtID, outcome) {
	parseIf := func() (ifClause, outcome) {
		kw, ok := p.match(token.KwIf)
		if !ok {
			return ifClause{}, noMatch
		}
		cond, res := p.expression()
		switch res {
		case errored:
			return ifClause{}, errored
		case noMatch:
			return ifClause{}, p.errorAt(diag.SynExpectedExpression, p.peek(0).Span, "unable to parse condition expression")
		}
		body, ok := p.expectCompoundStatement("if statement")
		if !ok {
			return ifClause{}, errored
		}
		c := ifClause{span: p.spanFrom(kw.Span), cond: cond, body: body, attrs: *attrs}
		*attrs = nil
		return c, matched
	}

	first, res := parseIf()
	if res != matched {
		return ast.NoStmtID, res
	}
	clauses := []ifClause{first}

	elseStmt := ast.NoStmtID
	for p.continueParsing() {
		if !p.accept(token.KwElse) {
			break
		}
		c, res := parseIf()
		if res == errored {
			return ast.NoStmtID, errored
		}
		if res == matched {
			clauses = append(clauses, c)
			continue
		}
		body, ok := p.expectCompoundStatement("else statement")
		if !ok {
			return ast.NoStmtID, errored
		}
		elseStmt = body
		break
	}

	for i := len(clauses) - 1; i >= 0; i-- {
		c := clauses[i]
		elseStmt = p.b.Stmts.NewIf(c.span, ast.StmtIfData{Cond: c.cond, Body: c.body, Else: elseStmt}, c.attrs)
	}
	return elseStmt, matched
}

// switch_statement: attribute* 'switch' expression attribute* '{' switch_body+ '}'
func (p *Parser) switchStatement(attrs *[]ast.AttrID) (ast.StmtID, outcome) {
	kw, ok := p.match(token.KwSwitch)
	if !ok {
		return ast.NoStmtID, noMatch
	}

	cond, res := p.expression()
	switch res {
	case errored:
		return ast.NoStmtID, errored
	case noMatch:
		return ast.NoStmtID, p.errorAt(diag.SynExpectedExpression, p.peek(0).Span, "unable to parse selector expression")
	}

	bodyAttrs, res := p.attributeList()
	if res == errored {
		return ast.NoStmtID, errored
	}

	var cases []ast.StmtID
	res = p.expectBraceBlock("switch statement", func() outcome {
		failed := false
		for p.continueParsing() {
			c, r := p.switchBody()
			if r == errored {
				failed = true
				continue
			}
			if r == noMatch {
				break
			}
			cases = append(cases, c)
		}
		return outcomeOf(!failed)
	})
	if res == errored {
		return ast.NoStmtID, errored
	}

	id := p.b.Stmts.NewSwitch(p.spanFrom(kw.Span), ast.StmtSwitchData{
		Cond:      cond,
		Cases:     cases,
		BodyAttrs: bodyAttrs,
	}, *attrs)
	*attrs = nil
	return id, matched
}

// switch_body
//
//	: 'case' case_selectors ':'? compound_statement
//	| 'default' ':'? compound_statement
func (p *Parser) switchBody() (ast.StmtID, outcome) {
	t := p.peek(0)
	if t.Kind != token.KwCase && t.Kind != token.KwDefault {
		return ast.NoStmtID, noMatch
	}
	p.next()

	var selectors []ast.CaseSelector
	if t.Kind == token.KwCase {
		sel, ok := p.expectCaseSelectors()
		if !ok {
			return ast.NoStmtID, errored
		}
		selectors = sel
	} else {
		selectors = []ast.CaseSelector{{Expr: ast.NoExprID, Span: t.Span}}
	}

	p.accept(token.Colon)

	body, ok := p.expectCompoundStatement("case statement")
	if !ok {
		return ast.NoStmtID, errored
	}
	return p.b.Stmts.NewCase(p.spanFrom(t.Span), ast.StmtCaseData{Selectors: selectors, Body: body}), matched
}

// case_selectors: case_selector (',' case_selector)* ','?
func (p *Parser) expectCaseSelectors() ([]ast.CaseSelector, bool) {
	var selectors []ast.CaseSelector
	for p.continueParsing() {
		t := p.peek(0)
		if p.accept(token.KwDefault) {
			selectors = append(selectors, ast.CaseSelector{Expr: ast.NoExprID, Span: t.Span})
		} else {
			e, res := p.expression()
			if res == errored {
				return nil, false
			}
			if res == noMatch {
				break
			}
			selectors = append(selectors, ast.CaseSelector{Expr: e, Span: p.exprSpan(e)})
		}
		if !p.accept(token.Comma) {
			break
		}
	}
	if len(selectors) == 0 {
		p.errorAt(diag.SynInvalidCaseSelector, p.peek(0).Span, "expected case selector expression or `default`")
		return nil, false
	}
	return selectors, true
}

// loop_statement: attribute* 'loop' attribute* '{' statements continuing_statement? '}'
func (p *Parser) loopStatement(attrs *[]ast.AttrID) (ast.StmtID, outcome) {
	kw, ok := p.match(token.KwLoop)
	if !ok {
		return ast.NoStmtID, noMatch
	}

	bodyAttrs, res := p.attributeList()
	if res == errored {
		return ast.NoStmtID, errored
	}

	bodyStart := p.peek(0).Span
	var (
		stmts      []ast.StmtID
		continuing = ast.NoStmtID
	)
	res = p.expectBraceBlock("loop", func() outcome {
		list, ok := p.expectStatements()
		if !ok {
			return errored
		}
		stmts = list
		c, r := p.continuingStatement()
		if r == errored {
			return errored
		}
		continuing = c
		return matched
	})
	if res == errored {
		return ast.NoStmtID, errored
	}

	body := p.b.Stmts.NewBlock(p.spanFrom(bodyStart), stmts, bodyAttrs)
	id := p.b.Stmts.NewLoop(p.spanFrom(kw.Span), ast.StmtLoopData{Body: body, Continuing: continuing}, *attrs)
	*attrs = nil
	return id, matched
}

// continuing_statement: 'continuing' continuing_compound_statement
// Returns NoStmtID with matched when there is no continuing block.
func (p *Parser) continuingStatement() (ast.StmtID, outcome) {
	if !p.accept(token.KwContinuing) {
		return ast.NoStmtID, matched
	}

	attrs, res := p.attributeList()
	if res == errored {
		return ast.NoStmtID, errored
	}

	start := p.peek(0).Span
	var stmts []ast.StmtID
	res = p.expectBraceBlock("", func() outcome {
		for p.continueParsing() {
			// break-if раньше statement: иначе 'break' съестся как break_statement
			if id, r := p.breakIfStatement(); r != noMatch {
				if r == errored {
					return errored
				}
				stmts = append(stmts, id)
				continue
			}
			id, r := p.statement()
			if r == errored {
				return errored
			}
			if r == noMatch {
				break
			}
			stmts = append(stmts, id)
		}
		return matched
	})
	if res == errored {
		return ast.NoStmtID, errored
	}
	return p.b.Stmts.NewBlock(p.spanFrom(start), stmts, attrs), matched
}

// break_if_statement: 'break' 'if' expression ';'
func (p *Parser) breakIfStatement() (ast.StmtID, outcome) {
	t := p.peek(0)
	if t.Kind != token.KwBreak || !p.peekIs(token.KwIf, 1) {
		return ast.NoStmtID, noMatch
	}
	p.next()
	p.next()

	cond, res := p.expression()
	switch res {
	case errored:
		return ast.NoStmtID, errored
	case noMatch:
		return ast.NoStmtID, p.errorAt(diag.SynExpectedExpression, t.Span, "expected expression for `break-if`")
	}
	if !p.expect("`break-if` statement", token.Semicolon) {
		return ast.NoStmtID, errored
	}
	return p.b.Stmts.NewBreakIf(p.spanFrom(t.Span), cond), matched
}

type forHeader struct {
	init ast.StmtID
	cond ast.ExprID
	cont ast.StmtID
}

// for_statement: attribute* 'for' '(' for_header ')' compound_statement
func (p *Parser) forStatement(attrs *[]ast.AttrID) (ast.StmtID, outcome) {
	kw, ok := p.match(token.KwFor)
	if !ok {
		return ast.NoStmtID, noMatch
	}

	var hdr forHeader
	res := p.expectParenBlock("for loop", func() outcome {
		h, ok := p.expectForHeader()
		hdr = h
		return outcomeOf(ok)
	})
	if res == errored {
		return ast.NoStmtID, errored
	}

	body, ok := p.expectCompoundStatement("for loop")
	if !ok {
		return ast.NoStmtID, errored
	}

	id := p.b.Stmts.NewFor(p.spanFrom(kw.Span), ast.StmtForData{
		Init: hdr.init,
		Cond: hdr.cond,
		Cont: hdr.cont,
		Body: body,
	}, *attrs)
	*attrs = nil
	return id, matched
}

// for_header: for_init? ';' expression? ';' for_update?
func (p *Parser) expectForHeader() (forHeader, bool) {
	hdr := forHeader{init: ast.NoStmtID, cond: ast.NoExprID, cont: ast.NoStmtID}

	init, res := p.forHeaderInit()
	if res == errored {
		return hdr, false
	}
	if res == matched {
		hdr.init = init
	}
	if !p.expect("initializer in for loop", token.Semicolon) {
		return hdr, false
	}

	cond, res := p.expression()
	if res == errored {
		return hdr, false
	}
	if res == matched {
		hdr.cond = cond
	}
	if !p.expect("condition in for loop", token.Semicolon) {
		return hdr, false
	}

	cont, res := p.forHeaderUpdate()
	if res == errored {
		return hdr, false
	}
	if res == matched {
		hdr.cont = cont
	}
	return hdr, true
}

// for_init: func_call_statement | variable_statement | variable_updating_statement
func (p *Parser) forHeaderInit() (ast.StmtID, outcome) {
	if id, res := p.funcCallStatement(); res != noMatch {
		return id, res
	}
	if id, res := p.variableStatement(); res != noMatch {
		return id, res
	}
	return p.variableUpdatingStatement()
}

// for_update: func_call_statement | variable_updating_statement
func (p *Parser) forHeaderUpdate() (ast.StmtID, outcome) {
	if id, res := p.funcCallStatement(); res != noMatch {
		return id, res
	}
	return p.variableUpdatingStatement()
}

// while_statement: attribute* 'while' expression compound_statement
func (p *Parser) whileStatement(attrs *[]ast.AttrID) (ast.StmtID, outcome) {
	kw, ok := p.match(token.KwWhile)
	if !ok {
		return ast.NoStmtID, noMatch
	}

	cond, res := p.expression()
	switch res {
	case errored:
		return ast.NoStmtID, errored
	case noMatch:
		return ast.NoStmtID, p.errorAt(diag.SynExpectedExpression, p.peek(0).Span, "unable to parse while condition expression")
	}

	body, ok := p.expectCompoundStatement("while loop")
	if !ok {
		return ast.NoStmtID, errored
	}
	id := p.b.Stmts.NewWhile(p.spanFrom(kw.Span), ast.StmtWhileData{Cond: cond, Body: body}, *attrs)
	*attrs = nil
	return id, matched
}
