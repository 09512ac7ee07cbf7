package parser

import (
	"wgslfront/internal/ast"
	"wgslfront/internal/diag"
	"wgslfront/internal/token"
)

// Binary precedence is encoded in the productions below; operators of
// different groups never chain without parentheses:
//
//	expression   : unary (bitwise | relational ( ('&&' relational)* | ('||' relational)* ))
//	relational   : shift ( ('<' | '>' | '<=' | '>=' | '==' | '!=') shift )?
//	shift        : unary ( ('<<' | '>>') unary | math )
//	math         : multiplicative additive
//	bitwise      : ('&' unary)+ | ('|' unary)+ | ('^' unary)+

var binaryOps = map[token.Kind]ast.BinaryOp{
	token.And:              ast.BinaryAnd,
	token.Or:               ast.BinaryOr,
	token.Xor:              ast.BinaryXor,
	token.AndAnd:           ast.BinaryLogicalAnd,
	token.OrOr:             ast.BinaryLogicalOr,
	token.EqualEqual:       ast.BinaryEqual,
	token.NotEqual:         ast.BinaryNotEqual,
	token.LessThan:         ast.BinaryLess,
	token.GreaterThan:      ast.BinaryGreater,
	token.LessThanEqual:    ast.BinaryLessEqual,
	token.GreaterThanEqual: ast.BinaryGreaterEqual,
	token.ShiftLeft:        ast.BinaryShiftLeft,
	token.ShiftRight:       ast.BinaryShiftRight,
	token.Plus:             ast.BinaryAdd,
	token.Minus:            ast.BinarySub,
	token.Star:             ast.BinaryMul,
	token.Slash:            ast.BinaryDiv,
	token.Percent:          ast.BinaryMod,
}

func (p *Parser) binary(op ast.BinaryOp, lhs, rhs ast.ExprID) ast.ExprID {
	sp := p.exprSpan(lhs).Cover(p.exprSpan(rhs))
	return p.b.Exprs.NewBinary(sp, op, lhs, rhs)
}

func (p *Parser) rightSideError(at token.Token, op string) outcome {
	return p.errorAt(diag.SynExpectedExpression, at.Span, "unable to parse right side of "+op+" expression")
}

func (p *Parser) expression() (ast.ExprID, outcome) {
	e, res := p.expressionNoMixCheck()
	if res != matched {
		return e, res
	}

	// каждая группа жадно съедает свои операторы, так что любой
	// бинарный оператор после неё это смешение разных групп
	bin, ok := p.b.Exprs.Binary(e)
	if !ok {
		return e, matched
	}
	n := p.peek(0)
	if !n.Kind.IsBinaryOperator() {
		return e, matched
	}
	sp := p.exprSpan(e).Cover(n.Span)
	return ast.NoExprID, p.errorAt(diag.SynOperatorMixing, sp,
		"mixing '"+bin.Op.String()+"' and '"+n.Kind.String()+"' requires parenthesis")
}

func (p *Parser) expressionNoMixCheck() (ast.ExprID, outcome) {
	lhs, res := p.unaryExpression()
	if res != matched {
		return ast.NoExprID, res
	}

	e, res := p.bitwiseExpression(lhs)
	if res != noMatch {
		return e, res
	}

	e, ok := p.expectRelational(lhs)
	if !ok {
		return ast.NoExprID, errored
	}

	t := p.peek(0)
	if t.Kind != token.AndAnd && t.Kind != token.OrOr {
		return e, matched
	}
	op := binaryOps[t.Kind]
	for p.continueParsing() {
		if !p.at(t.Kind) {
			break
		}
		p.next()

		rhs, res := p.relationalExpression()
		switch res {
		case errored:
			return ast.NoExprID, errored
		case noMatch:
			return ast.NoExprID, p.rightSideError(p.peek(0), t.Kind.String())
		}
		e = p.binary(op, e, rhs)
	}
	return e, matched
}

// bitwise: one of '&', '|', '^' repeated; noMatch if lhs is not followed by one.
func (p *Parser) bitwiseExpression(lhs ast.ExprID) (ast.ExprID, outcome) {
	t := p.peek(0)
	switch t.Kind {
	case token.And, token.Or, token.Xor:
	default:
		return ast.NoExprID, noMatch
	}
	op := binaryOps[t.Kind]
	p.next()

	for p.continueParsing() {
		rhs, res := p.unaryExpression()
		switch res {
		case errored:
			return ast.NoExprID, errored
		case noMatch:
			return ast.NoExprID, p.rightSideError(p.peek(0), t.Kind.String())
		}
		lhs = p.binary(op, lhs, rhs)
		if !p.accept(t.Kind) {
			return lhs, matched
		}
	}
	return ast.NoExprID, errored
}

func (p *Parser) relationalExpression() (ast.ExprID, outcome) {
	lhs, res := p.unaryExpression()
	if res != matched {
		return ast.NoExprID, res
	}
	e, ok := p.expectRelational(lhs)
	return e, outcomeOf(ok)
}

func (p *Parser) expectRelational(lhs ast.ExprID) (ast.ExprID, bool) {
	lhs, ok := p.expectShift(lhs)
	if !ok {
		return ast.NoExprID, false
	}

	t := p.peek(0)
	switch t.Kind {
	case token.LessThan, token.GreaterThan, token.LessThanEqual,
		token.GreaterThanEqual, token.EqualEqual, token.NotEqual:
	default:
		return lhs, true
	}
	p.next()

	start := p.peek(0)
	rhs, res := p.shiftExpression()
	switch res {
	case errored:
		return ast.NoExprID, false
	case noMatch:
		p.rightSideError(start, t.Kind.String())
		return ast.NoExprID, false
	}
	return p.binary(binaryOps[t.Kind], lhs, rhs), true
}

func (p *Parser) shiftExpression() (ast.ExprID, outcome) {
	lhs, res := p.unaryExpression()
	if res != matched {
		return ast.NoExprID, res
	}
	e, ok := p.expectShift(lhs)
	return e, outcomeOf(ok)
}

// A shift takes exactly one unary on each side; `a << b << c` is a mixing error.
func (p *Parser) expectShift(lhs ast.ExprID) (ast.ExprID, bool) {
	t := p.peek(0)
	if t.Kind != token.ShiftLeft && t.Kind != token.ShiftRight {
		return p.expectMath(lhs)
	}
	p.next()

	start := p.peek(0)
	rhs, res := p.unaryExpression()
	switch res {
	case errored:
		return ast.NoExprID, false
	case noMatch:
		p.rightSideError(start, t.Kind.String())
		return ast.NoExprID, false
	}
	return p.binary(binaryOps[t.Kind], lhs, rhs), true
}

func (p *Parser) expectMath(lhs ast.ExprID) (ast.ExprID, bool) {
	lhs, ok := p.expectMultiplicative(lhs)
	if !ok {
		return ast.NoExprID, false
	}
	return p.expectAdditive(lhs)
}

func (p *Parser) expectMultiplicative(lhs ast.ExprID) (ast.ExprID, bool) {
	for p.continueParsing() {
		t := p.peek(0)
		switch t.Kind {
		case token.Star, token.Slash, token.Percent:
		default:
			return lhs, true
		}
		p.next()

		rhs, res := p.unaryExpression()
		switch res {
		case errored:
			return ast.NoExprID, false
		case noMatch:
			p.rightSideError(p.peek(0), t.Kind.String())
			return ast.NoExprID, false
		}
		lhs = p.binary(binaryOps[t.Kind], lhs, rhs)
	}
	return ast.NoExprID, false
}

// additiveOperator matches '+' or '-'. A '--' here is two minuses: `a--b`.
func (p *Parser) additiveOperator() (ast.BinaryOp, bool) {
	switch p.peek(0).Kind {
	case token.Plus:
		p.next()
		return ast.BinaryAdd, true
	case token.MinusMinus:
		p.next()
		p.splitToken(token.Minus, token.Minus)
		return ast.BinarySub, true
	case token.Minus:
		p.next()
		return ast.BinarySub, true
	}
	return 0, false
}

func (p *Parser) expectAdditive(lhs ast.ExprID) (ast.ExprID, bool) {
	for p.continueParsing() {
		op, ok := p.additiveOperator()
		if !ok {
			return lhs, true
		}

		unary, res := p.unaryExpression()
		switch res {
		case errored:
			return ast.NoExprID, false
		case noMatch:
			p.rightSideError(p.peek(0), op.String())
			return ast.NoExprID, false
		}

		// '*' связывает сильнее
		rhs, ok := p.expectMultiplicative(unary)
		if !ok {
			return ast.NoExprID, false
		}
		lhs = p.binary(op, lhs, rhs)
	}
	return ast.NoExprID, false
}

var unaryOps = map[token.Kind]ast.UnaryOp{
	token.Minus: ast.UnaryNegate,
	token.Bang:  ast.UnaryNot,
	token.Tilde: ast.UnaryComplement,
	token.Star:  ast.UnaryDeref,
	token.And:   ast.UnaryAddressOf,
}

// unary_expression: singular_expression | ('-' | '!' | '~' | '*' | '&') unary_expression
func (p *Parser) unaryExpression() (ast.ExprID, outcome) {
	t := p.peek(0)

	if t.Kind == token.PlusPlus || t.Kind == token.MinusMinus {
		p.next()
		return ast.NoExprID, p.errorAt(diag.SynReservedOperator, t.Span,
			"prefix increment and decrement operators are reserved for a future WGSL version")
	}

	op, ok := unaryOps[t.Kind]
	if !ok {
		return p.singularExpression()
	}
	p.next()

	if p.depth >= maxParseDepth {
		return ast.NoExprID, p.errorAt(diag.SynMaxDepth, p.peek(0).Span, "maximum parser recursive depth reached")
	}
	p.depth++
	operand, res := p.unaryExpression()
	p.depth--

	switch res {
	case errored:
		return ast.NoExprID, errored
	case noMatch:
		return ast.NoExprID, p.rightSideError(p.peek(0), t.Kind.String())
	}
	sp := t.Span.Cover(p.exprSpan(operand))
	return p.b.Exprs.NewUnary(sp, op, operand), matched
}

// singular_expression: primary_expression component_or_swizzle_specifier?
func (p *Parser) singularExpression() (ast.ExprID, outcome) {
	prefix, res := p.primaryExpression()
	if res != matched {
		return ast.NoExprID, res
	}
	return p.postfixExpression(prefix)
}

// primary_expression
//
//	: ident template_arguments? argument_expression_list?
//	| const_literal
//	| paren_expression
//	| 'bitcast' '<' type_specifier '>' paren_expression
func (p *Parser) primaryExpression() (ast.ExprID, outcome) {
	t := p.peek(0)

	if p.accept(token.KwBitcast) {
		const use = "bitcast expression"
		var typ ast.ExprID
		res := p.expectTemplateArgBlock(use, func() outcome {
			e, ok := p.expectType(use)
			typ = e
			return outcomeOf(ok)
		})
		if res == errored {
			return ast.NoExprID, errored
		}
		val, ok := p.expectParenExpression()
		if !ok {
			return ast.NoExprID, errored
		}
		return p.b.Exprs.NewBitcast(p.spanFrom(t.Span), typ, val), matched
	}

	if e, res := p.constLiteral(); res != noMatch {
		return e, res
	}

	switch t.Kind {
	case token.Ident:
		p.next()
		var args []ast.ExprID
		if p.at(token.TemplateArgsLeft) {
			list, ok := p.templateArgs("template arguments", "template argument list")
			if !ok {
				return ast.NoExprID, errored
			}
			args = list
		}
		ident := p.b.Exprs.NewIdent(p.spanFrom(t.Span), p.b.Intern(t.Text), args)

		if !p.at(token.LParen) {
			return ident, matched
		}
		callArgs, ok := p.expectArgumentList("function call")
		if !ok {
			return ast.NoExprID, errored
		}
		return p.b.Exprs.NewCall(p.spanFrom(t.Span), ident, callArgs), matched

	case token.LParen:
		e, ok := p.expectParenExpression()
		if !ok {
			return ast.NoExprID, errored
		}
		return e, matched
	}
	return ast.NoExprID, noMatch
}

// const_literal: int_literal | float_literal | 'true' | 'false'
func (p *Parser) constLiteral() (ast.ExprID, outcome) {
	t := p.peek(0)
	var lit ast.ExprLitData
	switch t.Kind {
	case token.IntLit:
		lit = ast.ExprLitData{Kind: ast.LitAbstractInt, Int: t.Int}
	case token.IntLitI:
		lit = ast.ExprLitData{Kind: ast.LitI32, Int: t.Int}
	case token.IntLitU:
		lit = ast.ExprLitData{Kind: ast.LitU32, Int: t.Int}
	case token.FloatLit:
		lit = ast.ExprLitData{Kind: ast.LitAbstractFloat, Float: t.Float}
	case token.FloatLitF:
		lit = ast.ExprLitData{Kind: ast.LitF32, Float: t.Float}
	case token.FloatLitH:
		lit = ast.ExprLitData{Kind: ast.LitF16, Float: t.Float}
	case token.KwTrue:
		lit = ast.ExprLitData{Kind: ast.LitBool, Bool: true}
	case token.KwFalse:
		lit = ast.ExprLitData{Kind: ast.LitBool}
	default:
		if p.handleError() {
			return ast.NoExprID, errored
		}
		return ast.NoExprID, noMatch
	}
	p.next()
	return p.b.Exprs.NewLiteral(t.Span, lit), matched
}

// paren_expression: '(' expression ')'
func (p *Parser) expectParenExpression() (ast.ExprID, bool) {
	var inner ast.ExprID
	res := p.expectParenBlock("", func() outcome {
		e, r := p.expression()
		switch r {
		case errored:
			return errored
		case noMatch:
			return p.errorAt(diag.SynExpectedExpression, p.peek(0).Span, "unable to parse expression")
		}
		inner = e
		return matched
	})
	return inner, res != errored
}

// postfixExpression applies `[index]` and `.member` suffixes to prefix.
func (p *Parser) postfixExpression(prefix ast.ExprID) (ast.ExprID, outcome) {
	for p.continueParsing() {
		if p.accept(token.LBracket) {
			res := p.sync(token.RBracket, func() outcome {
				idx, r := p.expression()
				switch r {
				case errored:
					return errored
				case noMatch:
					return p.errorAt(diag.SynExpectedExpression, p.peek(0).Span, "unable to parse expression inside []")
				}
				if !p.expect("index accessor", token.RBracket) {
					return errored
				}
				sp := p.exprSpan(prefix).Cover(p.lastSpan())
				prefix = p.b.Exprs.NewIndex(sp, prefix, idx)
				return matched
			})
			if res == errored {
				return ast.NoExprID, errored
			}
			continue
		}

		if p.accept(token.Period) {
			member, ok := p.expectIdent("member accessor", "")
			if !ok {
				return ast.NoExprID, errored
			}
			sp := p.exprSpan(prefix).Cover(member.Span)
			prefix = p.b.Exprs.NewMember(sp, prefix, member)
			continue
		}
		return prefix, matched
	}
	return ast.NoExprID, errored
}

// argument_expression_list: '(' (expression (',' expression)* ','?)? ')'
func (p *Parser) expectArgumentList(use string) ([]ast.ExprID, bool) {
	var args []ast.ExprID
	res := p.expectParenBlock(use, func() outcome {
		for p.continueParsing() {
			e, r := p.expression()
			if r == errored {
				return errored
			}
			if r == noMatch {
				break
			}
			args = append(args, e)
			if !p.accept(token.Comma) {
				break
			}
		}
		return matched
	})
	return args, res != errored
}
