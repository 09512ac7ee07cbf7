package parser

import (
	"wgslfront/internal/ast"
	"wgslfront/internal/diag"
	"wgslfront/internal/token"
)

// type_specifier: ident template_arguments?
//
// Types are ordinary identifier expressions; `array<f32, 4>` is an ExprIdent
// with two template arguments.
func (p *Parser) typeSpecifier() (ast.ExprID, outcome) {
	t, ok := p.match(token.Ident)
	if !ok {
		return ast.NoExprID, noMatch
	}
	if !p.at(token.TemplateArgsLeft) {
		return p.b.Exprs.NewIdent(t.Span, p.b.Intern(t.Text), nil), matched
	}

	args, ok := p.templateArgs("type template arguments", "type template argument list")
	if !ok {
		return ast.NoExprID, errored
	}
	return p.b.Exprs.NewIdent(p.spanFrom(t.Span), p.b.Intern(t.Text), args), matched
}

func (p *Parser) expectType(use string) (ast.ExprID, bool) {
	typ, res := p.typeSpecifier()
	switch res {
	case errored:
		return ast.NoExprID, false
	case noMatch:
		p.errorFor(diag.SynInvalidType, p.peek(0).Span, "invalid type", use)
		return ast.NoExprID, false
	}
	return typ, true
}

// templateArgs parses `< expr (, expr)* ,? >` after an identifier.
func (p *Parser) templateArgs(blockUse, listUse string) ([]ast.ExprID, bool) {
	var args []ast.ExprID
	res := p.expectTemplateArgBlock(blockUse, func() outcome {
		list, ok := p.expectExpressionList(listUse, token.TemplateArgsRight)
		args = list
		return outcomeOf(ok)
	})
	return args, res != errored
}

func (p *Parser) expectExpression(use string) (ast.ExprID, bool) {
	t := p.peek(0)
	e, res := p.expression()
	switch res {
	case errored:
		return ast.NoExprID, false
	case noMatch:
		p.errorAt(diag.SynExpectedExpression, t.Span, "expected expression for "+use)
		return ast.NoExprID, false
	}
	return e, true
}

// expectExpressionList: expression (',' expression)* ','? followed by terminator
// (not consumed). At least one expression is required.
func (p *Parser) expectExpressionList(use string, terminator token.Kind) ([]ast.ExprID, bool) {
	var exprs []ast.ExprID
	for p.continueParsing() {
		e, ok := p.expectExpression(use)
		if !ok {
			return nil, false
		}
		exprs = append(exprs, e)
		if p.at(terminator) {
			break
		}
		if !p.expect(use, token.Comma) {
			return nil, false
		}
		if p.at(terminator) {
			break
		}
	}
	return exprs, true
}
