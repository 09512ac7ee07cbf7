package parser

import (
	"strconv"

	"wgslfront/internal/ast"
	"wgslfront/internal/builtin"
	"wgslfront/internal/diag"
	"wgslfront/internal/token"
)

var attrNames = func() []string {
	var out []string
	for _, spec := range ast.AttrSpecs() {
		if spec.Kind != ast.AttrConst {
			out = append(out, spec.Name)
		}
	}
	return out
}()

// attributeList: ('@' attribute)*
// Returns noMatch when there are no attributes at all.
func (p *Parser) attributeList() ([]ast.AttrID, outcome) {
	var (
		attrs  []ast.AttrID
		failed bool
	)
	for p.continueParsing() {
		if !p.accept(token.Attr) {
			break
		}
		id, res := p.attribute()
		switch res {
		case errored:
			failed = true
		case noMatch:
			p.errorAt(diag.SynExpectedToken, p.peek(0).Span, "expected attribute")
			failed = true
		default:
			attrs = append(attrs, id)
		}
	}
	if failed {
		return attrs, errored
	}
	if len(attrs) == 0 {
		return nil, noMatch
	}
	return attrs, matched
}

// attribute: ident ( '(' expression (',' expression)* ','? ')' )?
// The '@' is already consumed.
func (p *Parser) attribute() (ast.AttrID, outcome) {
	t := p.peek(0)

	if p.accept(token.KwConst) {
		return ast.NoAttrID, p.errorAt(diag.SynConstAttribute, t.Span, "const attribute may not appear in shaders")
	}
	if p.accept(token.KwDiagnostic) {
		ctrl, ok := p.expectDiagnosticControl()
		if !ok {
			return ast.NoAttrID, errored
		}
		return p.b.Attrs.NewDiagnostic(t.Span, ast.Ident{Name: p.b.Intern("diagnostic"), Span: t.Span}, ctrl), matched
	}

	isAttr := func(s string) bool {
		spec, ok := ast.LookupAttr(s)
		return ok && spec.Kind != ast.AttrConst
	}
	name, ok := p.expectEnum(diag.SynUnknownAttribute, "attribute", "", isAttr, attrNames)
	if !ok {
		return ast.NoAttrID, errored
	}
	spec, _ := ast.LookupAttr(t.Text)

	var args []ast.ExprID
	if spec.MaxArgs == 0 {
		if lp, ok := p.match(token.LParen); ok {
			return ast.NoAttrID, p.errorAt(diag.SynAttributeArgCount, lp.Span, t.Text+" attribute doesn't take parenthesis")
		}
		return p.b.Attrs.New(spec.Kind, t.Span, name, nil), matched
	}

	res := p.expectParenBlock(t.Text+" attribute", func() outcome {
		return p.delimitedList(token.Comma, token.RParen, func() outcome {
			e, ok := p.expectExpression(t.Text)
			if !ok {
				return errored
			}
			args = append(args, e)
			return matched
		})
	})
	if res == errored {
		return ast.NoAttrID, errored
	}

	if len(args) < spec.MinArgs || len(args) == 0 {
		msg := t.Text + " expects"
		if spec.MinArgs != spec.MaxArgs {
			msg += " at least"
		}
		msg += " " + strconv.Itoa(spec.MinArgs) + " argument" + plural(spec.MinArgs)
		return ast.NoAttrID, p.errorAt(diag.SynAttributeArgCount, t.Span, msg)
	}
	if len(args) > spec.MaxArgs {
		msg := t.Text + " expects"
		if spec.MinArgs != spec.MaxArgs {
			msg += " at most"
		}
		msg += " " + strconv.Itoa(spec.MaxArgs) + " argument" + plural(spec.MaxArgs) + ", got " + strconv.Itoa(len(args))
		return ast.NoAttrID, p.errorAt(diag.SynAttributeArgCount, t.Span, msg)
	}
	return p.b.Attrs.New(spec.Kind, t.Span, name, args), matched
}

func plural(n int) string {
	if n != 1 {
		return "s"
	}
	return ""
}

// diagnostic_control: '(' severity ',' rule_name ','? ')'
func (p *Parser) expectDiagnosticControl() (ast.DiagnosticControl, bool) {
	var ctrl ast.DiagnosticControl
	start := p.peek(0).Span
	isSeverity := func(s string) bool { return builtin.ParseDiagnosticSeverity(s) != 0 }

	res := p.expectParenBlock("diagnostic control", func() outcome {
		sev, ok := p.expectEnum(diag.SynInvalidEnumValue, "severity control", "", isSeverity, builtin.DiagnosticSeverityStrings())
		if !ok {
			return errored
		}
		ctrl.Severity = sev
		if !p.expect("diagnostic control", token.Comma) {
			return errored
		}
		if !p.expectDiagnosticRuleName(&ctrl) {
			return errored
		}
		p.accept(token.Comma)
		return matched
	})
	ctrl.Span = p.spanFrom(start)
	return ctrl, res != errored
}

// diagnostic_rule_name: ident | ident '.' ident
func (p *Parser) expectDiagnosticRuleName(ctrl *ast.DiagnosticControl) bool {
	if p.peekIs(token.Period, 1) {
		cat, ok := p.expectIdent("", "diagnostic rule category")
		if !ok {
			return false
		}
		if !p.expect("diagnostic rule", token.Period) {
			return false
		}
		ctrl.Category = cat
	}
	name, ok := p.expectIdent("", "diagnostic rule name")
	if !ok {
		return false
	}
	ctrl.Rule = name
	return true
}
