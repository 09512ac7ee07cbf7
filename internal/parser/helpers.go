package parser

import (
	"strings"

	"wgslfront/internal/ast"
	"wgslfront/internal/diag"
	"wgslfront/internal/fix"
	"wgslfront/internal/source"
	"wgslfront/internal/token"
)

// outcome: результат продукции грамматики.
type outcome uint8

const (
	noMatch outcome = iota // ничего не съели, можно пробовать другую продукцию
	matched
	errored // ошибка уже зарепорчена
)

func outcomeOf(ok bool) outcome {
	if ok {
		return matched
	}
	return errored
}

// errorAt reports a syntax error unless diagnostics are silenced. It always
// returns errored so productions can `return p.errorAt(...)`.
func (p *Parser) errorAt(code diag.Code, sp source.Span, msg string) outcome {
	return p.errorWithFix(code, sp, msg)
}

func (p *Parser) errorWithFix(code diag.Code, sp source.Span, msg string, fixes ...diag.Fix) outcome {
	if p.silence > 0 {
		return errored
	}
	p.errors++
	if p.opts.Reporter != nil {
		p.opts.Reporter.Report(code, diag.SevError, sp, msg, nil, fixes)
	}
	return errored
}

// errorFor appends " for <use>" when use is not empty.
func (p *Parser) errorFor(code diag.Code, sp source.Span, msg, use string) outcome {
	if use != "" {
		msg += " for " + use
	}
	return p.errorAt(code, sp, msg)
}

// withoutDiag runs body with reporting switched off. Used to probe whether
// something would parse as a statement.
func (p *Parser) withoutDiag(body func() outcome) outcome {
	p.silence++
	defer func() { p.silence-- }()
	return body()
}

// handleError reports the next token if the lexer produced an error there and
// consumes it. A silenced probe leaves the token in place so the caller that
// is not silenced reports it.
func (p *Parser) handleError() bool {
	t := p.peek(0)
	if t.Kind != token.Error {
		return false
	}
	p.synced = false
	if p.silence > 0 {
		return true
	}
	p.errorAt(lexErrorCode(t.Text), t.Span, t.Text)
	p.next()
	return true
}

func lexErrorCode(msg string) diag.Code {
	switch {
	case strings.Contains(msg, "comment"):
		return diag.LexUnterminatedBlockComment
	case strings.Contains(msg, "null character"):
		return diag.LexNullCharacter
	case strings.Contains(msg, "invalid character"), strings.Contains(msg, "underscores"),
		strings.Contains(msg, "token limit"):
		return diag.LexInvalidCharacter
	}
	return diag.LexInvalidNumber
}

// expect consumes a token of kind k or reports "expected 'k' for use".
// A wanted '>' may be split off ">>" or ">=".
func (p *Parser) expect(use string, k token.Kind) bool {
	t := p.peek(0)
	if t.Kind == k {
		p.next()
		p.synced = true
		return true
	}

	if k == token.GreaterThan && (t.Kind == token.ShiftRight || t.Kind == token.GreaterThanEqual) {
		p.next()
		if t.Kind == token.ShiftRight {
			p.splitToken(token.GreaterThan, token.GreaterThan)
		} else {
			p.splitToken(token.GreaterThan, token.Equal)
		}
		p.synced = true
		return true
	}

	p.synced = false
	if p.handleError() {
		return false
	}

	if k == token.TemplateArgsLeft && t.Kind == token.LessThan {
		p.errorFor(diag.SynMissingTemplateClose, t.Span, "missing closing '>'", use)
		return false
	}
	msg := "expected '" + k.String() + "'"
	if use != "" {
		msg += " for " + use
	}
	if k == token.Semicolon && p.last >= 0 && p.last < len(p.tokens) {
		p.errorWithFix(diag.SynExpectedToken, t.Span, msg,
			fix.InsertAfter("insert ';'", p.tokens[p.last].Span, ";"))
		return false
	}
	p.errorAt(diag.SynExpectedToken, t.Span, msg)
	return false
}

// expectIdent consumes an identifier. kind names what was expected in the
// error message ("identifier" for most callers).
func (p *Parser) expectIdent(use, kind string) (ast.Ident, bool) {
	t := p.peek(0)
	if t.Kind == token.Ident {
		p.synced = true
		p.next()
		if token.IsReserved(t.Text) {
			p.errorAt(diag.SynReservedKeyword, t.Span, "'"+t.Text+"' is a reserved keyword")
			return ast.Ident{}, false
		}
		return p.ident(t), true
	}
	if p.handleError() {
		return ast.Ident{}, false
	}
	p.synced = false
	if kind == "" {
		kind = "identifier"
	}
	p.errorFor(diag.SynExpectedToken, t.Span, "expected "+kind, use)
	return ast.Ident{}, false
}

// expectEnum consumes an identifier that must be one of a closed set of names.
// On failure the message lists the possible values and a close match if any.
func (p *Parser) expectEnum(code diag.Code, name, use string, valid func(string) bool, values []string) (ast.Ident, bool) {
	t := p.peek(0)
	if t.Kind == token.Ident && valid(t.Text) {
		p.synced = true
		p.next()
		return p.ident(t), true
	}
	if p.handleError() {
		return ast.Ident{}, false
	}

	var sb strings.Builder
	sb.WriteString("expected ")
	sb.WriteString(name)
	if use != "" {
		sb.WriteString(" for ")
		sb.WriteString(use)
	}
	sb.WriteByte('\n')
	diag.SuggestAlternatives(&sb, t.String(), values)

	p.synced = false
	p.errorAt(code, t.Span, sb.String())
	return ast.Ident{}, false
}

// expectAttributesConsumed reports attributes nobody took.
func (p *Parser) expectAttributesConsumed(attrs []ast.AttrID) bool {
	if len(attrs) == 0 {
		return true
	}
	p.errorAt(diag.SynUnexpectedAttributes, p.b.Attrs.Get(attrs[0]).Span, "unexpected attributes")
	return false
}
