package parser

import (
	"wgslfront/internal/ast"
	"wgslfront/internal/builtin"
	"wgslfront/internal/diag"
	"wgslfront/internal/token"
)

// globalDirective: diagnostic_directive | enable_directive | requires_directive
func (p *Parser) globalDirective(afterDecl bool) outcome {
	start := p.peek(0)
	res := p.diagnosticDirective()
	if res == noMatch {
		res = p.enableDirective()
	}
	if res == noMatch {
		res = p.requiresDirective()
	}
	if res == matched && afterDecl {
		return p.errorAt(diag.SynDirectiveAfterDecl, start.Span, "directives must come before all global declarations")
	}
	return res
}

// diagnostic_directive: 'diagnostic' diagnostic_control ';'
func (p *Parser) diagnosticDirective() outcome {
	return p.sync(token.Semicolon, func() outcome {
		kw, ok := p.match(token.KwDiagnostic)
		if !ok {
			return noMatch
		}
		ctrl, ok := p.expectDiagnosticControl()
		if !ok {
			return errored
		}
		if !p.expect("diagnostic directive", token.Semicolon) {
			return errored
		}
		p.b.Module.Diagnostics = append(p.b.Module.Diagnostics, ast.DiagnosticDirective{
			Node:    p.b.NewNode(),
			Span:    kw.Span,
			Control: ctrl,
		})
		return matched
	})
}

// enable_directive: 'enable' ident (',' ident)* ','? ';'
func (p *Parser) enableDirective() outcome {
	return p.sync(token.Semicolon, func() outcome {
		kw, ok := p.match(token.KwEnable)
		if !ok {
			return noMatch
		}

		// частая ошибка: enable(f16);
		if t := p.peek(0); t.Kind == token.LParen {
			p.synced = false
			return p.errorAt(diag.SynDirectiveParens, t.Span, "enable directives don't take parenthesis")
		}

		var exts []ast.Ident
		isExt := func(s string) bool { return builtin.ParseExtension(s) != builtin.ExtensionUndefined }
		for p.continueParsing() {
			ext, ok := p.expectEnum(diag.SynUnknownExtension, "extension", "", isExt, builtin.ExtensionStrings())
			if !ok {
				return errored
			}
			exts = append(exts, ext)
			if !p.accept(token.Comma) || p.at(token.Semicolon) {
				break
			}
		}

		if !p.expect("enable directive", token.Semicolon) {
			return errored
		}
		p.b.Module.Enables = append(p.b.Module.Enables, ast.Enable{
			Node:       p.b.NewNode(),
			Span:       p.spanFrom(kw.Span),
			Extensions: exts,
		})
		return matched
	})
}

// requires_directive: 'requires' ident (',' ident)* ','? ';'
//
// No language feature is supported yet, so every named feature is an error.
// The directive is still recorded for dumps.
func (p *Parser) requiresDirective() outcome {
	return p.sync(token.Semicolon, func() outcome {
		kw, ok := p.match(token.KwRequires)
		if !ok {
			return noMatch
		}

		first := p.peek(0)
		if p.handleError() {
			return errored
		}
		if first.Kind == token.LParen {
			p.synced = false
			return p.errorAt(diag.SynDirectiveParens, first.Span, "requires directives don't take parenthesis")
		}

		var features []ast.Ident
		for p.continueParsing() {
			t := p.peek(0)
			if p.handleError() {
				return errored
			}
			if t.Kind == token.Ident {
				p.next()
				features = append(features, p.ident(t))
				p.errorAt(diag.SynUnsupportedFeature, t.Span, "feature '"+t.Text+"' is not supported")
				if !p.accept(token.Comma) && !p.at(token.Semicolon) {
					return p.errorAt(diag.SynUnexpectedToken, p.peek(0).Span, "invalid feature name for requires")
				}
				continue
			}
			if t.Kind == token.Semicolon {
				break
			}
			if !p.accept(token.Comma) {
				return p.errorAt(diag.SynUnexpectedToken, t.Span, "invalid feature name for requires")
			}
		}

		if len(features) == 0 {
			return p.errorAt(diag.SynUnsupportedFeature, first.Span, "missing feature names in requires directive")
		}
		p.b.Module.Requires = append(p.b.Module.Requires, ast.Requires{
			Node:     p.b.NewNode(),
			Span:     p.spanFrom(kw.Span),
			Features: features,
		})
		// ';' съест sync
		return errored
	})
}
