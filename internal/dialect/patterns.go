package dialect

import (
	"wgslfront/internal/source"
	"wgslfront/internal/token"
)

// Collect scans an unclassified token stream of file and gathers evidence.
func Collect(file *source.File, toks []token.Token) *Evidence {
	e := NewEvidence()
	var prev token.Token
	for i, tok := range toks {
		if tok.Kind == token.EOF {
			break
		}
		if tok.Kind == token.Ident {
			RecordIdent(e, tok.Text, tok.Span)
		}
		if i > 0 {
			ObserveTokenPair(e, file, prev, tok)
		}
		prev = tok
	}
	return e
}

var directives = map[string]int{
	"version":   6,
	"extension": 5,
	"define":    3,
	"include":   3,
	"pragma":    3,
	"ifdef":     3,
}

// ObserveTokenPair records evidence from a two-token window. file gives
// access to the raw text of lexer error tokens.
func ObserveTokenPair(e *Evidence, file *source.File, prev, tok token.Token) {
	if e == nil {
		return
	}
	adjacent := prev.Span.File == tok.Span.File && prev.Span.End == tok.Span.Start

	// #version, #define ...: '#' is an invalid character for the lexer
	if prev.Kind == token.Error && tok.Kind == token.Ident && adjacent && rawByte(file, prev.Span) == '#' {
		if score, ok := directives[tok.Text]; ok {
			span := prev.Span.Cover(tok.Span)
			reason := "preprocessor directive `#" + tok.Text + "`"
			e.Add(Hint{Dialect: GLSL, Topic: TopicPreprocessor, Score: score, Reason: reason, Span: span})
			if tok.Text != "version" && tok.Text != "extension" {
				e.Add(Hint{Dialect: HLSL, Topic: TopicPreprocessor, Score: score - 1, Reason: reason, Span: span})
			}
		}
	}

	// Metal attributes: [[buffer(0)]]
	if prev.Kind == token.LBracket && tok.Kind == token.LBracket && adjacent {
		e.Add(Hint{Dialect: MSL, Topic: TopicBindings, Score: 4, Reason: "Metal attribute syntax `[[...]]`", Span: prev.Span.Cover(tok.Span)})
	}

	// HLSL semantics: float4 pos : SV_Position / : TEXCOORD0
	if prev.Kind == token.Colon && tok.Kind == token.Ident && isUpperSemantic(tok.Text) {
		e.Add(Hint{Dialect: HLSL, Topic: TopicBuiltins, Score: 3, Reason: "HLSL semantic `: " + tok.Text + "`", Span: prev.Span.Cover(tok.Span)})
	}

	// layout(...) / register(...)
	if prev.Kind == token.Ident && tok.Kind == token.LParen && adjacent {
		switch prev.Text {
		case "layout":
			e.Add(Hint{Dialect: GLSL, Topic: TopicBindings, Score: 3, Reason: "GLSL `layout(...)` qualifier", Span: prev.Span.Cover(tok.Span)})
		case "register":
			e.Add(Hint{Dialect: HLSL, Topic: TopicBindings, Score: 5, Reason: "HLSL `register(...)` binding", Span: prev.Span.Cover(tok.Span)})
		}
	}

	// void main
	if prev.Kind == token.Ident && prev.Text == "void" && tok.Kind == token.Ident && tok.Text == "main" {
		e.Add(Hint{Dialect: GLSL, Topic: TopicEntryPoint, Score: 3, Reason: "GLSL entry point `void main`", Span: prev.Span.Cover(tok.Span)})
	}

	// using namespace metal
	if prev.Kind == token.Ident && prev.Text == "namespace" && tok.Kind == token.Ident && tok.Text == "metal" {
		e.Add(Hint{Dialect: MSL, Topic: TopicOther, Score: 4, Reason: "`using namespace metal`", Span: prev.Span.Cover(tok.Span)})
	}
}

func rawByte(file *source.File, span source.Span) byte {
	if file == nil || int(span.Start) >= len(file.Content) {
		return 0
	}
	return file.Content[span.Start]
}

// isUpperSemantic matches HLSL semantics like POSITION, TEXCOORD0, SV_Target.
func isUpperSemantic(s string) bool {
	if len(s) < 3 {
		return false
	}
	if len(s) > 3 && s[:3] == "SV_" {
		return true
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') && c != '_' {
			return false
		}
	}
	return s[0] >= 'A' && s[0] <= 'Z'
}
