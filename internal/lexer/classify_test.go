package lexer_test

import (
	"slices"
	"testing"

	"wgslfront/internal/lexer"
	"wgslfront/internal/source"
	"wgslfront/internal/token"
)

const (
	id  = token.Ident
	tal = token.TemplateArgsLeft
	tar = token.TemplateArgsRight
	lt  = token.LessThan
	gt  = token.GreaterThan
)

// kindsOf лексит строку и возвращает виды токенов без плейсхолдеров и EOF.
func kindsOf(t *testing.T, src string) []token.Kind {
	t.Helper()
	toks := tokenize(t, src, lexer.Options{})
	out := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		if tok.Kind == token.Placeholder || tok.Kind == token.EOF {
			continue
		}
		out = append(out, tok.Kind)
	}
	return out
}

func tokenize(t *testing.T, src string, opts lexer.Options) []token.Token {
	t.Helper()
	fs := source.NewFileSet()
	fid := fs.AddVirtual("test.wgsl", []byte(src))
	return lexer.Tokenize(fs.Get(fid), opts)
}

func kindNames(ks []token.Kind) []string {
	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = k.GoName()
	}
	return out
}

func TestClassifyTemplateArgs(t *testing.T) {
	tests := []struct {
		src  string
		want []token.Kind
	}{
		{"a<b>(c)", []token.Kind{id, tal, id, tar, token.LParen, id, token.RParen}},
		{"vec3<i32>", []token.Kind{id, tal, id, tar}},
		{"array<vec3<i32>,5>", []token.Kind{id, tal, id, tal, id, tar, token.Comma, token.IntLit, tar}},
		{"a<b,c>=d", []token.Kind{id, tal, id, token.Comma, id, tar, token.Equal, id}},
		{"a<b&&c>d", []token.Kind{id, lt, id, token.AndAnd, id, gt, id}},
		{"a<b<c||d>>", []token.Kind{id, lt, id, lt, id, token.OrOr, id, token.ShiftRight}},
		{"a<b>>=c", []token.Kind{id, tal, id, tar, token.GreaterThanEqual, id}},
		{"a<b<c>>", []token.Kind{id, tal, id, tal, id, tar, tar}},
		{"a<b<c>>=d", []token.Kind{id, tal, id, tal, id, tar, tar, token.Equal, id}},
		{"a < b || c > d", []token.Kind{id, lt, id, token.OrOr, id, gt, id}},
		{"a<(b>c)>(d)", []token.Kind{id, tal, token.LParen, id, gt, id, token.RParen, tar, token.LParen, id, token.RParen}},
		{"f(a<b, c>d)", []token.Kind{id, token.LParen, id, tal, id, token.Comma, id, tar, id, token.RParen}},
		{"a[b<c]>d", []token.Kind{id, token.LBracket, id, lt, id, token.RBracket, gt, id}},
		{"x = a<<b;", []token.Kind{id, token.Equal, id, token.ShiftLeft, id, token.Semicolon}},
		{"let x = a < b && c > d;", []token.Kind{token.KwLet, id, token.Equal, id, lt, id, token.AndAnd, id, gt, id, token.Semicolon}},
		{
			"var<private> x: i32 = a<b;",
			[]token.Kind{token.KwVar, tal, id, tar, id, token.Colon, id, token.Equal, id, lt, id, token.Semicolon},
		},
		{"bitcast<u32>(x)", []token.Kind{token.KwBitcast, tal, id, tar, token.LParen, id, token.RParen}},
		{"a<b; c>d", []token.Kind{id, lt, id, token.Semicolon, id, gt, id}},
		{"a<{b>c}", []token.Kind{id, lt, token.LBrace, id, gt, id, token.RBrace}},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := kindsOf(t, tt.src)
			if !slices.Equal(got, tt.want) {
				t.Errorf("classify(%q)\n got: %v\nwant: %v", tt.src, kindNames(got), kindNames(tt.want))
			}
		})
	}
}

func TestClassifySplitSpans(t *testing.T) {
	toks := tokenize(t, "a<b>>=c", lexer.Options{})
	// a < b > >= placeholder c EOF
	if toks[3].Kind != tar || toks[3].Span.Start != 3 || toks[3].Span.End != 4 {
		t.Fatalf("closer = %v %v", toks[3].Kind.GoName(), toks[3].Span)
	}
	if toks[4].Kind != token.GreaterThanEqual || toks[4].Span.Start != 4 || toks[4].Span.End != 6 || toks[4].Text != ">=" {
		t.Fatalf("rest = %v %v %q", toks[4].Kind.GoName(), toks[4].Span, toks[4].Text)
	}
	if toks[5].Kind != token.Placeholder {
		t.Fatalf("second placeholder must survive, got %v", toks[5].Kind.GoName())
	}
}

func TestClassifySkipped(t *testing.T) {
	toks := tokenize(t, "a<b>", lexer.Options{SkipClassify: true})
	if toks[1].Kind != lt || toks[3].Kind != gt {
		t.Fatalf("SkipClassify still classified: %v %v", toks[1].Kind.GoName(), toks[3].Kind.GoName())
	}
}

func TestSplitTokenWithoutPlaceholderPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	toks := []token.Token{{Kind: gt}, {Kind: id}}
	lexer.SplitToken(toks, 0, tar, gt)
}
