package lexer_test

import (
	"slices"
	"strings"
	"testing"

	"wgslfront/internal/lexer"
	"wgslfront/internal/token"
)

func TestTokenizeFunction(t *testing.T) {
	got := kindsOf(t, "@fragment fn main() -> @location(0) vec4f { return vec4f(1.5f); }")
	want := []token.Kind{
		token.Attr, id, token.KwFn, id, token.LParen, token.RParen, token.Arrow,
		token.Attr, id, token.LParen, token.IntLit, token.RParen, id, token.LBrace,
		token.KwReturn, id, token.LParen, token.FloatLitF, token.RParen, token.Semicolon, token.RBrace,
	}
	if !slices.Equal(got, want) {
		t.Fatalf("got  %v\nwant %v", kindNames(got), kindNames(want))
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		src   string
		kind  token.Kind
		int   int64
		float float64
	}{
		{"42", token.IntLit, 42, 0},
		{"0", token.IntLit, 0, 0},
		{"42i", token.IntLitI, 42, 0},
		{"42u", token.IntLitU, 42, 0},
		{"0x1F", token.IntLit, 31, 0},
		{"0x1Fu", token.IntLitU, 31, 0},
		{"1.5", token.FloatLit, 0, 1.5},
		{".5", token.FloatLit, 0, 0.5},
		{"1.", token.FloatLit, 0, 1},
		{"1e3", token.FloatLit, 0, 1000},
		{"2.5e-1f", token.FloatLitF, 0, 0.25},
		{"2h", token.FloatLitH, 0, 2},
		{"1f", token.FloatLitF, 0, 1},
		{"0f", token.FloatLitF, 0, 0},
		{"01.5", token.FloatLit, 0, 1.5},
		{"0x1.8p1", token.FloatLit, 0, 3},
		{"0x1p4f", token.FloatLitF, 0, 16},
		{"0x.8", token.FloatLit, 0, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			toks := tokenize(t, tt.src, lexer.Options{})
			tok := toks[0]
			if tok.Kind != tt.kind {
				t.Fatalf("kind = %s (%q), want %s", tok.Kind.GoName(), tok.Text, tt.kind.GoName())
			}
			if tok.Int != tt.int || tok.Float != tt.float {
				t.Errorf("value = %d / %g", tok.Int, tok.Float)
			}
			if toks[1].Kind != token.EOF {
				t.Errorf("literal %q was not consumed whole, next %s", tt.src, toks[1].Kind.GoName())
			}
		})
	}
}

func TestErrorTokens(t *testing.T) {
	tests := []struct {
		src string
		msg string
	}{
		{"01", "integer literal cannot have leading 0s"},
		{"3000000000i", "value cannot be represented as 'i32'"},
		{"5000000000u", "value cannot be represented as 'u32'"},
		{"99999999999999999999", "value cannot be represented as 'abstract-int'"},
		{"1e", "incomplete exponent for floating point literal: 1e"},
		{"1e40f", "value cannot be represented as 'f32'"},
		{"70000h", "value cannot be represented as 'f16'"},
		{"$", "invalid character found"},
		{"/* open", "unterminated block comment"},
		{"__a", "identifiers must not start with two or more underscores"},
		{"a\x00", "null character found"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			toks := tokenize(t, tt.src, lexer.Options{})
			var errTok *token.Token
			for i := range toks {
				if toks[i].Kind == token.Error {
					errTok = &toks[i]
					break
				}
			}
			if errTok == nil {
				t.Fatalf("no error token in %q", tt.src)
			}
			if errTok.Text != tt.msg {
				t.Errorf("message = %q, want %q", errTok.Text, tt.msg)
			}
			if toks[len(toks)-1].Kind != token.EOF {
				t.Errorf("stream must end with EOF")
			}
		})
	}
}

func TestPlaceholdersEmitted(t *testing.T) {
	toks := tokenize(t, "a >> b && c >>= d", lexer.Options{SkipClassify: true})
	var got []token.Kind
	for _, tok := range toks {
		got = append(got, tok.Kind)
	}
	want := []token.Kind{
		id, token.ShiftRight, token.Placeholder, id, token.AndAnd, token.Placeholder,
		id, token.ShiftRightEqual, token.Placeholder, token.Placeholder, id, token.EOF,
	}
	if !slices.Equal(got, want) {
		t.Fatalf("got  %v\nwant %v", kindNames(got), kindNames(want))
	}
}

func TestCommentsAndBlanks(t *testing.T) {
	src := "/* a /* nested */ b */ x // tail\n y\u200ez"
	got := kindsOf(t, src)
	if !slices.Equal(got, []token.Kind{id, id, id}) {
		t.Fatalf("got %v", kindNames(got))
	}
}

func TestUnicodeIdentifiers(t *testing.T) {
	toks := tokenize(t, "ΔΘ _x _ réel", lexer.Options{})
	if toks[0].Kind != id || toks[0].Text != "ΔΘ" {
		t.Errorf("first = %s %q", toks[0].Kind.GoName(), toks[0].Text)
	}
	if toks[1].Kind != id || toks[1].Text != "_x" {
		t.Errorf("second = %s %q", toks[1].Kind.GoName(), toks[1].Text)
	}
	if toks[2].Kind != token.Underscore {
		t.Errorf("lone underscore = %s", toks[2].Kind.GoName())
	}
	if toks[3].Text != "réel" {
		t.Errorf("fourth = %q", toks[3].Text)
	}
}

func TestIsNFC(t *testing.T) {
	if !lexer.IsNFC("caf\u00e9") {
		t.Errorf("precomposed form must be NFC")
	}
	if lexer.IsNFC("cafe\u0301") {
		t.Errorf("decomposed form must not be NFC")
	}
}

func TestTokenLimit(t *testing.T) {
	toks := tokenize(t, strings.Repeat("a ", 100), lexer.Options{MaxTokens: 10})
	if len(toks) != 12 {
		t.Fatalf("len = %d", len(toks))
	}
	if toks[10].Kind != token.Error || toks[11].Kind != token.EOF {
		t.Fatalf("tail = %s %s", toks[10].Kind.GoName(), toks[11].Kind.GoName())
	}
}

func FuzzTokenize(f *testing.F) {
	for _, seed := range []string{
		"a<b>(c)", "array<vec3<i32>,5>", "a<b<c>>=d", "0x1.8p3h", "/* /* */", "fn f() { x--; }",
	} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, src string) {
		toks := tokenize(t, src, lexer.Options{})
		if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
			t.Fatalf("stream must end with EOF")
		}
		for i := range toks {
			if toks[i].Span.End < toks[i].Span.Start || int(toks[i].Span.End) > len(src) {
				t.Fatalf("bad span %v for token %d", toks[i].Span, i)
			}
		}
	})
}
