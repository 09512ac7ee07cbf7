package parser

import (
	"testing"
)

func TestExpressionShapes(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 * 2 + 3", "((1 * 2) + 3)"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"a & b & c", "((a & b) & c)"},
		{"a ^ b ^ c", "((a ^ b) ^ c)"},
		{"a < b", "(a < b)"},
		{"a << 2u", "(a << 2)"},
		{"a + 1 < b * 2", "((a + 1) < (b * 2))"},
		{"a && b && c", "((a && b) && c)"},
		{"a < b && c >= d", "((a < b) && (c >= d))"},
		{"-a * b", "((-a) * b)"},
		{"!x", "(!x)"},
		{"*p + 1", "((*p) + 1)"},
		{"a--b", "(a - (-b))"},
		{"a<b>(c)", "a<b>(c)"},
		{"vec2<vec2<f32>>(v)", "vec2<vec2<f32>>(v)"},
		{"array<i32, 3>(1, 2, 3)", "array<i32, 3>(1, 2, 3)"},
		{"s.m[1].xy", "s.m[1].xy"},
		{"bitcast<u32>(1.5)", "bitcast<u32>(1.5)"},
		{"f(a, b,)", "f(a, b)"},
		{"(a + b) * c", "((a + b) * c)"},
		{"true", "true"},
		{"1u", "1"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got, p := parseExpr(t, tt.src)
			if p.bag.HasErrors() {
				t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(p.bag))
			}
			if got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestOperatorMixing(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"a && b || c", "mixing '&&' and '||' requires parenthesis"},
		{"a & b | c", "mixing '&' and '|' requires parenthesis"},
		{"a << b << c", "mixing '<<' and '<<' requires parenthesis"},
		{"a + b << c", "mixing '+' and '<<' requires parenthesis"},
		{"a == b == c", "mixing '==' and '==' requires parenthesis"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, p := parseExpr(t, tt.src)
			msgs := p.bag.Messages()
			if len(msgs) == 0 || msgs[0] != tt.want {
				t.Fatalf("got %s, want %q", diagnosticsSummary(p.bag), tt.want)
			}
		})
	}
}

func TestParenthesizedMixingAccepted(t *testing.T) {
	for _, src := range []string{"(a && b) || c", "(a & b) | c", "(a << b) << c"} {
		if _, p := parseExpr(t, src); p.bag.HasErrors() {
			t.Errorf("%s: %s", src, diagnosticsSummary(p.bag))
		}
	}
}

func TestSplitTokenSpans(t *testing.T) {
	p := parseSource(t, "var<private> v : vec2<vec2<f32>>;")
	if p.bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(p.bag))
	}
	id, _ := p.decl(t, "v")
	v, _ := p.builder.Decls.Var(id)
	typ := p.builder.Exprs.Get(v.Type)
	if got := p.fs.Text(typ.Span); got != "vec2<vec2<f32>>" {
		t.Fatalf("type span covers %q", got)
	}
	inner, _ := p.builder.Exprs.Ident(v.Type)
	if got := p.fs.Text(p.builder.Exprs.Get(inner.TemplateArgs[0]).Span); got != "vec2<f32>" {
		t.Fatalf("inner span covers %q", got)
	}
}
