package parser

import (
	"testing"
)

func TestParserErrorMessages(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"fn f() { return 1.0 + <; }", "1:23 unable to parse right side of + expression"},
		{"fn f() { return 1 & >; }", "1:21 unable to parse right side of & expression"},
		{"fn f() { return 1 == >; }", "1:22 unable to parse right side of == expression"},
		{"fn f() { return !<; }", "1:18 unable to parse right side of ! expression"},
		{"@invariant alias e=u32;", "1:2 unexpected attributes"},
		{"@const fn main() { }", "1:2 const attribute may not appear in shaders"},
		{"fn f() { x = y[^]; }", "1:16 unable to parse expression inside []"},
		{"fn f() { x = y[1; }", "1:17 expected ']' for index accessor"},
		{"fn f() { a; }", "1:11 expected '=' for assignment"},
		{"fn f() { a : i32; }", "1:10 expected 'var' for variable declaration"},
		{"fn f() { a = 1 }", "1:16 expected ';' for assignment statement"},
		{"normalize = 5;", "1:1 statement found outside of function body"},
		{"fn f() { a = >; }", "1:14 unable to parse right side of assignment"},
		{"fn f() { x = bitcast(y); }", "1:21 expected '<' for bitcast expression"},
		{"fn f() { x = bitcast<u32(y); }", "1:21 missing closing '>' for bitcast expression"},
		{"fn f() { loop { break } }", "1:23 expected ';' for break statement"},
		{"fn f() { f(<); }", "1:12 expected ')' for function call"},
		{"fn f() { f() }", "1:14 expected ';' for function call"},
		{"fn f() { x = vec2<u32>1,2); }", "1:23 expected ';' for assignment statement"},
		{"fn f() { let >; }", "1:14 expected identifier for 'let' declaration"},
		{"fn f() { let a : i32; }", "1:21 expected '=' for 'let' declaration"},
		{"fn f() { let a : i32 = >; }", "1:24 missing initializer for 'let' declaration"},
		{"fn f() { discard }", "1:18 expected ';' for discard statement"},
		{"fn f() { return }", "1:17 expected ';' for return statement"},
		{"fn f() { for (var i : i32 = 0 i < 8; i=i+1) {} }", "1:31 expected ';' for initializer in for loop"},
		{"fn f() { for (var i : i32 = 0; i < 8 i=i+1) {} }", "1:38 expected ';' for condition in for loop"},
		{"fn f() { for var i : i32 = 0; i < 8; i=i+1) {} }", "1:14 expected '(' for for loop"},
		{"fn f() { for (var i : i32 = 0; i < 8; i=i+1) }", "1:46 expected '{' for for loop"},
		{"fn f() { const_assert; }", "1:22 unable to parse condition expression"},
		{"fn f() { const_assert true }", "1:28 expected ';' for statement"},
		{"@workgroup_size() fn f() {}", "1:2 workgroup_size expects at least 1 argument"},
		{"@workgroup_size(1, fn) fn f() {}", "1:20 expected expression for workgroup_size"},
		{"fn () {}", "1:4 expected identifier for function declaration"},
		{"fn f) {}", "1:5 expected '(' for function declaration"},
		{"fn f( {}", "1:7 expected ')' for function declaration"},
		{"fn f() f32 {}", "1:8 expected '{' for function body"},
		{"fn f() -> 1 {}", "1:11 unable to determine function return type"},
		{"struct {};", "1:8 expected identifier for struct declaration"},
		{"struct S { 1 : i32, };", "1:12 expected '}' for struct declaration"},
		{"alias meow = 1;", "1:14 invalid type alias"},
		{"alias meow f32", "1:12 expected '=' for type alias"},
		{"var i : array<u32, 3;", "1:14 expected ';' for variable declaration"},
		{"@location(1) group(2) var i : i32;", "1:14 expected declaration after attributes"},
		{"@location 1) var i : i32;", "1:11 expected '(' for location attribute"},
		{"@location(if) var i : i32;", "1:11 expected expression for location"},
		{"var<private i : i32", "1:4 missing closing '>' for variable declaration"},
		{"fn f() { if (true {} }", "1:19 expected ')'"},
		{"fn f() { if (>) {} }", "1:14 unable to parse expression"},
		{"fn f() { loop }", "1:15 expected '{' for loop"},
		{"fn f() { x = a.; }", "1:16 expected identifier for member accessor"},
		{"fn f() { var x : i32; let y = x++; }", "1:32 expected ';' for variable declaration"},
		{"fn f() { switch(1) { case ^: } }", "1:27 expected case selector expression or `default`"},
		{"fn f() { switch(1) { case 1: } }", "1:30 expected '{' for case statement"},
		{"unexpected", "1:1 unexpected token"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			p := parseSource(t, tt.src)
			if !p.bag.HasErrors() {
				t.Fatalf("expected an error, got none")
			}
			if got := p.firstError(); got != tt.want {
				t.Fatalf("first error mismatch\n got: %s\nwant: %s\n all: %s", got, tt.want, diagnosticsSummary(p.bag))
			}
		})
	}
}

func TestReservedKeywordAsIdentifier(t *testing.T) {
	p := parseSource(t, "var<private> typedef : i32;")
	if got, want := p.firstError(), "1:14 'typedef' is a reserved keyword"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestModuleScopeLet(t *testing.T) {
	p := parseSource(t, "let x = 1;")
	if got, want := p.firstError(), "1:1 module-scope 'let' is invalid, use 'const'"; got != want {
		t.Fatalf("got %q, want %q (%s)", got, want, diagnosticsSummary(p.bag))
	}
}

func TestPrefixIncrementReserved(t *testing.T) {
	p := parseSource(t, "fn f() { var a = 1; let b = ++a; }")
	found := false
	for _, m := range p.bag.Messages() {
		if m == "prefix increment and decrement operators are reserved for a future WGSL version" {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing reserved-operator error: %s", diagnosticsSummary(p.bag))
	}
}
