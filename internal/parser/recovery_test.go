package parser

import (
	"strings"
	"testing"

	"wgslfront/internal/ast"
)

func TestResyncKeepsValidStatement(t *testing.T) {
	p := parseSource(t, "fn f() { let a = ; let b = 1; var c = ; }")

	msgs := p.bag.Messages()
	want := []string{
		"missing initializer for 'let' declaration",
		"missing initializer for 'var' declaration",
	}
	if len(msgs) != len(want) {
		t.Fatalf("want %d errors, got: %s", len(want), diagnosticsSummary(p.bag))
	}
	for i := range want {
		if msgs[i] != want[i] {
			t.Errorf("error %d: got %q, want %q", i, msgs[i], want[i])
		}
	}

	body := p.funcBody(t, "f")
	if len(body) != 1 {
		t.Fatalf("want the single valid statement to survive, got %d", len(body))
	}
	st, ok := p.builder.Stmts.Decl(body[0])
	if !ok {
		t.Fatalf("surviving statement is %v", p.builder.Stmts.Get(body[0]).Kind)
	}
	if name := p.builder.Name(p.builder.Decls.Get(st.Decl).Name.Name); name != "b" {
		t.Fatalf("survivor is %q, want b", name)
	}
}

func TestResyncAcrossDeclarations(t *testing.T) {
	src := `
struct S { a : i32 b : f32 };
const ok = 1;
fn g() -> i32 { return ; }
fn h() {}
`
	p := parseSource(t, src)
	if p.bag.ErrorCount() < 1 {
		t.Fatal("expected errors")
	}
	// после ошибок парсер продолжает: ok и h на месте
	p.decl(t, "ok")
	p.decl(t, "h")
}

func TestDepthGuard(t *testing.T) {
	const n = 10000
	tests := []struct {
		name string
		src  string
	}{
		{"unary not", "const x = " + strings.Repeat("!", n) + "true;"},
		{"parens", "const x = " + strings.Repeat("(", n) + "1" + strings.Repeat(")", n) + ";"},
		{"complement", "const x = " + strings.Repeat("~", n) + "1;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parseSource(t, tt.src)
			count := 0
			for _, m := range p.bag.Messages() {
				if m == "maximum parser recursive depth reached" {
					count++
				}
			}
			if count != 1 {
				t.Fatalf("want exactly one depth error, got %d: %s", count, diagnosticsSummary(p.bag))
			}
		})
	}
}

func TestDepthGuardBlocks(t *testing.T) {
	const n = 1000
	src := "fn f() " + strings.Repeat("{", n) + strings.Repeat("}", n)
	p := parseSource(t, src)
	found := false
	for _, m := range p.bag.Messages() {
		if m == "maximum parser recursive depth reached" {
			found = true
		}
	}
	if !found {
		t.Fatalf("nested blocks did not hit the depth guard: %s", diagnosticsSummary(p.bag))
	}
}

func TestMaxErrorsStopsParsing(t *testing.T) {
	src := strings.Repeat("fn f() { let = ; }\n", 50)
	p := parseSourceWithOptions(t, src, Options{MaxErrors: 5})
	if p.result.Errors > 6 {
		t.Fatalf("parser kept going: %d errors", p.result.Errors)
	}
	last := p.bag.Items()[p.bag.Len()-1]
	if last.Message != "stopping after 5 errors" {
		t.Fatalf("last diagnostic = %q", last.Message)
	}
}

func TestLexerErrorReported(t *testing.T) {
	p := parseSource(t, "const x = 1; /* open")
	if !p.bag.HasErrors() {
		t.Fatal("unterminated comment must be reported")
	}
	if len(p.builder.Module.Decls) != 1 {
		t.Fatalf("decls = %d", len(p.builder.Module.Decls))
	}
}

func TestErroredFunctionStillInModule(t *testing.T) {
	p := parseSource(t, "fn f() { let a = ; }\nfn g() {}")
	_, d := p.decl(t, "f")
	if d.Kind != ast.DeclFunc {
		t.Fatalf("f kind = %v", d.Kind)
	}
	p.decl(t, "g")
}
