package parser

import (
	"testing"

	"wgslfront/internal/ast"
)

const shader = `
enable f16;
diagnostic(off, derivative_uniformity);

struct Light {
  @align(16) pos : vec3<f32>,
  color : vec4<f32>,
}

@group(0) @binding(0) var<uniform> light : Light;
@id(3) override scale : f32 = 1.0;
const PI = 3.14159;
alias Vec = vec3<f32>;

@must_use
fn shade(n : Vec) -> f32 {
  let d = max(dot(n, light.pos), 0.0);
  return d * scale;
}

@fragment
fn main(@location(0) n : Vec) -> @location(0) vec4<f32> {
  var acc = 0.0;
  for (var i = 0; i < 4; i++) {
    if (i == 2) { continue; } else if i == 3 { break; }
    acc += shade(n);
  }
  loop {
    acc = acc * 0.5;
    continuing { break if acc < 0.1; }
  }
  switch (u32(acc)) {
    case 0u, 1u: { acc = 1.0; }
    default { }
  }
  while acc > 2.0 { acc -= 1.0; }
  _ = PI;
  const_assert PI > 3.0;
  return vec4<f32>(acc);
}
`

func TestParseFullShader(t *testing.T) {
	p := parseSource(t, shader)
	if p.bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(p.bag))
	}

	m := p.builder.Module
	if len(m.Enables) != 1 || len(m.Diagnostics) != 1 {
		t.Fatalf("directives: enables=%d diagnostics=%d", len(m.Enables), len(m.Diagnostics))
	}

	kinds := map[string]ast.DeclKind{
		"Light": ast.DeclStruct,
		"light": ast.DeclVar,
		"scale": ast.DeclOverride,
		"PI":    ast.DeclConst,
		"Vec":   ast.DeclAlias,
		"shade": ast.DeclFunc,
		"main":  ast.DeclFunc,
	}
	for name, want := range kinds {
		if _, d := p.decl(t, name); d.Kind != want {
			t.Errorf("%s: kind %v, want %v", name, d.Kind, want)
		}
	}

	id, _ := p.decl(t, "light")
	v, _ := p.builder.Decls.Var(id)
	if p.builder.IdentName(v.AddressSpace) != "uniform" {
		t.Errorf("address space = %q", p.builder.IdentName(v.AddressSpace))
	}

	body := p.funcBody(t, "main")
	var got []ast.StmtKind
	for _, s := range body {
		got = append(got, p.builder.Stmts.Get(s).Kind)
	}
	want := []ast.StmtKind{
		ast.StmtDecl, ast.StmtFor, ast.StmtLoop, ast.StmtSwitch, ast.StmtWhile,
		ast.StmtAssign, ast.StmtConstAssert, ast.StmtReturn,
	}
	if len(got) != len(want) {
		t.Fatalf("statements = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("statement %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDirectiveErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"enable(f16);", "enable directives don't take parenthesis"},
		{"requires(foo);", "requires directives don't take parenthesis"},
		{"requires foo;", "feature 'foo' is not supported"},
		{"const a = 1;\nenable f16;", "directives must come before all global declarations"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			p := parseSource(t, tt.src)
			msgs := p.bag.Messages()
			if len(msgs) == 0 || msgs[0] != tt.want {
				t.Fatalf("got %s, want %q", diagnosticsSummary(p.bag), tt.want)
			}
		})
	}
}

func TestEveryNodeHasUniqueID(t *testing.T) {
	p := parseSource(t, shader)
	seen := make(map[ast.NodeID]bool)
	for _, e := range p.builder.Exprs.Arena.Slice() {
		if e.Node == ast.NoNodeID {
			continue
		}
		if seen[e.Node] {
			t.Fatalf("node %d reused", e.Node)
		}
		seen[e.Node] = true
	}
	if len(seen) == 0 || len(seen) > p.builder.NodeCount() {
		t.Fatalf("node ids: %d seen, %d allocated", len(seen), p.builder.NodeCount())
	}
}

func FuzzParse(f *testing.F) {
	f.Add(shader)
	f.Add("fn f() { let a = ; let b = 1; var c = ; }")
	f.Add("const x = a<b>(c) > d >> e;")
	f.Add("fn f() { loop { continuing { break if } } }")
	f.Fuzz(func(t *testing.T, src string) {
		p := parseSource(t, src)
		if p.result.Errors > 0 && !p.bag.HasErrors() {
			t.Fatal("error count without diagnostics")
		}
	})
}
