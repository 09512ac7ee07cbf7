package parser

import (
	"testing"

	"wgslfront/internal/testkit"
)

func TestDeclSpansInvariants(t *testing.T) {
	src := `enable f16;
alias V = vec4<f32>;
struct S { a: f32, b: vec2<u32> }
const k = 3;
override scale: f32 = 1.0;
@group(0) @binding(0) var<uniform> s: S;
fn helper(x: f32) -> f32 { return x * scale; }
@fragment fn main() -> @location(0) V { return V(helper(s.a)); }
const_assert k > 2;
`
	p := parseSource(t, src)
	if p.bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(p.bag))
	}
	if err := testkit.CheckSpanInvariants(p.builder, p.file); err != nil {
		t.Fatal(err)
	}
}
