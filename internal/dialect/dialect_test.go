package dialect_test

import (
	"strings"
	"testing"

	"wgslfront/internal/dialect"
	"wgslfront/internal/lexer"
	"wgslfront/internal/source"
)

func classify(t *testing.T, src string) (*dialect.Evidence, dialect.Classification) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("x.wgsl", []byte(src)))
	toks := lexer.Tokenize(file, lexer.Options{SkipClassify: true})
	ev := dialect.Collect(file, toks)
	return ev, dialect.Classifier{}.Classify(ev)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want dialect.Kind
	}{
		{"glsl", "#version 450\nvoid main() { gl_Position = vec4(0.0); }\n", dialect.GLSL},
		{"hlsl", "cbuffer Params : register(b0) { float4x4 mvp; };\nfloat4 main(float4 p : POSITION) : SV_Target { return p; }\n", dialect.HLSL},
		{"metal", "using namespace metal;\nkernel void k(device float* d [[buffer(0)]]) {}\n", dialect.MSL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := classify(t, tt.src)
			if c.Kind != tt.want {
				t.Fatalf("got %v (score %d, runner-up %v %d), want %v", c.Kind, c.Score, c.RunnerUp, c.RunnerUpScore, tt.want)
			}
			if !dialect.Eligible(c) {
				t.Fatalf("classification not eligible: %+v", c)
			}
			if c.Confidence <= 0 || c.Confidence > 1 {
				t.Fatalf("confidence out of range: %v", c.Confidence)
			}
		})
	}
}

func TestWGSLIsNotForeign(t *testing.T) {
	src := `@group(0) @binding(0) var<uniform> u: vec4<f32>;
@fragment fn main(@builtin(position) p: vec4<f32>) -> @location(0) vec4<f32> { return u; }
`
	_, c := classify(t, src)
	if dialect.Eligible(c) {
		t.Fatalf("plain WGSL classified as %v: %+v", c.Kind, c)
	}
}

func TestEligibleNeedsDominance(t *testing.T) {
	c := dialect.Classification{Kind: dialect.HLSL, Score: 7, RunnerUp: dialect.MSL, RunnerUpScore: 6}
	if dialect.Eligible(c) {
		t.Fatal("close runner-up must suppress the hint")
	}
	c.RunnerUpScore = 5
	if !dialect.Eligible(c) {
		t.Fatal("margin of 2 should be enough")
	}
	if dialect.Eligible(dialect.Classification{Kind: dialect.GLSL, Score: 3}) {
		t.Fatal("weak evidence must not be eligible")
	}
}

func TestEvidenceForOrdersByScore(t *testing.T) {
	ev, _ := classify(t, "void main() { float x = gl_FragCoord.x; }")
	hints := ev.For(dialect.GLSL)
	if len(hints) < 2 {
		t.Fatalf("expected several GLSL hints, got %d", len(hints))
	}
	for i := 1; i < len(hints); i++ {
		if hints[i].Score > hints[i-1].Score {
			t.Fatalf("hints not sorted: %+v", hints)
		}
	}
	if !strings.Contains(dialect.Describe(hints[0]), "gl_FragCoord") {
		t.Fatalf("strongest hint should be the builtin, got %q", hints[0].Reason)
	}
}

func TestKindString(t *testing.T) {
	if dialect.MSL.String() != "Metal" || dialect.Unknown.String() == "" {
		t.Fatalf("unexpected names: %q %q", dialect.MSL, dialect.Unknown)
	}
}
