package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wgslfront/internal/diag"
	"wgslfront/internal/source"
)

const goodShader = `
@group(0) @binding(0) var<storage, read_write> data: array<u32>;
@compute @workgroup_size(64) fn main(@builtin(global_invocation_id) id: vec3<u32>) {
  data[id.x] = data[id.x] * 2u;
}
`

const badShader = `
const x: i32 = 1u;
fn f() -> i32 { }
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.wgsl", goodShader)
	bad := writeFile(t, dir, "bad.wgsl", badShader)
	fs := source.NewFileSet()

	res, err := CheckFile(context.Background(), fs, good, Options{MaxDiagnostics: 20})
	if err != nil {
		t.Fatal(err)
	}
	if !res.OK() || res.Module == nil || res.Builder == nil {
		t.Fatalf("expected clean result, got %v", res.Bag.Messages())
	}
	if _, ok := res.Module.Function("main"); !ok {
		t.Fatal("entry point not resolved")
	}

	res, err = CheckFile(context.Background(), fs, bad, Options{MaxDiagnostics: 20})
	if err != nil {
		t.Fatal(err)
	}
	if res.OK() {
		t.Fatal("expected errors")
	}
	msgs := strings.Join(res.Bag.Messages(), "\n")
	for _, want := range []string{"cannot initialize const", "missing return"} {
		if !strings.Contains(msgs, want) {
			t.Errorf("missing %q in:\n%s", want, msgs)
		}
	}
	// bag отсортирован по позиции
	items := res.Bag.Items()
	for i := 1; i < len(items); i++ {
		if items[i].Primary.Start < items[i-1].Primary.Start {
			t.Fatalf("diagnostics not sorted: %v", res.Bag.Messages())
		}
	}
}

func TestCheckFileMissing(t *testing.T) {
	_, err := CheckFile(context.Background(), source.NewFileSet(), filepath.Join(t.TempDir(), "nope.wgsl"), Options{})
	if err == nil {
		t.Fatal("expected load error")
	}
}

func TestCheckTimings(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.wgsl", []byte(goodShader)))
	res := CheckLoaded(context.Background(), file, Options{Timings: true})
	if res.Timing == nil || len(res.Timing.Phases) != 2 {
		t.Fatalf("expected two timed phases, got %+v", res.Timing)
	}
	var found bool
	for _, d := range res.Bag.Items() {
		if d.Code == diag.ObsTimings {
			found = true
			if len(d.Notes) != 1 || !strings.Contains(d.Notes[0].Msg, `"phases"`) {
				t.Fatalf("timing payload missing: %+v", d)
			}
		}
	}
	if !found {
		t.Fatal("no OBS6001 diagnostic")
	}
}

func TestTokenizeAndParse(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.wgsl", "var<private> a: array<f32, 4>;\n")
	tok, err := Tokenize(path, false)
	if err != nil {
		t.Fatal(err)
	}
	if tok.Errors != 0 || len(tok.Tokens) < 10 {
		t.Fatalf("unexpected tokens: %d errors, %d tokens", tok.Errors, len(tok.Tokens))
	}
	pr, err := Parse(context.Background(), path, 10)
	if err != nil {
		t.Fatal(err)
	}
	if pr.Bag.HasErrors() || len(pr.Builder.Module.Decls) != 1 {
		t.Fatalf("unexpected parse result: %v", pr.Bag.Messages())
	}
}

const glslShader = `#version 450
layout(location = 0) out vec4 fragColor;
uniform sampler2D tex;
void main() {
  fragColor = texture2D(tex, gl_FragCoord.xy);
}
`

func dialectNotes(res *Result) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range res.Bag.Items() {
		if d.Code == diag.SynForeignDialect {
			out = append(out, d)
		}
	}
	return out
}

func TestCheckDialectHint(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("frag.wgsl", []byte(glslShader)))

	res := CheckLoaded(context.Background(), file, Options{MaxDiagnostics: 50})
	hints := dialectNotes(res)
	if len(hints) != 1 {
		t.Fatalf("expected one dialect hint, got %d: %v", len(hints), res.Bag.Messages())
	}
	h := hints[0]
	if h.Severity != diag.SevInfo || !strings.Contains(h.Message, "GLSL") {
		t.Fatalf("unexpected hint: %+v", h)
	}
	if len(h.Notes) == 0 || len(h.Notes) > maxDialectNotes {
		t.Fatalf("expected 1..%d notes, got %d", maxDialectNotes, len(h.Notes))
	}

	res = CheckLoaded(context.Background(), file, Options{MaxDiagnostics: 50, NoDialectHints: true})
	if n := len(dialectNotes(res)); n != 0 {
		t.Fatalf("hints disabled but got %d", n)
	}
}

func TestCheckNoDialectHintForWGSL(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("bad.wgsl", []byte(badShader)))
	res := CheckLoaded(context.Background(), file, Options{MaxDiagnostics: 50})
	if res.OK() {
		t.Fatal("expected errors")
	}
	if n := len(dialectNotes(res)); n != 0 {
		t.Fatalf("unexpected dialect hint: %v", res.Bag.Messages())
	}
}

func TestOptionsDigestDialectHints(t *testing.T) {
	if optionsDigest(Options{}, "v") == optionsDigest(Options{NoDialectHints: true}, "v") {
		t.Fatal("NoDialectHints must change the cache key")
	}
}
