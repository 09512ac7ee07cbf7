package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"wgslfront/internal/diag"
	"wgslfront/internal/source"
)

func loadTemp(t *testing.T, content string) (*source.FileSet, source.FileID, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a.wgsl")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return fs, id, path
}

func span(id source.FileID, start, end uint32) source.Span {
	return source.Span{File: id, Start: start, End: end}
}

func TestApplyAll(t *testing.T) {
	src := "let x = 1\nlet y = 2;\n"
	fs, id, path := loadTemp(t, src)

	diagnostics := []diag.Diagnostic{
		{Code: diag.SynExpectedToken, Primary: span(id, 10, 13), Message: "expected ';'",
			Fixes: []diag.Fix{InsertAfter("insert ';'", span(id, 8, 9), ";")}},
		{Code: diag.SynModuleScopeLet, Primary: span(id, 0, 3), Message: "module-scope 'let'",
			Fixes: []diag.Fix{ReplaceSpan("use 'const'", span(id, 0, 3), "const", "let")}},
		{Code: diag.SynModuleScopeLet, Primary: span(id, 10, 13), Message: "module-scope 'let'",
			Fixes: []diag.Fix{ReplaceSpan("use 'const'", span(id, 10, 13), "const", "let")}},
	}

	res, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeAll})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 3 || len(res.Skipped) != 0 {
		t.Fatalf("applied=%d skipped=%+v", len(res.Applied), res.Skipped)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "const x = 1;\nconst y = 2;\n"; string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if len(res.FileChanges) != 1 || res.FileChanges[0].EditCount != 3 {
		t.Fatalf("unexpected file changes %+v", res.FileChanges)
	}
}

func TestApplyOnceAndCode(t *testing.T) {
	src := "let a = 1;\nlet b = 2;\n"
	fs, id, _ := loadTemp(t, src)
	diagnostics := []diag.Diagnostic{
		{Code: diag.SynModuleScopeLet, Primary: span(id, 11, 14),
			Fixes: []diag.Fix{ReplaceSpan("use 'const'", span(id, 11, 14), "const", "let")}},
		{Code: diag.SynModuleScopeLet, Primary: span(id, 0, 3),
			Fixes: []diag.Fix{ReplaceSpan("use 'const'", span(id, 0, 3), "const", "let")}},
	}

	res, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeOnce, DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if got := string(res.FileChanges[0].Content); got != "const a = 1;\nlet b = 2;\n" {
		t.Fatalf("once applied the wrong fix: %q", got)
	}

	if _, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeCode, Code: diag.SynExpectedToken, DryRun: true}); !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
}

func TestApplySkipsConflictsAndStaleText(t *testing.T) {
	fs, id, _ := loadTemp(t, "let a = 1;\n")
	diagnostics := []diag.Diagnostic{
		{Code: diag.SynModuleScopeLet, Primary: span(id, 0, 3),
			Fixes: []diag.Fix{
				ReplaceSpan("use 'const'", span(id, 0, 3), "const", "let"),
				DeleteSpan("drop it", span(id, 0, 5), "let a"),
			}},
		{Code: diag.SynExpectedToken, Primary: span(id, 4, 5),
			Fixes: []diag.Fix{ReplaceSpan("rename", span(id, 4, 5), "b", "z")}},
	}
	res, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Applied) != 1 || len(res.Skipped) != 2 {
		t.Fatalf("applied=%+v skipped=%+v", res.Applied, res.Skipped)
	}
	if res.Skipped[1].Reason != "existing text does not match expected content" {
		t.Fatalf("unexpected reason %q", res.Skipped[1].Reason)
	}
}

func TestApplyRefusesVirtualFiles(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("v.wgsl", []byte("let a = 1;"))
	diagnostics := []diag.Diagnostic{{
		Code: diag.SynModuleScopeLet, Primary: span(id, 0, 3),
		Fixes: []diag.Fix{ReplaceSpan("use 'const'", span(id, 0, 3), "const", "let")},
	}}
	res, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) || len(res.Skipped) != 1 {
		t.Fatalf("err=%v skipped=%+v", err, res.Skipped)
	}
}

func TestSpansConflict(t *testing.T) {
	ins := func(p uint32) diag.FixEdit { return diag.FixEdit{Span: source.Span{Start: p, End: p}} }
	rep := func(s, e uint32) diag.FixEdit { return diag.FixEdit{Span: source.Span{Start: s, End: e}} }
	tests := []struct {
		a, b diag.FixEdit
		want bool
	}{
		{ins(3), ins(3), false},
		{ins(3), rep(0, 5), true},
		{ins(5), rep(0, 5), false},
		{rep(0, 3), rep(3, 5), false},
		{rep(0, 4), rep(3, 5), true},
	}
	for i, tt := range tests {
		if got := spansConflict(tt.a, tt.b); got != tt.want {
			t.Errorf("case %d: got %v", i, got)
		}
	}
}
