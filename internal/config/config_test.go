package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"wgslfront/internal/builtin"
	"wgslfront/internal/diag"
	"wgslfront/internal/source"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadAndResolve(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[front]
extensions = ["f16", "chromium_experimental_push_constant"]
requires = ">= 0.1.0"
max_errors = 5

[diagnostics]
"chromium.unreachable_code" = "off"
unused_value = "warning"

[check]
exclude = ["vendor/*"]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.IsDefined("front", "max_errors") || cfg.IsDefined("front", "max_diagnostics") {
		t.Fatal("unexpected defined keys")
	}
	if cfg.Front.MaxDiagnostics != 100 {
		t.Fatalf("default max_diagnostics lost: %d", cfg.Front.MaxDiagnostics)
	}

	bag := diag.NewBag(10)
	s, err := cfg.Resolve(source.NewFileSet(), diag.BagReporter{Bag: bag}, "0.1.0-dev")
	if err != nil {
		t.Fatal(err)
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %v", bag.Messages())
	}
	if !s.Extensions.Has(builtin.ExtF16) || !s.Extensions.Has(builtin.ExtPushConstant) {
		t.Fatalf("extensions not applied: %v", s.Extensions.List())
	}
	if s.MaxErrors != 5 {
		t.Fatalf("MaxErrors = %d", s.MaxErrors)
	}
	if s.RuleSeverity[builtin.RuleUnreachableCode] != builtin.SeverityOff ||
		s.RuleSeverity[builtin.RuleUnusedValue] != builtin.SeverityWarning {
		t.Fatalf("rule severities not applied: %v", s.RuleSeverity)
	}
}

func TestResolveReportsProblems(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[front]
extensions = ["f17"]
requires = ">= 9.0"

[diagnostics]
no_such_rule = "off"
unused_value = "loud"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSet()
	bag := diag.NewBag(10)
	if _, err := cfg.Resolve(fs, diag.BagReporter{Bag: bag}, "0.1.0"); err != nil {
		t.Fatal(err)
	}

	want := map[diag.Code]string{
		diag.CfgUnknownExtension:  "unknown extension 'f17'",
		diag.CfgVersionConstraint: "does not satisfy requires",
		diag.CfgUnknownRule:       "unrecognized diagnostic rule 'no_such_rule'",
		diag.CfgInvalidFile:       "invalid severity 'loud'",
	}
	for _, d := range bag.Items() {
		sub, ok := want[d.Code]
		if !ok {
			t.Errorf("unexpected %s: %s", d.Code.ID(), d.Message)
			continue
		}
		if !strings.Contains(d.Message, sub) {
			t.Errorf("%s: %q does not contain %q", d.Code.ID(), d.Message, sub)
		}
		delete(want, d.Code)
	}
	if len(want) > 0 {
		t.Fatalf("missing diagnostics: %v", want)
	}

	// диагностика указывает на текст в самом файле
	d := bag.Items()[0]
	if got := fs.Text(d.Primary); got != `"f17"` {
		t.Fatalf("span text = %q", got)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "[front]\nextension = [\"f16\"]\n")
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "front.extension") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	path, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find: %v %v", ok, err)
	}
	if filepath.Dir(path) != root {
		t.Fatalf("found %s", path)
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		constraint, version string
		ok                  bool
	}{
		{">= 0.1.0", "0.1.0", true},
		{">= 0.1.0", "0.1.0-dev", true},
		{"^0.2", "0.1.5", false},
		{"~1.2", "1.2.9", true},
	}
	for _, tt := range tests {
		err := CheckVersion(tt.constraint, tt.version)
		if (err == nil) != tt.ok {
			t.Errorf("CheckVersion(%q, %q) = %v", tt.constraint, tt.version, err)
		}
	}
	if err := CheckVersion("not a constraint", "1.0.0"); err == nil {
		t.Error("invalid constraint accepted")
	}
}

func TestSelects(t *testing.T) {
	c := CheckConfig{Include: []string{"*.wgsl"}, Exclude: []string{"vendor/*", "skip_*.wgsl"}}
	tests := map[string]bool{
		"a.wgsl":         true,
		"sub/b.wgsl":     true,
		"vendor/c.wgsl":  false,
		"skip_this.wgsl": false,
		"notes.txt":      false,
	}
	for path, want := range tests {
		if got := c.Selects(path); got != want {
			t.Errorf("Selects(%q) = %v, want %v", path, got, want)
		}
	}
}
