package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"wgslfront/internal/diag"
	"wgslfront/internal/source"
)

// TestJSONBasic проверяет базовое JSON форматирование
func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("fn main() {\n\tlet x = 1 $ 2;\n}")
	fileID := fs.AddVirtual("test.wgsl", content)

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.LexInvalidCharacter,
		source.Span{File: fileID, Start: 23, End: 24},
		"invalid character found",
	))

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{
		IncludePositions: true,
		PathMode:         PathModeBasename,
		IncludeNotes:     true,
		IncludeFixes:     true,
	})
	if err != nil {
		t.Fatalf("JSON() error: %v", err)
	}

	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("Invalid JSON output: %v\nOutput: %s", err, buf.String())
	}
	if output.Count != 1 || len(output.Diagnostics) != 1 {
		t.Fatalf("Expected 1 diagnostic, got %d", len(output.Diagnostics))
	}

	d := output.Diagnostics[0]
	if d.Severity != "ERROR" {
		t.Errorf("Expected severity=ERROR, got %s", d.Severity)
	}
	if d.Code != "LEX1001" {
		t.Errorf("Expected code=LEX1001, got %s", d.Code)
	}
	if d.Location.File != "test.wgsl" {
		t.Errorf("Expected file=test.wgsl, got %s", d.Location.File)
	}
	if d.Location.StartByte != 23 || d.Location.EndByte != 24 {
		t.Errorf("Expected bytes 23..24, got %d..%d", d.Location.StartByte, d.Location.EndByte)
	}
	if d.Location.StartLine != 2 || d.Location.StartCol != 12 {
		t.Errorf("Expected 2:12, got %d:%d", d.Location.StartLine, d.Location.StartCol)
	}
}

// TestJSONWithNotesAndFixes проверяет JSON с заметками и исправлениями
func TestJSONWithNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.wgsl", []byte("let x = 42"))

	d := diag.New(diag.SevError, diag.SynExpectedToken, source.Span{File: fileID, Start: 10, End: 10}, "expected ';'")
	d = d.WithNote(source.Span{File: fileID, Start: 0, End: 3}, "declaration starts here")
	d = d.WithFix("insert semicolon", diag.FixEdit{Span: source.Span{File: fileID, Start: 10, End: 10}, NewText: ";"})
	bag := diag.NewBag(10)
	bag.Add(d)

	tests := []struct {
		name      string
		opts      JSONOpts
		wantNotes int
		wantFixes int
	}{
		{"everything", JSONOpts{IncludeNotes: true, IncludeFixes: true}, 1, 1},
		{"notes only", JSONOpts{IncludeNotes: true}, 1, 0},
		{"bare", JSONOpts{}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := BuildDiagnosticsOutput(bag, fs, tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			got := out.Diagnostics[0]
			if len(got.Notes) != tt.wantNotes || len(got.Fixes) != tt.wantFixes {
				t.Fatalf("notes=%d fixes=%d, want %d/%d", len(got.Notes), len(got.Fixes), tt.wantNotes, tt.wantFixes)
			}
			if tt.wantFixes > 0 && got.Fixes[0].Edits[0].NewText != ";" {
				t.Errorf("unexpected edit %+v", got.Fixes[0].Edits[0])
			}
		})
	}
}

func TestJSONWithoutPositions(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.wgsl", []byte("$"))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevError, diag.LexInvalidCharacter, source.Span{File: fileID, Start: 0, End: 1}, "bad"))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "start_line") {
		t.Fatalf("positions must be omitted:\n%s", buf.String())
	}
}

func TestJSONMaxLimit(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.wgsl", []byte("$$$$$"))
	bag := diag.NewBag(10)
	for i := range uint32(5) {
		bag.Add(diag.New(diag.SevError, diag.LexInvalidCharacter, source.Span{File: fileID, Start: i, End: i + 1}, "bad"))
	}
	out, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 3})
	if err != nil {
		t.Fatal(err)
	}
	if out.Count != 3 {
		t.Fatalf("Expected count=3, got %d", out.Count)
	}
}

func TestJSONFixPreview(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("p.wgsl", []byte("let a = 42 // missing semicolon\nlet b = a"))
	semi := source.Span{File: fileID, Start: 10, End: 10}
	name := source.Span{File: fileID, Start: 36, End: 37}
	d := diag.New(diag.SevError, diag.SynExpectedToken, semi, "missing semicolon").
		WithFix("insert semicolon and rename",
			diag.FixEdit{Span: name, NewText: "c", OldText: "b"},
			diag.FixEdit{Span: semi, NewText: ";"})
	bag := diag.NewBag(1)
	bag.Add(d)

	out, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludeFixes: true, IncludePreviews: true})
	if err != nil {
		t.Fatal(err)
	}
	fix := out.Diagnostics[0].Fixes[0]
	if !fix.Applicable {
		t.Fatalf("fix must be applicable: %+v", fix)
	}
	wantBefore := []string{"let a = 42 // missing semicolon", "let b = a"}
	wantAfter := []string{"let a = 42; // missing semicolon", "let c = a"}
	if strings.Join(fix.BeforeLines, "|") != strings.Join(wantBefore, "|") {
		t.Errorf("before = %q, want %q", fix.BeforeLines, wantBefore)
	}
	if strings.Join(fix.AfterLines, "|") != strings.Join(wantAfter, "|") {
		t.Errorf("after = %q, want %q", fix.AfterLines, wantAfter)
	}
	if fix.Edits[0].OldText != "b" {
		t.Errorf("old_text lost: %+v", fix.Edits[0])
	}
}

// TestJSONStaleFix: правка, чей OldText не совпадает с исходником, не применима
// и не получает превью.
func TestJSONStaleFix(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("s.wgsl", []byte("let value = 1;"))
	span := source.Span{File: fileID, Start: 4, End: 9}
	d := diag.New(diag.SevWarning, diag.ResUnusedValue, span, "unused").
		WithFix("rename", diag.FixEdit{Span: span, NewText: "_value", OldText: "other"})
	bag := diag.NewBag(1)
	bag.Add(d)

	out, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludeFixes: true, IncludePreviews: true})
	if err != nil {
		t.Fatal(err)
	}
	fix := out.Diagnostics[0].Fixes[0]
	if fix.Applicable || fix.AfterLines != nil {
		t.Fatalf("stale fix must be marked and skipped: %+v", fix)
	}

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowFixes: true, ShowPreview: true})
	if !strings.Contains(buf.String(), "rename (stale)") || strings.Contains(buf.String(), "preview:") {
		t.Fatalf("unexpected pretty output:\n%s", buf.String())
	}
}

func TestJSONRuleAndNoteChain(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("r.wgsl", []byte("struct S { a: array<f32> }\nvar<private> v: S;"))
	bag := diag.NewBag(2)
	bag.Add(diag.New(diag.SevWarning, diag.ResUnreachableCode, source.Span{File: fileID, Start: 0, End: 6}, "code is unreachable"))
	bag.Add(diag.New(diag.SevError, diag.LexInvalidCharacter, source.Span{File: fileID, Start: 41, End: 42}, "runtime-sized arrays").
		WithNote(source.Span{File: fileID, Start: 11, End: 12}, "while analyzing structure member S.a").
		WithNote(source.Span{File: fileID, Start: 7, End: 8}, "S declared here"))

	out, err := BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludeNotes: true})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		code, title, rule string
		notes             int
	}{
		{"RES3017", diag.ResUnreachableCode.Title(), "chromium_unreachable_code", 0},
		{"LEX1001", diag.LexInvalidCharacter.Title(), "", 2},
	}
	for i, tt := range tests {
		got := out.Diagnostics[i]
		if got.Title != tt.title || got.Rule != tt.rule || len(got.Notes) != tt.notes {
			t.Errorf("diagnostic %d = %+v, want title=%q rule=%q notes=%d", i, got, tt.title, tt.rule, tt.notes)
		}
		for j, n := range got.Notes {
			if n.Index != j {
				t.Errorf("note %d has index %d", j, n.Index)
			}
		}
	}
}

func TestSarif(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("s.wgsl", []byte("fn f() {}\n$"))
	d := diag.New(diag.SevError, diag.LexInvalidCharacter, source.Span{File: fileID, Start: 10, End: 11}, "invalid character").
		WithNote(source.Span{File: fileID, Start: 0, End: 2}, "context")
	bag := diag.NewBag(2)
	bag.Add(d)
	bag.Add(diag.New(diag.SevWarning, diag.LexInvalidCharacter, source.Span{File: fileID, Start: 10, End: 11}, "again"))

	var buf bytes.Buffer
	err := Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "wgslfront", ToolVersion: "1.0.0", InvocationArgs: []string{"check"}})
	if err != nil {
		t.Fatal(err)
	}
	var log sarifLog
	if err := json.Unmarshal(buf.Bytes(), &log); err != nil {
		t.Fatalf("invalid SARIF: %v\n%s", err, buf.String())
	}
	if log.Version != "2.1.0" || len(log.Runs) != 1 {
		t.Fatalf("unexpected log header %+v", log)
	}
	run := log.Runs[0]
	if len(run.Tool.Driver.Rules) != 1 || run.Tool.Driver.Rules[0].ID != "LEX1001" {
		t.Fatalf("rules must be deduplicated, got %+v", run.Tool.Driver.Rules)
	}
	if len(run.Results) != 2 || run.Results[0].Level != "error" || run.Results[1].Level != "warning" {
		t.Fatalf("unexpected results %+v", run.Results)
	}
	region := run.Results[0].Locations[0].Physical.Region
	if region.StartLine != 2 || region.StartColumn != 1 {
		t.Fatalf("unexpected region %+v", region)
	}
	if len(run.Results[0].RelatedLocations) != 1 {
		t.Fatalf("note must become a related location")
	}
	if run.Invocations[0].ExecutionSuccessful {
		t.Fatalf("errors present, execution must not be successful")
	}
}
