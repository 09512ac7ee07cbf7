package diag

import (
	"testing"

	"wgslfront/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	file := fs.Add("/workspace/testdata/sample.wgsl", []byte("a\nb\n"), 0)

	diags := []*Diagnostic{
		{
			Severity: SevError,
			Code:     ResRedeclaration,
			Message:  "redeclaration of 'a'\nsecond line",
			Primary:  source.Span{File: file, Start: 2, End: 3},
			Notes: []Note{
				{Span: source.Span{File: file, Start: 0, End: 1}, Msg: "'a' previously declared here"},
			},
		},
		{
			Severity: SevWarning,
			Code:     ResUnreachableCode,
			Message:  "code is unreachable",
			Primary:  source.Span{File: file, Start: 3, End: 3},
		},
	}

	expected := "note RES3002 testdata/sample.wgsl:1:1 'a' previously declared here\n" +
		"error RES3002 testdata/sample.wgsl:2:1 redeclaration of 'a' second line\n" +
		"warning RES3017 testdata/sample.wgsl:2:2 code is unreachable"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestBagLimitKeepsErrorCount(t *testing.T) {
	b := NewBag(1)
	r := BagReporter{Bag: b}
	ReportWarning(r, ResUnusedValue, source.Span{}, "w").Emit()
	ReportError(r, ResTypeMismatch, source.Span{}, "e").Emit()
	if b.Len() != 1 || b.Dropped() != 1 {
		t.Fatalf("len=%d dropped=%d", b.Len(), b.Dropped())
	}
	// ошибка не попала в мешок, но компиляция всё равно неуспешна
	if !b.HasErrors() {
		t.Errorf("dropped error must still count")
	}
}

func TestBagSortAndFilter(t *testing.T) {
	b := NewBag(0)
	b.Add(NewError(SynUnexpectedToken, source.Span{Start: 5, End: 6}, "b"))
	b.Add(New(SevWarning, ResUnreachableCode, source.Span{Start: 1, End: 2}, "a"))
	b.Add(NewError(SynExpectedToken, source.Span{Start: 5, End: 6}, "c"))
	b.Sort()
	if got := b.Messages(); got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("sort order = %v", got)
	}
	b.Filter(func(d *Diagnostic) bool { return d.Severity != SevError })
	if b.Len() != 1 || b.HasErrors() {
		t.Errorf("filter left %d items, errors=%v", b.Len(), b.HasErrors())
	}
}

func TestDedupReporter(t *testing.T) {
	b := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: b})
	sp := source.Span{Start: 1, End: 2}
	for range 3 {
		ReportError(r, ResUnresolvedIdentifier, sp, "unresolved identifier 'x'").Emit()
	}
	ReportError(r, ResUnresolvedIdentifier, sp, "unresolved identifier 'y'").Emit()
	if b.Len() != 2 {
		t.Errorf("expected 2 diagnostics, got %d", b.Len())
	}
	if r.Suppressed() != 2 {
		t.Errorf("Suppressed() = %d, want 2", r.Suppressed())
	}
}

// повтор с более высокой серьёзностью проходит, с равной или ниже отбрасывается
func TestDedupReporterEscalation(t *testing.T) {
	b := NewBag(0)
	r := NewDedupReporter(BagReporter{Bag: b})
	sp := source.Span{Start: 4, End: 9}
	ReportWarning(r, ResUnreachableCode, sp, "code is unreachable").Emit()
	ReportInfo(r, ResUnreachableCode, sp, "code is unreachable").Emit()
	ReportError(r, ResUnreachableCode, sp, "code is unreachable").Emit()
	ReportWarning(r, ResUnreachableCode, sp, "code is unreachable").Emit()
	ReportWarning(r, ResUnreachableCode, source.Span{Start: 4, End: 10}, "code is unreachable").Emit()

	var sevs []Severity
	for _, d := range b.Items() {
		sevs = append(sevs, d.Severity)
	}
	want := []Severity{SevWarning, SevError, SevWarning}
	if len(sevs) != len(want) {
		t.Fatalf("forwarded %v, want %v", sevs, want)
	}
	for i := range want {
		if sevs[i] != want[i] {
			t.Fatalf("forwarded %v, want %v", sevs, want)
		}
	}
	if r.Suppressed() != 2 {
		t.Errorf("Suppressed() = %d, want 2", r.Suppressed())
	}
}

func TestParseCode(t *testing.T) {
	tests := []struct {
		in   string
		want Code
		ok   bool
	}{
		{"SYN2001", SynUnexpectedToken, true},
		{"syn2001", SynUnexpectedToken, true},
		{"3002", ResRedeclaration, true},
		{"VAL2001", UnknownCode, false},
		{"LEX9999", UnknownCode, false},
		{"", UnknownCode, false},
	}
	for _, tt := range tests {
		got, ok := ParseCode(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseCode(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
	if ResRedeclaration.String() != "[RES3002]: Redeclaration" {
		t.Errorf("String() = %q", ResRedeclaration.String())
	}
}
