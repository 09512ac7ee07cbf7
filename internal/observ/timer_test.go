package observ

import (
	"strings"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	parse := tm.Begin("parse")
	tm.End(parse, "12 tokens")
	check := tm.Begin("resolve+validate")
	tm.End(check, "")
	tm.End(42, "ignored")

	r := tm.Report()
	if r.Files != 1 || len(r.Phases) != 2 {
		t.Fatalf("unexpected report: %+v", r)
	}
	if r.Phases[0].Name != "parse" || r.Phases[0].Note != "12 tokens" {
		t.Fatalf("unexpected first phase: %+v", r.Phases[0])
	}
	s := tm.Summary()
	if !strings.HasPrefix(s, "timings:\n") || !strings.Contains(s, "// 12 tokens") || !strings.Contains(s, "total") {
		t.Fatalf("unexpected summary:\n%s", s)
	}
}

func TestEmptyTimer(t *testing.T) {
	if r := NewTimer().Report(); r.Files != 0 || r.Phases != nil {
		t.Fatalf("expected zero report, got %+v", r)
	}
}

func TestAggregate(t *testing.T) {
	a := Report{TotalMS: 3, Files: 1, Phases: []PhaseReport{{Name: "parse", DurationMS: 1, Note: "a"}, {Name: "resolve", DurationMS: 2}}}
	b := Report{TotalMS: 5, Files: 1, Phases: []PhaseReport{{Name: "resolve", DurationMS: 4}, {Name: "parse", DurationMS: 1}}}
	got := Aggregate(a, Report{}, b)
	if got.Files != 2 || got.TotalMS != 8 {
		t.Fatalf("unexpected totals: %+v", got)
	}
	if len(got.Phases) != 2 || got.Phases[0].Name != "parse" || got.Phases[0].DurationMS != 2 || got.Phases[1].DurationMS != 6 {
		t.Fatalf("unexpected phases: %+v", got.Phases)
	}
	if got.Phases[0].Note != "" {
		t.Fatalf("notes must be dropped, got %q", got.Phases[0].Note)
	}
	if !strings.HasPrefix(got.Summary(), "timings (2 files):") {
		t.Fatalf("unexpected header: %q", got.Summary())
	}
}
