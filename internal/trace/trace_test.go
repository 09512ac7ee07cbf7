package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDecl, true},
		{LevelError, ScopeNode, false},
		{LevelPhase, ScopePhase, true},
		{LevelPhase, ScopeDecl, false},
		{LevelDetail, ScopeDecl, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "ERROR", "Phase", "detail", "debug"} {
		if _, err := ParseLevel(s); err != nil {
			t.Errorf("ParseLevel(%q): %v", s, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	span := Begin(tr, ScopePhase, "parse", 0)
	decl := Begin(tr, ScopeDecl, "fn main", span.ID())
	decl.End("")
	Begin(tr, ScopeNode, "ignored", decl.ID()).End("")
	span.WithExtra("errors", "0").WithExtra("decls", "3").End("ok")

	out := buf.String()
	if strings.Contains(out, "ignored") {
		t.Fatalf("node-level span leaked at detail level:\n%s", out)
	}
	if !strings.Contains(out, "← parse (ok) {decls=3, errors=0}") {
		t.Fatalf("missing end line with sorted extras:\n%s", out)
	}
	if n := strings.Count(out, "\n"); n != 4 {
		t.Fatalf("want 4 lines, got %d:\n%s", n, out)
	}
}

func TestStreamSilentAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelError, FormatText)
	Begin(tr, ScopePhase, "parse", 0).End("")
	if buf.Len() != 0 {
		t.Fatalf("stream wrote at error level: %q", buf.String())
	}
}

func TestRingWraps(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopeNode, name, "", 0)
	}
	snap := r.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("len = %d", len(snap))
	}
	got := snap[0].Name + snap[1].Name + snap[2].Name
	if got != "cde" {
		t.Fatalf("order = %q, want cde", got)
	}
}

func TestStartNestsUnderCurrentSpan(t *testing.T) {
	r := NewRingTracer(16, LevelDetail)
	ctx := WithTracer(context.Background(), r)

	ctx, outer := Start(ctx, ScopePhase, "resolve")
	_, inner := Start(ctx, ScopeDecl, "const PI")
	inner.End("")
	outer.End("")

	snap := r.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("events = %d", len(snap))
	}
	if snap[1].ParentID != outer.ID() {
		t.Fatalf("inner parent = %d, want %d", snap[1].ParentID, outer.ID())
	}
}

func TestNewRingAndMulti(t *testing.T) {
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &bytes.Buffer{}})
	if err != nil {
		t.Fatal(err)
	}
	if RingOf(tr) == nil {
		t.Fatal("both mode must carry a ring")
	}
	if nop, _ := New(Config{Level: LevelOff}); nop.Enabled() {
		t.Fatal("off must be disabled")
	}
}
