package ui

import (
	"strings"
	"testing"

	"wgslfront/internal/driver"
)

func TestProgressModelTracksFiles(t *testing.T) {
	files := []string{"a.wgsl", "b.wgsl", "c.wgsl"}
	m := NewProgressModel("check shaders", files, nil).(*progressModel)

	m.applyEvent(driver.Event{File: "a.wgsl", Stage: driver.StageCheck, Status: driver.StatusWorking})
	m.applyEvent(driver.Event{File: "b.wgsl", Stage: driver.StageCache, Status: driver.StatusDone})
	m.applyEvent(driver.Event{File: "c.wgsl", Stage: driver.StageCheck, Status: driver.StatusError})
	m.applyEvent(driver.Event{File: "unknown.wgsl", Stage: driver.StageCheck, Status: driver.StatusDone})

	want := []string{"checking", "cached", "error"}
	for i, item := range m.items {
		if item.status != want[i] {
			t.Errorf("%s: status %q, want %q", item.path, item.status, want[i])
		}
	}

	view := m.View()
	for _, s := range append(want, "check shaders", "a.wgsl") {
		if !strings.Contains(view, s) {
			t.Errorf("view lacks %q:\n%s", s, view)
		}
	}
}

func TestTruncateWideNames(t *testing.T) {
	got := truncate("シェーダー/very/long/path.wgsl", 12)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis, got %q", got)
	}
	if truncate("short.wgsl", 40) != "short.wgsl" {
		t.Fatal("short names must stay intact")
	}
}
