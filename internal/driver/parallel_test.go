package driver

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"wgslfront/internal/diag"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *recordingSink) OnEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	s.mu.Unlock()
}

func (s *recordingSink) final(file string) (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.events) - 1; i >= 0; i-- {
		if s.events[i].File == file {
			return s.events[i], true
		}
	}
	return Event{}, false
}

func TestCheckDir(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "a/good.wgsl", goodShader)
	bad := writeFile(t, dir, "b/bad.wgsl", badShader)
	writeFile(t, dir, ".hidden/skip.wgsl", badShader)
	writeFile(t, dir, "notes.txt", "not a shader")

	sink := &recordingSink{}
	fs, results, err := CheckDir(context.Background(), dir, DirOptions{
		Options:  Options{MaxDiagnostics: 20},
		Jobs:     2,
		Progress: sink,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Path != good || results[1].Path != bad {
		t.Fatalf("unexpected order: %s, %s", results[0].Path, results[1].Path)
	}
	if !results[0].OK() || results[1].OK() {
		t.Fatal("wrong per-file outcome")
	}
	if fs.Get(results[1].FileID) == nil {
		t.Fatal("fileset missing checked file")
	}
	if ev, ok := sink.final(bad); !ok || ev.Status != StatusError {
		t.Fatalf("final event for bad file: %+v", ev)
	}
	if ev, ok := sink.final(good); !ok || ev.Status != StatusDone {
		t.Fatalf("final event for good file: %+v", ev)
	}
}

func TestCheckDirSelect(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "keep.wgsl", goodShader)
	writeFile(t, dir, "vendor/drop.wgsl", badShader)
	files, err := ListFiles(dir, func(rel string) bool { return !strings.HasPrefix(filepath.ToSlash(rel), "vendor/") })
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "keep.wgsl" {
		t.Fatalf("unexpected files %v", files)
	}
}

func TestCheckDirUsesCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.wgsl", badShader)
	disk, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := DirOptions{Options: Options{MaxDiagnostics: 20}, Disk: disk, ToolVersion: "test"}

	_, first, err := CheckDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatal(err)
	}
	_, second, err := CheckDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first[0].Cached || !second[0].Cached {
		t.Fatalf("cached flags: first=%v second=%v", first[0].Cached, second[0].Cached)
	}
	if got, want := second[0].Bag.Messages(), first[0].Bag.Messages(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("cached diagnostics differ:\n%v\n%v", got, want)
	}
	if second[0].Bag.Items()[0].Primary.File != second[0].FileID {
		t.Fatal("cached spans must point at the newly loaded file")
	}

	// другие опции дают другой ключ
	opts.RuleSeverity = nil
	opts.MaxErrors = 3
	_, third, err := CheckDir(context.Background(), dir, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third[0].Cached {
		t.Fatal("options change must miss the cache")
	}
}

func TestCheckDirUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	_, results, err := CheckFiles(context.Background(), dir, []string{filepath.Join(dir, "ghost.wgsl")}, DirOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].OK() || results[0].Bag.Items()[0].Code != diag.IOReadFile {
		t.Fatalf("expected IO7002, got %+v", results[0].Bag.Messages())
	}
}

func TestMemCacheForget(t *testing.T) {
	c := NewMemCache(4)
	var k Digest
	k[0] = 1
	c.Put("a.wgsl", k, &DiskPayload{Path: "a.wgsl"})
	if _, ok := c.Get("a.wgsl", Digest{}); ok {
		t.Fatal("expected miss on different key")
	}
	if p, ok := c.Get("a.wgsl", k); !ok || p.Path != "a.wgsl" {
		t.Fatal("expected hit")
	}
	c.Forget("a.wgsl")
	if _, ok := c.Get("a.wgsl", k); ok {
		t.Fatal("expected miss after Forget")
	}
}
