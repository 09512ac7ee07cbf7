package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestToLineCol(t *testing.T) {
	content := []byte("ab\ncd\n\nef")
	idx := buildLineIndex(content)
	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{1, LineCol{1, 2}},
		{2, LineCol{1, 3}}, // сам '\n' принадлежит первой строке
		{3, LineCol{2, 1}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{9, LineCol{4, 3}},
	}
	for _, tt := range tests {
		if got := toLineCol(idx, tt.off); got != tt.want {
			t.Errorf("toLineCol(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}
}

func TestFileSetAddVirtual(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("mem.wgsl", []byte("\xEF\xBB\xBFfn f() {}\r\nconst a = 1;"))
	f := fs.Get(id)
	if string(f.Content) != "fn f() {}\nconst a = 1;" {
		t.Fatalf("content = %q", f.Content)
	}
	if f.Flags&FileVirtual == 0 {
		t.Errorf("expected virtual flag")
	}
	if got := f.GetLine(2); got != "const a = 1;" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(3); got != "" {
		t.Errorf("GetLine(3) = %q", got)
	}
	start, end := fs.Resolve(Span{File: id, Start: 10, End: 15})
	if start != (LineCol{2, 1}) || end != (LineCol{2, 6}) {
		t.Errorf("Resolve = %+v %+v", start, end)
	}
	if got := fs.Text(Span{File: id, Start: 10, End: 15}); got != "const" {
		t.Errorf("Text = %q", got)
	}
}

func TestFileSetLoadLatest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.wgsl")
	if err := os.WriteFile(path, []byte("a\r\nb"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSetWithBase(dir)
	first, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if fs.Get(first).Flags&FileNormalizedCRLF == 0 {
		t.Errorf("expected CRLF flag")
	}
	second, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatalf("reload must produce a new id")
	}
	if latest, ok := fs.GetLatest(path); !ok || latest != second {
		t.Errorf("GetLatest = %d, %v", latest, ok)
	}
	if got := fs.Get(second).FormatPath("auto", dir); got != "a.wgsl" {
		t.Errorf("FormatPath(auto) = %q", got)
	}
	if _, err := fs.Load(filepath.Join(dir, "missing.wgsl")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestInterner(t *testing.T) {
	in := NewInterner()
	a := in.Intern("foo")
	b := in.Intern("bar")
	if a == b || a == NoStringID {
		t.Fatalf("bad ids %d %d", a, b)
	}
	if in.Intern("foo") != a {
		t.Errorf("re-intern changed id")
	}
	if s := in.MustLookup(b); s != "bar" {
		t.Errorf("lookup = %q", s)
	}
	if _, ok := in.Lookup(99); ok {
		t.Errorf("lookup of unknown id succeeded")
	}
	if !in.Has("foo") || in.Len() != 3 {
		t.Errorf("Has/Len mismatch")
	}
}
