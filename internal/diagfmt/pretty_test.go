package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"wgslfront/internal/diag"
	"wgslfront/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("let x = 1 $ 2;\n")
	fileID := fs.AddVirtual("/home/user/project/shaders/test.wgsl", content)

	bag := diag.NewBag(10)
	bag.Add(diag.New(
		diag.SevError,
		diag.LexInvalidCharacter,
		source.Span{File: fileID, Start: 10, End: 11},
		"invalid character found",
	))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/shaders/test.wgsl:1:11"},
		{"Basename only", PathModeBasename, "test.wgsl:1:11"},
		{"Auto on a deep path", PathModeAuto, "test.wgsl:1:11"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "ERROR LEX1001: invalid character found") {
				t.Errorf("Expected header line, got:\n%s", output)
			}
		})
	}
}

func TestPrettyCaretUnderline(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.wgsl", []byte("const x: i32 = 1u;\n"))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevError, diag.SynUnexpectedToken, source.Span{File: fileID, Start: 15, End: 17}, "bad"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("expected header, source and caret lines, got:\n%s", buf.String())
	}
	if !strings.HasSuffix(lines[1], "const x: i32 = 1u;") {
		t.Fatalf("unexpected source line %q", lines[1])
	}
	src := strings.Index(lines[1], "const")
	caret := strings.Index(lines[2], "^~")
	if caret-src != 15 {
		t.Fatalf("caret at column %d, want 15:\n%s", caret-src, buf.String())
	}
}

func TestPrettyWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	// комментарий с иероглифами перед ошибкой
	content := "/*漢字*/ $\n"
	fileID := fs.AddVirtual("w.wgsl", []byte(content))
	off := uint32(strings.Index(content, "$"))
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevError, diag.LexInvalidCharacter, source.Span{File: fileID, Start: off, End: off + 1}, "bad"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{PathMode: PathModeBasename})
	lines := strings.Split(buf.String(), "\n")
	src := strings.Index(lines[1], "/*")
	caret := strings.Index(lines[2], "^")
	// два широких символа занимают четыре ячейки
	if caret-src != 9 {
		t.Fatalf("caret at cell %d, want 9:\n%s", caret-src, buf.String())
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("fn f() { let x = 1 }\n")
	fileID := fs.AddVirtual("test.wgsl", content)

	bag := diag.NewBag(4)
	primary := source.Span{File: fileID, Start: 19, End: 20}
	d := diag.New(diag.SevError, diag.SynExpectedToken, primary, "expected ';' for let declaration")
	d = d.WithNote(source.Span{File: fileID, Start: 9, End: 12}, "declaration starts here")
	insertSpan := source.Span{File: fileID, Start: 18, End: 18}
	d = d.WithFix("insert semicolon", diag.FixEdit{Span: insertSpan, NewText: ";"})
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{
		PathMode:  PathModeBasename,
		ShowNotes: true,
		ShowFixes: true,
	})
	output := buf.String()

	if !strings.Contains(output, "note: test.wgsl:1:10 declaration starts here") {
		t.Fatalf("expected note with location, got:\n%s", output)
	}
	if !strings.Contains(output, "fix #1: insert semicolon") {
		t.Fatalf("expected first fix entry, got:\n%s", output)
	}
	if !strings.Contains(output, "apply=\";\"") {
		t.Fatalf("expected fix edit apply preview, got:\n%s", output)
	}
}

func TestPrettyFixPreview(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("let a = 42 // missing semicolon")
	fileID := fs.AddVirtual("example.wgsl", content)

	bag := diag.NewBag(2)
	insertSpan := source.Span{File: fileID, Start: 10, End: 10}
	d := diag.New(diag.SevError, diag.SynExpectedToken, insertSpan, "missing semicolon")
	d = d.WithFix("insert semicolon", diag.FixEdit{Span: insertSpan, NewText: ";"})
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{
		PathMode:    PathModeBasename,
		ShowFixes:   true,
		ShowPreview: true,
	})

	output := buf.String()
	if !strings.Contains(output, "preview:") {
		t.Fatalf("expected preview header in output, got:\n%s", output)
	}
	if !strings.Contains(output, "- let a = 42 // missing semicolon") {
		t.Fatalf("expected before line in preview, got:\n%s", output)
	}
	if !strings.Contains(output, "+ let a = 42; // missing semicolon") {
		t.Fatalf("expected after line in preview, got:\n%s", output)
	}
}

func TestShort(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("s.wgsl", []byte("a\nbb $\n"))
	bag := diag.NewBag(2)
	bag.Add(diag.New(diag.SevWarning, diag.ResUnreachableCode, source.Span{File: fileID, Start: 5, End: 6}, "code is unreachable"))

	var buf bytes.Buffer
	Short(&buf, bag, fs, PathModeBasename)
	want := "s.wgsl:2:4: warning RES"
	if !strings.HasPrefix(buf.String(), want) {
		t.Fatalf("got %q, want prefix %q", buf.String(), want)
	}
}
