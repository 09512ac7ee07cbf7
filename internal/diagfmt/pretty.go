package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"wgslfront/internal/diag"
	"wgslfront/internal/source"
)

type palette struct {
	err, warn, info, note, path, gutter, caret func(a ...any) string
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan, color.Bold),
		note:   mk(color.FgBlue, color.Bold),
		path:   mk(color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgGreen, color.Bold),
	}
}

func (p palette) severity(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return p.err(s.String())
	case diag.SevWarning:
		return p.warn(s.String())
	}
	return p.info(s.String())
}

func formatPath(fs *source.FileSet, f *source.File, mode PathMode) string {
	if f == nil {
		return "<unknown>"
	}
	switch {
	case mode == PathModeBasename:
		return source.BaseName(f.Path)
	case mode == PathModeAuto && fs.BaseDir() == "" && strings.Count(f.Path, "/") > 3:
		return source.BaseName(f.Path)
	}
	return f.FormatPath(pathModeName(mode), fs.BaseDir())
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		f := fs.Get(d.Primary.File)
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.path(fmt.Sprintf("%s:%d:%d", formatPath(fs, f, opts.PathMode), start.Line, start.Col)),
			p.severity(d.Severity), d.Code.ID(), d.Message)
		if f != nil {
			writeSnippet(w, fs, f, d.Primary, int(opts.Context), opts.Width, p)
		}

		if opts.ShowNotes {
			for _, n := range d.Notes {
				nf := fs.Get(n.Span.File)
				ns, _ := fs.Resolve(n.Span)
				fmt.Fprintf(w, "  %s %s:%d:%d %s\n", p.note("note:"), formatPath(fs, nf, opts.PathMode), ns.Line, ns.Col, n.Msg)
				if nf != nil && opts.Context >= 0 {
					writeSnippet(w, fs, nf, n.Span, 0, opts.Width, p)
				}
			}
		}
		if opts.ShowFixes {
			writeFixes(w, fs, d.Fixes, opts, p)
		}
	}
}

// writeSnippet prints the lines around span with a caret line under it.
// Columns are measured in display cells so wide runes keep the carets aligned.
func writeSnippet(w io.Writer, fs *source.FileSet, f *source.File, span source.Span, context int, width uint8, p palette) {
	start, end := fs.Resolve(span)
	if start.Line == 0 {
		return
	}
	first := start.Line
	if uint32(context) < first {
		first -= uint32(context)
	} else {
		first = 1
	}
	last := start.Line + uint32(context)
	gutterWidth := len(fmt.Sprint(last))

	for line := first; line <= last; line++ {
		text, ok := lineText(f, line)
		if !ok {
			break
		}
		text = strings.ReplaceAll(text, "\t", "    ")
		if width > 0 {
			text = runewidth.Truncate(text, int(width), "…")
		}
		fmt.Fprintf(w, "%s %s\n", p.gutter(fmt.Sprintf("%*d |", gutterWidth, line)), text)
		if line != start.Line {
			continue
		}
		raw, _ := lineText(f, line)
		prefix := displayWidth(raw, int(start.Col)-1)
		n := 1
		if end.Line == start.Line && end.Col > start.Col {
			n = displayWidth(raw, int(end.Col)-1) - prefix
		} else if end.Line > start.Line {
			n = max(runewidth.StringWidth(expandTabs(raw))-prefix, 1)
		}
		underline := "^" + strings.Repeat("~", max(n-1, 0))
		fmt.Fprintf(w, "%s %s%s\n", p.gutter(fmt.Sprintf("%*s |", gutterWidth, "")), strings.Repeat(" ", prefix), p.caret(underline))
	}
}

func lineText(f *source.File, line uint32) (string, bool) {
	if line == 0 || int(line) > len(f.LineIdx)+1 {
		return "", false
	}
	return strings.TrimRight(f.GetLine(line), "\r\n"), true
}

// displayWidth is the cell width of the first n bytes of s, tabs as four cells.
func displayWidth(s string, n int) int {
	n = max(min(n, len(s)), 0)
	return runewidth.StringWidth(expandTabs(s[:n]))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

func writeFixes(w io.Writer, fs *source.FileSet, fixes []diag.Fix, opts PrettyOpts, p palette) {
	for i, fix := range fixes {
		title := fix.Title
		if !fixApplicable(fs, fix) {
			title += " (stale)"
		}
		fmt.Fprintf(w, "  %s %s\n", p.note(fmt.Sprintf("fix #%d:", i+1)), title)
		for _, edit := range fix.Edits {
			f := fs.Get(edit.Span.File)
			s, _ := fs.Resolve(edit.Span)
			fmt.Fprintf(w, "    %s:%d:%d apply=%q\n", formatPath(fs, f, opts.PathMode), s.Line, s.Col, edit.NewText)
		}
		if !opts.ShowPreview {
			continue
		}
		preview, ok := buildFixPreview(fs, fix)
		if !ok {
			continue
		}
		fmt.Fprintln(w, "    preview:")
		for _, l := range preview.before {
			fmt.Fprintf(w, "      - %s\n", l)
		}
		for _, l := range preview.after {
			fmt.Fprintf(w, "      + %s\n", l)
		}
	}
}

// Short prints one line per diagnostic:
// <path>:<line>:<col>: <severity> <CODE>: <Message>
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) {
	for _, d := range bag.Items() {
		f := fs.Get(d.Primary.File)
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", formatPath(fs, f, mode), start.Line, start.Col, d.Severity.Label(), d.Code.ID(), d.Message)
	}
}
