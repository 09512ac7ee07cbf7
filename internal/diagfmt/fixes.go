package diagfmt

import (
	"cmp"
	"slices"
	"strings"

	"wgslfront/internal/builtin"
	"wgslfront/internal/diag"
	"wgslfront/internal/source"
)

// ruleCodes связывает коды диагностик с правилами, которыми их можно
// отключить через `diagnostic(off, ...)`.
var ruleCodes = map[diag.Code]builtin.DiagnosticRule{
	diag.ResUnusedValue:      builtin.RuleUnusedValue,
	diag.ResUnreachableCode:  builtin.RuleUnreachableCode,
	diag.ResIdentifierNotNFC: builtin.RuleIdentifierNotNFC,
}

// ruleName returns the filterable rule behind code, or "".
func ruleName(code diag.Code) string {
	if r, ok := ruleCodes[code]; ok {
		return r.String()
	}
	return ""
}

// fixApplicable reports whether every edit still sees the text it was built against.
func fixApplicable(fs *source.FileSet, fix diag.Fix) bool {
	for _, e := range fix.Edits {
		f := fs.Get(e.Span.File)
		if f == nil || int(e.Span.End) > len(f.Content) || e.Span.Start > e.Span.End {
			return false
		}
		if e.OldText != "" && string(f.Content[e.Span.Start:e.Span.End]) != e.OldText {
			return false
		}
	}
	return true
}

type fixPreview struct {
	before []string
	after  []string
}

// buildFixPreview applies all edits of fix to the lines they touch.
// Edits spanning several files or overlapping each other give no preview.
func buildFixPreview(fs *source.FileSet, fix diag.Fix) (fixPreview, bool) {
	if fs == nil || len(fix.Edits) == 0 || !fixApplicable(fs, fix) {
		return fixPreview{}, false
	}
	file := fs.Get(fix.Edits[0].Span.File)
	edits := slices.Clone(fix.Edits)
	slices.SortStableFunc(edits, func(a, b diag.FixEdit) int {
		return cmp.Compare(a.Span.Start, b.Span.Start)
	})

	first, _ := fs.Resolve(edits[0].Span)
	_, last := fs.Resolve(edits[len(edits)-1].Span)
	lo, _, ok := file.LineBounds(first.Line)
	if !ok {
		return fixPreview{}, false
	}
	_, hi, ok := file.LineBounds(max(last.Line, first.Line))
	if !ok {
		return fixPreview{}, false
	}

	var sb strings.Builder
	at := lo
	for _, e := range edits {
		if e.Span.File != file.ID || e.Span.Start < at || e.Span.End > hi {
			return fixPreview{}, false
		}
		sb.Write(file.Content[at:e.Span.Start])
		sb.WriteString(e.NewText)
		at = e.Span.End
	}
	sb.Write(file.Content[at:hi])

	return fixPreview{
		before: previewLines(string(file.Content[lo:hi])),
		after:  previewLines(sb.String()),
	}, true
}

func previewLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines
}
