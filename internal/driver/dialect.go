package driver

import (
	"wgslfront/internal/diag"
	"wgslfront/internal/dialect"
	"wgslfront/internal/lexer"
	"wgslfront/internal/source"
)

const maxDialectNotes = 3

// reportDialect adds one SYN2026 note when a file that failed to check reads
// like GLSL, HLSL or Metal. Primary span is the strongest hint that overlaps
// an error, else the strongest hint.
func reportDialect(file *source.File, bag *diag.Bag, reporter diag.Reporter) {
	toks := lexer.Tokenize(file, lexer.Options{SkipClassify: true})
	ev := dialect.Collect(file, toks)
	cls := dialect.Classifier{}.Classify(ev)
	if !dialect.Eligible(cls) {
		return
	}
	hints := ev.For(cls.Kind)
	if len(hints) == 0 {
		return
	}

	primary := hints[0]
	var errSpans []source.Span
	for _, d := range bag.Items() {
		if d.Severity == diag.SevError && d.Primary.File == file.ID {
			errSpans = append(errSpans, d.Primary)
		}
	}
found:
	for _, h := range hints {
		for _, sp := range errSpans {
			if spansOverlap(h.Span, sp) {
				primary = h
				break found
			}
		}
	}

	b := diag.ReportInfo(reporter, diag.SynForeignDialect, primary.Span, dialect.Message(cls))
	for i, h := range hints {
		if i == maxDialectNotes {
			break
		}
		b.WithNote(h.Span, dialect.Describe(h))
	}
	b.Emit()
}

func spansOverlap(a, b source.Span) bool {
	if a.File != b.File {
		return false
	}
	if a.Start == a.End || b.Start == b.End {
		return a.Start >= b.Start && a.Start <= b.End || b.Start >= a.Start && b.Start <= a.End
	}
	return a.Start < b.End && b.Start < a.End
}
