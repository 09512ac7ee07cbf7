package fix

import (
	"wgslfront/internal/diag"
	"wgslfront/internal/source"
)

// InsertText inserts text at the start of at.
func InsertText(title string, at source.Span, text string) diag.Fix {
	at.End = at.Start
	return diag.Fix{Title: title, Edits: []diag.FixEdit{{Span: at, NewText: text}}}
}

// InsertAfter inserts text right after span.
func InsertAfter(title string, span source.Span, text string) diag.Fix {
	span.Start = span.End
	return diag.Fix{Title: title, Edits: []diag.FixEdit{{Span: span, NewText: text}}}
}

// ReplaceSpan swaps expect for newText; expect guards against stale spans.
func ReplaceSpan(title string, span source.Span, newText, expect string) diag.Fix {
	return diag.Fix{Title: title, Edits: []diag.FixEdit{{Span: span, NewText: newText, OldText: expect}}}
}

// DeleteSpan removes expect at span.
func DeleteSpan(title string, span source.Span, expect string) diag.Fix {
	return ReplaceSpan(title, span, "", expect)
}
