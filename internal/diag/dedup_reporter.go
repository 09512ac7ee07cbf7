package diag

import "wgslfront/internal/source"

type dedupKey struct {
	code Code
	span source.Span
	msg  string
}

// DedupReporter forwards each distinct diagnostic (code, primary span,
// message) once and counts the dropped repeats. A repeat with a higher
// severity is forwarded.
type DedupReporter struct {
	next       Reporter
	seen       map[dedupKey]Severity
	suppressed int
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]Severity),
	}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	if r == nil {
		return
	}
	key := dedupKey{code: code, span: primary, msg: msg}
	if prev, ok := r.seen[key]; ok && sev <= prev {
		r.suppressed++
		return
	}
	r.seen[key] = sev
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes, fixes)
	}
}

// Suppressed is the number of repeats that were not forwarded.
func (r *DedupReporter) Suppressed() int {
	if r == nil {
		return 0
	}
	return r.suppressed
}
