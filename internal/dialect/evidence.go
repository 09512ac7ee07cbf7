package dialect

import "wgslfront/internal/source"

// Hint is one piece of evidence for a dialect. It is not a diagnostic.
type Hint struct {
	Dialect Kind
	Topic   Topic
	Score   int
	Reason  string
	Span    source.Span
}

// Evidence aggregates the hints of one file.
type Evidence struct {
	hints []Hint
}

func NewEvidence() *Evidence {
	return &Evidence{hints: make([]Hint, 0, 16)}
}

func (e *Evidence) Add(h Hint) {
	if e == nil {
		return
	}
	e.hints = append(e.hints, h)
}

func (e *Evidence) Hints() []Hint {
	if e == nil {
		return nil
	}
	return e.hints
}

// For returns the hints of one dialect, strongest first, in source order on ties.
func (e *Evidence) For(k Kind) []Hint {
	var out []Hint
	for _, h := range e.Hints() {
		if h.Dialect == k && h.Score > 0 {
			out = append(out, h)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Score > out[j-1].Score; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
