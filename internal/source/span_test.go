package source

import "testing"

func TestSpanCover(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want Span
	}{
		{"disjoint", Span{File: 1, Start: 2, End: 4}, Span{File: 1, Start: 8, End: 10}, Span{File: 1, Start: 2, End: 10}},
		{"nested", Span{File: 1, Start: 0, End: 10}, Span{File: 1, Start: 3, End: 5}, Span{File: 1, Start: 0, End: 10}},
		{"other file", Span{File: 1, Start: 2, End: 4}, Span{File: 2, Start: 0, End: 10}, Span{File: 1, Start: 2, End: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Cover(tt.b); got != tt.want {
				t.Errorf("Cover() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpanSplitAt(t *testing.T) {
	// ">>" делится на два ">"
	s := Span{File: 0, Start: 10, End: 12}
	l, r := s.SplitAt(1)
	if l != (Span{Start: 10, End: 11}) || r != (Span{Start: 11, End: 12}) {
		t.Errorf("SplitAt(1) = %v, %v", l, r)
	}
	l, r = s.SplitAt(5)
	if l != s || !r.Empty() {
		t.Errorf("SplitAt past end = %v, %v", l, r)
	}
}

func TestSpanHeadTail(t *testing.T) {
	s := Span{File: 3, Start: 4, End: 9}
	if h := s.Head(); h.Start != 4 || !h.Empty() {
		t.Errorf("Head() = %v", h)
	}
	if tl := s.Tail(); tl.Start != 9 || !tl.Empty() {
		t.Errorf("Tail() = %v", tl)
	}
	if !s.Contains(4) || s.Contains(9) {
		t.Errorf("Contains is not half-open")
	}
}
