package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	cases := map[string]Kind{
		"fn":           KwFn,
		"const_assert": KwConstAssert,
		"continuing":   KwContinuing,
		"bitcast":      KwBitcast,
		"true":         KwTrue,
	}
	for lexeme, want := range cases {
		got, ok := LookupKeyword(lexeme)
		if !ok || got != want {
			t.Fatalf("LookupKeyword(%q) = %v, %v; want %v", lexeme, got, ok, want)
		}
	}
	// типы: обычные идентификаторы, их разбирает резолвер
	for _, s := range []string{"vec3", "f32", "array", "Fn", "uniform"} {
		if _, ok := LookupKeyword(s); ok {
			t.Errorf("%q must not be a keyword", s)
		}
	}
}

func TestIsReserved(t *testing.T) {
	for _, s := range []string{"class", "typedef", "yield", "NULL"} {
		if !IsReserved(s) {
			t.Errorf("%q should be reserved", s)
		}
	}
	for _, s := range []string{"foo", "vec4", "main"} {
		if IsReserved(s) {
			t.Errorf("%q should not be reserved", s)
		}
	}
}
