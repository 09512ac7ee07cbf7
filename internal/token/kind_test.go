package token_test

import (
	"testing"

	"wgslfront/internal/token"
)

func TestKindStringCoversAll(t *testing.T) {
	for k := token.Error; k <= token.ShiftLeftEqual; k++ {
		if k.String() == "" || k.GoName() == "" {
			t.Fatalf("kind %d has no name", k)
		}
	}
}

func TestPlaceholders(t *testing.T) {
	cases := map[token.Kind]int{
		token.ShiftRightEqual:  2,
		token.ShiftRight:       1,
		token.GreaterThanEqual: 1,
		token.AndAnd:           1,
		token.MinusMinus:       1,
		token.GreaterThan:      0,
		token.OrOr:             0,
		token.ShiftLeft:        0,
	}
	for k, want := range cases {
		if got := k.Placeholders(); got != want {
			t.Errorf("%s.Placeholders() = %d, want %d", k.GoName(), got, want)
		}
	}
}

func TestKindClasses(t *testing.T) {
	if !token.KwWhile.IsKeyword() || token.Ident.IsKeyword() {
		t.Errorf("IsKeyword boundaries are wrong")
	}
	if !token.KwTrue.IsLiteral() || !token.FloatLitH.IsLiteral() || token.Ident.IsLiteral() {
		t.Errorf("IsLiteral boundaries are wrong")
	}
	// шаблонные скобки: не операторы
	if token.TemplateArgsLeft.IsBinaryOperator() || !token.ShiftRight.IsBinaryOperator() {
		t.Errorf("IsBinaryOperator is wrong")
	}
	if !token.ShiftLeftEqual.IsCompoundAssignment() || token.Equal.IsCompoundAssignment() {
		t.Errorf("IsCompoundAssignment is wrong")
	}
}

func TestTokenString(t *testing.T) {
	if s := (token.Token{Kind: token.Ident, Text: "foo"}).String(); s != "foo" {
		t.Errorf("ident String() = %q", s)
	}
	if s := (token.Token{Kind: token.TemplateArgsRight}).String(); s != ">" {
		t.Errorf("template close String() = %q", s)
	}
}
