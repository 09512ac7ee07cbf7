package token

import (
	"wgslfront/internal/source"
)

// Token is one classified lexeme. Literal payloads are decoded by the lexer.
type Token struct {
	Kind  Kind
	Span  source.Span
	Text  string  // identifier name, lexeme, or error message for Error
	Int   int64   // IntLit / IntLitI / IntLitU
	Float float64 // FloatLit / FloatLitF / FloatLitH
}

// Is reports whether the token has kind k.
func (t Token) Is(k Kind) bool { return t.Kind == k }

func (t Token) IsIdent() bool { return t.Kind == Ident }

func (t Token) IsLiteral() bool { return t.Kind.IsLiteral() }

// String renders the token the way diagnostics quote it.
func (t Token) String() string {
	switch t.Kind {
	case Ident, IntLit, IntLitI, IntLitU, FloatLit, FloatLitF, FloatLitH, Error:
		return t.Text
	}
	return t.Kind.String()
}
