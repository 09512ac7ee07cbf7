package lexer

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"wgslfront/internal/token"
)

const utf8RuneSelf = 0x80

// scanIdentOrKeyword сканирует идентификатор (XID_Start XID_Continue*) и
// проверяет через LookupKeyword. Возвращает ok=false, если в начале не буква:
// тогда это оператор или мусор.
func (lx *Lexer) scanIdentOrKeyword() (token.Token, bool) {
	start := lx.cursor.Mark()
	r, sz := lx.peekRune()
	if !isIdentStartRune(r) {
		return token.Token{}, false
	}
	// одиночный '_': отдельный токен
	if r == '_' {
		next, _ := utf8.DecodeRune(lx.cursor.Rest()[1:])
		if len(lx.cursor.Rest()) == 1 || !isIdentContinueRune(next) {
			return token.Token{}, false
		}
	}
	lx.cursor.Advance(uint32(sz)) //nolint:gosec // rune width
	for !lx.cursor.EOF() {
		r, sz = lx.peekRune()
		if !isIdentContinueRune(r) {
			break
		}
		lx.cursor.Advance(uint32(sz)) //nolint:gosec // rune width
	}
	sp := lx.cursor.SpanFrom(start)
	text := lx.text(sp)
	if len(text) >= 2 && text[0] == '_' && text[1] == '_' {
		return lx.errorToken(start, "identifiers must not start with two or more underscores"), true
	}
	if kw, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: kw, Span: sp, Text: text}, true
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: text}, true
}

func (lx *Lexer) peekRune() (rune, int) {
	b := lx.cursor.Peek()
	if b < utf8RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(lx.cursor.Rest())
}

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isIdentStartRune(r rune) bool {
	if r < utf8RuneSelf {
		return isIdentStartByte(byte(r))
	}
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.Is(unicode.Nl, r) || unicode.Is(unicode.Other_ID_Start, r))
}

func isIdentContinueRune(r rune) bool {
	if r < utf8RuneSelf {
		return isIdentStartByte(byte(r)) || isDec(byte(r))
	}
	return isIdentStartRune(r) ||
		unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
}

// IsNFC reports whether an identifier is in Unicode normalization form C.
// Identifiers are compared byte-wise, so non-NFC spellings of the same name differ.
func IsNFC(ident string) bool {
	return norm.NFC.IsNormalString(ident)
}
