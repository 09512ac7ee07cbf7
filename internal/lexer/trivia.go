package lexer

import (
	"unicode/utf8"

	"wgslfront/internal/token"
)

// skipBlanksAndComments пропускает пробелы и комментарии перед значимым токеном.
// Незакрытый блочный комментарий возвращается как токен ошибки (ok == false).
func (lx *Lexer) skipBlanksAndComments() (token.Token, bool) {
	for !lx.cursor.EOF() {
		if n := blankLen(lx.cursor.Rest()); n > 0 {
			lx.cursor.Advance(n)
			continue
		}
		if lx.cursor.Matches("//") {
			for !lx.cursor.EOF() && !isLineBreak(lx.cursor.Rest()) {
				lx.cursor.Bump()
			}
			continue
		}
		if lx.cursor.Matches("/*") {
			start := lx.cursor.Mark()
			lx.cursor.Advance(2)
			depth := 1
			for depth > 0 && !lx.cursor.EOF() {
				switch {
				case lx.cursor.Matches("/*"):
					lx.cursor.Advance(2)
					depth++
				case lx.cursor.Matches("*/"):
					lx.cursor.Advance(2)
					depth--
				default:
					lx.cursor.Bump()
				}
			}
			if depth > 0 {
				return lx.errorToken(start, "unterminated block comment"), false
			}
			continue
		}
		break
	}
	return token.Token{}, true
}

// blankLen returns the byte length of a blank at the start of b, or 0.
// Blank set: space, \t \n \v \f \r, U+0085, U+200E, U+200F, U+2028, U+2029.
func blankLen(b []byte) uint32 {
	if len(b) == 0 {
		return 0
	}
	switch b[0] {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return 1
	}
	if b[0] < utf8RuneSelf {
		return 0
	}
	r, sz := utf8.DecodeRune(b)
	switch r {
	case 0x0085, 0x200E, 0x200F, 0x2028, 0x2029:
		return uint32(sz) //nolint:gosec // rune width
	}
	return 0
}

func isLineBreak(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	switch b[0] {
	case '\n', '\v', '\f', '\r':
		return true
	}
	if b[0] < utf8RuneSelf {
		return false
	}
	r, _ := utf8.DecodeRune(b)
	return r == 0x0085 || r == 0x2028 || r == 0x2029
}
