package lexer

import (
	"errors"
	"math"
	"strconv"

	"wgslfront/internal/token"
)

const maxF16 = 65504.0

// scanNumber разбирает десятичные и шестнадцатеричные литералы вместе с суффиксами
// i/u (целые) и f/h (вещественные). Значение кладётся в Token.Int / Token.Float.
//
//	0, 123, 123i, 123u, 0x1F, 0x1Fu
//	1.0, .5, 1., 1e3, 1.5e-3f, 2h, 0x1.8p3, 0x.8p-1h
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	if (lx.cursor.Matches("0x") || lx.cursor.Matches("0X")) &&
		(isHex(lx.cursor.PeekAt(2)) || lx.cursor.PeekAt(2) == '.' && isHex(lx.cursor.PeekAt(3))) {
		return lx.scanHexNumber(start)
	}

	intStart := lx.cursor.Off
	lx.skipDigits(isDec)
	intLen := lx.cursor.Off - intStart
	leadingZero := intLen > 1 && lx.cursor.File.Content[intStart] == '0'

	isFloat := false
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		lx.skipDigits(isDec)
		isFloat = true
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		n := uint32(1)
		if s := lx.cursor.PeekAt(1); s == '+' || s == '-' {
			n = 2
		}
		if !isDec(lx.cursor.PeekAt(n)) {
			lx.cursor.Advance(n)
			return lx.errorToken(start, "incomplete exponent for floating point literal: "+lx.text(lx.cursor.SpanFrom(start)))
		}
		lx.cursor.Advance(n)
		lx.skipDigits(isDec)
		isFloat = true
	}

	body := lx.text(lx.cursor.SpanFrom(start))
	switch b := lx.cursor.Peek(); {
	case b == 'f' || b == 'h':
		lx.cursor.Bump()
		if !isFloat && leadingZero {
			return lx.errorToken(start, "integer literal cannot have leading 0s")
		}
		if b == 'f' {
			return lx.floatToken(start, body, token.FloatLitF)
		}
		return lx.floatToken(start, body, token.FloatLitH)
	case isFloat:
		return lx.floatToken(start, body, token.FloatLit)
	case leadingZero:
		return lx.errorToken(start, "integer literal cannot have leading 0s")
	case b == 'i':
		lx.cursor.Bump()
		return lx.intToken(start, body, 10, token.IntLitI)
	case b == 'u':
		lx.cursor.Bump()
		return lx.intToken(start, body, 10, token.IntLitU)
	}
	return lx.intToken(start, body, 10, token.IntLit)
}

func (lx *Lexer) scanHexNumber(start Mark) token.Token {
	lx.cursor.Advance(2)
	mantStart := lx.cursor.Off
	lx.skipDigits(isHex)
	isFloat := false
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		lx.skipDigits(isHex)
		isFloat = true
	}
	mantissa := string(lx.cursor.File.Content[mantStart:lx.cursor.Off])
	exponent := "0"
	hasExp := false
	if b := lx.cursor.Peek(); b == 'p' || b == 'P' {
		n := uint32(1)
		if s := lx.cursor.PeekAt(1); s == '+' || s == '-' {
			n = 2
		}
		if !isDec(lx.cursor.PeekAt(n)) {
			lx.cursor.Advance(n)
			return lx.errorToken(start, "incomplete exponent for hexadecimal floating point literal: "+lx.text(lx.cursor.SpanFrom(start)))
		}
		lx.cursor.Advance(1)
		expStart := lx.cursor.Off
		lx.cursor.Advance(n - 1)
		lx.skipDigits(isDec)
		exponent = string(lx.cursor.File.Content[expStart:lx.cursor.Off])
		isFloat, hasExp = true, true
	}
	body := "0x" + mantissa + "p" + exponent

	if isFloat {
		kind := token.FloatLit
		// 'f' is a hex digit; suffixes only follow an exponent
		if hasExp {
			switch lx.cursor.Peek() {
			case 'f':
				lx.cursor.Bump()
				kind = token.FloatLitF
			case 'h':
				lx.cursor.Bump()
				kind = token.FloatLitH
			}
		}
		return lx.floatToken(start, body, kind)
	}
	switch lx.cursor.Peek() {
	case 'i':
		lx.cursor.Bump()
		return lx.intToken(start, mantissa, 16, token.IntLitI)
	case 'u':
		lx.cursor.Bump()
		return lx.intToken(start, mantissa, 16, token.IntLitU)
	}
	return lx.intToken(start, mantissa, 16, token.IntLit)
}

func (lx *Lexer) intToken(start Mark, digits string, base int, kind token.Kind) token.Token {
	sp := lx.cursor.SpanFrom(start)
	v, err := strconv.ParseInt(digits, base, 64)
	switch kind {
	case token.IntLitI:
		if err != nil || v > math.MaxInt32 {
			return lx.errorToken(start, "value cannot be represented as 'i32'")
		}
	case token.IntLitU:
		if err != nil || v > math.MaxUint32 {
			return lx.errorToken(start, "value cannot be represented as 'u32'")
		}
	default:
		if err != nil {
			return lx.errorToken(start, "value cannot be represented as 'abstract-int'")
		}
	}
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp), Int: v}
}

func (lx *Lexer) floatToken(start Mark, body string, kind token.Kind) token.Token {
	sp := lx.cursor.SpanFrom(start)
	v, err := strconv.ParseFloat(body, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return lx.errorToken(start, "invalid floating point literal: "+lx.text(sp))
	}
	switch kind {
	case token.FloatLitF:
		if math.IsInf(v, 0) || math.Abs(v) > math.MaxFloat32 {
			return lx.errorToken(start, "value cannot be represented as 'f32'")
		}
		v = float64(float32(v))
	case token.FloatLitH:
		if math.IsInf(v, 0) || math.Abs(v) > maxF16 {
			return lx.errorToken(start, "value cannot be represented as 'f16'")
		}
	default:
		if math.IsInf(v, 0) {
			return lx.errorToken(start, "value cannot be represented as 'abstract-float'")
		}
	}
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp), Float: v}
}

func (lx *Lexer) skipDigits(pred func(byte) bool) {
	for pred(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

func isHex(b byte) bool {
	return isDec(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}
