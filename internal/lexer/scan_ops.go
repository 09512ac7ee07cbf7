package lexer

import (
	"unicode/utf8"

	"wgslfront/internal/token"
)

// порядок важен: сначала длинные написания
var operators = []struct {
	text string
	kind token.Kind
}{
	{">>=", token.ShiftRightEqual},
	{"<<=", token.ShiftLeftEqual},
	{"&&", token.AndAnd},
	{"||", token.OrOr},
	{"==", token.EqualEqual},
	{"!=", token.NotEqual},
	{"<=", token.LessThanEqual},
	{">=", token.GreaterThanEqual},
	{"<<", token.ShiftLeft},
	{">>", token.ShiftRight},
	{"->", token.Arrow},
	{"++", token.PlusPlus},
	{"--", token.MinusMinus},
	{"+=", token.PlusEqual},
	{"-=", token.MinusEqual},
	{"*=", token.StarEqual},
	{"/=", token.SlashEqual},
	{"%=", token.PercentEqual},
	{"&=", token.AndEqual},
	{"|=", token.OrEqual},
	{"^=", token.XorEqual},
	{"&", token.And},
	{"@", token.Attr},
	{"/", token.Slash},
	{"!", token.Bang},
	{"[", token.LBracket},
	{"]", token.RBracket},
	{"{", token.LBrace},
	{"}", token.RBrace},
	{":", token.Colon},
	{",", token.Comma},
	{"=", token.Equal},
	{">", token.GreaterThan},
	{"<", token.LessThan},
	{"%", token.Percent},
	{"-", token.Minus},
	{".", token.Period},
	{"+", token.Plus},
	{"|", token.Or},
	{"(", token.LParen},
	{")", token.RParen},
	{";", token.Semicolon},
	{"*", token.Star},
	{"~", token.Tilde},
	{"_", token.Underscore},
	{"^", token.Xor},
}

func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	for _, op := range operators {
		if lx.cursor.Matches(op.text) {
			lx.cursor.Advance(uint32(len(op.text))) //nolint:gosec // short literal
			return token.Token{Kind: op.kind, Span: lx.cursor.SpanFrom(start), Text: op.text}
		}
	}
	// неизвестный символ: съедаем целую руну, чтобы не резать UTF-8
	_, sz := utf8.DecodeRune(lx.cursor.Rest())
	lx.cursor.Advance(uint32(max(sz, 1))) //nolint:gosec // rune width
	return lx.errorToken(start, "invalid character found")
}
