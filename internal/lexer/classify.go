package lexer

import (
	"wgslfront/internal/token"
)

type pendingLess struct {
	index int // позиция '<' в потоке
	depth int // глубина () / [] на момент открытия
}

// ClassifyTemplateArgs rewrites '<' and '>' tokens that delimit template
// argument lists into TemplateArgsLeft / TemplateArgsRight, in place.
//
// A '<' directly after an identifier, 'var' or 'bitcast' is a candidate. A later '>' at
// the same bracket depth closes the innermost candidate. Compound closers
// (">>", ">=", ">>=") are split using the placeholder the lexer left after them.
// Tokens that cannot appear inside a template list (';', '{', '=', ':') drop all
// candidates; "&&" and "||" drop the candidates of the current depth, and a
// closing ')' or ']' drops everything opened inside it.
func ClassifyTemplateArgs(tokens []token.Token) {
	var stack []pendingLess
	depth := 0

	popDepth := func() {
		for len(stack) > 0 && stack[len(stack)-1].depth >= depth {
			stack = stack[:len(stack)-1]
		}
	}

	for i := 0; i < len(tokens)-1; i++ {
		switch tokens[i].Kind {
		case token.Ident, token.KwVar, token.KwBitcast:
			if tokens[i+1].Kind == token.LessThan {
				stack = append(stack, pendingLess{index: i + 1, depth: depth})
				i++ // '<' уже учтён
			}

		case token.TemplateArgsRight, token.GreaterThan, token.GreaterThanEqual,
			token.ShiftRight, token.ShiftRightEqual:
			if len(stack) == 0 || stack[len(stack)-1].depth != depth {
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			tokens[top.index].Kind = token.TemplateArgsLeft
			switch tokens[i].Kind {
			case token.GreaterThan:
				tokens[i].Kind = token.TemplateArgsRight
			case token.ShiftRight:
				SplitToken(tokens, i, token.TemplateArgsRight, token.GreaterThan)
			case token.GreaterThanEqual:
				SplitToken(tokens, i, token.TemplateArgsRight, token.Equal)
			case token.ShiftRightEqual:
				SplitToken(tokens, i, token.TemplateArgsRight, token.GreaterThanEqual)
			}

		case token.LParen, token.LBracket:
			depth++

		case token.RParen, token.RBracket:
			popDepth()
			if depth > 0 {
				depth--
			}

		case token.Semicolon, token.LBrace, token.Equal, token.Colon:
			depth = 0
			stack = stack[:0]

		case token.AndAnd, token.OrOr:
			for len(stack) > 0 && stack[len(stack)-1].depth == depth {
				stack = stack[:len(stack)-1]
			}
		}
	}
}

// SplitToken turns tokens[i] into a one-byte token of kind lhs and the
// placeholder at tokens[i+1] into the rest of the lexeme with kind rhs.
// Spans stay within the original lexeme.
func SplitToken(tokens []token.Token, i int, lhs, rhs token.Kind) {
	if i+1 >= len(tokens) || tokens[i+1].Kind != token.Placeholder {
		panic("lexer: split of a token without placeholder")
	}
	left, right := tokens[i].Span.SplitAt(1)
	text := tokens[i].Text
	tokens[i].Kind = lhs
	tokens[i].Span = left
	if len(text) > 0 {
		tokens[i].Text = text[:1]
	}
	tokens[i+1].Kind = rhs
	tokens[i+1].Span = right
	if len(text) > 1 {
		tokens[i+1].Text = text[1:]
	}
}
