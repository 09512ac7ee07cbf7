package lexer

import (
	"fmt"

	"wgslfront/internal/source"
	"wgslfront/internal/token"
)

// Lexer scans one file into tokens. It never reports diagnostics: malformed input
// becomes a token.Error whose Text is the message, the parser reports it.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	count  int
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Tokenize lexes the whole file, appends placeholders after splittable tokens,
// runs template classification and returns the stream terminated by EOF.
func Tokenize(file *source.File, opts Options) []token.Token {
	lx := New(file, opts)
	out := make([]token.Token, 0, len(file.Content)/3+2)
	for {
		tok := lx.Next()
		out = append(out, tok)
		for range tok.Kind.Placeholders() {
			out = append(out, token.Token{Kind: token.Placeholder, Span: tok.Span.Tail()})
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	if !opts.SkipClassify {
		ClassifyTemplateArgs(out)
	}
	return out
}

// Next возвращает следующий значимый токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if errTok, ok := lx.skipBlanksAndComments(); !ok {
		return errTok
	}
	if lx.cursor.EOF() {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}
	lx.count++
	if lx.opts.MaxTokens > 0 && lx.count > lx.opts.MaxTokens {
		start := lx.cursor.Mark()
		lx.cursor.Reset(Mark(lx.cursor.Limit))
		return lx.errorToken(start, fmt.Sprintf("token limit of %d exceeded", lx.opts.MaxTokens))
	}

	ch := lx.cursor.Peek()
	switch {
	case ch == 0:
		start := lx.cursor.Mark()
		lx.cursor.Bump()
		return lx.errorToken(start, "null character found")
	case isDec(ch), ch == '.' && isDec(lx.cursor.PeekAt(1)):
		return lx.scanNumber()
	case isIdentStartByte(ch), ch >= utf8RuneSelf:
		if tok, ok := lx.scanIdentOrKeyword(); ok {
			return tok
		}
	}
	return lx.scanOperatorOrPunct()
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) errorToken(start Mark, msg string) token.Token {
	return token.Token{Kind: token.Error, Span: lx.cursor.SpanFrom(start), Text: msg}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}
