package parser

import (
	"context"
	"fmt"
	"strconv"

	"wgslfront/internal/ast"
	"wgslfront/internal/diag"
	"wgslfront/internal/lexer"
	"wgslfront/internal/source"
	"wgslfront/internal/token"
	"wgslfront/internal/trace"
)

const (
	// DefaultMaxErrors is used when Options.MaxErrors is zero.
	DefaultMaxErrors = 25

	maxParseDepth      = 128
	maxResyncLookahead = 32
)

type Options struct {
	MaxErrors uint
	Reporter  diag.Reporter
	Lexer     lexer.Options
}

type Result struct {
	Module *ast.Module
	Errors uint
	Tokens int
}

// Parser: состояние парсера на один файл.
type Parser struct {
	tokens []token.Token
	pos    int // индекс следующего токена (может указывать на placeholder)
	last   int // индекс последнего съеденного токена

	b    *ast.Builder
	file *source.File
	opts Options

	errors    uint
	maxErrors uint
	silence   int

	depth    int
	syncToks []token.Kind
	synced   bool
}

// ParseFile lexes, classifies and parses one file into b.
func ParseFile(ctx context.Context, file *source.File, b *ast.Builder, opts Options) Result {
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID

	lexSpan := trace.Begin(tracer, trace.ScopePhase, "lex", parent)
	toks := lexer.Tokenize(file, opts.Lexer)
	lexSpan.WithExtra("tokens", strconv.Itoa(len(toks))).End("")

	span := trace.Begin(tracer, trace.ScopePhase, "parse", parent)
	res := ParseTokens(file, toks, b, opts)
	span.WithExtra("errors", strconv.FormatUint(uint64(res.Errors), 10)).End("")
	return res
}

// ParseTokens parses an already classified token stream. toks must end with EOF;
// it is modified in place when compound tokens are split.
func ParseTokens(file *source.File, toks []token.Token, b *ast.Builder, opts Options) Result {
	p := newParser(file, toks, b, opts)
	b.Module.File = file.ID
	p.translationUnit()
	return Result{Module: &b.Module, Errors: p.errors, Tokens: len(toks)}
}

func newParser(file *source.File, toks []token.Token, b *ast.Builder, opts Options) *Parser {
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.EOF {
		end := uint32(len(file.Content))
		toks = append(toks, token.Token{Kind: token.EOF, Span: source.Span{File: file.ID, Start: end, End: end}})
	}
	maxErrors := opts.MaxErrors
	if maxErrors == 0 {
		maxErrors = DefaultMaxErrors
	}
	return &Parser{
		tokens:    toks,
		b:         b,
		file:      file,
		opts:      opts,
		maxErrors: maxErrors,
		synced:    true,
	}
}

// continueParsing is false once the error budget is spent or resynchronization
// failed; no forward progress can be guaranteed after that.
func (p *Parser) continueParsing() bool {
	return p.synced && p.errors < p.maxErrors
}

// translationUnit: global_directive* global_decl* EOF
func (p *Parser) translationUnit() {
	afterDecl := false
	for p.continueParsing() {
		t := p.peek(0)
		if t.Kind == token.EOF {
			break
		}

		res := p.globalDirective(afterDecl)
		if res == noMatch {
			switch p.globalDecl() {
			case matched:
				afterDecl = true
			case noMatch:
				p.errorAt(diag.SynUnexpectedToken, t.Span, "unexpected token")
			}
		}

		if p.errors >= p.maxErrors {
			p.errorAt(diag.SynTooManyErrors, source.Span{File: p.file.ID},
				fmt.Sprintf("stopping after %d errors", p.maxErrors))
			break
		}
	}
}

// peek возвращает n-й значимый токен, пропуская placeholders.
// За концом потока всегда EOF.
func (p *Parser) peek(n int) token.Token {
	for i := p.pos; i < len(p.tokens); i++ {
		if p.tokens[i].Kind == token.Placeholder {
			continue
		}
		if n == 0 {
			return p.tokens[i]
		}
		n--
	}
	return p.tokens[len(p.tokens)-1]
}

func (p *Parser) peekIs(k token.Kind, n int) bool {
	return p.peek(n).Kind == k
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek(0).Kind == k
}

// next съедает токен. На EOF стоит на месте.
func (p *Parser) next() token.Token {
	for p.pos < len(p.tokens)-1 && p.tokens[p.pos].Kind == token.Placeholder {
		p.pos++
	}
	p.last = p.pos
	if p.tokens[p.pos].Kind != token.EOF {
		p.pos++
	}
	return p.tokens[p.last]
}

// match consumes the next token if it has kind k.
func (p *Parser) match(k token.Kind) (token.Token, bool) {
	t := p.peek(0)
	if t.Kind != k {
		return t, false
	}
	return p.next(), true
}

func (p *Parser) accept(k token.Kind) bool {
	_, ok := p.match(k)
	return ok
}

// splitToken rewrites the token just consumed into lhs and the following
// placeholder into rhs, so the second half is what peek returns next.
func (p *Parser) splitToken(lhs, rhs token.Kind) {
	if p.pos == 0 || p.pos >= len(p.tokens) || p.tokens[p.pos].Kind != token.Placeholder {
		diag.Panicf("parse", "split of %s without placeholder at token %d", p.tokens[p.last].Kind, p.last)
	}
	lexer.SplitToken(p.tokens, p.pos-1, lhs, rhs)
}

func (p *Parser) lastSpan() source.Span {
	return p.tokens[p.last].Span
}

// spanFrom covers start up to the end of the last consumed token.
func (p *Parser) spanFrom(start source.Span) source.Span {
	end := p.lastSpan().End
	if p.lastSpan().File != start.File || end < start.Start {
		end = start.Start
	}
	return source.Span{File: start.File, Start: start.Start, End: end}
}

func (p *Parser) ident(t token.Token) ast.Ident {
	return ast.Ident{Name: p.b.Intern(t.Text), Span: t.Span}
}

func (p *Parser) exprSpan(id ast.ExprID) source.Span {
	if e := p.b.Exprs.Get(id); e != nil {
		return e.Span
	}
	return p.lastSpan()
}
