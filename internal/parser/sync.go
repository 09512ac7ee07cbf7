package parser

import (
	"wgslfront/internal/diag"
	"wgslfront/internal/token"
)

// sync runs body with tok pushed as a resynchronization point. If body errors,
// tokens are skipped up to and including tok. It is also the single place where
// parse depth is counted.
func (p *Parser) sync(tok token.Kind, body func() outcome) outcome {
	if p.depth >= maxParseDepth {
		p.errorAt(diag.SynMaxDepth, p.peek(0).Span, "maximum parser recursive depth reached")
		// если не найдём tok, synced останется false и разбор остановится
		p.syncTo(tok, true)
		return errored
	}

	p.syncToks = append(p.syncToks, tok)
	p.depth++
	res := body()
	p.depth--

	top := len(p.syncToks) - 1
	if p.syncToks[top] != tok {
		diag.Panicf("parse", "sync token stack out of order: want %s, have %s", tok, p.syncToks[top])
	}
	p.syncToks = p.syncToks[:top]

	if res == errored {
		p.syncTo(tok, true)
	}
	return res
}

// blockCounters tracks nesting of (), [] and {} while scanning ahead.
type blockCounters struct {
	brace, bracket, paren int
}

// consume returns the nesting depth before t for the block kind of t,
// 0 for tokens that are not brackets.
func (c *blockCounters) consume(t token.Token) int {
	bump := func(counter *int, delta int) int {
		old := *counter
		*counter += delta
		return old
	}
	switch t.Kind {
	case token.LBrace:
		return bump(&c.brace, 1)
	case token.RBrace:
		return bump(&c.brace, -1)
	case token.LBracket:
		return bump(&c.bracket, 1)
	case token.RBracket:
		return bump(&c.bracket, -1)
	case token.LParen:
		return bump(&c.paren, 1)
	case token.RParen:
		return bump(&c.paren, -1)
	}
	return 0
}

// syncTo looks ahead at most maxResyncLookahead tokens for tok or any token on
// the sync stack, skipping nested blocks. Tokens before the hit are dropped.
// Returns true (and sets synced) only when the hit is tok itself.
func (p *Parser) syncTo(tok token.Kind, consume bool) bool {
	p.synced = false

	var counters blockCounters
	for i := 0; i < maxResyncLookahead; i++ {
		t := p.peek(i)
		if counters.consume(t) > 0 {
			continue
		}
		if t.Kind != tok && !p.isSyncToken(t.Kind) {
			if t.Kind == token.EOF {
				break
			}
			continue
		}

		for ; i > 0; i-- {
			p.next()
		}
		if t.Kind == tok {
			if consume {
				p.next()
			}
			p.synced = true
			return true
		}
		break
	}
	return false
}

func (p *Parser) isSyncToken(k token.Kind) bool {
	for _, s := range p.syncToks {
		if s == k {
			return true
		}
	}
	return false
}

// expectBlock parses `start body end`. The body runs under sync(end) so an
// error inside it skips to the closing token.
func (p *Parser) expectBlock(start, end token.Kind, use string, body func() outcome) outcome {
	if !p.expect(use, start) {
		return errored
	}
	return p.sync(end, func() outcome {
		if body() == errored {
			return errored
		}
		if !p.expect(use, end) {
			return errored
		}
		return matched
	})
}

func (p *Parser) expectParenBlock(use string, body func() outcome) outcome {
	return p.expectBlock(token.LParen, token.RParen, use, body)
}

func (p *Parser) expectBraceBlock(use string, body func() outcome) outcome {
	return p.expectBlock(token.LBrace, token.RBrace, use, body)
}

func (p *Parser) expectTemplateArgBlock(use string, body func() outcome) outcome {
	return p.expectBlock(token.TemplateArgsLeft, token.TemplateArgsRight, use, body)
}

// delimitedList parses `elem (sep elem)* sep?` up to (not including) end.
// elem returns noMatch to stop the list early, which callers use for trailing
// separators.
func (p *Parser) delimitedList(sep, end token.Kind, elem func() outcome) outcome {
	for p.continueParsing() {
		if p.at(end) {
			return matched
		}
		switch elem() {
		case errored:
			return errored
		case noMatch:
			return matched
		}
		if !p.accept(sep) {
			return matched
		}
	}
	return matched
}
