// Package parser extracts hash literals from a token stream and resolves
// the source coordinates the alignment engine consumes. It is deliberately
// forgiving: regions that do not look like key/value pairs are skipped, and
// structural problems surface as diagnostics instead of aborting the file.
package parser

import (
	"sort"

	"hashalign/internal/ast"
	"hashalign/internal/diag"
	"hashalign/internal/lexer"
	"hashalign/internal/source"
	"hashalign/internal/token"
)

type Parser struct {
	file *source.File
	toks []token.Token
	pos  int
	rep  diag.Reporter
	lits []*ast.HashLit
}

// ParseFile tokenizes the file and returns every hash literal it contains,
// in document order. Diagnostics are emitted through rep.
func ParseFile(file *source.File, rep diag.Reporter) []*ast.HashLit {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	p := &Parser{
		file: file,
		toks: lexer.New(file).All(),
		rep:  rep,
	}
	p.run()
	sort.SliceStable(p.lits, func(i, j int) bool {
		return p.lits[i].Span.Start < p.lits[j].Span.Start
	})
	return p.lits
}

func (p *Parser) run() {
	for !p.atEOF() {
		t := p.cur()
		switch {
		case t.Kind == token.LBrace:
			p.parseBraced()
		case t.Kind == token.Ident && p.kindAt(1) == token.LParen:
			p.pos += 2
			p.parseCallArgs()
		default:
			p.pos++
		}
	}
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF
	}
	return p.toks[p.pos]
}

func (p *Parser) kindAt(off int) token.Kind {
	i := p.pos + off
	if i >= len(p.toks) {
		return token.EOF
	}
	return p.toks[i].Kind
}

func (p *Parser) atEOF() bool {
	return p.cur().Kind == token.EOF
}

// pairStart reports whether the current token begins a `key <sep>` pair.
func (p *Parser) pairStart() bool {
	t := p.cur()
	if !t.IsKey() {
		return false
	}
	next := p.kindAt(1)
	return next == token.Colon || next == token.HashRocket
}

// parseBraced consumes an explicit `{ ... }` literal. Literals containing
// no pairs (blocks, set-like structures) are not recorded.
func (p *Parser) parseBraced() *ast.HashLit {
	open := p.cur()
	p.pos++ // '{'

	pairs, closeSpan, closed := p.parsePairList(token.RBrace)
	if !closed {
		diag.ReportWarning(p.rep, diag.SynUnclosedBrace, open.Span, "unclosed `{` in literal")
	}

	if len(pairs) == 0 {
		return nil
	}

	span := open.Span
	for _, pr := range pairs {
		span = span.Cover(pr.Key)
		if pr.HasValue {
			span = span.Cover(pr.Value)
		}
	}
	if closed {
		span = span.Cover(closeSpan)
	}

	lit := &ast.HashLit{
		Pairs:     pairs,
		Span:      span,
		Braced:    true,
		StartLine: p.file.LineOf(span.Start),
		EndLine:   p.file.LineOf(span.End - 1),
	}
	p.markOwnLines(lit, p.file.LineOf(open.Span.Start))
	p.lits = append(p.lits, lit)
	return lit
}

// parsePairList collects pairs until the closer. Non-pair elements are
// skipped conservatively up to the next comma or closer.
func (p *Parser) parsePairList(closer token.Kind) (pairs []ast.Pair, closeSpan source.Span, closed bool) {
	for {
		t := p.cur()
		switch {
		case t.Kind == closer:
			p.pos++
			return pairs, t.Span, true
		case t.Kind == token.EOF:
			return pairs, t.Span, false
		case t.Kind == token.Comma:
			p.pos++
		case p.pairStart():
			pairs = append(pairs, p.parsePair(closer))
		default:
			p.skipElement(closer)
		}
	}
}

// parsePair consumes `key <sep> [value]`. The value is absent for the
// key-only shorthand (`key:` followed by a comma, the closer, or EOF).
func (p *Parser) parsePair(closer token.Kind) ast.Pair {
	key := p.cur()
	sep := p.toks[p.pos+1]
	p.pos += 2

	kind := ast.SepColon
	if sep.Kind == token.HashRocket {
		kind = ast.SepRocket
	}

	pair := ast.Pair{
		Key:     key.Span,
		KeyCol:  p.file.Column(key.Span.Start),
		Line:    p.file.LineOf(key.Span.Start),
		Sep:     kind,
		SepSpan: sep.Span,
		SepCol:  p.file.Column(sep.Span.Start),
	}

	next := p.cur()
	if next.Kind == token.Comma || next.Kind == closer || next.Kind == token.EOF {
		if kind == ast.SepRocket {
			// `key =>` без значения — это не shorthand
			diag.ReportWarning(p.rep, diag.SynExpectValue, sep.Span, "expected value after `=>`")
		}
		return pair
	}

	if valueSpan, ok := p.scanValue(closer); ok {
		pair.Value = valueSpan
		pair.ValueCol = p.file.Column(valueSpan.Start)
		pair.HasValue = true
	}
	return pair
}

// scanValue consumes one value expression: everything up to a top-level
// comma, the closer, or the start of the next pair on a fresh line.
// Nested braced literals inside the value are recorded as literals of
// their own.
func (p *Parser) scanValue(closer token.Kind) (source.Span, bool) {
	start := p.cur()
	if start.Kind == token.EOF {
		return source.Span{}, false
	}
	span := start.Span
	line := p.file.LineOf(start.Span.Start)
	first := true

	for {
		t := p.cur()
		if t.Kind == token.EOF || t.Kind == token.Comma || t.Kind == closer {
			break
		}
		// Пара на новой строке завершает значение (литералы без запятых)
		if !first && p.file.LineOf(t.Span.Start) > line && p.pairStart() {
			break
		}
		switch t.Kind {
		case token.LBrace:
			if lit := p.parseBraced(); lit != nil {
				span = span.Cover(lit.Span)
			}
		case token.LBracket, token.LParen:
			span = span.Cover(p.skipBalanced())
		default:
			span = span.Cover(t.Span)
			p.pos++
		}
		line = p.file.LineOf(span.End - 1)
		first = false
	}
	return span, true
}

// skipBalanced consumes a bracketed/parenthesized group, descending into
// any braced literals it contains.
func (p *Parser) skipBalanced() source.Span {
	open := p.cur()
	p.pos++
	span := open.Span

	var want token.Kind
	switch open.Kind {
	case token.LBracket:
		want = token.RBracket
	case token.LParen:
		want = token.RParen
	default:
		return span
	}

	for {
		t := p.cur()
		switch t.Kind {
		case token.EOF:
			return span
		case want:
			p.pos++
			return span.Cover(t.Span)
		case token.LBrace:
			if lit := p.parseBraced(); lit != nil {
				span = span.Cover(lit.Span)
			}
		case token.LBracket, token.LParen:
			span = span.Cover(p.skipBalanced())
		default:
			span = span.Cover(t.Span)
			p.pos++
		}
	}
}

// skipElement consumes one non-pair element up to a top-level comma or the
// closer.
func (p *Parser) skipElement(closer token.Kind) {
	for {
		t := p.cur()
		switch t.Kind {
		case token.EOF, token.Comma:
			return
		case closer:
			return
		case token.LBrace:
			p.parseBraced()
		case token.LBracket, token.LParen:
			p.skipBalanced()
		default:
			p.pos++
		}
	}
}

// parseCallArgs scans a call's arguments for an implicit trailing hash: the
// trailing run of pairs not wrapped in braces. A braced literal in final
// argument position is marked TrailingArg instead.
func (p *Parser) parseCallArgs() {
	var run []ast.Pair
	var lastBraced *ast.HashLit

	for {
		t := p.cur()
		switch {
		case t.Kind == token.RParen:
			p.pos++
			p.finishCall(run, lastBraced)
			return
		case t.Kind == token.EOF:
			p.finishCall(run, lastBraced)
			return
		case t.Kind == token.Comma:
			p.pos++
		case p.pairStart():
			run = append(run, p.parsePair(token.RParen))
			lastBraced = nil
		case t.Kind == token.LBrace:
			lastBraced = p.parseBraced()
			run = nil
		default:
			// позиционный аргумент сбрасывает накопленный хвост
			p.skipElement(token.RParen)
			run = nil
			lastBraced = nil
		}
	}
}

func (p *Parser) finishCall(run []ast.Pair, lastBraced *ast.HashLit) {
	if lastBraced != nil {
		lastBraced.TrailingArg = true
		return
	}
	if len(run) == 0 {
		return
	}

	span := run[0].Key
	for _, pr := range run {
		span = span.Cover(pr.Key)
		if pr.HasValue {
			span = span.Cover(pr.Value)
		}
		span = span.Cover(pr.SepSpan)
	}
	lit := &ast.HashLit{
		Pairs:       run,
		Span:        span,
		Braced:      false,
		TrailingArg: true,
		StartLine:   p.file.LineOf(span.Start),
		EndLine:     p.file.LineOf(span.End - 1),
	}
	p.markOwnLines(lit, lit.StartLine)
	p.lits = append(p.lits, lit)
}

// markOwnLines computes the starts-own-line predicate for every pair: a
// pair starts a fresh line when it does not share one with its predecessor
// (the opening token for the first pair).
func (p *Parser) markOwnLines(lit *ast.HashLit, openLine uint32) {
	prev := openLine
	for i := range lit.Pairs {
		lit.Pairs[i].OwnLine = lit.Pairs[i].Line != prev
		prev = lit.Pairs[i].Line
	}
}
