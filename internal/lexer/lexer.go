package lexer

import (
	"hashalign/internal/source"
	"hashalign/internal/token"
)

// Lexer scans a file of the key/value literal language into tokens.
// It is loss-tolerant: bytes it does not model become Other tokens so the
// surrounding source can always be traversed.
type Lexer struct {
	file   *source.File
	cursor Cursor
	look   *token.Token // 1 элементный буфер для токена
}

func New(file *source.File) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
	}
}

// Next возвращает следующий значимый токен. После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.skipTrivia()

	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.emptySpan(),
		}
	}

	ch := lx.cursor.Peek()

	switch {
	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		return lx.scanIdent()

	case isDec(ch):
		return lx.scanNumber()

	case ch == '"' || ch == '\'':
		return lx.scanString()

	case ch == ':':
		return lx.scanColonOrSymbol()

	default:
		return lx.scanPunct()
	}
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// All drains the lexer and returns every token up to and including EOF.
func (lx *Lexer) All() []token.Token {
	toks := make([]token.Token, 0, 64)
	for {
		t := lx.Next()
		toks = append(toks, t)
		if t.Kind == token.EOF {
			return toks
		}
	}
}

// skipTrivia пропускает пробелы, переводы строк и комментарии (#...).
func (lx *Lexer) skipTrivia() {
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case ' ', '\t', '\n', '\r':
			lx.cursor.Bump()
		case '#':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
		default:
			return
		}
	}
}

func (lx *Lexer) scanIdent() token.Token {
	m := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if !isIdentContinueByte(b) && b < utf8RuneSelf {
			break
		}
		lx.cursor.Bump()
	}
	// Суффиксы ? и ! — часть имени
	if b := lx.cursor.Peek(); b == '?' || b == '!' {
		lx.cursor.Bump()
	}
	span := lx.cursor.SpanFrom(m)
	return token.Token{Kind: token.Ident, Span: span, Text: lx.file.Text(span)}
}

func (lx *Lexer) scanNumber() token.Token {
	m := lx.cursor.Mark()
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if !isDec(b) && b != '_' && b != '.' {
			break
		}
		lx.cursor.Bump()
	}
	span := lx.cursor.SpanFrom(m)
	return token.Token{Kind: token.Number, Span: span, Text: lx.file.Text(span)}
}

func (lx *Lexer) scanString() token.Token {
	m := lx.cursor.Mark()
	quote := lx.cursor.Bump()
	for !lx.cursor.EOF() {
		b := lx.cursor.Bump()
		if b == '\\' {
			lx.cursor.Bump()
			continue
		}
		if b == quote || b == '\n' {
			// незакрытая строка обрывается на конце строки
			break
		}
	}
	span := lx.cursor.SpanFrom(m)
	return token.Token{Kind: token.String, Span: span, Text: lx.file.Text(span)}
}

// scanColonOrSymbol различает `:` (разделитель) и `:name` (символ).
func (lx *Lexer) scanColonOrSymbol() token.Token {
	m := lx.cursor.Mark()
	lx.cursor.Bump() // ':'
	if b := lx.cursor.Peek(); isIdentStartByte(b) || b == '"' || b == '\'' {
		// :foo или :"quoted"
		if b == '"' || b == '\'' {
			lx.scanString()
		} else {
			lx.scanIdent()
		}
		span := lx.cursor.SpanFrom(m)
		return token.Token{Kind: token.Symbol, Span: span, Text: lx.file.Text(span)}
	}
	span := lx.cursor.SpanFrom(m)
	return token.Token{Kind: token.Colon, Span: span, Text: ":"}
}

func (lx *Lexer) scanPunct() token.Token {
	m := lx.cursor.Mark()
	b := lx.cursor.Bump()

	kind := token.Other
	switch b {
	case '=':
		if lx.cursor.Eat('>') {
			kind = token.HashRocket
		}
	case ',':
		kind = token.Comma
	case '{':
		kind = token.LBrace
	case '}':
		kind = token.RBrace
	case '(':
		kind = token.LParen
	case ')':
		kind = token.RParen
	case '[':
		kind = token.LBracket
	case ']':
		kind = token.RBracket
	default:
		// Слипшаяся пунктуация/операторы — один Other токен
		for !lx.cursor.EOF() && isOpaqueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}

	span := lx.cursor.SpanFrom(m)
	return token.Token{Kind: kind, Span: span, Text: lx.file.Text(span)}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}
