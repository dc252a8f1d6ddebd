package token

import (
	"hashalign/internal/source"
)

// Token represents a single source token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsValue reports whether the token can stand as a pair value.
func (t Token) IsValue() bool {
	switch t.Kind {
	case Ident, Symbol, String, Number, Other, LBrace, LBracket:
		return true
	default:
		return false
	}
}

// IsKey reports whether the token can stand as a pair key.
func (t Token) IsKey() bool {
	switch t.Kind {
	case Ident, Symbol, String, Number:
		return true
	default:
		return false
	}
}

// IsSeparator reports whether the token joins a key to a value.
func (t Token) IsSeparator() bool {
	return t.Kind == Colon || t.Kind == HashRocket
}
