// Package ast defines the read-only view of key/value literals that the
// alignment engine consumes. Pairs carry byte spans plus already-resolved
// line/column coordinates; nothing downstream ever re-tokenizes text.
package ast

import (
	"hashalign/internal/source"
)

// SepKind identifies which token joins a key to its value.
type SepKind uint8

const (
	// SepColon is the `key: value` form.
	SepColon SepKind = iota
	// SepRocket is the `key => value` form.
	SepRocket
)

func (k SepKind) String() string {
	if k == SepRocket {
		return "=>"
	}
	return ":"
}

// Pair is one key/value entry of a literal. It is a read-only view: pairs
// are never mutated after parsing, only referenced.
type Pair struct {
	Key    source.Span
	KeyCol uint32 // 0-based column of the key start
	Line   uint32 // 1-based line of the key start

	Sep     SepKind
	SepSpan source.Span
	SepCol  uint32 // 0-based column of the separator start

	Value    source.Span
	ValueCol uint32 // 0-based column of the value start
	HasValue bool   // false for key-only shorthand (`key:`)

	// OwnLine reports whether the entry starts a fresh source line, i.e.
	// it does not share a line with the preceding pair.
	OwnLine bool
}

// KeyWidth returns the width of the key source text in columns.
func (p Pair) KeyWidth() uint32 {
	return p.Key.Len()
}

// HashLit is an ordered sequence of pairs forming one literal.
type HashLit struct {
	Pairs []Pair
	Span  source.Span

	// Braced is true for explicit `{ ... }` literals and false for the
	// implicit trailing-argument form inside call parentheses.
	Braced bool
	// TrailingArg is true when the literal is the trailing argument of a
	// call expression.
	TrailingArg bool

	StartLine uint32 // 1-based
	EndLine   uint32 // 1-based
}

// MultiLine reports whether the literal spans more than one source line.
// Single-line literals are never checked.
func (h *HashLit) MultiLine() bool {
	return h.EndLine > h.StartLine
}

// Uniform reports whether every pair uses the same separator kind as the
// first pair.
func (h *HashLit) Uniform() bool {
	if len(h.Pairs) == 0 {
		return true
	}
	first := h.Pairs[0].Sep
	for _, p := range h.Pairs[1:] {
		if p.Sep != first {
			return false
		}
	}
	return true
}

// MaxKeyWidth returns the widest key across all pairs, regardless of
// separator kind.
func (h *HashLit) MaxKeyWidth() uint32 {
	var w uint32
	for _, p := range h.Pairs {
		if kw := p.KeyWidth(); kw > w {
			w = kw
		}
	}
	return w
}
