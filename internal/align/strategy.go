package align

import (
	"hashalign/internal/ast"
)

// Layout captures the per-literal quantities every policy may need,
// computed once before any delta. The reference pair is always the
// literal's first pair; deltas are never computed against coordinates
// already shifted by a staged correction.
type Layout struct {
	Lit *ast.HashLit
	Ref ast.Pair
	// MaxKeyWidth is the widest key across all pairs, regardless of
	// separator kind.
	MaxKeyWidth int
}

// NewLayout resolves the layout of a non-empty literal.
func NewLayout(lit *ast.HashLit) Layout {
	return Layout{
		Lit:         lit,
		Ref:         lit.Pairs[0],
		MaxKeyWidth: int(lit.MaxKeyWidth()),
	}
}

// Strategy is the fixed capability set of an alignment policy. The policy
// set is closed: construction goes through New, dispatch through the three
// variants, never open-ended extension.
//
// Strategies are stateless once built and safe to share across concurrent
// analyses.
type Strategy interface {
	// Checkable reports whether the policy can evaluate the literal's
	// layout at all. Uncheckable literals are skipped entirely; partial
	// corrections are never proposed.
	Checkable(lit *ast.HashLit) bool
	// ReferenceDelta evaluates the literal's first pair against itself.
	ReferenceDelta(lay Layout) Delta
	// Delta evaluates one pair against the reference pair.
	Delta(lay Layout, pair ast.Pair) Delta
}

// New builds the strategy for a style.
func New(style Style) Strategy {
	switch style {
	case StyleTable:
		return valueAlign{
			selfCheckRef: true,
			key:          tableKeyDelta,
			rocket:       tableRocketDelta,
			value:        tableValueDelta,
		}
	case StyleSeparator:
		return valueAlign{
			key:    separatorKeyDelta,
			rocket: separatorRocketDelta,
			value:  separatorValueDelta,
		}
	default:
		return keyAlign{}
	}
}

// keyAlign aligns only the start column of each key; separators and values
// are never touched. It tolerates mixed separator kinds and entries sharing
// a line, because it never inspects separator or value positions.
type keyAlign struct{}

func (keyAlign) Checkable(*ast.HashLit) bool {
	return true
}

// The first pair defines the reference column by construction, so it always
// reports as correct.
func (keyAlign) ReferenceDelta(Layout) Delta {
	return Delta{}
}

func (keyAlign) Delta(lay Layout, pair ast.Pair) Delta {
	if !pair.OwnLine {
		// Выравнивание имеет смысл только между началами строк
		return Delta{}
	}
	return Delta{Key: Shift(int(lay.Ref.KeyCol) - int(pair.KeyCol))}
}
