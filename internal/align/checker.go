package align

import (
	"hashalign/internal/ast"
)

// Violation is one misaligned pair together with the shifts that would
// correct it. The checker returns violations as explicit values; the
// corrector consumes them with no shared state in between.
type Violation struct {
	Pair  ast.Pair
	Delta Delta
}

// Checker applies the configured policies to literals. The two strategies
// are built eagerly at configuration time, are stateless, and live for the
// duration of one analysis pass.
type Checker struct {
	colon  Strategy
	rocket Strategy
}

// NewChecker builds a checker from the two per-separator styles.
func NewChecker(colonStyle, rocketStyle Style) *Checker {
	return &Checker{
		colon:  New(colonStyle),
		rocket: New(rocketStyle),
	}
}

func (c *Checker) strategyFor(kind ast.SepKind) Strategy {
	if kind == ast.SepRocket {
		return c.rocket
	}
	return c.colon
}

// Check evaluates one literal and returns its violations in document
// order, at most one per pair. Empty and single-line literals are
// vacuously aligned; a literal either resolved strategy cannot reason
// about is skipped entirely.
//
// Deltas are computed purely from original source coordinates: corrections
// for one literal are logically simultaneous, never sequential.
func (c *Checker) Check(lit *ast.HashLit) []Violation {
	if lit == nil || len(lit.Pairs) == 0 || !lit.MultiLine() {
		return nil
	}
	if !c.colon.Checkable(lit) || !c.rocket.Checkable(lit) {
		return nil
	}

	lay := NewLayout(lit)

	var out []Violation
	for i, pair := range lit.Pairs {
		strat := c.strategyFor(pair.Sep)

		// Референсная пара оценивается относительно самой себя
		var d Delta
		if i == 0 {
			d = strat.ReferenceDelta(lay)
		} else {
			d = strat.Delta(lay, pair)
		}

		if !d.Aligned() {
			out = append(out, Violation{Pair: pair, Delta: d})
		}
	}
	return out
}
