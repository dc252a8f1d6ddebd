package align

import (
	"hashalign/internal/ast"
)

// valueAlign is the shared body of the two value-aligning policies (table
// and separator). The three hooks supply the policy-specific reference
// points; the shared body owns the cumulative-delta arithmetic: a text
// edit applies deltas left to right, so the separator delta is net of the
// key delta and the value delta is net of both.
type valueAlign struct {
	// selfCheckRef marks policies whose first pair can itself be
	// misaligned (table: its separator or value may drift from the table
	// geometry even though it defines the key reference column).
	selfCheckRef bool

	key    func(lay Layout, pair ast.Pair) int
	rocket func(lay Layout, sepCol int) int
	value  func(lay Layout, pair ast.Pair) (int, bool)
}

// Checkable requires a uniform layout: no two pairs on one source line and
// a single separator kind throughout.
func (valueAlign) Checkable(lit *ast.HashLit) bool {
	if !lit.Uniform() {
		return false
	}
	for i := 1; i < len(lit.Pairs); i++ {
		if lit.Pairs[i].Line == lit.Pairs[i-1].Line {
			return false
		}
	}
	return true
}

func (v valueAlign) ReferenceDelta(lay Layout) Delta {
	if !v.selfCheckRef {
		return Delta{}
	}
	// Ключ референсной пары корректен по определению (keyDelta = 0)
	return v.delta(lay, lay.Ref, 0)
}

func (v valueAlign) Delta(lay Layout, pair ast.Pair) Delta {
	return v.delta(lay, pair, v.key(lay, pair))
}

func (v valueAlign) delta(lay Layout, pair ast.Pair, keyDelta int) Delta {
	d := Delta{Key: Shift(keyDelta)}

	// Двоеточие прижато к ключу и собственной позиции не имеет
	sepDelta := 0
	if pair.Sep == ast.SepRocket {
		sepDelta = v.rocket(lay, int(pair.SepCol)) - keyDelta
	}
	d.Sep = Shift(sepDelta)

	if pair.HasValue {
		if raw, ok := v.value(lay, pair); ok {
			d.Value = Shift(raw - keyDelta - sepDelta)
		}
	}
	return d
}

// spacedSeparatorWidth is the width of the rendered separator token
// including its surrounding spacing: " => " for rockets, ": " for colons.
func spacedSeparatorWidth(kind ast.SepKind) int {
	if kind == ast.SepRocket {
		return len(" => ")
	}
	return len(": ")
}

// Table alignment: the whole table's geometry is driven by the widest key.

func tableKeyDelta(lay Layout, pair ast.Pair) int {
	return int(lay.Ref.KeyCol) - int(pair.KeyCol)
}

// The rocket must start exactly one column after the widest key.
func tableRocketDelta(lay Layout, sepCol int) int {
	return int(lay.Ref.KeyCol) + lay.MaxKeyWidth + 1 - sepCol
}

// The value must start immediately after the rendered separator.
func tableValueDelta(lay Layout, pair ast.Pair) (int, bool) {
	want := int(lay.Ref.KeyCol) + spacedSeparatorWidth(pair.Sep) + lay.MaxKeyWidth
	return want - int(pair.ValueCol), true
}

// Separator alignment: separators share a column, keys are right-aligned
// against it, values align to the reference value column.

func separatorKeyDelta(lay Layout, pair ast.Pair) int {
	refEnd := int(lay.Ref.KeyCol) + int(lay.Ref.KeyWidth())
	end := int(pair.KeyCol) + int(pair.KeyWidth())
	return refEnd - end
}

func separatorRocketDelta(lay Layout, sepCol int) int {
	return int(lay.Ref.SepCol) - sepCol
}

func separatorValueDelta(lay Layout, pair ast.Pair) (int, bool) {
	if !lay.Ref.HasValue {
		return 0, false
	}
	return int(lay.Ref.ValueCol) - int(pair.ValueCol), true
}
