package align

// Offset is a signed column shift for one sub-range of a pair. An
// unevaluated offset means the active policy did not inspect that
// sub-range and it counts as already correct.
type Offset struct {
	Cols int
	Eval bool
}

// Shift returns an evaluated offset of n columns.
func Shift(n int) Offset {
	return Offset{Cols: n, Eval: true}
}

// Zero reports whether the offset requires no movement.
func (o Offset) Zero() bool {
	return !o.Eval || o.Cols == 0
}

// Columns returns the shift, defaulting to 0 when unevaluated.
func (o Offset) Columns() int {
	if !o.Eval {
		return 0
	}
	return o.Cols
}

// Delta is the set of column shifts that would move one pair into its
// correct position: key start, separator start, value start. Positive
// moves right, negative moves left.
type Delta struct {
	Key   Offset
	Sep   Offset
	Value Offset
}

// Aligned reports whether every evaluated field is exactly zero.
func (d Delta) Aligned() bool {
	return d.Key.Zero() && d.Sep.Zero() && d.Value.Zero()
}
