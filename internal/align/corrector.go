package align

import (
	"strings"

	"fortio.org/safecast"

	"hashalign/internal/ast"
	"hashalign/internal/diag"
	"hashalign/internal/source"
)

// Correct turns one violation's delta into whitespace edits for the up to
// three sub-ranges of the pair. The three offsets were evaluated together
// against the same reference and must be applied together; recomputing any
// of them individually would double-count drift already absorbed by an
// earlier sub-edit.
func Correct(f *source.File, pair ast.Pair, d Delta) []diag.TextEdit {
	edits := make([]diag.TextEdit, 0, 3)

	// Ключ никогда не уезжает левее начала своей строки
	keyShift := d.Key.Columns()
	if keyShift < -int(pair.KeyCol) {
		keyShift = -int(pair.KeyCol)
	}
	appendShift(&edits, f, pair.Key, keyShift)

	if !pair.HasValue {
		// Shorthand-пара: двигается только ключ
		return edits
	}

	appendShift(&edits, f, pair.SepSpan, d.Sep.Columns())
	appendShift(&edits, f, pair.Value, d.Value.Columns())
	return edits
}

// appendShift emits the edit moving span by shift columns: insert spaces
// immediately before the range for a positive shift, remove the preceding
// bytes for a negative one.
func appendShift(edits *[]diag.TextEdit, f *source.File, span source.Span, shift int) {
	switch {
	case shift > 0:
		*edits = append(*edits, diag.TextEdit{
			Span:    source.Span{File: span.File, Start: span.Start, End: span.Start},
			NewText: strings.Repeat(" ", shift),
		})
	case shift < 0:
		remove, err := safecast.Conv[uint32](-shift)
		if err != nil || remove > span.Start {
			return
		}
		cut := source.Span{File: span.File, Start: span.Start - remove, End: span.Start}
		*edits = append(*edits, diag.TextEdit{
			Span:    cut,
			NewText: "",
			// Guard: откажемся применять правку к устаревшему тексту
			OldText: f.Text(cut),
		})
	}
}
