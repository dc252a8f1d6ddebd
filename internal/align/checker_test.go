package align

import (
	"testing"

	"hashalign/internal/ast"
	"hashalign/internal/parser"
	"hashalign/internal/source"
)

func parseOne(t *testing.T, src string) (*source.File, *ast.HashLit) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("lit.hsh", []byte(src))
	f := fs.Get(id)
	lits := parser.ParseFile(f, nil)
	if len(lits) != 1 {
		t.Fatalf("expected exactly 1 literal, got %d", len(lits))
	}
	return f, lits[0]
}

func TestKeyStyleReportsDriftedKey(t *testing.T) {
	_, lit := parseOne(t, "{\n  a: 1,\n    b: 2,\n}\n")

	checker := NewChecker(StyleKey, StyleKey)
	violations := checker.Check(lit)

	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(violations))
	}
	v := violations[0]
	if v.Pair.KeyCol != 4 {
		t.Fatalf("expected violation on key at column 4, got %d", v.Pair.KeyCol)
	}
	if !v.Delta.Key.Eval || v.Delta.Key.Cols != -2 {
		t.Fatalf("expected key delta -2, got %+v", v.Delta.Key)
	}
	if v.Delta.Sep.Eval || v.Delta.Value.Eval {
		t.Fatalf("key style must not evaluate separator or value, got %+v", v.Delta)
	}
}

func TestKeyStyleCleanWhenKeysShareColumn(t *testing.T) {
	_, lit := parseOne(t, "{\n    a: 1,\n    b: 2,\n    c: 3,\n}\n")

	checker := NewChecker(StyleKey, StyleKey)
	if got := checker.Check(lit); len(got) != 0 {
		t.Fatalf("expected no violations, got %d", len(got))
	}
}

func TestKeyStyleToleratesMixedSeparators(t *testing.T) {
	_, lit := parseOne(t, "{\n  a: 1,\n  b => 2,\n}\n")

	checker := NewChecker(StyleKey, StyleKey)
	if got := checker.Check(lit); len(got) != 0 {
		t.Fatalf("expected no violations for mixed separators under key style, got %d", len(got))
	}
}

func TestKeyStyleSkipsPairsSharingALine(t *testing.T) {
	// Вторая пара на строке первой не оценивается, третья оценивается
	_, lit := parseOne(t, "{\n  a: 1, b: 2,\n    c: 3,\n}\n")

	checker := NewChecker(StyleKey, StyleKey)
	violations := checker.Check(lit)
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(violations))
	}
	if violations[0].Pair.KeyCol != 4 {
		t.Fatalf("expected the fresh-line pair to be flagged, got column %d", violations[0].Pair.KeyCol)
	}
}

func TestTableStyleRocketColumn(t *testing.T) {
	// Самый широкий ключ - 7 колонок; стрелки должны стоять в col 2+7+1
	_, lit := parseOne(t, "{\n  foo => 1,\n  bazquux => 2,\n}\n")

	checker := NewChecker(StyleKey, StyleTable)
	violations := checker.Check(lit)

	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(violations))
	}
	v := violations[0]
	if v.Pair.SepCol != 6 {
		t.Fatalf("expected the reference pair's rocket at column 6 to be flagged, got %d", v.Pair.SepCol)
	}
	if v.Delta.Key.Columns() != 0 {
		t.Fatalf("expected key delta 0, got %d", v.Delta.Key.Columns())
	}
	if v.Delta.Sep.Columns() != 4 {
		t.Fatalf("expected separator delta 4, got %d", v.Delta.Sep.Columns())
	}
	if v.Delta.Value.Columns() != 0 {
		t.Fatalf("expected value delta 0 net of separator shift, got %d", v.Delta.Value.Columns())
	}
}

func TestTableStyleCleanTable(t *testing.T) {
	_, lit := parseOne(t, "{\n  foo     => 1,\n  bazquux => 2,\n}\n")

	checker := NewChecker(StyleKey, StyleTable)
	if got := checker.Check(lit); len(got) != 0 {
		t.Fatalf("expected no violations for a formed table, got %d", len(got))
	}
}

func TestTableStyleDeltasUseOriginalCoordinates(t *testing.T) {
	// Оба смещения считаются от исходных координат, а не после сдвига ключа
	_, lit := parseOne(t, "{\n  foo => 1,\n  bazquux  =>  2,\n}\n")

	checker := NewChecker(StyleKey, StyleTable)
	violations := checker.Check(lit)
	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(violations))
	}

	second := violations[1]
	if second.Delta.Sep.Columns() != -1 {
		t.Fatalf("expected separator delta -1, got %d", second.Delta.Sep.Columns())
	}
	if second.Delta.Value.Columns() != -1 {
		t.Fatalf("expected value delta -1 net of earlier shifts, got %d", second.Delta.Value.Columns())
	}
}

func TestSeparatorStyleRightAlignsKeyEnds(t *testing.T) {
	// Разделители в колонках 5 и 9: второй ключ должен уехать влево на 4
	_, lit := parseOne(t, "{\n  one: 1,\n  threexx: 2,\n}\n")

	checker := NewChecker(StyleSeparator, StyleKey)
	violations := checker.Check(lit)

	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(violations))
	}
	v := violations[0]
	if v.Delta.Key.Columns() != -4 {
		t.Fatalf("expected key delta -4, got %d", v.Delta.Key.Columns())
	}
	if v.Delta.Sep.Columns() != 0 {
		t.Fatalf("colon hugs its key, expected separator delta 0, got %d", v.Delta.Sep.Columns())
	}
	if v.Delta.Value.Columns() != 0 {
		t.Fatalf("expected value delta 0 net of key shift, got %d", v.Delta.Value.Columns())
	}
}

func TestSeparatorStyleReferencePairNeverFlagged(t *testing.T) {
	_, lit := parseOne(t, "{\n      weird: 1,\n  a: 2,\n}\n")

	checker := NewChecker(StyleSeparator, StyleKey)
	for _, v := range checker.Check(lit) {
		if v.Pair.KeyCol == 6 {
			t.Fatalf("reference pair must not be flagged under separator style")
		}
	}
}

func TestValueStylesSkipMixedSeparators(t *testing.T) {
	_, lit := parseOne(t, "{\n  a: 1,\n  b => 2,\n}\n")

	for _, style := range []Style{StyleTable, StyleSeparator} {
		checker := NewChecker(style, style)
		if got := checker.Check(lit); len(got) != 0 {
			t.Fatalf("style %s: expected mixed-separator literal to be skipped, got %d violations", style, len(got))
		}
	}
}

func TestValueStylesSkipPairsSharingALine(t *testing.T) {
	_, lit := parseOne(t, "{\n  a => 1, b => 2,\n  c => 3,\n}\n")

	checker := NewChecker(StyleKey, StyleTable)
	if got := checker.Check(lit); len(got) != 0 {
		t.Fatalf("expected shared-line literal to be skipped under table style, got %d violations", len(got))
	}
}

func TestSingleLineLiteralSkipped(t *testing.T) {
	_, lit := parseOne(t, "{ a: 1,   b: 2 }\n")

	for _, style := range []Style{StyleKey, StyleTable, StyleSeparator} {
		checker := NewChecker(style, style)
		if got := checker.Check(lit); len(got) != 0 {
			t.Fatalf("style %s: single-line literal must never be checked", style)
		}
	}
}

func TestCheckNilAndEmpty(t *testing.T) {
	checker := NewChecker(StyleKey, StyleKey)
	if got := checker.Check(nil); got != nil {
		t.Fatalf("expected nil for nil literal")
	}
	if got := checker.Check(&ast.HashLit{}); got != nil {
		t.Fatalf("expected nil for empty literal")
	}
}

func TestViolationsKeepDocumentOrder(t *testing.T) {
	_, lit := parseOne(t, "{\n  a: 1,\n      b: 2,\n    c: 3,\n}\n")

	checker := NewChecker(StyleKey, StyleKey)
	violations := checker.Check(lit)
	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(violations))
	}
	if violations[0].Pair.Line >= violations[1].Pair.Line {
		t.Fatalf("violations out of document order: lines %d, %d", violations[0].Pair.Line, violations[1].Pair.Line)
	}
}

func TestParseStyle(t *testing.T) {
	cases := []struct {
		name string
		want Style
	}{
		{"key", StyleKey},
		{"table", StyleTable},
		{"separator", StyleSeparator},
	}
	for _, tc := range cases {
		got, err := ParseStyle(tc.name)
		if err != nil {
			t.Fatalf("ParseStyle(%q): %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("ParseStyle(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}

	if _, err := ParseStyle("diagonal"); err == nil {
		t.Fatalf("expected error for unknown style name")
	}
}
