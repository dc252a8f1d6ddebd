// Package align implements the alignment checking and auto-correction
// engine for multi-line key/value literals: three interchangeable alignment
// policies, a checker that applies the right policy per entry, and a
// corrector that turns computed column deltas into text edits.
package align

import (
	"fmt"
)

// Style selects one of the three alignment policies.
type Style uint8

const (
	// StyleKey aligns only the start column of each key.
	StyleKey Style = iota
	// StyleTable lays keys, separators and values out as table columns
	// driven by the widest key in the literal.
	StyleTable
	// StyleSeparator aligns the separator tokens into one column with
	// keys right-aligned against them.
	StyleSeparator
)

func (s Style) String() string {
	switch s {
	case StyleKey:
		return "key"
	case StyleTable:
		return "table"
	case StyleSeparator:
		return "separator"
	}
	return "unknown"
}

// ParseStyle resolves a configured style name. An unrecognized value is a
// configuration error and must abort setup before any literal is processed.
func ParseStyle(name string) (Style, error) {
	switch name {
	case "key":
		return StyleKey, nil
	case "table":
		return StyleTable, nil
	case "separator":
		return StyleSeparator, nil
	}
	return StyleKey, fmt.Errorf("unknown alignment style %q (expected key, table, or separator)", name)
}
