package diag

import (
	"hashalign/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// TextEdit is a single replacement of a span with new text. OldText is an
// optional guard: when non-empty, the fix engine verifies the current file
// content before applying the edit.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

// FixKind is a coarse classification of a fix.
type FixKind uint8

const (
	FixKindQuickFix FixKind = iota
	FixKindRefactorRewrite
)

func (k FixKind) String() string {
	if k == FixKindRefactorRewrite {
		return "refactor.rewrite"
	}
	return "quickfix"
}

// FixApplicability describes how confidently a fix can be auto-applied.
type FixApplicability uint8

const (
	FixApplicabilityAlwaysSafe FixApplicability = iota
	FixApplicabilitySafeWithHeuristics
	FixApplicabilityManualReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixApplicabilityAlwaysSafe:
		return "always-safe"
	case FixApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	case FixApplicabilityManualReview:
		return "manual-review"
	}
	return "unknown"
}

// Fix represents a possible automated correction. Fixes are data-only: all
// edits are materialised eagerly by the producing phase.
type Fix struct {
	ID            string
	Title         string
	Kind          FixKind
	Applicability FixApplicability
	IsPreferred   bool
	Edits         []TextEdit
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}
