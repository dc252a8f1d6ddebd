// Package fix selects and applies the text edits attached to diagnostics.
// Edits are validated against the current file content (OldText guards)
// and checked for overlaps before anything is written back.
package fix

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"hashalign/internal/diag"
	"hashalign/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
	// ApplyModeSelected applies exactly the fixes whose IDs are listed in
	// ApplyOptions.SelectedIDs (interactive mode).
	ApplyModeSelected
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode        ApplyMode
	TargetID    string
	SelectedIDs map[string]bool
	// DryRun применяет правки в буферы, но не пишет файлы на диск.
	DryRun bool
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID          string
	Title       string
	Code        diag.Code
	Message     string
	PrimaryPath string
	EditCount   int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
	// Buffers holds the rewritten content per file, populated also in
	// dry-run mode so callers can inspect the would-be result.
	Buffers map[source.FileID][]byte
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Candidates lists every fix carried by the diagnostics, in the
// deterministic order the apply pipeline would consider them.
func Candidates(diagnostics []diag.Diagnostic) []diag.Fix {
	cands := gatherCandidates(diagnostics)
	sortCandidates(cands)
	out := make([]diag.Fix, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.fix)
	}
	return out
}

// Apply collects fixes from diagnostics, selects a subset according to
// opts, and applies them.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{
		Applied:     make([]AppliedFix, 0),
		Skipped:     make([]SkippedFix, 0),
		FileChanges: make([]FileChange, 0),
		Buffers:     make(map[source.FileID][]byte),
	}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates := gatherCandidates(diagnostics)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}
	sortCandidates(candidates)

	selected, selectionSkips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, selectionSkips...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	if err := applyCandidates(fs, selected, opts, result); err != nil {
		return result, err
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

func gatherCandidates(diagnostics []diag.Diagnostic) []candidate {
	cands := make([]candidate, 0)

	order := 0
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			if len(f.Edits) == 0 {
				continue
			}
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
			}
			cands = append(cands, candidate{
				diag:  d,
				fix:   f,
				order: order,
			})
			order++
		}
	}
	return cands
}

// sortCandidates orders candidates by file, span, insertion order, code,
// preference, ID and title for a deterministic apply pipeline.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag, candidates[j].diag
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if candidates[i].order != candidates[j].order {
			return candidates[i].order < candidates[j].order
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		if candidates[i].fix.IsPreferred != candidates[j].fix.IsPreferred {
			return candidates[i].fix.IsPreferred
		}
		if candidates[i].fix.ID != candidates[j].fix.ID {
			return candidates[i].fix.ID < candidates[j].fix.ID
		}
		return candidates[i].fix.Title < candidates[j].fix.Title
	})
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.fix.ID == opts.TargetID {
				return []candidate{cand}, nil
			}
		}
		return nil, []SkippedFix{{
			ID:     opts.TargetID,
			Reason: "fix id not found",
		}}

	case ApplyModeSelected:
		selected := make([]candidate, 0, len(opts.SelectedIDs))
		for _, cand := range candidates {
			if opts.SelectedIDs[cand.fix.ID] {
				selected = append(selected, cand)
			}
		}
		return selected, nil

	case ApplyModeAll:
		selected := make([]candidate, 0, len(candidates))
		skipped := make([]SkippedFix, 0)
		for _, cand := range candidates {
			if cand.fix.Applicability == diag.FixApplicabilityAlwaysSafe {
				selected = append(selected, cand)
				continue
			}
			skipped = append(skipped, SkippedFix{
				ID:     cand.fix.ID,
				Title:  cand.fix.Title,
				Reason: fmt.Sprintf("applicability is %s", cand.fix.Applicability.String()),
			})
		}
		return selected, skipped

	case ApplyModeOnce:
		var fallback *candidate
		for i := range candidates {
			cand := candidates[i]
			if cand.fix.Applicability == diag.FixApplicabilityAlwaysSafe {
				return []candidate{cand}, nil
			}
			if fallback == nil {
				fallback = &cand
			}
		}
		if fallback != nil {
			return []candidate{*fallback}, nil
		}
		return nil, nil

	default:
		return nil, nil
	}
}

func applyCandidates(fs *source.FileSet, selected []candidate, opts ApplyOptions, result *ApplyResult) error {
	appliedEdits := make(map[source.FileID][]diag.TextEdit)
	fileEditCount := make(map[source.FileID]int)

	for _, cand := range selected {
		if err := applyOne(fs, cand, opts, result, appliedEdits, fileEditCount); err != nil {
			return err
		}
	}

	if len(result.Applied) == 0 || opts.DryRun {
		return nil
	}

	changes := make([]FileChange, 0, len(result.Buffers))
	for fileID, buf := range result.Buffers {
		file := fs.Get(fileID)
		if file.Flags&source.FileVirtual != 0 {
			continue
		}

		mode := os.FileMode(0o644)
		if info, err := os.Stat(file.Path); err == nil {
			mode = info.Mode()
		}
		if err := os.WriteFile(file.Path, buf, mode); err != nil {
			return fmt.Errorf("write %s: %w", file.Path, err)
		}
		changes = append(changes, FileChange{
			Path:      file.FormatPath("relative", fs.BaseDir()),
			EditCount: fileEditCount[fileID],
		})
	}
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Path < changes[j].Path
	})
	result.FileChanges = changes
	return nil
}

// applyOne stages one fix into the working buffers, or records it as
// skipped. All spans are in original source coordinates; positions are
// shifted by the cumulative delta of edits already applied to the file.
func applyOne(
	fs *source.FileSet,
	cand candidate,
	opts ApplyOptions,
	result *ApplyResult,
	appliedEdits map[source.FileID][]diag.TextEdit,
	fileEditCount map[source.FileID]int,
) error {
	fileID := cand.fix.Edits[0].Span.File
	file := fs.Get(fileID)

	if !opts.DryRun && file.Flags&source.FileVirtual != 0 {
		result.Skipped = append(result.Skipped, SkippedFix{
			ID: cand.fix.ID, Title: cand.fix.Title, Reason: "target file is virtual",
		})
		return nil
	}

	if conflictsWithExisting(appliedEdits[fileID], cand.fix.Edits) {
		result.Skipped = append(result.Skipped, SkippedFix{
			ID: cand.fix.ID, Title: cand.fix.Title,
			Reason: fmt.Sprintf("conflicts with previously applied edits in %s", file.FormatPath("auto", fs.BaseDir())),
		})
		return nil
	}

	working := result.Buffers[fileID]
	if working == nil {
		working = append([]byte(nil), file.Content...)
	}

	edits := append([]diag.TextEdit(nil), cand.fix.Edits...)
	sort.SliceStable(edits, func(i, j int) bool {
		if edits[i].Span.Start == edits[j].Span.Start {
			return edits[i].Span.End > edits[j].Span.End
		}
		return edits[i].Span.Start > edits[j].Span.Start
	})

	existing := append([]diag.TextEdit(nil), appliedEdits[fileID]...)
	staged := append([]byte(nil), working...)

	for _, edit := range edits {
		start := int(edit.Span.Start) + cumulativeDelta(existing, int(edit.Span.Start))
		end := int(edit.Span.End) + cumulativeDelta(existing, int(edit.Span.End))
		if start < 0 || end < start || end > len(staged) {
			result.Skipped = append(result.Skipped, SkippedFix{
				ID: cand.fix.ID, Title: cand.fix.Title, Reason: "edit span out of range",
			})
			return nil
		}
		if edit.OldText != "" && string(staged[start:end]) != edit.OldText {
			result.Skipped = append(result.Skipped, SkippedFix{
				ID: cand.fix.ID, Title: cand.fix.Title,
				Reason: "existing text does not match expected content",
			})
			return nil
		}
		suffix := append([]byte(nil), staged[end:]...)
		staged = append(append(staged[:start], []byte(edit.NewText)...), suffix...)
		existing = insertEditSorted(existing, edit)
	}

	result.Buffers[fileID] = staged
	appliedEdits[fileID] = existing
	fileEditCount[fileID] += len(edits)

	result.Applied = append(result.Applied, AppliedFix{
		ID:          cand.fix.ID,
		Title:       cand.fix.Title,
		Code:        cand.diag.Code,
		Message:     cand.diag.Message,
		PrimaryPath: file.FormatPath("auto", fs.BaseDir()),
		EditCount:   len(edits),
	})
	return nil
}

func conflictsWithExisting(existing []diag.TextEdit, edits []diag.TextEdit) bool {
	for _, prev := range existing {
		for _, cand := range edits {
			if spansConflict(prev, cand) {
				return true
			}
		}
	}
	return false
}

// spansConflict reports whether two text edits' spans overlap. Spans are
// half-open intervals [Start, End). Two zero-length edits never conflict;
// a zero-length edit conflicts with a non-zero span containing its
// position.
func spansConflict(a, b diag.TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return false
	}
	if aStart == aEnd {
		return bStart <= aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

// cumulativeDelta returns the total length change of edits fully before
// pos, with edits listed in ascending span order.
func cumulativeDelta(edits []diag.TextEdit, pos int) int {
	delta := 0
	for _, e := range edits {
		eStart := int(e.Span.Start)
		if eStart > pos {
			break
		}
		eEnd := int(e.Span.End)
		if eEnd <= pos {
			delta += len(e.NewText) - (eEnd - eStart)
		}
	}
	return delta
}

func insertEditSorted(edits []diag.TextEdit, edit diag.TextEdit) []diag.TextEdit {
	insertIdx := sort.Search(len(edits), func(i int) bool {
		if edits[i].Span.Start == edit.Span.Start {
			return edits[i].Span.End >= edit.Span.End
		}
		return edits[i].Span.Start > edit.Span.Start
	})
	edits = append(edits, diag.TextEdit{})
	copy(edits[insertIdx+1:], edits[insertIdx:])
	edits[insertIdx] = edit
	return edits
}
