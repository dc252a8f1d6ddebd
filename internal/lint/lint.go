// Package lint drives the per-file analysis pipeline: tokenize, extract
// literals, gate trailing-argument literals by policy, check alignment,
// and attach correction fixes to the resulting diagnostics.
package lint

import (
	"fmt"

	"hashalign/internal/align"
	"hashalign/internal/ast"
	"hashalign/internal/config"
	"hashalign/internal/diag"
	"hashalign/internal/parser"
	"hashalign/internal/source"
)

// Message is the fixed diagnostic text for an alignment violation.
const Message = "entries of a multi-line literal must be aligned"

// Runner holds the state of one analysis pass: the resolved configuration
// and the two eagerly built strategies inside the checker. It is read-only
// after construction and safe to share across goroutines.
type Runner struct {
	cfg     config.Config
	checker *align.Checker
	cache   *Cache
}

// NewRunner resolves a runner from an already validated configuration.
func NewRunner(cfg config.Config) *Runner {
	return &Runner{
		cfg:     cfg,
		checker: align.NewChecker(cfg.Colons, cfg.Rockets),
	}
}

// WithCache attaches a result cache; nil disables caching.
func (r *Runner) WithCache(c *Cache) *Runner {
	r.cache = c
	return r
}

// Config returns the runner's resolved configuration.
func (r *Runner) Config() config.Config {
	return r.cfg
}

// CheckFile analyses one file and returns its diagnostics in document
// order. Parse diagnostics land in the same bag as alignment violations.
func (r *Runner) CheckFile(fs *source.FileSet, id source.FileID, maxDiags int) *diag.Bag {
	f := fs.Get(id)

	if r.cache != nil {
		if bag, ok := r.cache.Get(f, r.cfg.Digest(), maxDiags); ok {
			return bag
		}
	}

	bag := diag.NewBag(maxDiags)
	rep := diag.BagReporter{Bag: bag}

	for _, lit := range parser.ParseFile(f, rep) {
		if r.skipTrailing(lit) {
			continue
		}
		for _, v := range r.checker.Check(lit) {
			bag.Add(r.violationDiag(f, v))
		}
	}
	bag.Sort()

	if r.cache != nil {
		// Ошибка записи кэша не влияет на результат прохода
		_ = r.cache.Put(f, r.cfg.Digest(), bag)
	}
	return bag
}

// skipTrailing applies the trailing-argument policy. This is a plain
// policy lookup; it runs before any strategy sees the literal.
func (r *Runner) skipTrailing(lit *ast.HashLit) bool {
	if !lit.TrailingArg {
		return false
	}
	switch r.cfg.TrailingArg {
	case config.TrailingAlwaysIgnore:
		return true
	case config.TrailingIgnoreExplicit:
		return lit.Braced
	case config.TrailingIgnoreImplicit:
		return !lit.Braced
	default:
		return false
	}
}

func (r *Runner) violationDiag(f *source.File, v align.Violation) diag.Diagnostic {
	span := v.Pair.Key.Cover(v.Pair.SepSpan)
	if v.Pair.HasValue {
		span = span.Cover(v.Pair.Value)
	}

	d := diag.NewWarning(diag.AlignHashEntries, span, Message)

	edits := align.Correct(f, v.Pair, v.Delta)
	if len(edits) == 0 {
		return d
	}
	return d.WithFix(diag.Fix{
		ID:            fmt.Sprintf("%s-%d-%d", diag.AlignHashEntries.ID(), f.ID, v.Pair.Key.Start),
		Title:         "realign entry",
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		IsPreferred:   true,
		Edits:         edits,
	})
}
