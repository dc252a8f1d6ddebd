package lint

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"hashalign/internal/align"
	"hashalign/internal/config"
	"hashalign/internal/diag"
	"hashalign/internal/fix"
	"hashalign/internal/source"
)

const misaligned = "{\n  a: 1,\n    b: 2,\n}\n"

func checkVirtual(t *testing.T, cfg config.Config, src string) (*source.FileSet, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("lint.hsh", []byte(src))
	bag := NewRunner(cfg).CheckFile(fs, id, 100)
	return fs, bag
}

func TestCheckFileReportsViolations(t *testing.T) {
	_, bag := checkVirtual(t, config.Default(), misaligned)

	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.AlignHashEntries {
		t.Fatalf("code = %v, want AlignHashEntries", d.Code)
	}
	if d.Severity != diag.SevWarning {
		t.Fatalf("severity = %v, want warning", d.Severity)
	}
	if d.Message != Message {
		t.Fatalf("message = %q", d.Message)
	}
	if len(d.Fixes) != 1 || len(d.Fixes[0].Edits) == 0 {
		t.Fatalf("expected an attached fix with edits, got %+v", d.Fixes)
	}
	if !d.Fixes[0].IsPreferred || d.Fixes[0].Applicability != diag.FixApplicabilityAlwaysSafe {
		t.Fatalf("alignment fixes must be preferred and always safe")
	}
}

func TestCheckFileCleanSource(t *testing.T) {
	_, bag := checkVirtual(t, config.Default(), "{\n  a: 1,\n  b: 2,\n}\n")
	if bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %d", bag.Len())
	}
}

func TestCheckFileDiagnosticsInDocumentOrder(t *testing.T) {
	src := "{\n  a: 1,\n      b: 2,\n    c: 3,\n}\n"
	_, bag := checkVirtual(t, config.Default(), src)

	items := bag.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", len(items))
	}
	if items[0].Primary.Start >= items[1].Primary.Start {
		t.Fatalf("diagnostics out of document order")
	}
}

func TestTrailingArgPolicies(t *testing.T) {
	implicit := "update(user,\n  name: 1,\n    age: 2,\n)\n"
	explicit := "update(user, {\n  name: 1,\n    age: 2,\n})\n"

	cases := []struct {
		policy       config.TrailingArgPolicy
		wantImplicit bool
		wantExplicit bool
	}{
		{config.TrailingAlwaysInspect, true, true},
		{config.TrailingAlwaysIgnore, false, false},
		{config.TrailingIgnoreExplicit, true, false},
		{config.TrailingIgnoreImplicit, false, true},
	}

	for _, tc := range cases {
		t.Run(tc.policy.String(), func(t *testing.T) {
			cfg := config.Default()
			cfg.TrailingArg = tc.policy

			_, bag := checkVirtual(t, cfg, implicit)
			if got := bag.Len() > 0; got != tc.wantImplicit {
				t.Fatalf("implicit literal checked=%v, want %v", got, tc.wantImplicit)
			}

			_, bag = checkVirtual(t, cfg, explicit)
			if got := bag.Len() > 0; got != tc.wantExplicit {
				t.Fatalf("explicit literal checked=%v, want %v", got, tc.wantExplicit)
			}
		})
	}
}

func TestTrailingPolicyNeverGatesPlainLiterals(t *testing.T) {
	cfg := config.Default()
	cfg.TrailingArg = config.TrailingAlwaysIgnore

	_, bag := checkVirtual(t, cfg, misaligned)
	if bag.Len() != 1 {
		t.Fatalf("non-trailing literal must still be checked, got %d diagnostics", bag.Len())
	}
}

func TestFixRoundTripLeavesNoViolations(t *testing.T) {
	cfg := config.Config{Colons: align.StyleKey, Rockets: align.StyleTable}
	src := "{\n  foo => 1,\n  bazquux  =>  2,\n}\n"

	fileSet, bag := checkVirtual(t, cfg, src)
	if bag.Len() == 0 {
		t.Fatalf("expected violations before fixing")
	}

	res, err := fix.Apply(fileSet, bag.Items(), fix.ApplyOptions{Mode: fix.ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}

	var corrected []byte
	for _, buf := range res.Buffers {
		corrected = buf
	}
	if corrected == nil {
		t.Fatalf("expected a rewritten buffer")
	}

	again := source.NewFileSet()
	id := again.AddVirtual("fixed.hsh", corrected)
	if rebag := NewRunner(cfg).CheckFile(again, id, 100); rebag.Len() != 0 {
		t.Fatalf("still %d diagnostics after fixing:\n%s", rebag.Len(), corrected)
	}
}

func TestCachePutAndGet(t *testing.T) {
	cache, err := OpenCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenCacheAt: %v", err)
	}

	cfg := config.Default()
	runner := NewRunner(cfg).WithCache(cache)

	fs := source.NewFileSet()
	id := fs.AddVirtual("cached.hsh", []byte(misaligned))

	first := runner.CheckFile(fs, id, 100)
	if first.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", first.Len())
	}

	// Та же версия файла в новом FileSet — попадание в кэш
	fs2 := source.NewFileSet()
	id2 := fs2.AddVirtual("cached.hsh", []byte(misaligned))
	second := runner.CheckFile(fs2, id2, 100)

	if second.Len() != first.Len() {
		t.Fatalf("cache hit returned %d diagnostics, want %d", second.Len(), first.Len())
	}
	got, want := second.Items()[0], first.Items()[0]
	if got.Code != want.Code || got.Primary.Start != want.Primary.Start || got.Primary.End != want.Primary.End {
		t.Fatalf("rehydrated diagnostic differs: %+v vs %+v", got, want)
	}
	if got.Primary.File != id2 {
		t.Fatalf("rehydrated span must use the current FileID")
	}
	if len(got.Fixes) != 1 || len(got.Fixes[0].Edits) != len(want.Fixes[0].Edits) {
		t.Fatalf("fixes must survive the cache round-trip")
	}
}

func TestCacheMissOnConfigChange(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenCacheAt(dir)
	if err != nil {
		t.Fatalf("OpenCacheAt: %v", err)
	}

	fs := source.NewFileSet()
	id := fs.AddVirtual("cfg.hsh", []byte(misaligned))
	f := fs.Get(id)

	keyCfg := config.Default()
	bag := NewRunner(keyCfg).WithCache(cache).CheckFile(fs, id, 100)
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}

	tableCfg := config.Default()
	tableCfg.Colons = align.StyleTable
	if _, ok := cache.Get(f, tableCfg.Digest(), 100); ok {
		t.Fatalf("different config digest must miss the cache")
	}
}

func TestListSourceFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("b.hsh", "{}")
	write("a.hsh", "{}")
	write("notes.txt", "ignored")

	files, err := ListSourceFiles(dir)
	if err != nil {
		t.Fatalf("ListSourceFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 source files, got %d: %v", len(files), files)
	}
	if filepath.Base(files[0]) != "a.hsh" || filepath.Base(files[1]) != "b.hsh" {
		t.Fatalf("files must be sorted: %v", files)
	}
}

func TestCheckDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.hsh"), []byte(misaligned), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "good.hsh"), []byte("{\n  a: 1,\n  b: 2,\n}\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := source.NewFileSet()
	results, err := NewRunner(config.Default()).CheckDir(context.Background(), fs, dir, 100)
	if err != nil {
		t.Fatalf("CheckDir: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	byName := map[string]int{}
	for _, r := range results {
		byName[filepath.Base(r.Path)] = r.Bag.Len()
	}
	if byName["bad.hsh"] != 1 {
		t.Fatalf("bad.hsh: expected 1 diagnostic, got %d", byName["bad.hsh"])
	}
	if byName["good.hsh"] != 0 {
		t.Fatalf("good.hsh: expected no diagnostics, got %d", byName["good.hsh"])
	}
}
