package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"hashalign/internal/config"
	"hashalign/internal/diag"
	"hashalign/internal/lint"
	"hashalign/internal/source"
)

// loadConfig resolves the configuration for a target path: the --config flag
// wins, otherwise the manifest is searched upwards from the target.
func loadConfig(cmd *cobra.Command, targetPath string) (config.Config, error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if explicit != "" {
		return config.LoadFile(explicit)
	}

	startDir := targetPath
	if info, statErr := os.Stat(targetPath); statErr == nil && !info.IsDir() {
		startDir = filepath.Dir(targetPath)
	}
	return config.Load(startDir)
}

// newRunner builds a lint runner for the command, attaching the disk cache
// when the flag asks for it. Configuration errors are fatal here, before any
// file is read.
func newRunner(cmd *cobra.Command, targetPath string, diskCache bool) (*lint.Runner, error) {
	cfg, err := loadConfig(cmd, targetPath)
	if err != nil {
		return nil, err
	}
	runner := lint.NewRunner(cfg)
	if diskCache {
		cache, err := lint.OpenCache("hashalign")
		if err != nil {
			return nil, fmt.Errorf("failed to open disk cache: %w", err)
		}
		runner = runner.WithCache(cache)
	}
	return runner, nil
}

// analyzePath checks a single file or every source file under a directory.
func analyzePath(ctx context.Context, runner *lint.Runner, fileSet *source.FileSet, targetPath string, maxDiags int) ([]lint.FileResult, error) {
	info, err := os.Stat(targetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %q: %w", targetPath, err)
	}

	if info.IsDir() {
		fileSet.SetBaseDir(targetPath)
		return runner.CheckDir(ctx, fileSet, targetPath, maxDiags)
	}

	fileSet.SetBaseDir(filepath.Dir(targetPath))
	id, err := fileSet.Load(targetPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load %q: %w", targetPath, err)
	}
	bag := runner.CheckFile(fileSet, id, maxDiags)
	return []lint.FileResult{{Path: targetPath, FileID: id, Bag: bag}}, nil
}

func mergeBags(results []lint.FileResult, maxDiags int) *diag.Bag {
	merged := diag.NewBag(maxDiags)
	for _, r := range results {
		if r.Bag != nil {
			merged.Merge(r.Bag)
		}
	}
	merged.Sort()
	return merged
}
