package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hashalign/internal/lint"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the hashalign disk cache",
	Long:  "Remove cached lint results. Useful after upgrading or when the cache is suspected stale.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(_ *cobra.Command, _ []string) error {
	cache, err := lint.OpenCache("hashalign")
	if err != nil {
		return fmt.Errorf("failed to open disk cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to remove cache: %w", err)
	}
	_, _ = fmt.Fprintln(os.Stdout, "cache removed")
	return nil
}
