package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hashalign/internal/diagfmt"
	"hashalign/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.hsh|directory>",
	Short: "Check alignment of multi-line literals in a file or directory",
	Long:  `Check every multi-line key/value literal against the configured alignment styles and report misaligned entries`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("disk-cache", false, "enable persistent disk cache for lint results")
}

// runCheck executes the "check" command: resolves configuration, analyses
// the target, renders diagnostics in the chosen format, and exits with a
// non-zero status when any diagnostics were found.
func runCheck(cmd *cobra.Command, args []string) error {
	targetPath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format value: %s", format)
	}

	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	diskCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	colorOn, err := useColor(cmd)
	if err != nil {
		return err
	}

	runner, err := newRunner(cmd, targetPath, diskCache)
	if err != nil {
		return err
	}

	fileSet := source.NewFileSet()
	results, err := analyzePath(cmd.Context(), runner, fileSet, targetPath, maxDiagnostics)
	if err != nil {
		return err
	}
	bag := mergeBags(results, maxDiagnostics)

	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	switch format {
	case "json":
		opts := diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathMode,
			Max:              maxDiagnostics,
			IncludeNotes:     withNotes,
			IncludeFixes:     suggest,
		}
		if err := diagfmt.JSON(os.Stdout, bag, fileSet, opts); err != nil {
			return fmt.Errorf("failed to encode diagnostics: %w", err)
		}
	default:
		opts := diagfmt.PrettyOpts{
			Color:     colorOn,
			PathMode:  pathMode,
			ShowNotes: withNotes,
			ShowFixes: suggest,
		}
		diagfmt.Pretty(os.Stdout, bag, fileSet, opts)
		if !quiet {
			fmt.Fprintf(os.Stdout, "%d file(s) checked, %d diagnostic(s)\n", len(results), bag.Len())
		}
	}

	if bag.Len() > 0 {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("found %d diagnostic(s)", bag.Len())
	}
	return nil
}
