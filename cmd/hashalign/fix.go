package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hashalign/internal/diag"
	"hashalign/internal/fix"
	"hashalign/internal/lint"
	"hashalign/internal/source"
	"hashalign/internal/ui"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.hsh|directory>",
	Short: "Apply alignment fixes to a source file or directory",
	Long:  "Run the alignment check, surface available fixes, and apply them according to the chosen strategy.",
	Args:  cobra.ExactArgs(1),
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply all safe fixes")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply fix with a specific identifier")
	fixCmd.Flags().Bool("interactive", false, "pick fixes to apply in a TUI")
	fixCmd.Flags().Bool("dry-run", false, "compute fixes without writing files")
}

func runFix(cmd *cobra.Command, args []string) error {
	targetPath := args[0]

	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnceFlag, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	interactive, err := cmd.Flags().GetBool("interactive")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}

	if targetID != "" && (applyAll || applyOnceFlag || interactive) {
		return fmt.Errorf("--id cannot be combined with --all, --once, or --interactive")
	}
	if applyAll && applyOnceFlag {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}
	if interactive && (applyAll || applyOnceFlag) {
		return fmt.Errorf("--interactive cannot be combined with --all or --once")
	}
	if interactive && !isTerminal(os.Stdout) {
		return fmt.Errorf("--interactive requires a terminal")
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	info, err := os.Stat(targetPath)
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	// если это директория, но передан id, то ошибка
	// так как id уникален только для одного файла
	if info.IsDir() && targetID != "" {
		return fmt.Errorf("fix: id can only be used with a single file")
	}

	// Кэш не используется: правки должны считаться от свежего прохода
	runner, err := newRunner(cmd, targetPath, false)
	if err != nil {
		return err
	}

	fileSet := source.NewFileSet()
	results, err := analyzePath(cmd.Context(), runner, fileSet, targetPath, maxDiagnostics)
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	diagnostics := collectDiagnostics(results)

	opts := fix.ApplyOptions{
		Mode:     fix.ApplyModeOnce,
		TargetID: targetID,
		DryRun:   dryRun,
	}
	switch {
	case targetID != "":
		opts.Mode = fix.ApplyModeID
	case applyAll:
		opts.Mode = fix.ApplyModeAll
	case interactive:
		selected, pickErr := pickInteractive(fileSet, diagnostics)
		if pickErr != nil {
			return pickErr
		}
		if selected == nil {
			fmt.Fprintln(os.Stdout, "Cancelled, nothing applied.")
			return nil
		}
		opts.Mode = fix.ApplyModeSelected
		opts.SelectedIDs = selected
	}

	res, applyErr := fix.Apply(fileSet, diagnostics, opts)
	return handleApplyResult(res, applyErr)
}

func collectDiagnostics(results []lint.FileResult) []diag.Diagnostic {
	all := make([]diag.Diagnostic, 0)
	for _, r := range results {
		if r.Bag == nil {
			continue
		}
		all = append(all, r.Bag.Items()...)
	}
	return all
}

// pickInteractive runs the TUI picker over every available fix. Returns nil
// when the user cancels.
func pickInteractive(fileSet *source.FileSet, diagnostics []diag.Diagnostic) (map[string]bool, error) {
	entries := make([]ui.FixEntry, 0)
	for _, d := range diagnostics {
		for _, fx := range d.Fixes {
			if len(fx.Edits) == 0 {
				continue
			}
			f := fileSet.Get(d.Primary.File)
			start, _ := fileSet.Resolve(d.Primary)
			entries = append(entries, ui.FixEntry{
				ID:      fx.ID,
				Title:   fx.Title,
				Path:    f.FormatPath("relative", fileSet.BaseDir()),
				Line:    start.Line,
				Col:     start.Col,
				Message: d.Message,
			})
		}
	}
	if len(entries) == 0 {
		return map[string]bool{}, nil
	}
	return ui.PickFixes(entries)
}

func handleApplyResult(res *fix.ApplyResult, applyErr error) error {
	if res == nil {
		return applyErr
	}

	if len(res.Applied) > 0 {
		fmt.Fprintf(os.Stdout, "Applied %d fix(es):\n", len(res.Applied))
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			fmt.Fprintf(os.Stdout, "  %s [%s] - %s (%d edits)\n", item.Title, item.ID, location, item.EditCount)
		}
	}

	if len(res.FileChanges) > 0 {
		fmt.Fprintln(os.Stdout, "Updated files:")
		for _, change := range res.FileChanges {
			fmt.Fprintf(os.Stdout, "  %s (%d edits)\n", change.Path, change.EditCount)
		}
	}

	if len(res.Skipped) > 0 {
		fmt.Fprintln(os.Stdout, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Title != "" {
				fmt.Fprintf(os.Stdout, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
			} else {
				fmt.Fprintf(os.Stdout, "  [%s]: %s\n", id, skip.Reason)
			}
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			fmt.Fprintln(os.Stdout, "No applicable fixes found.")
			return nil
		}
		return applyErr
	}

	if len(res.Applied) == 0 {
		fmt.Fprintln(os.Stdout, "No fixes applied.")
	}
	return nil
}
