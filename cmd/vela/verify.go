package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"vela/internal/diagfmt"
	"vela/internal/driver"
	"vela/internal/project"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [directory]",
	Short: "Verify semantic legality of every *.vl file in a project",
	Long: `Verify loads the project manifest and sources, resolves them through the
linked front end and reports semantic legality diagnostics`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().Int("jobs", 0, "max parallel workers (0=manifest or auto)")
	verifyCmd.Flags().Bool("no-cache", false, "disable the on-disk diagnostic cache")
	verifyCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	verifyCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

func runVerify(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	colorMode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}

	useColor := resolveColor(colorMode)
	color.NoColor = !useColor

	manifest, _, err := project.Load(dir)
	if err != nil {
		return err
	}

	if jobs == 0 {
		jobs = manifest.Jobs()
	}
	if maxDiagnostics == 0 {
		maxDiagnostics = manifest.MaxDiagnostics()
	}

	var cache *driver.DiskCache
	if !noCache && (manifest == nil || !manifest.Config.Verify.NoCache) {
		cache, err = driver.OpenDiskCache("vela")
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: disk cache unavailable: %v\n", err)
		}
	}

	opts := driver.Options{
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
		Cache:          cache,
		Overrides:      manifest.SeverityOverrides(),
	}
	fset, results, err := driver.VerifyDir(cmd.Context(), dir, driver.RegisteredFrontend(), opts)
	if err != nil {
		return err
	}

	bag := driver.MergeResults(results, maxDiagnostics)
	popts := diagfmt.PrettyOpts{Color: useColor, WithNotes: withNotes, FullPath: fullPath}
	diagfmt.Pretty(os.Stdout, bag, fset, popts)
	diagfmt.Summary(os.Stdout, bag, len(results), popts)

	if bag.HasErrors() {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		os.Exit(1)
	}
	return nil
}
