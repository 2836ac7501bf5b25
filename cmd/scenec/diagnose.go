package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"scenec/internal/buildpipeline"
	"scenec/internal/driver"
)

var diagCmd = &cobra.Command{
	Use:   "diag [flags] [PATH...]",
	Short: "Diagnose scene files or directories",
	Long: `Run the grammar, canonical and semantic checks over scene documents.
Directories are walked for *.scene and *.xml files. Without arguments the
[paths] include list of the nearest scene.toml is used.`,
	Args: cobra.ArbitraryArgs,
	RunE: runDiagnose,
}

func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	diagCmd.Flags().Bool("strict", false, "warn on attributes outside a tag's schema")
	diagCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	diagCmd.Flags().Bool("no-cache", false, "do not read or write the on-disk result cache")
	diagCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	diagCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

// diagSettings is the merged view of flags and scene.toml.
type diagSettings struct {
	paths   []string
	format  diagFormat
	options driver.Options
	jobs    int
	noCache bool
	ui      uiMode
	report  reportOptions
	quiet   bool
	timings bool
}

func readDiagSettings(cmd *cobra.Command, args []string) (*diagSettings, error) {
	flags := cmd.Flags()
	root := cmd.Root().PersistentFlags()

	formatStr, err := flags.GetString("format")
	if err != nil {
		return nil, fmt.Errorf("failed to get format flag: %w", err)
	}
	strict, err := flags.GetBool("strict")
	if err != nil {
		return nil, fmt.Errorf("failed to get strict flag: %w", err)
	}
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	uiStr, err := flags.GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	withNotes, err := flags.GetBool("with-notes")
	if err != nil {
		return nil, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := flags.GetBool("suggest")
	if err != nil {
		return nil, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	fullPath, err := flags.GetBool("fullpath")
	if err != nil {
		return nil, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	maxDiagnostics, err := root.GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := root.GetBool("quiet")
	if err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := root.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}

	manifest, err := loadManifest(manifestStart(args))
	if err != nil {
		return nil, err
	}
	// Флаги важнее манифеста
	if !flags.Changed("format") && manifest.defines("diag", "format") {
		formatStr = manifest.Config.Diag.Format
	}
	if !flags.Changed("strict") && manifest.defines("diag", "strict") {
		strict = manifest.Config.Diag.Strict
	}
	if !root.Changed("max-diagnostics") && manifest.defines("diag", "max") {
		maxDiagnostics = manifest.Config.Diag.Max
	}
	paths := args
	if len(paths) == 0 {
		paths = manifest.includePaths()
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no paths given and no [paths] include in %s", manifestName)
	}

	format, err := readDiagFormat(formatStr)
	if err != nil {
		return nil, err
	}
	mode, err := readUIMode(uiStr)
	if err != nil {
		return nil, err
	}
	color, err := useColor(cmd, os.Stdout)
	if err != nil {
		return nil, err
	}

	return &diagSettings{
		paths:  paths,
		format: format,
		options: driver.Options{
			Strict:         strict,
			MaxDiagnostics: maxDiagnostics,
			EnableTimings:  showTimings,
		},
		jobs:    jobs,
		noCache: noCache,
		ui:      mode,
		report: reportOptions{
			Format:    format,
			Color:     color,
			FullPath:  fullPath,
			WithNotes: withNotes,
			Suggest:   suggest,
			Args:      os.Args,
		},
		quiet:   quiet,
		timings: showTimings,
	}, nil
}

// manifestStart picks the directory scene.toml is searched from.
func manifestStart(args []string) string {
	if len(args) == 0 {
		return "."
	}
	if info, err := os.Stat(args[0]); err == nil && info.IsDir() {
		return args[0]
	}
	return filepath.Dir(args[0])
}

// runDiagnose prints diagnostics for every scene named on the command line
// and exits with status 1 when any file has errors.
func runDiagnose(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	settings, err := readDiagSettings(cmd, args)
	if err != nil {
		return err
	}
	stderr := cmd.ErrOrStderr()

	if !settings.noCache {
		cache, err := driver.OpenDiskCache("scenec")
		if err != nil {
			if !settings.quiet {
				fmt.Fprintf(stderr, "warning: disk cache disabled: %v\n", err)
			}
		} else {
			settings.options.Cache = cache
		}
	}

	req := &buildpipeline.Request{
		Paths:   settings.paths,
		Options: settings.options,
		Jobs:    settings.jobs,
	}
	var res *buildpipeline.Result
	if shouldUseTUI(settings.ui, len(settings.paths)+countDirs(settings.paths), string(settings.format)) {
		res, err = runWithUI(cmd.Context(), "diagnosing", req)
	} else {
		res, err = buildpipeline.Run(cmd.Context(), req)
	}
	if err != nil {
		return fmt.Errorf("diagnosis failed: %w", err)
	}

	if err := printReport(cmd.OutOrStdout(), res, settings.report); err != nil {
		return fmt.Errorf("failed to format diagnostics: %w", err)
	}
	if !settings.quiet && (settings.format == formatPretty || settings.format == formatShort) {
		printSummary(stderr, res)
	}
	if settings.timings {
		printStageTimings(stderr, res)
	}
	if res.HasErrors() {
		return exitCode(1)
	}
	return nil
}

// countDirs makes a single directory argument count as a multi-file run.
func countDirs(paths []string) int {
	n := 0
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			n++
		}
	}
	return n
}
