package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"scenec/internal/buildpipeline"
	"scenec/internal/driver"
	"scenec/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] PATH",
	Short: "Re-diagnose scenes whenever they change",
	Long:  `watch diagnoses PATH once, then again for every batch of saved *.scene or *.xml files until interrupted`,
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().String("format", "pretty", "output format (pretty|short)")
	watchCmd.Flags().Bool("strict", false, "warn on attributes outside a tag's schema")
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before re-running")
	watchCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
}

func runWatch(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()
	path := args[0]

	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	strict, err := cmd.Flags().GetBool("strict")
	if err != nil {
		return fmt.Errorf("failed to get strict flag: %w", err)
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	format, err := readDiagFormat(formatStr)
	if err != nil {
		return err
	}
	if format != formatPretty && format != formatShort {
		return fmt.Errorf("watch supports only pretty and short output")
	}
	color, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := &watchRunner{
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		path:   path,
		opts:   driver.Options{Strict: strict, MaxDiagnostics: maxDiagnostics},
		report: reportOptions{Format: format, Color: color, WithNotes: withNotes},
	}
	w.run(ctx, nil)
	fmt.Fprintf(w.errOut, "watching %s (ctrl-c to stop)\n", path)

	return watch.Watch(ctx, path, watch.Options{
		Debounce: debounce,
		Errors: func(err error) {
			fmt.Fprintf(w.errOut, "watch: %v\n", err)
		},
	}, func(changed []string) {
		w.run(ctx, changed)
	})
}

// watchRunner re-runs the pipeline over the watched path.
type watchRunner struct {
	out    io.Writer
	errOut io.Writer
	path   string
	opts   driver.Options
	report reportOptions
}

func (w *watchRunner) run(ctx context.Context, changed []string) {
	if len(changed) > 0 {
		fmt.Fprintf(w.errOut, "\n[%s] changed: %s\n", time.Now().Format("15:04:05"), strings.Join(changed, ", "))
	}
	res, err := buildpipeline.Run(ctx, &buildpipeline.Request{Paths: []string{w.path}, Options: w.opts})
	if err != nil {
		fmt.Fprintf(w.errOut, "diagnosis failed: %v\n", err)
		return
	}
	if err := printReport(w.out, res, w.report); err != nil {
		fmt.Fprintf(w.errOut, "failed to format diagnostics: %v\n", err)
		return
	}
	printSummary(w.errOut, res)
}
