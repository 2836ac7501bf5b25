package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scenec/internal/diagfmt"
	"scenec/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] FILE",
	Short: "Print the simplified tree of a scene file",
	Long:  `parse compiles a scene file and prints its simplified projection; diagnostics go to stderr`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "tree", "output format (tree|json|yaml)")
	parseCmd.Flags().Bool("camel", false, "use lowerCamelCase attribute keys")
}

func runParse(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	camel, err := cmd.Flags().GetBool("camel")
	if err != nil {
		return fmt.Errorf("failed to get camel flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}

	manifest, err := loadManifest(manifestStart(args))
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("camel") && manifest.defines("parse", "camel") {
		camel = manifest.Config.Parse.Camel
	}

	result, err := driver.Parse(cmd.Context(), filePath, driver.Options{
		CamelCase:      camel,
		MaxDiagnostics: maxDiagnostics,
	})
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if !quiet && result.Bag.Len() > 0 {
		color, err := useColor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:   color,
			Context: 2,
		})
	}

	out := cmd.OutOrStdout()
	switch format {
	case "tree":
		err = diagfmt.FormatTree(out, result.Tree)
	case "json":
		err = diagfmt.FormatTreeJSON(out, result.Tree)
	case "yaml":
		err = diagfmt.FormatTreeYAML(out, result.Tree)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("failed to write tree: %w", err)
	}
	if result.HasErrors() {
		return exitCode(1)
	}
	return nil
}
