package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scenec/internal/driver"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens FILE",
	Short: "Dump the raw grammar tree of a scene file",
	Long:  `tokens runs only the grammar engine and prints every token with its kind, span and text, including error tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokens,
}

func runTokens(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	result, err := driver.Tokenize(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	if err := result.Root.Dump(cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("failed to write tokens: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if errs := result.Root.Errors(); len(errs) > 0 {
		if !quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d grammar errors\n", len(errs))
		}
		return exitCode(1)
	}
	return nil
}
