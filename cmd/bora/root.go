package main

import (
	"github.com/spf13/cobra"
)

// globalFlags holds the persistent flags shared by every stage subcommand,
// mirroring the rootCmd persistent-flag wiring pattern.
type globalFlags struct {
	verbose    bool
	watch      bool
	artifacts  bool
	budget     int
	identLimit int
}

func newRootCmd() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:           "bora",
		Short:         "Lex, parse, type-check, lower, and run Bora programs",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "show per-stage timing and extra diagnostic detail")
	root.PersistentFlags().BoolVarP(&flags.watch, "watch", "w", false, "re-run the command whenever the source file changes")
	root.PersistentFlags().BoolVar(&flags.artifacts, "artifacts", true, "write the JSON/text sidecar artifacts next to the source file")
	root.PersistentFlags().IntVar(&flags.budget, "instruction-budget", 0, "override the interpreter's runaway-loop instruction budget (0 = use .bora.yaml/default)")
	root.PersistentFlags().IntVar(&flags.identLimit, "ident-limit", 0, "override the lexer's maximum identifier length (0 = use .bora.yaml/default)")

	root.AddCommand(
		newLexCmd(&flags),
		newParseCmd(&flags),
		newSemCmd(&flags),
		newIRCmd(&flags),
		newRunCmd(&flags),
		newPipelineCmd(&flags),
	)

	return root
}
