package main

import "github.com/spf13/cobra"

// newPipelineCmd chains all five stages and always shows the cross-reference
// report, TAC listing, and final variable dump that the individual stage
// commands only show under --verbose — it exists for the common case of
// wanting the whole compile-and-run story for one source file in one shot.
func newPipelineCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline <source.txt>",
		Short: "Run the full lex/parse/sem/ir/run pipeline and show every stage's output",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		verbose := flags.verbose
		flags.verbose = true
		defer func() { flags.verbose = verbose }()
		return stageRunE(flags, "run")(cmd, args)
	}
	return cmd
}
