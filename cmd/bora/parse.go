package main

import "github.com/spf13/cobra"

func newParseCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <source.txt>",
		Short: "Parse a token sequence into an AST",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = stageRunE(flags, "parse")
	return cmd
}
