package main

import "github.com/spf13/cobra"

func newSemCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sem <source.txt>",
		Short: "Type-check an AST and build its symbol/cross-reference table",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = stageRunE(flags, "sem")
	return cmd
}
