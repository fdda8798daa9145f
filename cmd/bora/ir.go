package main

import "github.com/spf13/cobra"

func newIRCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ir <source.txt>",
		Short: "Lower an annotated AST to three-address code",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = stageRunE(flags, "ir")
	return cmd
}
