package main

import "github.com/spf13/cobra"

func newLexCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lex <source.txt>",
		Short: "Scan source text into a token sequence",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = stageRunE(flags, "lex")
	return cmd
}
