package main

import "github.com/spf13/cobra"

func newRunCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <source.txt>",
		Short: "Run a program's three-address code and print its cout output",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = stageRunE(flags, "run")
	return cmd
}
