package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bora-lang/bora/internal/artifact"
	"github.com/bora-lang/bora/internal/clog"
)

// stageRunE builds a cobra RunE for the stage named through, honoring
// --watch by re-running the stage on every source-file change instead of
// exiting after the first pass.
func stageRunE(flags *globalFlags, through string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		sourcePath := args[0]
		if !flags.watch {
			return runStage(flags, sourcePath, through)
		}
		return watchAndRun(sourcePath, func() {
			if err := runStage(flags, sourcePath, through); err != nil {
				fmt.Fprintln(os.Stderr, err)
			}
		})
	}
}

// runStage drives the pipeline from "lex" through the named stage for one
// source file, writes the sidecar artifacts that stage produces, prints
// diagnostics, and reports whether the run should be treated as failed.
//
// Per the external-interface exit-code convention, a stage that could not
// produce a clean artifact (any diagnostic raised, at any stage) is treated
// the same as a load failure: both return a non-nil error so the process
// exits 1.
func runStage(flags *globalFlags, sourcePath, through string) error {
	cfg, err := resolveConfig(sourcePath, flags)
	if err != nil {
		return err
	}
	src, err := readSource(sourcePath)
	if err != nil {
		return err
	}

	var timing *timingReport
	if flags.verbose {
		timing = newTimingReport(clog.New(true))
	}

	res := runStages(src, cfg, through, os.Stdin, timing)

	base := artifact.BaseName(sourcePath)
	if err := writeStageArtifacts(flags.artifacts, base, through, res); err != nil {
		return err
	}

	printVerboseExtras(flags.verbose, through, res)

	if through == "run" && res.state != nil {
		for _, line := range res.state.Output {
			fmt.Println(line)
		}
	}

	if printDiags(res.diags) {
		return fmt.Errorf("%s: %d diagnostic(s)", sourcePath, len(res.diags))
	}
	return nil
}

// printVerboseExtras writes the extra human-readable detail -v/--verbose
// asks for: the cross-reference report after "sem", the numbered TAC
// listing after "ir", and the final variable dump after "run".
func printVerboseExtras(verbose bool, through string, res pipelineResult) {
	if !verbose {
		return
	}
	if (through == "sem" || through == "run") && res.table != nil {
		res.table.Render(os.Stderr)
	}
	if (through == "ir" || through == "run") && res.program != nil {
		fmt.Fprint(os.Stderr, res.program.Listing())
	}
	if through == "run" && res.state != nil {
		for _, name := range res.state.VariableOrder() {
			fmt.Fprintf(os.Stderr, "%s = %s\n", name, res.state.Variables()[name])
		}
	}
}

func writeStageArtifacts(enabled bool, base, through string, res pipelineResult) error {
	if res.tokens != nil {
		data, err := artifact.MarshalTokens(res.tokens)
		if err != nil {
			return err
		}
		if err := writeArtifact(enabled, artifact.TokensPath(base), data); err != nil {
			return err
		}
	}
	if res.root != nil {
		data, err := artifact.MarshalAST(res.root)
		if err != nil {
			return err
		}
		if err := writeArtifact(enabled, artifact.ASTPath(base), data); err != nil {
			return err
		}
	}
	if res.annotated != nil {
		data, err := artifact.MarshalAnnotatedAST(res.annotated)
		if err != nil {
			return err
		}
		if err := writeArtifact(enabled, artifact.AnnotatedASTPath(base), data); err != nil {
			return err
		}
		data, err = artifact.MarshalSymbolTable(res.table)
		if err != nil {
			return err
		}
		if err := writeArtifact(enabled, artifact.SymbolTablePath(base), data); err != nil {
			return err
		}
	}
	if res.program != nil {
		if err := writeArtifact(enabled, artifact.IntermediatePath(base), []byte(res.program.String())); err != nil {
			return err
		}
	}
	return nil
}
