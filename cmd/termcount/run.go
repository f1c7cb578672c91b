package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/termcount-dev/termcount/model"
)

var runCmd = &cobra.Command{
	Use:   "run SPECFILE",
	Short: "Run every count listed in a TOML or Starlark spec file",
	Args:  cobra.ExactArgs(1),
}

func init() {
	// Assigned here rather than in the literal to avoid an initialization
	// cycle through changedFlag.
	runCmd.Run = runCommand
	addEngineFlags(runCmd)
}

func runCommand(cmd *cobra.Command, args []string) {
	spec, err := model.LoadSpecFromFile(args[0])
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't load specfile")
	}
	for _, exec := range spec.BuildExecutors() {
		applyEngineFlags(exec)
		runExecutor(exec)
	}
}

// changedFlag returns the named flag if it was set on the command line of
// either subcommand.
func changedFlag(name string) *pflag.Flag {
	for _, c := range []*cobra.Command{countCmd, runCmd} {
		if f := c.Flags().Lookup(name); f != nil && f.Changed {
			return f
		}
	}
	return nil
}
