package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/searchsim/internal/cli"
)

var validateCmd = &cobra.Command{
	Use:   "validate <config>",
	Short: "Check a simulation file",
	Long:  `Loads the simulation file, its corpus, qrels and matrices, and builds every policy without running any session.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Validate(args[0], cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
