package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/searchsim/internal/cli"
)

var runCmd = &cobra.Command{
	Use:   "run <config>",
	Short: "Run the sessions of a simulation file",
	Long: `Runs every session described in the simulation file one after another,
persists the reports in the selected store and prints a summary.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		resume, _ := cmd.Flags().GetBool("resume")
		debug, _ := cmd.Flags().GetBool("debug")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return cli.Run(ctx, cli.RunOptions{
			ConfigPath: args[0],
			Store:      storeOpts,
			Resume:     resume,
			JSON:       jsonMode,
			Debug:      debug,
		}, logger, nil, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("json", false, "Print reports as JSON lines")
	runCmd.Flags().Bool("resume", false, "Skip sessions whose report is already stored")
	runCmd.Flags().Bool("debug", false, "Log session lifecycle events")
}
