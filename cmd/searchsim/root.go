package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/searchsim/internal/cli"
	"github.com/aretw0/searchsim/internal/logging"
)

var (
	logger    *slog.Logger
	storeOpts cli.StoreOptions
)

var rootCmd = &cobra.Command{
	Use:   "searchsim",
	Short: "Simulate searchers interacting with a retrieval system",
	Long: `searchsim drives simulated search and conversational sessions against a
document collection, charging every action to a cost budget, and reports what
each simulated searcher found.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("log-level")
		level, err := logging.ParseLevel(name)
		if err != nil {
			return err
		}
		logger = logging.New(level)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&storeOpts.Kind, "store", "memory", "Report store: memory, file, redis, sqlite")
	rootCmd.PersistentFlags().StringVar(&storeOpts.RedisAddr, "redis-addr", "localhost:6379", "Redis address for --store redis")
	rootCmd.PersistentFlags().StringVar(&storeOpts.SQLitePath, "sqlite-path", "searchsim.db", "Database file for --store sqlite")
	rootCmd.PersistentFlags().StringVar(&storeOpts.Dir, "dir", "", "Report directory for --store file (default .searchsim/reports)")
}
