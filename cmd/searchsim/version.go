package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/searchsim"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of searchsim",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "searchsim version %s\n", strings.TrimSpace(searchsim.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
