package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const mcastctlVersion = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the mcastctl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "mcastctl version %s\n", mcastctlVersion)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
