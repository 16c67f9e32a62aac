package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opd-ai/mcastkit/script"
)

var runCmd = &cobra.Command{
	Use:   "run <script.lua>",
	Short: "Execute a Lua scenario script",
	Long: `Execute a Lua scenario script against the keyword library. The script
reaches the keywords through the preloaded "mcast" module; a failed
keyword aborts the scenario.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runner := script.NewRunner(lib, options)
		if err := runner.Run(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Scenario %s passed\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
