package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opd-ai/mcastkit"
)

var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "List the library keywords",
	Run: func(cmd *cobra.Command, args []string) {
		for _, kw := range mcastkit.Keywords() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s(%s)\n    %s\n", kw.Name, kw.Args, kw.Doc)
		}
	},
}

func init() {
	rootCmd.AddCommand(keywordsCmd)
}
