package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var journalLimit int

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Show recent run journal events",
	Long: `Show the newest events from the run journal, oldest first. The journal
records every keyword the library executes; configure it with --journal
or a journal_path in the options file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		events, err := lib.RecentEvents(journalLimit)
		if err != nil {
			return err
		}
		for _, ev := range events {
			line := fmt.Sprintf("#%d %s %s %s", ev.Seq,
				ev.Time.Format(time.RFC3339), ev.Keyword, ev.Outcome)
			if ev.Error != "" {
				line += ": " + ev.Error
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
		return nil
	},
}

func init() {
	journalCmd.Flags().IntVar(&journalLimit, "limit", 20, "events to show")
	rootCmd.AddCommand(journalCmd)
}
