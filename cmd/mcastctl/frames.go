package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	framesFormat string
	framesDir    string
)

var framesCmd = &cobra.Command{
	Use:   "frames",
	Short: "Work with video capture frames",
	Long:  "Count frames in a capture file, extract them as numbered still images, and clean extracted stills up.",
}

var framesCountCmd = &cobra.Command{
	Use:   "count <video-file>",
	Short: "Count the frames in a capture file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		count, err := lib.GetFrameCount(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d\n", count)
		return nil
	},
}

var framesExtractCmd = &cobra.Command{
	Use:   "extract <video-file>",
	Short: "Write every frame as a numbered still image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := lib.ExtractVideoFrames(args[0], framesFormat, framesDir)
		if err != nil {
			return err
		}
		for _, path := range paths {
			fmt.Fprintln(cmd.OutOrStdout(), path)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Extracted %d frame(s)\n", len(paths))
		return nil
	},
}

var framesCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete extracted still images",
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := lib.RemoveVideoFrameFiles(framesFormat, framesDir)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d file(s)\n", removed)
		return nil
	},
}

func init() {
	framesCmd.PersistentFlags().StringVar(&framesFormat, "format", "", "image format: jpg, jpeg, or png (default from options)")
	framesCmd.PersistentFlags().StringVar(&framesDir, "dir", "", "still image directory (default from options)")
	framesCmd.AddCommand(framesCountCmd)
	framesCmd.AddCommand(framesExtractCmd)
	framesCmd.AddCommand(framesCleanCmd)
	rootCmd.AddCommand(framesCmd)
}
