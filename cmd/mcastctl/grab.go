package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opd-ai/mcastkit"
)

var (
	grabOut    string
	grabWidth  int
	grabHeight int
)

var grabCmd = &cobra.Command{
	Use:   "grab <udp://group:port>",
	Short: "Grab one frame from a live MJPEG multicast stream",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		frame, err := lib.GetStreamingFrame(args[0])
		if err != nil {
			return err
		}
		if grabOut == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Grabbed a %dx%d frame\n", frame.Width, frame.Height)
			return nil
		}

		saved, err := lib.ConvertFrameToImage(frame, grabOut, grabWidth, grabHeight)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", saved)
		return nil
	},
}

func init() {
	defaults := mcastkit.NewOptions()
	grabCmd.Flags().DurationVar(&flagTimeout, "timeout", defaults.ReceiveTimeout, "how long to wait for a complete frame")
	grabCmd.Flags().StringVar(&grabOut, "out", "", "write the frame to this image file")
	grabCmd.Flags().IntVar(&grabWidth, "width", 0, "resize width (with --height)")
	grabCmd.Flags().IntVar(&grabHeight, "height", 0, "resize height (with --width)")
	rootCmd.AddCommand(grabCmd)
}
