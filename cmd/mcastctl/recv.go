package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opd-ai/mcastkit"
)

var recvCmd = &cobra.Command{
	Use:   "recv",
	Short: "Collect multicast messages arriving within a receive window",
	RunE: func(cmd *cobra.Command, args []string) error {
		sock, err := lib.CreateReceiveSocket(options.Group, options.Port)
		if err != nil {
			return err
		}
		defer sock.Close()

		messages, err := lib.ReceiveMulticastMessage(sock, options.ReceiveTimeout)
		if err != nil {
			return err
		}
		for _, msg := range messages {
			fmt.Fprintln(cmd.OutOrStdout(), msg)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Received %d message(s) in %s\n",
			len(messages), options.ReceiveTimeout)
		return nil
	},
}

func init() {
	defaults := mcastkit.NewOptions()
	recvCmd.Flags().StringVar(&flagGroup, "group", defaults.Group, "multicast group address")
	recvCmd.Flags().IntVar(&flagPort, "port", defaults.Port, "multicast port")
	recvCmd.Flags().DurationVar(&flagTimeout, "timeout", defaults.ReceiveTimeout, "length of the receive window")
	rootCmd.AddCommand(recvCmd)
}
