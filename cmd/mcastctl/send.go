package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opd-ai/mcastkit"
)

var sendCmd = &cobra.Command{
	Use:   "send <message>",
	Short: "Repeat a message to a multicast group for a send window",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sock, err := lib.CreateSendSocket(options.TTL)
		if err != nil {
			return err
		}
		defer sock.Close()

		err = lib.SendMulticastMessage(sock, options.Group, options.Port,
			args[0], options.SendInterval, options.SendDuration)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Sent %q to %s:%d over a %s window\n",
			args[0], options.Group, options.Port, options.SendDuration)
		return nil
	},
}

func init() {
	defaults := mcastkit.NewOptions()
	sendCmd.Flags().StringVar(&flagGroup, "group", defaults.Group, "multicast group address")
	sendCmd.Flags().IntVar(&flagPort, "port", defaults.Port, "multicast port")
	sendCmd.Flags().IntVar(&flagTTL, "ttl", defaults.TTL, "multicast time-to-live")
	sendCmd.Flags().DurationVar(&flagInterval, "interval", defaults.SendInterval, "pause between datagrams")
	sendCmd.Flags().DurationVar(&flagDuration, "duration", defaults.SendDuration, "length of the send window")
	rootCmd.AddCommand(sendCmd)
}
