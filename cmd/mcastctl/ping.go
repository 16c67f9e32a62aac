package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opd-ai/mcastkit"
)

var pingCmd = &cobra.Command{
	Use:   "ping <host>",
	Short: "Probe a host with an ICMP echo",
	Long: `Probe a host with a single ICMP echo request. The host must be a
dotted-quad IPv4 address. The exit status reports reachability, so the
command slots into shell-level checks.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !lib.Ping(args[0]) {
			return fmt.Errorf("host %s did not answer", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Host %s is alive\n", args[0])
		return nil
	},
}

func init() {
	defaults := mcastkit.NewOptions()
	pingCmd.Flags().DurationVar(&flagTimeout, "timeout", defaults.ProbeTimeout, "echo reply timeout")
	pingCmd.Flags().BoolVar(&flagPrivileged, "privileged", defaults.PrivilegedICMP, "use a raw ICMP socket")
	rootCmd.AddCommand(pingCmd)
}
