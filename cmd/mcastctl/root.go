package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/opd-ai/mcastkit"
)

var (
	// Persistent flags.
	cfgFile     string
	logLevel    string
	journalPath string

	// Keyword option flags. Commands register the subset they accept;
	// applyKeywordFlags overlays the ones the user actually set.
	flagGroup      string
	flagPort       int
	flagTTL        int
	flagInterval   time.Duration
	flagDuration   time.Duration
	flagTimeout    time.Duration
	flagPrivileged bool

	// Shared state set during PersistentPreRunE.
	options *mcastkit.Options
	lib     *mcastkit.Library
)

// rootCmd is the base command for mcastctl.
var rootCmd = &cobra.Command{
	Use:   "mcastctl",
	Short: "Multicast test keywords from the command line",
	Long: `mcastctl drives the mcastkit keyword library without a test runner:
send and receive multicast traffic, probe hosts with ICMP echoes, count
and extract video capture frames, grab frames off a live MJPEG stream,
and execute Lua scenario scripts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		options, err = mcastkit.LoadOptions(cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if logLevel != "" {
			options.LogLevel = logLevel
		}
		if journalPath != "" {
			options.JournalPath = journalPath
		}
		applyKeywordFlags(cmd)

		lib, err = mcastkit.New(options)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if lib == nil {
			return nil
		}
		return lib.Close()
	},
}

// applyKeywordFlags overlays explicitly set keyword flags onto the
// loaded options, so flags win over the config file.
func applyKeywordFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	if f.Changed("group") {
		options.Group = flagGroup
	}
	if f.Changed("port") {
		options.Port = flagPort
	}
	if f.Changed("ttl") {
		options.TTL = flagTTL
	}
	if f.Changed("interval") {
		options.SendInterval = flagInterval
	}
	if f.Changed("duration") {
		options.SendDuration = flagDuration
	}
	if f.Changed("timeout") {
		options.ReceiveTimeout = flagTimeout
		options.ProbeTimeout = flagTimeout
	}
	if f.Changed("privileged") {
		options.PrivilegedICMP = flagPrivileged
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "options file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&journalPath, "journal", "", "run journal database path")
}
