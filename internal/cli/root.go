// Package cli wires the watcher's cobra command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

var logLevel string

func NewRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "padelbot",
		Short: "Watch padel court availability and notify on new bookable runs",
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	cmd.AddCommand(newMonitorCmd())
	cmd.AddCommand(newCheckCmd())
	cmd.AddCommand(newPingCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func Execute() {
	if err := NewRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("padelbot %s (commit=%s, built=%s)\n", Version, CommitSHA, BuildDate)
		},
	}
}
