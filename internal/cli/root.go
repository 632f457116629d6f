// Package cli implements the runwaiter command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/borsuksoftware/awsdevicefarm-runwaiter/internal/output"
)

const version = "1.1.0"

// Execute runs the CLI
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	var showVersion bool

	cmd := &cobra.Command{
		Use:   "runwaiter",
		Short: "Wait for an AWS Device Farm test run to complete",
		Long: `Wait for an AWS Device Farm test run to complete

runwaiter polls a previously scheduled Device Farm run until its status
reaches COMPLETED or a deadline expires. Project and run may be given as
human-readable names or as Device Farm ARNs; names are resolved with a
case-insensitive exact match, and a name matching more than one entry is
an error.

AWS credentials follow the SDK's standard resolution chain; Device Farm
is served from us-west-2 unless --region says otherwise.

Examples:
  runwaiter --project "Mobile App" --run "Nightly regression"
  runwaiter -p "Mobile App" -t 600 -i 10
  runwaiter -p arn:aws:devicefarm:us-west-2:123456789012:project:aaaa

Exit code is 0 when the run completes (or help is shown), 1 on a usage
error, an unresolved name, or a timeout.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "runwaiter version "+version)
				return err
			}
			// Bare invocation is a request for help, not an error.
			if cmd.Flags().NFlag() == 0 {
				return cmd.Help()
			}
			return runWait(cmd)
		},
	}

	cmd.Flags().BoolVarP(&showVersion, "version", "v", false, "Show version information")
	cmd.Flags().StringP("project", "p", "", "Device Farm project name or ARN (required)")
	cmd.Flags().StringP("run", "r", "", "Test run name or ARN (default: \"Automated run <today>\")")
	cmd.Flags().IntP("timeout", "t", 1800, "Seconds to wait before giving up")
	cmd.Flags().IntP("poll-interval", "i", 5, "Seconds between status checks")
	cmd.Flags().String("region", "", "AWS region (default: "+defaultRegionHelp+")")
	cmd.Flags().String("config", "", "Path to a YAML config file")

	return cmd
}

// runWait wires up production dependencies and signal handling around the
// testable wait flow
func runWait(cmd *cobra.Command) error {
	deps := NewRealDependencies()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		printer := output.NewPrinter()
		printer.Warning("\nInterrupt received, shutting down...")
		cancel()
	}()

	return runWaitWithDependencies(ctx, cmd, deps)
}

// secondsFlag converts a whole-seconds flag value to a duration
func secondsFlag(secs int) time.Duration {
	return time.Duration(secs) * time.Second
}
