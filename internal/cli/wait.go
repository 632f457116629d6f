package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/borsuksoftware/awsdevicefarm-runwaiter/internal/config"
	"github.com/borsuksoftware/awsdevicefarm-runwaiter/internal/devicefarm"
	"github.com/borsuksoftware/awsdevicefarm-runwaiter/internal/logger"
	"github.com/borsuksoftware/awsdevicefarm-runwaiter/internal/output"
	"github.com/borsuksoftware/awsdevicefarm-runwaiter/internal/waiter"
)

// runWaitWithDependencies is the testable core of the command: load config,
// resolve names, poll until a terminal state.
func runWaitWithDependencies(ctx context.Context, cmd *cobra.Command, deps *Dependencies) error {
	printer := printerFor(cmd)
	flags := cmd.Flags()

	configFile, _ := flags.GetString("config")
	cfg, err := deps.ConfigLoader.Load(configFile)
	if err != nil {
		return err
	}

	// Flags set on the command line win over file and environment.
	if flags.Changed("project") {
		cfg.Project, _ = flags.GetString("project")
	}
	if flags.Changed("run") {
		cfg.Run, _ = flags.GetString("run")
	}
	if flags.Changed("timeout") {
		secs, _ := flags.GetInt("timeout")
		cfg.Timeout = secondsFlag(secs)
	}
	if flags.Changed("poll-interval") {
		secs, _ := flags.GetInt("poll-interval")
		cfg.PollInterval = secondsFlag(secs)
	}
	if flags.Changed("region") {
		cfg.Region, _ = flags.GetString("region")
	}

	if cfg.Project == "" {
		return errors.New("no project specified")
	}

	if cfg.Timeout < 0 {
		printer.Warning("Negative timeout %s clamped to 0", cfg.Timeout)
		cfg.Timeout = 0
	}

	// The flag path bypasses config.Load's floor; re-check after layering so
	// a zero or negative interval can't turn the poll loop hot.
	if cfg.PollInterval < config.MinPollInterval {
		printer.Warning("Poll interval %s raised to minimum %s", cfg.PollInterval, config.MinPollInterval)
		cfg.PollInterval = config.MinPollInterval
	}

	logger.InitializeFromConfig(cfg)
	log := logger.GetLogger().WithField("session_id", uuid.NewString())
	log.Debugf("waiting for run %q in project %q, timeout %s, interval %s",
		cfg.Run, cfg.Project, cfg.Timeout, cfg.PollInterval)

	api, err := deps.ClientFactory.NewClient(ctx, cfg.Region)
	if err != nil {
		return err
	}

	resolver := devicefarm.NewResolver(api)

	projectArn, err := resolver.ResolveProject(ctx, cfg.Project)
	if err != nil {
		return err
	}

	runArn, err := resolver.ResolveRun(ctx, projectArn, cfg.Run)
	if err != nil {
		return err
	}

	printer.Info("Waiting up to %s for run %s", cfg.Timeout, runArn)

	w := waiter.New(api, printer, cfg.PollInterval, cfg.Timeout)
	if err := w.Wait(ctx, runArn); err != nil {
		if errors.Is(err, waiter.ErrTimeout) {
			return fmt.Errorf("timed out after %s waiting for run %s to complete", cfg.Timeout, runArn)
		}
		return err
	}
	return nil
}

// printerFor builds a printer on the command's writers so tests can capture
// output; the real stdout keeps color detection.
func printerFor(cmd *cobra.Command) *output.Printer {
	out, errW := cmd.OutOrStdout(), cmd.ErrOrStderr()
	if out == os.Stdout && errW == os.Stderr {
		return output.NewPrinter()
	}
	return output.NewPrinterWithWriters(out, errW, false)
}
