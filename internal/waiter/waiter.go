// Package waiter polls a Device Farm run until it completes or a deadline
// expires. The interval is fixed; there is no backoff or jitter.
package waiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"code.cloudfoundry.org/clock"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsdf "github.com/aws/aws-sdk-go-v2/service/devicefarm"
	"github.com/aws/aws-sdk-go-v2/service/devicefarm/types"

	"github.com/borsuksoftware/awsdevicefarm-runwaiter/internal/logger"
	"github.com/borsuksoftware/awsdevicefarm-runwaiter/internal/output"
)

// ErrTimeout is returned when the run does not complete before the deadline.
var ErrTimeout = errors.New("timed out waiting for run to complete")

// RunGetter is the single Device Farm operation the poll loop consumes.
type RunGetter interface {
	GetRun(ctx context.Context, params *awsdf.GetRunInput, optFns ...func(*awsdf.Options)) (*awsdf.GetRunOutput, error)
}

// Waiter polls a run's status on a fixed interval.
type Waiter struct {
	api      RunGetter
	printer  *output.Printer
	clock    clock.Clock
	interval time.Duration
	timeout  time.Duration
}

// New creates a waiter using the real wall clock.
func New(api RunGetter, printer *output.Printer, interval, timeout time.Duration) *Waiter {
	return NewWithClock(api, printer, clock.NewClock(), interval, timeout)
}

// NewWithClock creates a waiter with an injected clock (for tests).
func NewWithClock(api RunGetter, printer *output.Printer, clk clock.Clock, interval, timeout time.Duration) *Waiter {
	return &Waiter{
		api:      api,
		printer:  printer,
		clock:    clk,
		interval: interval,
		timeout:  timeout,
	}
}

// Wait polls the run until its status is COMPLETED, returning nil, or the
// deadline passes, returning ErrTimeout. The run is checked at least once
// even with a zero timeout. Any GetRun failure is fatal and returned as-is;
// the poll loop's next iteration is the only retry this tool performs.
//
// Output contract: each status change prints the new status value; an
// unchanged status prints a single continuation marker.
func (w *Waiter) Wait(ctx context.Context, runArn string) error {
	deadline := w.clock.Now().Add(w.timeout)
	log := logger.GetLogger().WithRun(runArn)

	var lastStatus types.ExecutionStatus
	seen := false
	midLine := false
	for {
		out, err := w.api.GetRun(ctx, &awsdf.GetRunInput{Arn: aws.String(runArn)})
		if err != nil {
			if midLine {
				w.printer.Println()
			}
			return fmt.Errorf("fetching run status: %w", err)
		}
		if out.Run == nil {
			if midLine {
				w.printer.Println()
			}
			return fmt.Errorf("run %s no longer exists", runArn)
		}

		status := out.Run.Status
		log.Debugf("run status is %s", status)

		if !seen || status != lastStatus {
			if midLine {
				w.printer.Println()
				midLine = false
			}
			w.printer.Status(string(status))
			lastStatus = status
			seen = true
		} else {
			w.printer.Marker()
			midLine = true
		}

		if status == types.ExecutionStatusCompleted {
			if midLine {
				w.printer.Println()
			}
			w.reportResult(out.Run)
			return nil
		}

		if !w.clock.Now().Before(deadline) {
			if midLine {
				w.printer.Println()
			}
			return ErrTimeout
		}

		timer := w.clock.NewTimer(w.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			if midLine {
				w.printer.Println()
			}
			return ctx.Err()
		case <-timer.C():
		}
	}
}

// reportResult prints the terminal summary for a completed run.
func (w *Waiter) reportResult(run *types.Run) {
	if run.Counters == nil {
		w.printer.Success("Run completed with result %s", run.Result)
		return
	}

	c := run.Counters
	w.printer.Success("Run completed with result %s (%d passed, %d failed, %d errored, %d warned, %d skipped, %d stopped of %d total)",
		run.Result,
		aws.ToInt32(c.Passed),
		aws.ToInt32(c.Failed),
		aws.ToInt32(c.Errored),
		aws.ToInt32(c.Warned),
		aws.ToInt32(c.Skipped),
		aws.ToInt32(c.Stopped),
		aws.ToInt32(c.Total))
}
