package waiter

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsdf "github.com/aws/aws-sdk-go-v2/service/devicefarm"
	"github.com/aws/aws-sdk-go-v2/service/devicefarm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/borsuksoftware/awsdevicefarm-runwaiter/internal/output"
)

func newBufferPrinter(buf *bytes.Buffer) *output.Printer {
	return output.NewPrinterWithWriters(buf, buf, false)
}

const testRunArn = "arn:aws:devicefarm:us-west-2:123456789012:run:aaaa/bbbb"

// scriptedRuns returns a scripted sequence of statuses, repeating the last
// one once the script is exhausted.
type scriptedRuns struct {
	mu       sync.Mutex
	statuses []types.ExecutionStatus
	calls    int
	err      error
	result   types.ExecutionResult
	counters *types.Counters
	polled   chan struct{}
}

func (s *scriptedRuns) GetRun(ctx context.Context, params *awsdf.GetRunInput, optFns ...func(*awsdf.Options)) (*awsdf.GetRunOutput, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.polled != nil {
		select {
		case s.polled <- struct{}{}:
		default:
		}
	}

	if s.err != nil {
		return nil, s.err
	}

	idx := s.calls
	if idx >= len(s.statuses) {
		idx = len(s.statuses) - 1
	}
	s.calls++

	run := &types.Run{
		Arn:    params.Arn,
		Name:   aws.String("Nightly regression"),
		Status: s.statuses[idx],
		Result: s.result,
	}
	if s.statuses[idx] == types.ExecutionStatusCompleted {
		run.Counters = s.counters
	}
	return &awsdf.GetRunOutput{Run: run}, nil
}

func (s *scriptedRuns) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestWaiter(api RunGetter, clk *fakeclock.FakeClock, interval, timeout time.Duration) (*Waiter, *bytes.Buffer) {
	var buf bytes.Buffer
	printer := newBufferPrinter(&buf)
	return NewWithClock(api, printer, clk, interval, timeout), &buf
}

func TestWaitUntilCompleted(t *testing.T) {
	api := &scriptedRuns{
		statuses: []types.ExecutionStatus{
			types.ExecutionStatusPending,
			types.ExecutionStatusRunning,
			types.ExecutionStatusCompleted,
		},
		result: types.ExecutionResultPassed,
	}
	clk := fakeclock.NewFakeClock(time.Unix(0, 0))
	w, buf := newTestWaiter(api, clk, 5*time.Second, 30*time.Minute)

	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Wait(context.Background(), testRunArn)
	}()

	// Two sleeps separate the three polls.
	clk.WaitForWatcherAndIncrement(5 * time.Second)
	clk.WaitForWatcherAndIncrement(5 * time.Second)

	require.NoError(t, waitErr(t, errCh))
	assert.Equal(t, 3, api.callCount())

	out := buf.String()
	assert.Contains(t, out, "PENDING\n")
	assert.Contains(t, out, "RUNNING\n")
	assert.Contains(t, out, "COMPLETED\n")
	assert.Contains(t, out, "Run completed with result PASSED")
}

func TestWaitPrintsMarkerForUnchangedStatus(t *testing.T) {
	api := &scriptedRuns{
		statuses: []types.ExecutionStatus{
			types.ExecutionStatusRunning,
			types.ExecutionStatusRunning,
			types.ExecutionStatusRunning,
			types.ExecutionStatusCompleted,
		},
		result: types.ExecutionResultPassed,
	}
	clk := fakeclock.NewFakeClock(time.Unix(0, 0))
	w, buf := newTestWaiter(api, clk, 5*time.Second, 30*time.Minute)

	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Wait(context.Background(), testRunArn)
	}()

	for i := 0; i < 3; i++ {
		clk.WaitForWatcherAndIncrement(5 * time.Second)
	}

	require.NoError(t, waitErr(t, errCh))

	// Two unchanged polls produce two markers on one line before the change.
	assert.Contains(t, buf.String(), "RUNNING\n..\nCOMPLETED\n")
}

func TestWaitTimesOut(t *testing.T) {
	api := &scriptedRuns{
		statuses: []types.ExecutionStatus{types.ExecutionStatusRunning},
	}
	clk := fakeclock.NewFakeClock(time.Unix(0, 0))
	w, _ := newTestWaiter(api, clk, 5*time.Second, 10*time.Second)

	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Wait(context.Background(), testRunArn)
	}()

	clk.WaitForWatcherAndIncrement(5 * time.Second)
	clk.WaitForWatcherAndIncrement(5 * time.Second)

	err := waitErr(t, errCh)
	require.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 3, api.callCount())
}

func TestWaitZeroTimeoutPollsOnce(t *testing.T) {
	api := &scriptedRuns{
		statuses: []types.ExecutionStatus{types.ExecutionStatusPending},
	}
	clk := fakeclock.NewFakeClock(time.Unix(0, 0))
	w, buf := newTestWaiter(api, clk, 5*time.Second, 0)

	err := w.Wait(context.Background(), testRunArn)
	require.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 1, api.callCount())
	assert.Contains(t, buf.String(), "PENDING\n")
}

func TestWaitZeroTimeoutCompletedRun(t *testing.T) {
	api := &scriptedRuns{
		statuses: []types.ExecutionStatus{types.ExecutionStatusCompleted},
		result:   types.ExecutionResultPassed,
	}
	clk := fakeclock.NewFakeClock(time.Unix(0, 0))
	w, _ := newTestWaiter(api, clk, 5*time.Second, 0)

	require.NoError(t, w.Wait(context.Background(), testRunArn))
}

func TestWaitReportsCounters(t *testing.T) {
	api := &scriptedRuns{
		statuses: []types.ExecutionStatus{types.ExecutionStatusCompleted},
		result:   types.ExecutionResultFailed,
		counters: &types.Counters{
			Total:   aws.Int32(10),
			Passed:  aws.Int32(7),
			Failed:  aws.Int32(2),
			Errored: aws.Int32(1),
			Warned:  aws.Int32(0),
			Skipped: aws.Int32(0),
			Stopped: aws.Int32(0),
		},
	}
	clk := fakeclock.NewFakeClock(time.Unix(0, 0))
	w, buf := newTestWaiter(api, clk, 5*time.Second, time.Minute)

	require.NoError(t, w.Wait(context.Background(), testRunArn))
	assert.Contains(t, buf.String(),
		"Run completed with result FAILED (7 passed, 2 failed, 1 errored, 0 warned, 0 skipped, 0 stopped of 10 total)")
}

func TestWaitPropagatesAPIError(t *testing.T) {
	api := &scriptedRuns{err: errors.New("throttled")}
	clk := fakeclock.NewFakeClock(time.Unix(0, 0))
	w, _ := newTestWaiter(api, clk, 5*time.Second, time.Minute)

	err := w.Wait(context.Background(), testRunArn)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching run status")
	assert.Contains(t, err.Error(), "throttled")
}

func TestWaitStopsOnContextCancel(t *testing.T) {
	api := &scriptedRuns{
		statuses: []types.ExecutionStatus{types.ExecutionStatusRunning},
		polled:   make(chan struct{}, 1),
	}
	clk := fakeclock.NewFakeClock(time.Unix(0, 0))
	w, _ := newTestWaiter(api, clk, 5*time.Second, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Wait(ctx, testRunArn)
	}()

	// Cancel while the waiter sleeps between polls.
	<-api.polled
	cancel()

	err := waitErr(t, errCh)
	require.ErrorIs(t, err, context.Canceled)
}

func waitErr(t *testing.T, errCh chan error) error {
	t.Helper()
	select {
	case err := <-errCh:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return")
		return nil
	}
}
