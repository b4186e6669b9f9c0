package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Freeeeeet/agenda_service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingRunner struct {
	calls    atomic.Int32
	err      error
	deadline atomic.Bool
}

func (r *countingRunner) Run(ctx context.Context) (service.RunResult, error) {
	r.calls.Add(1)
	if _, ok := ctx.Deadline(); ok {
		r.deadline.Store(true)
	}
	return service.RunResult{Processed: 1}, r.err
}

func TestScheduler_RunsUntilStopped(t *testing.T) {
	runner := &countingRunner{}
	s := NewScheduler(runner, 10*time.Millisecond, time.Second, zap.NewNop())

	s.Start(context.Background())
	require.Eventually(t, func() bool { return runner.calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	calls := runner.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, calls, runner.calls.Load(), "no runs after Stop")
	assert.True(t, runner.deadline.Load(), "each run gets a timeout")

	s.Stop()
}

func TestScheduler_ContinuesAfterFailure(t *testing.T) {
	runner := &countingRunner{err: errors.New("db down")}
	s := NewScheduler(runner, 5*time.Millisecond, 0, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	require.Eventually(t, func() bool { return runner.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	cancel()
	s.Stop()
	assert.False(t, runner.deadline.Load())
}
