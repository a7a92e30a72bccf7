package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/evpulse/internal/logger"
)

type countingReloader struct {
	calls atomic.Int32
}

func (r *countingReloader) ReloadAsync(ctx context.Context) string {
	r.calls.Add(1)
	return "load-1"
}

func TestScheduler_Disabled(t *testing.T) {
	reloader := &countingReloader{}
	s := New("", reloader, logger.Nop())

	require.NoError(t, s.Start())
	s.Stop(context.Background())
	assert.Equal(t, int32(0), reloader.calls.Load())
}

func TestScheduler_InvalidSpec(t *testing.T) {
	s := New("every tuesday", &countingReloader{}, logger.Nop())

	err := s.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid reload schedule")
}

func TestScheduler_RunsOnSchedule(t *testing.T) {
	reloader := &countingReloader{}
	s := New("@every 1s", reloader, logger.Nop())

	require.NoError(t, s.Start())
	require.NoError(t, s.Start())

	assert.Eventually(t, func() bool {
		return reloader.calls.Load() >= 1
	}, 3*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	s.Stop(ctx)
}

func TestScheduler_RunNow(t *testing.T) {
	reloader := &countingReloader{}
	s := New("0 3 * * *", reloader, logger.Nop())

	assert.Equal(t, "load-1", s.RunNow())
	assert.Equal(t, int32(1), reloader.calls.Load())
}
