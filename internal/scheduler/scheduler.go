// Package scheduler reloads the dataset on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"github.com/stwalsh4118/evpulse/internal/logger"
)

// Reloader starts a dataset load and returns its load ID.
type Reloader interface {
	ReloadAsync(ctx context.Context) string
}

// Scheduler triggers reloads on a standard five-field cron expression.
type Scheduler struct {
	cron     *cron.Cron
	reloader Reloader
	spec     string
	log      *logger.Logger

	mu        sync.Mutex
	isRunning bool
}

// New creates a scheduler. An empty spec disables it.
func New(spec string, reloader Reloader, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		reloader: reloader,
		spec:     spec,
		log:      log.WithComponent("scheduler"),
	}
}

// Start registers the reload job and starts the cron loop.
func (s *Scheduler) Start() error {
	if s.spec == "" {
		s.log.Info("Scheduled reload is disabled", nil)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}

	if _, err := s.cron.AddFunc(s.spec, func() { s.RunNow() }); err != nil {
		return fmt.Errorf("invalid reload schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.isRunning = true
	s.log.Info("Scheduler started", map[string]interface{}{
		"schedule": s.spec,
	})
	return nil
}

// RunNow triggers a reload immediately.
func (s *Scheduler) RunNow() string {
	loadID := s.reloader.ReloadAsync(context.Background())
	s.log.Info("Scheduled reload triggered", map[string]interface{}{
		"load_id": loadID,
	})
	return loadID
}

// Stop halts the cron loop and waits for a running job to return or ctx to
// expire.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}

	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.log.Warn("Scheduler stop timed out", nil)
	}
	s.isRunning = false
	s.log.Info("Scheduler stopped", nil)
}
