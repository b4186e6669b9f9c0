package app

import (
	"context"
	"sync"
	"time"

	"github.com/Freeeeeet/agenda_service/internal/service"
	"go.uber.org/zap"
)

// ReminderRunner is the part of the reminder service the scheduler drives
type ReminderRunner interface {
	Run(ctx context.Context) (service.RunResult, error)
}

// Scheduler runs the reminder dispatcher on a fixed interval
type Scheduler struct {
	reminders ReminderRunner
	interval  time.Duration
	timeout   time.Duration
	logger    *zap.Logger
	stopChan  chan struct{}
	stopOnce  sync.Once
	done      chan struct{}
}

func NewScheduler(reminders ReminderRunner, interval, timeout time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		reminders: reminders,
		interval:  interval,
		timeout:   timeout,
		logger:    logger,
		stopChan:  make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the reminder loop in the background
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting reminder scheduler", zap.Duration("interval", s.interval))
	go s.runReminderTask(ctx)
}

// Stop ends the loop and waits for an in-flight run to finish
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping reminder scheduler")
		close(s.stopChan)
	})
	<-s.done
}

func (s *Scheduler) runReminderTask(ctx context.Context) {
	defer close(s.done)

	s.runOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx)
		case <-s.stopChan:
			s.logger.Info("Reminder task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Reminder task cancelled")
			return
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	runCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	res, err := s.reminders.Run(runCtx)
	if err != nil {
		s.logger.Error("Reminder run failed", zap.Error(err))
		return
	}

	if res.Processed > 0 {
		s.logger.Info("Reminders dispatched", zap.Int("processed", res.Processed))
	}
}
