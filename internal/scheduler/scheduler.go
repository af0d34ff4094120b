// Package scheduler runs periodic maintenance for the agent.
package scheduler

import (
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/pmchrislee/ai-agent/internal/history"
	"github.com/pmchrislee/ai-agent/internal/metrics"
)

// Scheduler manages cron jobs for agent maintenance
type Scheduler struct {
	cron    *cron.Cron
	history *history.Buffer
	logger  *slog.Logger
}

// New creates a scheduler that refreshes the history gauge on the
// given interval (a time.Duration string, e.g. "1m").
func New(interval string, hist *history.Buffer, logger *slog.Logger) (*Scheduler, error) {
	if interval == "" {
		interval = "1m"
	}
	s := &Scheduler{
		cron:    cron.New(),
		history: hist,
		logger:  logger,
	}
	if _, err := s.cron.AddFunc("@every "+interval, s.sweep); err != nil {
		return nil, err
	}
	return s, nil
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) sweep() {
	size := s.history.Len()
	metrics.HistorySize.Set(float64(size))
	s.logger.Debug("history sweep", "turns", size, "capacity", s.history.Max())
}
