package watch

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs a Poller on a fixed interval.
type Scheduler struct {
	cron    *cron.Cron
	poller  *Poller
	timeout time.Duration
	log     *slog.Logger
}

// NewScheduler creates a Scheduler that polls every interval. Each cycle is
// bounded by the interval so a slow cycle cannot overlap the next one.
func NewScheduler(
	poller *Poller,
	interval time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	s := &Scheduler{
		cron:    c,
		poller:  poller,
		timeout: interval,
		log:     log,
	}

	if _, err := c.AddFunc("@every "+interval.String(), s.runPoll); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled polls.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started", "items", len(s.poller.Names()))
	s.cron.Start()
}

// Stop stops the scheduler. The returned context is done once a running poll
// has finished.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// RunNow runs one poll outside the schedule.
func (s *Scheduler) RunNow(ctx context.Context) error {
	return s.poller.Poll(ctx)
}

func (s *Scheduler) runPoll() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	s.log.Info("scheduled sale history poll starting")
	if err := s.poller.Poll(ctx); err != nil {
		s.log.Error("scheduled sale history poll failed", "error", err)
	}
}
