package watch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// scheduler wraps a gocron scheduler running the periodic full rebuild.
type scheduler struct {
	scheduler gocron.Scheduler
}

func newScheduler() (*scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &scheduler{scheduler: s}, nil
}

// schedulePeriodic runs fn every interval and returns the job ID.
func (s *scheduler) schedulePeriodic(interval time.Duration, fn func()) (string, error) {
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(fn),
		gocron.WithName("periodic-rebuild"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create periodic rebuild job: %w", err)
	}
	slog.Debug("Scheduled periodic rebuild", slog.Duration("interval", interval), slog.String("job_id", job.ID().String()))
	return job.ID().String(), nil
}

func (s *scheduler) start() {
	s.scheduler.Start()
}

func (s *scheduler) stop() error {
	return s.scheduler.Shutdown()
}
