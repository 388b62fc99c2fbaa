package jobs

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Runner polls the job table on a fixed interval for the lifetime of the
// process. It is intended to run in exactly one process; with several
// replicas two runners could claim the same due job.
type Runner struct {
	service  *Service
	interval time.Duration
	log      zerolog.Logger
}

func NewRunner(service *Service, interval time.Duration, log zerolog.Logger) *Runner {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Runner{service: service, interval: interval, log: log}
}

// Run blocks, processing due jobs each tick until ctx is cancelled. Errors
// from a tick are logged and the loop continues.
func (r *Runner) Run(ctx context.Context) {
	r.log.Info().Dur("interval", r.interval).Msg("job runner started")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("job runner stopped")
			return
		case <-ticker.C:
			if err := r.service.ProcessScheduledJobs(ctx); err != nil {
				r.log.Error().Err(err).Msg("error processing scheduled jobs")
			}
		}
	}
}
