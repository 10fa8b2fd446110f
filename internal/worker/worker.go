// Package worker runs the periodic maintenance jobs of the catalog.
package worker

import (
	"Mumkin/pkg/logger"
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

type Job struct {
	Name string
	// Spec is a standard 5-field cron expression or a descriptor such as
	// "@every 5m".
	Spec    string
	Timeout time.Duration
	Run     func(ctx context.Context) error
}

type Scheduler struct {
	log  logger.Log
	cron *cron.Cron
	ctx  context.Context
	stop context.CancelFunc
}

// New registers jobs without starting them. A job is skipped while its
// previous run is still in progress.
func New(log logger.Log, jobs ...Job) (*Scheduler, error) {
	ctx, stop := context.WithCancel(context.Background())
	s := &Scheduler{
		log:  log,
		cron: cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		ctx:  ctx,
		stop: stop,
	}
	for _, job := range jobs {
		if job.Spec == "" {
			continue
		}
		if _, err := s.cron.AddFunc(job.Spec, func() { s.run(job) }); err != nil {
			stop()
			return nil, fmt.Errorf("schedule %s: %w", job.Name, err)
		}
		s.log.Info("job scheduled", "job", job.Name, "spec", job.Spec)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	s.stop()
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) run(job Job) {
	ctx := s.ctx
	if job.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, job.Timeout)
		defer cancel()
	}
	start := time.Now()
	if err := job.Run(ctx); err != nil {
		s.log.ErrorErr("job failed", err, "job", job.Name)
		return
	}
	s.log.Debug("job done", "job", job.Name, "took", time.Since(start).String())
}
