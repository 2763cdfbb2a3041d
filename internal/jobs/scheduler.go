package jobs

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is a named unit of background work
type Job interface {
	Run() error
	Name() string
}

// Func adapts a plain function to the Job interface
type Func struct {
	JobName string
	Fn      func() error
}

func (f Func) Run() error { return f.Fn() }

func (f Func) Name() string { return f.JobName }

// Scheduler runs background jobs on fixed intervals
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// New creates an idle scheduler. Jobs only fire after Start.
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log.With().Str("component", "scheduler").Logger(),
	}
}

// AddEvery registers a job to run every interval
func (s *Scheduler) AddEvery(interval time.Duration, job Job) error {
	if interval <= 0 {
		return fmt.Errorf("invalid interval %s for job %s", interval, job.Name())
	}

	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		s.log.Debug().Str("job", job.Name()).Msg("running job")
		if err := job.Run(); err != nil {
			s.log.Error().Err(err).Str("job", job.Name()).Msg("job failed")
			return
		}
		s.log.Debug().Str("job", job.Name()).Msg("job completed")
	})
	if err != nil {
		return fmt.Errorf("failed to register job %s: %w", job.Name(), err)
	}

	s.log.Info().Str("job", job.Name()).Dur("interval", interval).Msg("job registered")
	return nil
}

// Start begins firing registered jobs
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop halts the schedule and waits for any running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}
