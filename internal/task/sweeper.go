// Package task runs the periodic housekeeping jobs: rate-limit window
// eviction and draft store expiry.
package task

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/metrics"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job names.
const (
	JobRateLimitSweep = "ratelimit-sweep"
	JobDraftExpiry    = "draft-expiry"
)

const defaultJobTimeout = time.Minute

// Job is a named sweep. Run returns how many entries it removed.
type Job struct {
	Name     string
	Schedule string // cron spec, e.g. "@every 5m" or "*/15 * * * *"
	Timeout  time.Duration
	Run      func(ctx context.Context) (int, error)
}

// Result is the outcome of one job run.
type Result struct {
	Job     string `json:"job"`
	Evicted int    `json:"evicted"`
	Error   string `json:"error,omitempty"`
}

// Sweeper schedules jobs on a cron and can also run them on demand.
type Sweeper struct {
	cron    *cron.Cron
	jobs    []Job
	metrics *metrics.Registry
	logger  zerolog.Logger
}

// NewSweeper creates a sweeper. Overlapping runs of the same job are skipped.
func NewSweeper(m *metrics.Registry, logger zerolog.Logger) *Sweeper {
	logger = logger.With().Str("component", "sweeper").Logger()
	cl := cronLogger{logger: logger}

	return &Sweeper{
		cron: cron.New(cron.WithChain(
			cron.Recover(cl),
			cron.SkipIfStillRunning(cl),
		)),
		metrics: m,
		logger:  logger,
	}
}

// Register adds a job to the schedule.
func (s *Sweeper) Register(job Job) error {
	if job.Name == "" || job.Run == nil {
		return fmt.Errorf("job requires a name and a run function")
	}
	if job.Timeout <= 0 {
		job.Timeout = defaultJobTimeout
	}

	if _, err := s.cron.AddFunc(job.Schedule, func() { s.run(context.Background(), job) }); err != nil {
		return fmt.Errorf("failed to schedule job %s: %w", job.Name, err)
	}
	s.jobs = append(s.jobs, job)

	s.logger.Info().Str("job", job.Name).Str("schedule", job.Schedule).Msg("job registered")
	return nil
}

// Start begins running jobs on their schedules.
func (s *Sweeper) Start() {
	s.cron.Start()
	s.logger.Info().Int("jobs", len(s.jobs)).Msg("sweeper started")
}

// Stop halts the schedule and waits for running jobs to finish or ctx to end.
func (s *Sweeper) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info().Msg("sweeper stopped")
	case <-ctx.Done():
		s.logger.Warn().Msg("sweeper stop timed out")
	}
}

// RunAll runs every registered job once, in registration order.
func (s *Sweeper) RunAll(ctx context.Context) []Result {
	results := make([]Result, 0, len(s.jobs))
	for _, job := range s.jobs {
		results = append(results, s.run(ctx, job))
	}
	return results
}

func (s *Sweeper) run(ctx context.Context, job Job) Result {
	ctx, cancel := context.WithTimeout(ctx, job.Timeout)
	defer cancel()

	start := time.Now()
	n, err := job.Run(ctx)
	res := Result{Job: job.Name, Evicted: n}
	if err != nil {
		res.Error = err.Error()
		s.logger.Error().Err(err).Str("job", job.Name).Msg("sweep failed")
		return res
	}

	s.metrics.Swept(job.Name, n)
	s.logger.Debug().
		Str("job", job.Name).
		Int("evicted", n).
		Dur("elapsed", time.Since(start)).
		Msg("sweep completed")
	return res
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
