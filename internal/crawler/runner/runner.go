// Package runner schedules crawl runs: once, or on a fixed interval with
// manual triggers in between.
package runner

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"nsdc/internal/crawler/service"
)

// Crawler is the service the runner drives.
type Crawler interface {
	Crawl(ctx context.Context) (service.RunResult, error)
}

// Status describes the runner's most recent activity.
type Status struct {
	Running     bool       `json:"running"`
	Runs        int        `json:"runs"`
	LastRun     *RunStatus `json:"last_run,omitempty"`
	LastSuccess *time.Time `json:"last_success,omitempty"`
}

// RunStatus is the outcome of one finished run.
type RunStatus struct {
	RunID     string         `json:"run_id"`
	StartedAt time.Time      `json:"started_at"`
	Duration  string         `json:"duration"`
	Rows      map[string]int `json:"rows"`
	Entities  int            `json:"entities"`
	Targets   int            `json:"targets"`
	Error     string         `json:"error,omitempty"`
}

// Runner runs the crawler and tracks its status. It never runs two crawls
// at once.
type Runner struct {
	crawler  Crawler
	interval time.Duration
	logger   *slog.Logger
	trigger  chan struct{}

	mu     sync.RWMutex
	status Status
}

type Option func(*Runner)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithInterval makes Run repeat the crawl every d until its context ends.
func WithInterval(d time.Duration) Option {
	return func(r *Runner) {
		r.interval = d
	}
}

func New(crawler Crawler, opts ...Option) *Runner {
	r := &Runner{
		crawler: crawler,
		logger:  slog.Default(),
		trigger: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run crawls immediately. Without an interval it returns the run's error.
// With one it keeps crawling on every tick or Trigger until ctx is done;
// failed runs are logged and the loop goes on.
func (r *Runner) Run(ctx context.Context) error {
	err := r.runOnce(ctx)
	if r.interval <= 0 {
		return err
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case <-r.trigger:
		}
		_ = r.runOnce(ctx)
	}
}

// Trigger asks a scheduled runner for an extra run. It reports false when a
// run is already pending or in progress, and always for a single-run runner,
// which never reads triggers.
func (r *Runner) Trigger() bool {
	if r.interval <= 0 || r.Status().Running {
		return false
	}
	select {
	case r.trigger <- struct{}{}:
		return true
	default:
		return false
	}
}

// Status returns a snapshot of the runner state.
func (r *Runner) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := r.status
	if s.LastRun != nil {
		last := *s.LastRun
		s.LastRun = &last
	}
	return s
}

func (r *Runner) runOnce(ctx context.Context) error {
	r.mu.Lock()
	r.status.Running = true
	r.mu.Unlock()

	result, err := r.crawler.Crawl(ctx)

	run := &RunStatus{
		RunID:     result.RunID.String(),
		StartedAt: result.StartedAt,
		Duration:  result.Duration.String(),
		Rows:      result.Rows,
		Entities:  result.Entities,
		Targets:   result.Targets,
	}
	if err != nil {
		run.Error = err.Error()
	}

	r.mu.Lock()
	r.status.Running = false
	r.status.Runs++
	r.status.LastRun = run
	if err == nil {
		finished := result.StartedAt.Add(result.Duration)
		r.status.LastSuccess = &finished
	}
	r.mu.Unlock()

	if err != nil && ctx.Err() == nil && r.interval > 0 {
		r.logger.WarnContext(ctx, "Scheduled crawl failed; retrying on next tick",
			slog.Duration("interval", r.interval),
		)
	}
	return err
}
