// Package schedule runs background maintenance jobs (cache warm-up, export
// pruning) on top of robfig/cron.
//
//	s := schedule.New()
//	s.Every(5 * time.Minute).Name("cache:warm").WithoutOverlapping().Run(warm)
//	s.Daily().Name("exports:prune").Run(prune)
//	s.Start(ctx)
package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/shashiranjanraj/stockroom/pkg/logger"
)

// ErrUnknownJob is returned by RunNow for a name that was never registered.
var ErrUnknownJob = errors.New("schedule: unknown job")

// Task is the function signature for a scheduled job. ctx is cancelled when
// the scheduler stops.
type Task func(ctx context.Context)

type job struct {
	name string
	spec string
	id   cron.EntryID
	run  func()
}

// Scheduler owns one cron instance and its named jobs.
type Scheduler struct {
	cron *cron.Cron

	mu   sync.Mutex
	ctx  context.Context
	jobs []*job
}

// New creates a stopped Scheduler. Panics inside jobs are recovered and
// logged.
func New() *Scheduler {
	l := cronLogger{}
	return &Scheduler{
		cron: cron.New(cron.WithLogger(l), cron.WithChain(cron.Recover(l))),
		ctx:  context.Background(),
	}
}

// Schedule is a fluent builder for one job before it is registered.
type Schedule struct {
	s         *Scheduler
	spec      string
	name      string
	noOverlap bool
}

// Every runs the job at a fixed interval (rounded up to one second).
func (s *Scheduler) Every(d time.Duration) *Schedule {
	return &Schedule{s: s, spec: "@every " + d.String()}
}

// Hourly runs the job at the top of every hour.
func (s *Scheduler) Hourly() *Schedule { return &Schedule{s: s, spec: "@hourly"} }

// Daily runs the job at midnight.
func (s *Scheduler) Daily() *Schedule { return &Schedule{s: s, spec: "@daily"} }

// Cron runs the job on a 5-field cron expression (min hour dom mon dow).
func (s *Scheduler) Cron(expr string) *Schedule { return &Schedule{s: s, spec: expr} }

// Name labels the job in logs, List and RunNow.
func (b *Schedule) Name(name string) *Schedule {
	b.name = name
	return b
}

// WithoutOverlapping skips a run while the previous one is still executing.
func (b *Schedule) WithoutOverlapping() *Schedule {
	b.noOverlap = true
	return b
}

// Run registers fn.
func (b *Schedule) Run(fn Task) error {
	s := b.s
	s.mu.Lock()
	defer s.mu.Unlock()

	name := b.name
	if name == "" {
		name = fmt.Sprintf("job-%d", len(s.jobs)+1)
	}
	j := &job{name: name, spec: b.spec}
	j.run = func() {
		s.mu.Lock()
		ctx := s.ctx
		s.mu.Unlock()

		start := time.Now()
		logger.Info("schedule: running job", "job", name)
		fn(ctx)
		logger.Info("schedule: job finished", "job", name, "duration", time.Since(start))
	}

	var cj cron.Job = cron.FuncJob(j.run)
	if b.noOverlap {
		cj = cron.SkipIfStillRunning(cronLogger{})(cj)
	}
	id, err := s.cron.AddJob(b.spec, cj)
	if err != nil {
		return fmt.Errorf("schedule: %s %q: %w", name, b.spec, err)
	}
	j.id = id
	s.jobs = append(s.jobs, j)
	return nil
}

// Start begins dispatching jobs until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.cron.Start()
	logger.Info("schedule: scheduler started", "jobs", len(s.List()))

	go func() {
		<-ctx.Done()
		<-s.cron.Stop().Done()
		logger.Info("schedule: scheduler stopped")
	}()
}

// RunNow runs the named job synchronously, outside its schedule.
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	var target *job
	for _, j := range s.jobs {
		if j.name == name {
			target = j
			break
		}
	}
	s.mu.Unlock()

	if target == nil {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	target.run()
	return nil
}

// List describes every job as "name  [spec]".
func (s *Scheduler) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, fmt.Sprintf("%s  [%s]", j.name, j.spec))
	}
	return out
}

// cronLogger adapts pkg/logger to cron.Logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, kv ...interface{}) {
	logger.Debug("schedule: "+msg, kv...)
}

func (cronLogger) Error(err error, msg string, kv ...interface{}) {
	logger.Error("schedule: "+msg, append(kv, "error", err)...)
}
