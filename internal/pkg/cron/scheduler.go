// Package cron runs named background jobs on fixed intervals. The API
// server registers periodic maintenance here, such as the stale clock
// session sweep.
package cron

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// JobFunc is one maintenance pass. It receives the scheduler's context
// and should return promptly once that context is cancelled.
type JobFunc func(ctx context.Context) error

type job struct {
	name     string
	interval time.Duration
	fn       JobFunc
}

// Scheduler runs each registered job in its own goroutine: once
// immediately on Start, then on every interval tick until Stop.
type Scheduler struct {
	mu     sync.Mutex
	jobs   []job
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{ctx: ctx, cancel: cancel}
}

// AddJob registers a job. Registration after Start has no effect.
func (s *Scheduler) AddJob(name string, interval time.Duration, fn JobFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, job{name: name, interval: interval, fn: fn})
	slog.Info("background job registered", "job", name, "interval", interval)
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.loop(j)
	}
	slog.Info("background jobs running", "count", len(s.jobs))
}

// Stop cancels the shared context and waits for every job loop to
// drain.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	slog.Info("background jobs stopped")
}

func (s *Scheduler) loop(j job) {
	defer s.wg.Done()

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	s.run(j)
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.run(j)
		}
	}
}

func (s *Scheduler) run(j job) {
	start := time.Now()
	if err := j.fn(s.ctx); err != nil {
		slog.Error("background job failed", "job", j.name, "error", err, "duration", time.Since(start))
		return
	}
	slog.Debug("background job done", "job", j.name, "duration", time.Since(start))
}

// RunOnce executes every registered job a single time with the given
// context, bypassing the tickers.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, j := range s.jobs {
		if err := j.fn(ctx); err != nil {
			slog.Error("background job failed", "job", j.name, "error", err)
		}
	}
}
