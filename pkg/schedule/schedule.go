// Package schedule runs periodic maintenance tasks such as the fulfilled
// order purge.
//
//	s := schedule.New()
//	s.Hourly("baskets:sweep", sweep)
//	s.Cron("orders:purge", "0 3 * * *", purge).WithoutOverlapping()
//	s.Start(ctx)      // long-running, inside `serve`
//	s.RunAll(ctx)     // one shot, for `schedule:run`
package schedule

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/canteen/pkg/logger"
)

// Task is one unit of scheduled work.
type Task func(ctx context.Context) error

type Entry struct {
	name      string
	interval  time.Duration
	cron      string
	task      Task
	noOverlap bool

	mu      sync.Mutex
	lastRun time.Time
	running bool
}

// WithoutOverlapping skips a tick while the previous run is still going.
func (e *Entry) WithoutOverlapping() *Entry {
	e.noOverlap = true
	return e
}

func (e *Entry) Name() string { return e.name }

func (e *Entry) Frequency() string {
	if e.cron != "" {
		return e.cron
	}
	return e.interval.String()
}

type Scheduler struct {
	mu      sync.Mutex
	entries []*Entry
	wg      sync.WaitGroup
	tick    time.Duration
}

func New() *Scheduler {
	return &Scheduler{tick: time.Second}
}

func (s *Scheduler) add(e *Entry) *Entry {
	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()
	return e
}

// Every runs task each interval, starting on the first tick.
func (s *Scheduler) Every(name string, interval time.Duration, task Task) *Entry {
	return s.add(&Entry{name: name, interval: interval, task: task})
}

func (s *Scheduler) Hourly(name string, task Task) *Entry {
	return s.Every(name, time.Hour, task)
}

func (s *Scheduler) Daily(name string, task Task) *Entry {
	return s.Every(name, 24*time.Hour, task)
}

// Cron runs task on minutes matching a five-field expression
// (minute hour day-of-month month day-of-week). Each field accepts
// "*", "*/n", "a-b", "a,b" or a number.
func (s *Scheduler) Cron(name, expr string, task Task) *Entry {
	return s.add(&Entry{name: name, cron: expr, task: task})
}

// Entries returns the registered entries in registration order.
func (s *Scheduler) Entries() []*Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Start dispatches due entries until ctx is cancelled, then waits for
// running tasks to return.
func (s *Scheduler) Start(ctx context.Context) {
	logger.Info("schedule: scheduler started", "entries", len(s.Entries()))
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.wg.Wait()
			logger.Info("schedule: scheduler stopped")
			return
		case now := <-ticker.C:
			for _, e := range s.Entries() {
				if e.due(now) {
					s.dispatch(ctx, e, now)
				}
			}
		}
	}
}

// RunAll runs every entry once, synchronously, and returns the first error.
func (s *Scheduler) RunAll(ctx context.Context) error {
	var first error
	for _, e := range s.Entries() {
		if err := s.run(ctx, e); err != nil && first == nil {
			first = fmt.Errorf("schedule: %s: %w", e.name, err)
		}
	}
	return first
}

func (e *Entry) due(now time.Time) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cron != "" {
		if !e.lastRun.IsZero() && e.lastRun.Truncate(time.Minute).Equal(now.Truncate(time.Minute)) {
			return false
		}
		return matchCron(e.cron, now)
	}
	return e.lastRun.IsZero() || now.Sub(e.lastRun) >= e.interval
}

func (s *Scheduler) dispatch(ctx context.Context, e *Entry, now time.Time) {
	e.mu.Lock()
	if e.noOverlap && e.running {
		e.mu.Unlock()
		logger.Warn("schedule: skipping overlapping task", "task", e.name)
		return
	}
	e.running = true
	e.lastRun = now
	e.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			e.mu.Lock()
			e.running = false
			e.mu.Unlock()
		}()
		_ = s.run(ctx, e)
	}()
}

func (s *Scheduler) run(ctx context.Context, e *Entry) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			logger.Error("schedule: task failed", "task", e.name, "error", err)
			return
		}
		logger.Info("schedule: task done", "task", e.name, "duration_ms", time.Since(start).Milliseconds())
	}()
	return e.task(ctx)
}

func matchCron(expr string, t time.Time) bool {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return false
	}
	vals := []int{t.Minute(), t.Hour(), t.Day(), int(t.Month()), int(t.Weekday())}
	for i, f := range fields {
		if !matchField(f, vals[i]) {
			return false
		}
	}
	return true
}

func matchField(field string, val int) bool {
	for _, part := range strings.Split(field, ",") {
		switch {
		case part == "*":
			return true
		case strings.HasPrefix(part, "*/"):
			step, err := strconv.Atoi(part[2:])
			if err == nil && step > 0 && val%step == 0 {
				return true
			}
		case strings.Contains(part, "-"):
			lo, hi, _ := strings.Cut(part, "-")
			a, err1 := strconv.Atoi(lo)
			b, err2 := strconv.Atoi(hi)
			if err1 == nil && err2 == nil && val >= a && val <= b {
				return true
			}
		default:
			if n, err := strconv.Atoi(part); err == nil && n == val {
				return true
			}
		}
	}
	return false
}
