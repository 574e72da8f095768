// Package queue runs background jobs with retries.
//
//	type PublishEventJob struct { Name string; Body json.RawMessage }
//	func (PublishEventJob) JobName() string { return "publish_event" }
//	func (j *PublishEventJob) Handle(ctx context.Context) error { ... }
//
//	queue.Register("publish_event", func() queue.Job { return &PublishEventJob{} })
//	queue.Dispatch(ctx, &PublishEventJob{...})
//
// Jobs travel through a Driver as JSON, so a job must round-trip through
// encoding/json. The in-memory driver is the default; the Redis driver lets
// `canteen queue:work` run workers in a separate process.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shashiranjanraj/canteen/pkg/logger"
	"github.com/shashiranjanraj/canteen/pkg/metrics"
)

// Job is a unit of background work.
type Job interface {
	JobName() string
	Handle(ctx context.Context) error
}

// Driver moves serialized jobs between dispatchers and workers.
// Pop returns (nil, nil) when it timed out without a job.
type Driver interface {
	Push(ctx context.Context, payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

// FailedJob is a job that exhausted its retries.
type FailedJob struct {
	Name     string
	Payload  json.RawMessage
	Err      error
	FailedAt time.Time
	Attempts int
}

var ErrUnknownJob = errors.New("queue: unregistered job type")

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type Manager struct {
	mu       sync.RWMutex
	driver   Driver
	registry map[string]func() Job
	failed   []FailedJob
	maxRetry int
	backoff  func(attempt int) time.Duration
	store    FailedStore
}

func New(d Driver) *Manager {
	return &Manager{
		driver:   d,
		registry: map[string]func() Job{},
		maxRetry: 3,
		backoff:  func(attempt int) time.Duration { return time.Duration(attempt) * time.Second },
	}
}

func (m *Manager) SetDriver(d Driver) {
	m.mu.Lock()
	m.driver = d
	m.mu.Unlock()
}

// SetRetry sets attempts per job and the delay before attempt n+1.
func (m *Manager) SetRetry(attempts int, backoff func(attempt int) time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if attempts < 1 {
		attempts = 1
	}
	m.maxRetry = attempts
	if backoff != nil {
		m.backoff = backoff
	}
}

// Register makes a job type decodable by workers.
func (m *Manager) Register(name string, factory func() Job) {
	m.mu.Lock()
	m.registry[name] = factory
	m.mu.Unlock()
}

// Dispatch serializes job and pushes it onto the driver.
func (m *Manager) Dispatch(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal job %s: %w", job.JobName(), err)
	}
	env, err := json.Marshal(envelope{Type: job.JobName(), Payload: payload})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}

	m.mu.RLock()
	d := m.driver
	m.mu.RUnlock()
	return d.Push(ctx, env)
}

// Start launches n workers that run until ctx is cancelled. The returned
// func blocks until every worker has exited.
func (m *Manager) Start(ctx context.Context, n int) (wait func()) {
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.work(ctx)
		}()
	}
	logger.Info("queue: workers started", "count", n)
	return wg.Wait
}

func (m *Manager) work(ctx context.Context) {
	for ctx.Err() == nil {
		m.mu.RLock()
		d := m.driver
		m.mu.RUnlock()

		raw, err := d.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Warn("queue: pop failed", "error", err)
			sleep(ctx, 500*time.Millisecond)
			continue
		}
		if raw == nil {
			continue
		}
		if err := m.Process(ctx, raw); err != nil {
			logger.Error("queue: job dropped", "error", err)
		}
	}
}

// Process decodes one envelope and runs it with retries. It returns an error
// only when the envelope itself is unusable; job failures are recorded.
func (m *Manager) Process(ctx context.Context, raw []byte) error {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("queue: bad envelope: %w", err)
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Type]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, env.Type)
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		return fmt.Errorf("queue: unmarshal %s: %w", env.Type, err)
	}

	m.run(ctx, job, env)
	return nil
}

func (m *Manager) run(ctx context.Context, job Job, env envelope) {
	m.mu.RLock()
	attempts, backoff := m.maxRetry, m.backoff
	m.mu.RUnlock()

	start := time.Now()
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if lastErr = job.Handle(ctx); lastErr == nil {
			metrics.RecordQueueJob(env.Type, "success", start)
			logger.Debug("queue: job processed", "type", env.Type, "attempt", attempt)
			return
		}
		logger.Warn("queue: job failed", "type", env.Type, "attempt", attempt, "error", lastErr)
		if attempt < attempts && !sleep(ctx, backoff(attempt)) {
			break
		}
	}

	metrics.RecordQueueJob(env.Type, "failed", start)
	m.recordFailure(ctx, FailedJob{
		Name:     env.Type,
		Payload:  env.Payload,
		Err:      lastErr,
		FailedAt: time.Now(),
		Attempts: attempts,
	})
	logger.Error("queue: job exhausted retries", "type", env.Type, "error", lastErr)
}

// FailedJobs returns the failures seen by this process.
func (m *Manager) FailedJobs() []FailedJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]FailedJob(nil), m.failed...)
}

// sleep waits d or until ctx ends; it reports whether the full wait elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// ─── Default manager ─────────────────────────────────────────────────────────

var defaultManager = New(NewMemoryDriver(1000))

func Default() *Manager { return defaultManager }
func SetDriver(d Driver) { defaultManager.SetDriver(d) }
func Register(name string, factory func() Job) { defaultManager.Register(name, factory) }
func Dispatch(ctx context.Context, job Job) error { return defaultManager.Dispatch(ctx, job) }
func StartWorkers(ctx context.Context, n int) func() { return defaultManager.Start(ctx, n) }
func FailedJobs() []FailedJob { return defaultManager.FailedJobs() }
