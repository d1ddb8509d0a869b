// Package refresh runs the shell's background refresh jobs on cron schedules.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var ErrUnknownJob = errors.New("unknown refresh job")

// Func is one refresh pass
type Func func(ctx context.Context) error

// Status reports the outcome of a job's last run
type Status struct {
	Name        string    `json:"name"`
	Schedule    string    `json:"schedule"`
	InProgress  bool      `json:"inProgress"`
	LastRun     time.Time `json:"lastRun"`
	LastSuccess bool      `json:"lastSuccess"`
	Runs        int64     `json:"runs"`
	Error       string    `json:"error,omitempty"`
}

type job struct {
	fn     Func
	status Status
}

// Manager schedules refresh jobs. Overlapping runs of the same job are skipped.
type Manager struct {
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration

	mu     sync.RWMutex
	jobs   map[string]*job
	ctx    context.Context
	cancel context.CancelFunc
}

// NewManager creates a manager. timeout bounds a single run; zero means no bound.
func NewManager(logger *slog.Logger, timeout time.Duration) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "refresh")
	cl := cronLogger{logger}
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger:  logger,
		timeout: timeout,
		jobs:    make(map[string]*job),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Register schedules fn under name. An empty schedule registers the job for
// RunNow only.
func (m *Manager) Register(name, schedule string, fn Func) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[name]; ok {
		return fmt.Errorf("refresh job %s already registered", name)
	}
	j := &job{fn: fn, status: Status{Name: name, Schedule: schedule}}
	if schedule != "" {
		if _, err := m.cron.AddFunc(schedule, func() { _ = m.run(m.ctx, name, j) }); err != nil {
			return fmt.Errorf("invalid schedule %q for %s: %w", schedule, name, err)
		}
	}
	m.jobs[name] = j
	m.logger.Info("Refresh job registered", "job", name, "schedule", schedule)
	return nil
}

// Start begins running scheduled jobs in the background
func (m *Manager) Start() {
	m.logger.Info("Starting refresh manager")
	m.cron.Start()
}

// Stop halts the scheduler and waits for running jobs to return
func (m *Manager) Stop() {
	m.logger.Info("Stopping refresh manager")
	m.cancel()
	<-m.cron.Stop().Done()
}

// RunNow runs a registered job immediately on the caller's goroutine
func (m *Manager) RunNow(ctx context.Context, name string) error {
	m.mu.RLock()
	j, ok := m.jobs[name]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return m.run(ctx, name, j)
}

// Statuses returns a copy of every job's status
func (m *Manager) Statuses() []Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Status, 0, len(m.jobs))
	for _, j := range m.jobs {
		out = append(out, j.status)
	}
	return out
}

func (m *Manager) run(ctx context.Context, name string, j *job) error {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	m.update(j, func(s *Status) { s.InProgress = true })
	start := time.Now()
	err := j.fn(ctx)

	m.update(j, func(s *Status) {
		s.InProgress = false
		s.LastRun = start
		s.LastSuccess = err == nil
		s.Runs++
		s.Error = ""
		if err != nil {
			s.Error = err.Error()
		}
	})
	if err != nil {
		m.logger.Warn("Refresh job failed", "job", name, "error", err)
		return err
	}
	m.logger.Debug("Refresh job completed", "job", name, "duration", time.Since(start))
	return nil
}

func (m *Manager) update(j *job, fn func(*Status)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(&j.status)
}

// cronLogger adapts slog to cron.Logger
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error(msg, append(keysAndValues, "error", err)...)
}
