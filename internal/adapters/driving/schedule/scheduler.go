// Package schedule runs background maintenance jobs on cron schedules.
// It is a driving adapter: jobs call core services through driving ports.
package schedule

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/msa123-tech/StudyConnect-AI/internal/logger"
)

// Job is a unit of scheduled work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Scheduler runs jobs on standard five-field cron expressions.
type Scheduler struct {
	cron    *cron.Cron
	entries map[string]cron.EntryID

	mu      sync.Mutex
	ctx     context.Context
	running bool
	stopCh  chan struct{}
}

// NewScheduler creates an idle scheduler.
func NewScheduler() *Scheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return &Scheduler{
		cron:    cron.New(cron.WithParser(parser)),
		entries: make(map[string]cron.EntryID),
		ctx:     context.Background(),
	}
}

// AddJob registers job under spec. A job whose previous run is still in
// progress when its next tick fires is skipped for that tick.
func (s *Scheduler) AddJob(job Job, spec string) error {
	id, err := s.cron.AddFunc(spec, s.wrap(job, spec))
	if err != nil {
		return fmt.Errorf("scheduling %s with %q: %w", job.Name(), spec, err)
	}
	s.mu.Lock()
	s.entries[job.Name()] = id
	s.mu.Unlock()
	logger.Info("schedule: %s scheduled (%s)", job.Name(), spec)
	return nil
}

// Next returns the next activation time of the named job.
func (s *Scheduler) Next(name string) (time.Time, bool) {
	s.mu.Lock()
	id, ok := s.entries[name]
	s.mu.Unlock()
	if !ok {
		return time.Time{}, false
	}
	return s.cron.Entry(id).Next, true
}

// Start begins running jobs. This method blocks until Stop is called or
// ctx is cancelled, then waits for running jobs to finish.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil // Already running
	}
	s.running = true
	s.ctx = ctx
	s.stopCh = make(chan struct{})
	stopCh := s.stopCh
	s.mu.Unlock()

	s.cron.Start()

	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case <-stopCh:
	}

	<-s.cron.Stop().Done()

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	return err
}

// Stop asks a running Start to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || s.stopCh == nil {
		return
	}
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
}

func (s *Scheduler) jobContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

func (s *Scheduler) wrap(job Job, spec string) func() {
	var running atomic.Bool
	return func() {
		log := logger.With("job", job.Name(), "spec", spec)
		if !running.CompareAndSwap(false, true) {
			log.Info("job skipped: still running")
			return
		}
		defer running.Store(false)

		start := time.Now()
		log.Debug("job started")
		err := job.Run(s.jobContext())
		elapsed := time.Since(start)
		if err != nil {
			log.Errorw("job finished", "error", err, "duration", elapsed)
			return
		}
		log.Infow("job finished", "duration", elapsed)
	}
}
