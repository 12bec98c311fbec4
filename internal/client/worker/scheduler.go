package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/sumdays/internal/logging"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/singleflight"
)

// Constraint gates a run; a false answer skips it.
type Constraint func(ctx context.Context) bool

// Backoff bounds the retry delays after a Retry result.
type Backoff struct {
	Base       time.Duration
	Max        time.Duration
	MaxRetries uint64
}

// DefaultBackoff starts at 30s and doubles up to 30 minutes.
var DefaultBackoff = Backoff{Base: 30 * time.Second, Max: 30 * time.Minute, MaxRetries: 5}

// Report is the outcome of the latest attempt chain of a job.
type Report struct {
	Result Result
	Err    error
	At     time.Time
}

type task struct {
	cancel context.CancelFunc
}

// Scheduler runs named jobs in the background.
//
// Work is unique per name: enqueueing a name that is already scheduled keeps
// the existing schedule, and concurrent runs of one name are coalesced into
// a single execution. Jobs of different names never overlap.
type Scheduler struct {
	log     logging.Logger
	backoff Backoff

	group singleflight.Group
	exec  sync.Mutex

	mu      sync.Mutex
	tasks   map[string]*task
	reports map[string]Report

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler(log logging.Logger, backoff Backoff) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		log:     log.With("module", "scheduler"),
		backoff: backoff,
		tasks:   make(map[string]*task),
		reports: make(map[string]Report),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// EnqueueUniquePeriodic runs job now and then every interval until cancelled.
// It returns false, leaving the existing schedule untouched, when name is
// already scheduled.
func (s *Scheduler) EnqueueUniquePeriodic(name string, interval time.Duration, job Job, constraint Constraint) bool {
	ctx, t, ok := s.register(name)
	if !ok {
		s.log.Debug(ctx, "already scheduled, keeping existing", "job", name)
		return false
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.unregister(name, t)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			s.attempt(ctx, name, job, constraint)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return true
}

// EnqueueOnce runs job in the background until it succeeds, fails or runs
// out of retries. It returns false when name is already queued.
func (s *Scheduler) EnqueueOnce(name string, job Job, constraint Constraint) bool {
	ctx, t, ok := s.register(name)
	if !ok {
		return false
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.unregister(name, t)
		s.attempt(ctx, name, job, constraint)
	}()
	return true
}

// RunNow executes a single attempt of job in the caller's goroutine, joining
// a run of the same name already in flight.
func (s *Scheduler) RunNow(ctx context.Context, name string, job Job) (Result, error) {
	res, err := s.do(logging.ContextWith(ctx, "job", name), name, job)
	s.record(name, res, err)
	return res, err
}

// Cancel stops the schedule of name. A run in flight sees its context cancelled.
func (s *Scheduler) Cancel(name string) {
	s.mu.Lock()
	t, ok := s.tasks[name]
	delete(s.tasks, name)
	s.mu.Unlock()
	if ok {
		t.cancel()
	}
}

// Stop cancels everything and waits for running jobs to return.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

// Scheduled reports whether name has a live schedule.
func (s *Scheduler) Scheduled(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[name]
	return ok
}

// Last returns the latest report of name.
func (s *Scheduler) Last(name string) (Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[name]
	return r, ok
}

func (s *Scheduler) register(name string) (context.Context, *task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[name]; ok || s.ctx.Err() != nil {
		return s.ctx, nil, false
	}
	ctx, cancel := context.WithCancel(s.ctx)
	t := &task{cancel: cancel}
	s.tasks[name] = t
	return logging.ContextWith(ctx, "job", name), t, true
}

// unregister drops t unless name was re-registered in the meantime.
func (s *Scheduler) unregister(name string, t *task) {
	t.cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tasks[name] == t {
		delete(s.tasks, name)
	}
}

func (s *Scheduler) record(name string, res Result, err error) {
	s.mu.Lock()
	s.reports[name] = Report{Result: res, Err: err, At: time.Now()}
	s.mu.Unlock()
}

var errRetryRequested = errors.New("retry requested")

// attempt runs job, retrying with capped exponential backoff while it asks
// for a retry.
func (s *Scheduler) attempt(ctx context.Context, name string, job Job, constraint Constraint) {
	b := retry.NewExponential(s.backoff.Base)
	b = retry.WithCappedDuration(s.backoff.Max, b)
	b = retry.WithMaxRetries(s.backoff.MaxRetries, b)

	var (
		last    Result
		lastErr error
		skipped bool
	)
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		if constraint != nil && !constraint(ctx) {
			skipped = true
			return nil
		}

		skipped = false
		last, lastErr = s.do(ctx, name, job)
		switch last {
		case Retry:
			if lastErr == nil {
				return retry.RetryableError(errRetryRequested)
			}
			return retry.RetryableError(lastErr)
		case Failure:
			return lastErr
		default:
			return nil
		}
	})

	if ctx.Err() != nil {
		return
	}
	if skipped {
		s.log.Debug(ctx, "constraint not met, skipping")
		return
	}
	s.record(name, last, lastErr)

	if last == Success {
		s.log.Debug(ctx, "job finished")
		return
	}
	s.log.Warn(ctx, "job gave up", "result", last.String(), "error", err)
}

// do runs one execution of job, coalesced per name and serialised across names.
func (s *Scheduler) do(ctx context.Context, name string, job Job) (Result, error) {
	ch := s.group.DoChan(name, func() (any, error) {
		s.exec.Lock()
		defer s.exec.Unlock()
		res, err := job(ctx)
		return res, err
	})

	select {
	case <-ctx.Done():
		return Failure, ctx.Err()
	case r := <-ch:
		res, _ := r.Val.(Result)
		return res, r.Err
	}
}
