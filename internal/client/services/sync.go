package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sumdays/internal/client/collector"
	"github.com/dmitrijs2005/sumdays/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/sumdays/internal/client/store"
	"github.com/dmitrijs2005/sumdays/internal/client/worker"
)

// Status summarises the sync state for the user.
type Status struct {
	LoggedIn    bool
	Pending     collector.Stats
	LastSync    time.Time
	LastResync  time.Time
	LastBackup  *worker.Report
	BackupQueue bool
	// ResyncPending is true until the initial sync of the session succeeds.
	ResyncPending bool
}

// SyncService drives the background workers.
//
// Uploads are gated on the initial sync: RequireResync marks it as pending
// and periodic backups are only scheduled once it has succeeded.
type SyncService interface {
	RequireResync(ctx context.Context) error
	QueueInitialSync()
	Resume(ctx context.Context) error
	StopAll()
	SyncNow(ctx context.Context) (worker.Result, error)
	Resync(ctx context.Context) (worker.Result, error)
	Status(ctx context.Context) (*Status, error)
}

// Runner executes one job attempt.
type Runner interface {
	Run(ctx context.Context) (worker.Result, error)
}

type syncService struct {
	scheduler *worker.Scheduler
	sessions  worker.Sessions
	store     *store.Store
	backup    Runner
	initial   Runner
	interval  time.Duration
	online    worker.Constraint
}

func NewSyncService(scheduler *worker.Scheduler, sessions worker.Sessions, s *store.Store,
	backup, initial Runner, interval time.Duration, online worker.Constraint) SyncService {
	return &syncService{
		scheduler: scheduler,
		sessions:  sessions,
		store:     s,
		backup:    backup,
		initial:   initial,
		interval:  interval,
		online:    online,
	}
}

// RequireResync stops the work of the current session and blocks uploads
// until an initial sync succeeds.
func (s *syncService) RequireResync(ctx context.Context) error {
	s.StopAll()
	return worker.RequireResync(ctx, s.store.Repositories().Metadata)
}

// Resume picks up a restored session: an unfinished initial sync is queued
// again, otherwise the periodic backup is scheduled.
func (s *syncService) Resume(ctx context.Context) error {
	pending, err := worker.ResyncPending(ctx, s.store.Repositories().Metadata)
	if err != nil {
		return fmt.Errorf("resume: %w", err)
	}
	if pending {
		s.QueueInitialSync()
		return nil
	}
	s.startBackups()
	return nil
}

// startBackups schedules the periodic upload; an existing schedule is kept.
func (s *syncService) startBackups() {
	s.scheduler.EnqueueUniquePeriodic(worker.BackupName, s.interval, s.backup.Run, s.online)
}

// QueueInitialSync runs the initial sync in the background and schedules the
// periodic backup after it succeeds.
func (s *syncService) QueueInitialSync() {
	s.scheduler.EnqueueOnce(worker.InitialSyncName, s.runInitialSync, nil)
}

func (s *syncService) runInitialSync(ctx context.Context) (worker.Result, error) {
	res, err := s.initial.Run(ctx)
	if res == worker.Success && ctx.Err() == nil {
		s.startBackups()
	}
	return res, err
}

func (s *syncService) StopAll() {
	s.scheduler.Cancel(worker.InitialSyncName)
	s.scheduler.Cancel(worker.BackupName)
}

// SyncNow runs one backup attempt right away.
func (s *syncService) SyncNow(ctx context.Context) (worker.Result, error) {
	return s.scheduler.RunNow(ctx, worker.BackupName, s.backup.Run)
}

// Resync replaces the local store with the server copy right away.
func (s *syncService) Resync(ctx context.Context) (worker.Result, error) {
	return s.scheduler.RunNow(ctx, worker.InitialSyncName, s.runInitialSync)
}

func (s *syncService) Status(ctx context.Context) (*Status, error) {
	st := &Status{BackupQueue: s.scheduler.Scheduled(worker.BackupName)}
	_, st.LoggedIn = s.sessions.Current()

	delta, err := collector.New(s.store).Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	st.Pending = delta.Stats()

	r := s.store.Repositories().Metadata
	if st.LastSync, err = r.GetTime(ctx, metadata.KeyLastSync); err != nil {
		return nil, err
	}
	if st.LastResync, err = r.GetTime(ctx, metadata.KeyLastResync); err != nil {
		return nil, err
	}
	if st.ResyncPending, err = worker.ResyncPending(ctx, r); err != nil {
		return nil, err
	}
	if rep, ok := s.scheduler.Last(worker.BackupName); ok {
		st.LastBackup = &rep
	}
	return st, nil
}
