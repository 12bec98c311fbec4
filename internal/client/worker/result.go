// Package worker holds the background jobs that keep the local store and the
// server in step, and the scheduler that runs them.
package worker

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/sumdays/internal/client/session"
)

// Result tells the scheduler what to do after a run.
type Result int

const (
	// Success ends the attempt chain.
	Success Result = iota
	// Retry asks the scheduler to try again after a backoff delay.
	Retry
	// Failure ends the attempt chain without retrying.
	Failure
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case Retry:
		return "retry"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

var (
	ErrAuthMissing   = errors.New("no session token")
	ErrSessionEnded  = errors.New("session ended while sync was in flight")
	ErrLocalStorage  = errors.New("local storage failure")
	ErrResyncPending = errors.New("initial sync has not completed for this session")
)

// Job is one unit of background work.
type Job func(ctx context.Context) (Result, error)

// Sessions exposes the current session lease.
type Sessions interface {
	Current() (*session.Lease, bool)
}

// callContext is cancelled when either ctx or the lease is done.
func callContext(ctx context.Context, lease *session.Lease) (context.Context, context.CancelFunc) {
	callCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(lease.Context(), cancel)
	return callCtx, func() {
		stop()
		cancel()
	}
}
