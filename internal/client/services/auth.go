package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/sumdays/internal/client/session"
	"github.com/dmitrijs2005/sumdays/internal/logging"
)

// AuthService starts and ends sessions.
//
// Login persists the token and queues the one-shot initial sync; the
// periodic backup starts once that sync has replaced the local store.
// Logout cancels the background work of the session before forgetting the
// token.
type AuthService interface {
	Login(ctx context.Context, token string) error
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (bool, error)
	LoggedIn() bool
}

type authService struct {
	sessions *session.Manager
	sync     SyncService
	log      logging.Logger
}

func NewAuthService(sessions *session.Manager, sync SyncService, log logging.Logger) AuthService {
	return &authService{sessions: sessions, sync: sync, log: log.With("module", "auth")}
}

func (a *authService) Login(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("login: %w", session.ErrEmptyToken)
	}
	// rows left by an earlier account must not reach the new one
	if err := a.sync.RequireResync(ctx); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if _, err := a.sessions.Begin(ctx, token); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	a.sync.QueueInitialSync()
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.sync.StopAll()
	if err := a.sessions.End(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Restore resumes a persisted session. A new initial sync runs only when the
// one queued at login never completed.
func (a *authService) Restore(ctx context.Context) (bool, error) {
	_, ok, err := a.sessions.Restore(ctx)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	a.log.Info(ctx, "session restored")
	if err := a.sync.Resume(ctx); err != nil {
		return true, err
	}
	return true, nil
}

func (a *authService) LoggedIn() bool {
	_, ok := a.sessions.Current()
	return ok
}
