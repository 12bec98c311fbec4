// Package session tracks the credential of the signed-in user.
//
// A Lease is handed to background work at start. Its context is cancelled
// when the session ends, so work that outlives the session can notice and
// discard its result.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/sumdays/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/sumdays/internal/client/store"
	"github.com/dmitrijs2005/sumdays/internal/logging"
)

var ErrEmptyToken = errors.New("empty session token")

// Lease is one session.
type Lease struct {
	Token string
	ctx   context.Context
}

// Context is cancelled when the session ends.
func (l *Lease) Context() context.Context {
	return l.ctx
}

func (l *Lease) Ended() bool {
	return l.ctx.Err() != nil
}

type Manager struct {
	mu     sync.Mutex
	store  *store.Store
	log    logging.Logger
	cur    *Lease
	cancel context.CancelFunc
}

func NewManager(s *store.Store, log logging.Logger) *Manager {
	return &Manager{store: s, log: log.With("module", "session")}
}

// Begin persists token and starts a new lease, ending the previous one.
func (m *Manager) Begin(ctx context.Context, token string) (*Lease, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrEmptyToken
	}

	if err := m.store.Repositories().Metadata.SetString(ctx, metadata.KeySessionToken, token); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.endLocked()
	lease := m.startLocked(token)
	m.log.Info(ctx, "session started")
	return lease, nil
}

// Restore resumes a session persisted by an earlier run.
func (m *Manager) Restore(ctx context.Context) (*Lease, bool, error) {
	v, err := m.store.Repositories().Metadata.GetString(ctx, metadata.KeySessionToken)
	if err != nil {
		return nil, false, fmt.Errorf("load session: %w", err)
	}
	token := strings.TrimSpace(v)
	if token == "" {
		return nil, false, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.endLocked()
	return m.startLocked(token), true, nil
}

// End cancels the current lease and forgets the token.
func (m *Manager) End(ctx context.Context) error {
	m.mu.Lock()
	m.endLocked()
	m.mu.Unlock()

	if err := m.store.Repositories().Metadata.Delete(ctx, metadata.KeySessionToken); err != nil {
		return fmt.Errorf("forget session: %w", err)
	}
	m.log.Info(ctx, "session ended")
	return nil
}

// Current returns the active lease, if any.
func (m *Manager) Current() (*Lease, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cur == nil {
		return nil, false
	}
	return m.cur, true
}

func (m *Manager) startLocked(token string) *Lease {
	ctx, cancel := context.WithCancel(context.Background())
	m.cur = &Lease{Token: token, ctx: ctx}
	m.cancel = cancel
	return m.cur
}

func (m *Manager) endLocked() {
	if m.cancel != nil {
		m.cancel()
	}
	m.cur, m.cancel = nil, nil
}
