package worker

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/sumdays/internal/client/client"
	"github.com/dmitrijs2005/sumdays/internal/client/models"
	"github.com/dmitrijs2005/sumdays/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/sumdays/internal/client/session"
	"github.com/dmitrijs2005/sumdays/internal/client/store"
	"github.com/dmitrijs2005/sumdays/internal/common"
	"github.com/dmitrijs2005/sumdays/internal/logging"
	"github.com/dmitrijs2005/sumdays/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeServer struct {
	mu       sync.Mutex
	calls    int
	requests []*wire.SyncRequest
	tokens   []string
	syncErr  error
	fetch    *wire.FetchResponse
	fetchErr error
	// runs while the request is "in flight"
	during func()
}

func (f *fakeServer) Sync(ctx context.Context, token string, req *wire.SyncRequest) error {
	f.mu.Lock()
	f.calls++
	f.requests = append(f.requests, req)
	f.tokens = append(f.tokens, token)
	during, err := f.during, f.syncErr
	f.mu.Unlock()
	if during != nil {
		during()
	}
	return err
}

func (f *fakeServer) Fetch(ctx context.Context, token string) (*wire.FetchResponse, error) {
	f.mu.Lock()
	f.calls++
	during, data, err := f.during, f.fetch, f.fetchErr
	f.mu.Unlock()
	if during != nil {
		during()
	}
	return data, err
}

type fixture struct {
	store    *store.Store
	sessions *session.Manager
	server   *fakeServer
}

func newFixture(t *testing.T, login bool) *fixture {
	t.Helper()
	s, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "w.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	f := &fixture{store: s, sessions: session.NewManager(s, logging.Nop{}), server: &fakeServer{}}
	if login {
		_, err := f.sessions.Begin(context.Background(), "tok")
		require.NoError(t, err)
	}
	return f
}

func (f *fixture) backup() *BackupWorker {
	return NewBackupWorker(f.sessions, f.store, f.server, logging.Nop{})
}

func (f *fixture) initial() *InitialSyncWorker {
	return NewInitialSyncWorker(f.sessions, f.store, f.server, logging.Nop{})
}

func TestBackup_AuthMissing(t *testing.T) {
	f := newFixture(t, false)
	ctx := context.Background()
	require.NoError(t, f.store.Repositories().Memos.Save(ctx, &models.Memo{ID: 1, Date: "2025-01-01"}))

	res, err := f.backup().Run(ctx)
	assert.Equal(t, Failure, res)
	require.ErrorIs(t, err, ErrAuthMissing)
	assert.Zero(t, f.server.calls)

	m, err := f.store.Repositories().Memos.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, m.Edited)
}

func TestBackup_RefusedWhileResyncPending(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	r := f.store.Repositories()
	require.NoError(t, r.Memos.Save(ctx, &models.Memo{ID: 1, Content: "left by another account", Date: "2025-01-01"}))
	require.NoError(t, RequireResync(ctx, r.Metadata))

	res, err := f.backup().Run(ctx)
	assert.Equal(t, Failure, res)
	require.ErrorIs(t, err, ErrResyncPending)
	assert.Zero(t, f.server.calls)

	f.server.fetch = wire.EmptyFetchResponse()
	res, err = f.initial().Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Success, res)

	pending, err := ResyncPending(ctx, r.Metadata)
	require.NoError(t, err)
	assert.False(t, pending)

	res, err = f.backup().Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Success, res)
	assert.Equal(t, 1, f.server.calls, "only the fetch reached the server")
}

func TestBackup_EmptyDeltaMakesNoNetworkCall(t *testing.T) {
	f := newFixture(t, true)

	res, err := f.backup().Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Success, res)
	assert.Zero(t, f.server.calls)
}

func TestBackup_ExampleScenario(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	r := f.store.Repositories()

	require.NoError(t, r.Memos.Save(ctx, &models.Memo{ID: 5, Content: "A", Date: "2025-01-01"}))
	require.NoError(t, r.DailyEntries.Save(ctx, &models.DailyEntry{Date: "2025-01-01"}))
	require.NoError(t, r.DailyEntries.MarkDeleted(ctx, "2025-01-01"))

	w := f.backup()
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	w.now = func() time.Time { return at }

	res, err := w.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Success, res)

	require.Len(t, f.server.requests, 1)
	req := f.server.requests[0]
	assert.Equal(t, "tok", f.server.tokens[0])
	assert.Equal(t, []string{"2025-01-01"}, req.Deleted.DailyEntry)
	require.Len(t, req.Edited.Memo, 1)
	assert.EqualValues(t, 5, req.Edited.Memo[0].ID)

	m, err := r.Memos.Get(ctx, 5)
	require.NoError(t, err)
	assert.False(t, m.Edited)

	tomb, err := r.DailyEntries.SelectDeleted(ctx)
	require.NoError(t, err)
	assert.Empty(t, tomb)

	last, err := r.Metadata.GetTime(ctx, metadata.KeyLastSync)
	require.NoError(t, err)
	assert.True(t, at.Equal(last))
}

func TestBackup_FailureLeavesFlagsUntouched(t *testing.T) {
	for _, serverErr := range []error{client.ErrUnavailable, client.ErrRejected, client.ErrUnauthorized} {
		t.Run(serverErr.Error(), func(t *testing.T) {
			f := newFixture(t, true)
			ctx := context.Background()
			r := f.store.Repositories()
			f.server.syncErr = serverErr

			require.NoError(t, r.Memos.Save(ctx, &models.Memo{ID: 1, Date: "2025-01-01"}))
			require.NoError(t, r.Styles.Save(ctx, &models.UserStyle{StyleID: 2}))
			require.NoError(t, r.Styles.MarkDeleted(ctx, 2))

			res, err := f.backup().Run(ctx)
			assert.Equal(t, Retry, res)
			require.ErrorIs(t, err, serverErr)

			edited, err := r.Memos.SelectEdited(ctx)
			require.NoError(t, err)
			assert.Len(t, edited, 1)
			tomb, err := r.Styles.SelectDeleted(ctx)
			require.NoError(t, err)
			assert.Len(t, tomb, 1)
		})
	}
}

func TestBackup_FlagPrecision(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	r := f.store.Repositories()

	memo := &models.Memo{ID: 1, Content: "v1", Date: "2025-01-01"}
	require.NoError(t, r.Memos.Save(ctx, memo))

	f.server.during = func() {
		memo.Content = "v2"
		require.NoError(t, r.Memos.Save(ctx, memo))
	}

	res, err := f.backup().Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Success, res)

	got, err := r.Memos.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, got.Edited, "row edited during upload must stay dirty")
	assert.Equal(t, "v2", got.Content)
}

func TestBackup_SessionEndedInFlightDiscardsResult(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	r := f.store.Repositories()

	require.NoError(t, r.Memos.Save(ctx, &models.Memo{ID: 1, Date: "2025-01-01"}))
	f.server.during = func() {
		require.NoError(t, f.sessions.End(ctx))
	}

	res, err := f.backup().Run(ctx)
	assert.Equal(t, Failure, res)
	require.ErrorIs(t, err, ErrSessionEnded)

	m, err := r.Memos.Get(ctx, 1)
	require.NoError(t, err)
	assert.True(t, m.Edited)
}

func TestBackup_RepeatedUploadIsHarmless(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	require.NoError(t, f.store.Repositories().Memos.Save(ctx, &models.Memo{ID: 1, Date: "2025-01-01"}))

	res, err := f.backup().Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Success, res)

	res, err = f.backup().Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Success, res)
	assert.Equal(t, 1, f.server.calls)
}

func strp(s string) *string { return &s }

func TestInitialSync_ReplacesLocalStore(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	r := f.store.Repositories()

	require.NoError(t, r.Memos.Save(ctx, &models.Memo{ID: 99, Date: "2024-12-31"}))
	require.NoError(t, r.DailyEntries.Save(ctx, &models.DailyEntry{Date: "2024-12-31"}))

	f.server.fetch = &wire.FetchResponse{
		Memo:       []wire.Memo{{ID: 1, Content: "remote", Date: "2025-01-01"}},
		DailyEntry: []wire.DailyEntry{{Date: "2025-01-01", Diary: strp("d")}},
		UserStyle:  []wire.UserStyle{{StyleID: 3, StyleName: "s"}},
		WeekSummary: []wire.WeekSummary{{
			StartDate:       "2025-01-06",
			EmotionAnalysis: []byte(`not json`),
		}},
	}

	res, err := f.initial().Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, Success, res)

	_, err = r.Memos.Get(ctx, 99)
	require.ErrorIs(t, err, common.ErrorNotFound)
	_, err = r.DailyEntries.Get(ctx, "2024-12-31")
	require.ErrorIs(t, err, common.ErrorNotFound)

	m, err := r.Memos.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "remote", m.Content)
	assert.False(t, m.Edited)

	ws, err := r.WeekSummaries.Get(ctx, "2025-01-06")
	require.NoError(t, err)
	assert.Equal(t, wire.DefaultEmotionAnalysis(), ws.EmotionAnalysis)

	edited, err := r.Styles.SelectEdited(ctx)
	require.NoError(t, err)
	assert.Empty(t, edited)

	last, err := r.Metadata.GetTime(ctx, metadata.KeyLastResync)
	require.NoError(t, err)
	assert.False(t, last.IsZero())
}

func TestInitialSync_FetchFailureKeepsLocalData(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	r := f.store.Repositories()
	require.NoError(t, r.Memos.Save(ctx, &models.Memo{ID: 1, Date: "2025-01-01"}))
	require.NoError(t, RequireResync(ctx, r.Metadata))

	f.server.fetchErr = client.ErrUnavailable
	res, err := f.initial().Run(ctx)
	assert.Equal(t, Retry, res)
	require.ErrorIs(t, err, client.ErrUnavailable)

	_, err = r.Memos.Get(ctx, 1)
	require.NoError(t, err)
	pending, err := ResyncPending(ctx, r.Metadata)
	require.NoError(t, err)
	assert.True(t, pending)
}

func TestInitialSync_AuthMissing(t *testing.T) {
	f := newFixture(t, false)
	res, err := f.initial().Run(context.Background())
	assert.Equal(t, Failure, res)
	require.ErrorIs(t, err, ErrAuthMissing)
	assert.Zero(t, f.server.calls)
}

func TestInitialSync_LocalWriteFailureIsAtomic(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	r := f.store.Repositories()
	require.NoError(t, r.Memos.Save(ctx, &models.Memo{ID: 1, Content: "old", Date: "2025-01-01"}))

	// breaks the last insert of the replacement
	_, err := f.store.DB().Exec(`CREATE TRIGGER no_styles BEFORE INSERT ON user_styles
		BEGIN SELECT RAISE(ABORT, 'boom'); END`)
	require.NoError(t, err)

	f.server.fetch = &wire.FetchResponse{
		Memo:      []wire.Memo{{ID: 2, Content: "new", Date: "2025-01-02"}},
		UserStyle: []wire.UserStyle{{StyleID: 1}},
	}

	res, err := f.initial().Run(ctx)
	assert.Equal(t, Failure, res)
	require.ErrorIs(t, err, ErrLocalStorage)

	m, err := r.Memos.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "old", m.Content)
	_, err = r.Memos.Get(ctx, 2)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestInitialSync_SessionEndedInFlight(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()
	f.server.fetch = &wire.FetchResponse{Memo: []wire.Memo{{ID: 1, Date: "2025-01-01"}}}
	f.server.during = func() { require.NoError(t, f.sessions.End(ctx)) }

	res, err := f.initial().Run(ctx)
	assert.Equal(t, Failure, res)
	require.True(t, errors.Is(err, ErrSessionEnded))

	_, err = f.store.Repositories().Memos.Get(ctx, 1)
	require.ErrorIs(t, err, common.ErrorNotFound)
}
