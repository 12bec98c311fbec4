package metadata_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/sumdays/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/sumdays/internal/client/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func newRepo(t *testing.T) *metadata.SQLiteRepository {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, store.RunMigrations(context.Background(), db))
	return metadata.NewSQLiteRepository(db)
}

func TestSessionTokenLifecycle(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	tok, err := r.GetString(ctx, metadata.KeySessionToken)
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, r.SetString(ctx, metadata.KeySessionToken, "first"))
	require.NoError(t, r.SetString(ctx, metadata.KeySessionToken, "second"))

	tok, err = r.GetString(ctx, metadata.KeySessionToken)
	require.NoError(t, err)
	assert.Equal(t, "second", tok)

	raw, err := r.Get(ctx, metadata.KeySessionToken)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), raw)
}

func TestDelete_ManyKeys(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, r.SetString(ctx, metadata.KeySessionToken, "tok"))
	require.NoError(t, r.SetTime(ctx, metadata.KeyLastSync, now))
	require.NoError(t, r.SetTime(ctx, metadata.KeyLastResync, now))

	require.NoError(t, r.Delete(ctx, metadata.KeyLastSync, metadata.KeyLastResync, "never-set"))
	require.NoError(t, r.Delete(ctx))

	last, err := r.GetTime(ctx, metadata.KeyLastSync)
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	tok, err := r.GetString(ctx, metadata.KeySessionToken)
	require.NoError(t, err)
	assert.Equal(t, "tok", tok)
}

func TestTime_RoundTripKeepsInstant(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	got, err := r.GetTime(ctx, metadata.KeyLastSync)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	at := time.Date(2025, 1, 2, 3, 4, 5, 6, time.FixedZone("KST", 9*3600))
	require.NoError(t, r.SetTime(ctx, metadata.KeyLastSync, at))

	got, err = r.GetTime(ctx, metadata.KeyLastSync)
	require.NoError(t, err)
	assert.True(t, at.Equal(got))
	assert.Equal(t, time.UTC, got.Location())
}

func TestGetTime_Malformed(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SetString(ctx, metadata.KeyLastResync, "yesterday"))
	_, err := r.GetTime(ctx, metadata.KeyLastResync)
	assert.ErrorContains(t, err, `setting "last_resync_at" is not a timestamp`)
}

func TestErrorsAreWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	r := metadata.NewSQLiteRepository(db)
	ctx := context.Background()
	boom := errors.New("disk I/O error")

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT value FROM metadata WHERE key = ?`)).
		WithArgs("k").WillReturnError(boom)
	_, err = r.Get(ctx, "k")
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, `read setting "k"`)

	mock.ExpectExec(`INSERT INTO metadata`).
		WithArgs("k", []byte{}).WillReturnError(boom)
	assert.ErrorIs(t, r.Set(ctx, "k", nil), boom)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM metadata WHERE key IN (?,?)`)).
		WithArgs("a", "b").WillReturnError(boom)
	err = r.Delete(ctx, "a", "b")
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "delete settings [a b]")

	require.NoError(t, mock.ExpectationsWereMet())
}
