package memos

import (
	"context"
	"database/sql"
	"testing"

	"github.com/dmitrijs2005/sumdays/internal/client/models"
	"github.com/dmitrijs2005/sumdays/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE memos (
  id         INTEGER PRIMARY KEY,
  content    TEXT    NOT NULL DEFAULT '',
  timestamp  TEXT    NOT NULL DEFAULT '',
  date       TEXT    NOT NULL,
  memo_order INTEGER NOT NULL DEFAULT 0,
  type       TEXT    NOT NULL DEFAULT 'text',
  edited     INTEGER NOT NULL DEFAULT 0,
  deleted    INTEGER NOT NULL DEFAULT 0,
  revision   INTEGER NOT NULL DEFAULT 0
);`)
	require.NoError(t, err)
	return db
}

func flags(t *testing.T, db *sql.DB, id int64) (edited, deleted bool, revision int64) {
	t.Helper()
	require.NoError(t, db.QueryRow(`SELECT edited, deleted, revision FROM memos WHERE id = ?`, id).
		Scan(&edited, &deleted, &revision))
	return
}

func TestSave_InsertThenUpdateBumpsRevision(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	m := &models.Memo{ID: 5, Content: "A", Date: "2025-01-01", Type: "text"}
	require.NoError(t, r.Save(ctx, m))
	assert.True(t, m.Edited)
	assert.EqualValues(t, 1, m.Revision)

	m.Content = "B"
	require.NoError(t, r.Save(ctx, m))
	assert.EqualValues(t, 2, m.Revision)

	got, err := r.Get(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Content)
	assert.True(t, got.Edited)
	assert.False(t, got.Deleted)
	assert.EqualValues(t, 2, got.Revision)
}

func TestCreate_NeverReusesAnID(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	maxID, err := r.MaxID(ctx)
	require.NoError(t, err)
	assert.Zero(t, maxID)

	m := &models.Memo{ID: 9, Content: "first", Date: "2025-01-01", Type: "text"}
	require.NoError(t, r.Create(ctx, m))
	assert.True(t, m.Edited)
	assert.EqualValues(t, 1, m.Revision)

	err = r.Create(ctx, &models.Memo{ID: 9, Content: "second", Date: "2025-01-02", Type: "text"})
	require.ErrorIs(t, err, common.ErrorConflict)

	require.NoError(t, r.MarkDeleted(ctx, 9))
	err = r.Create(ctx, &models.Memo{ID: 9, Content: "revived", Date: "2025-01-02", Type: "text"})
	require.ErrorIs(t, err, common.ErrorConflict)

	edited, deleted, revision := flags(t, db, 9)
	assert.True(t, edited)
	assert.True(t, deleted)
	assert.EqualValues(t, 2, revision)

	maxID, err = r.MaxID(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 9, maxID)
}

func TestMarkDeleted_TombstoneIsHiddenButSelected(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, &models.Memo{ID: 1, Content: "x", Date: "2025-01-01"}))
	require.NoError(t, r.MarkDeleted(ctx, 1))

	_, err := r.Get(ctx, 1)
	require.ErrorIs(t, err, common.ErrorNotFound)

	edited, err := r.SelectEdited(ctx)
	require.NoError(t, err)
	assert.Empty(t, edited, "a tombstone must not be reported as edited")

	deleted, err := r.SelectDeleted(ctx)
	require.NoError(t, err)
	require.Len(t, deleted, 1)
	assert.EqualValues(t, 1, deleted[0].ID)
	assert.EqualValues(t, 2, deleted[0].Revision)

	require.ErrorIs(t, r.MarkDeleted(ctx, 1), common.ErrorNotFound)
	require.ErrorIs(t, r.MarkDeleted(ctx, 404), common.ErrorNotFound)
}

func TestClearEdited_OnlyForMatchingRevision(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	m := &models.Memo{ID: 9, Content: "first", Date: "2025-01-01"}
	require.NoError(t, r.Save(ctx, m))
	snapshot := m.Revision

	// edited again while the upload is in flight
	m.Content = "second"
	require.NoError(t, r.Save(ctx, m))

	ok, err := r.ClearEdited(ctx, 9, snapshot)
	require.NoError(t, err)
	assert.False(t, ok)
	edited, _, _ := flags(t, db, 9)
	assert.True(t, edited, "newer local edit must survive the acknowledgement of the older one")

	ok, err = r.ClearEdited(ctx, 9, m.Revision)
	require.NoError(t, err)
	assert.True(t, ok)
	edited, _, _ = flags(t, db, 9)
	assert.False(t, edited)
}

func TestPurge_OnlyTombstoneAtRevision(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	m := &models.Memo{ID: 3, Content: "x", Date: "2025-01-01"}
	require.NoError(t, r.Save(ctx, m))
	require.NoError(t, r.MarkDeleted(ctx, 3))

	tomb, err := r.SelectDeleted(ctx)
	require.NoError(t, err)
	require.Len(t, tomb, 1)

	// recreated before the deletion was acknowledged
	require.NoError(t, r.Save(ctx, &models.Memo{ID: 3, Content: "back", Date: "2025-01-01"}))

	ok, err := r.Purge(ctx, 3, tomb[0].Revision)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := r.Get(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "back", got.Content)
	assert.True(t, got.Edited)

	require.NoError(t, r.MarkDeleted(ctx, 3))
	tomb, err = r.SelectDeleted(ctx)
	require.NoError(t, err)
	ok, err = r.Purge(ctx, 3, tomb[0].Revision)
	require.NoError(t, err)
	assert.True(t, ok)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM memos`).Scan(&n))
	assert.Zero(t, n)
}

func TestListByDate_OrdersAndHidesTombstones(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, &models.Memo{ID: 1, Content: "b", Date: "2025-01-01", Order: 2}))
	require.NoError(t, r.Save(ctx, &models.Memo{ID: 2, Content: "a", Date: "2025-01-01", Order: 1}))
	require.NoError(t, r.Save(ctx, &models.Memo{ID: 3, Content: "gone", Date: "2025-01-01", Order: 0}))
	require.NoError(t, r.Save(ctx, &models.Memo{ID: 4, Content: "other day", Date: "2025-01-02"}))
	require.NoError(t, r.MarkDeleted(ctx, 3))

	list, err := r.ListByDate(ctx, "2025-01-01")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Content)
	assert.Equal(t, "b", list[1].Content)
}

func TestDeleteAllAndInsertClean(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, &models.Memo{ID: 1, Content: "local", Date: "2025-01-01"}))
	require.NoError(t, r.DeleteAll(ctx))

	m := &models.Memo{ID: 2, Content: "remote", Date: "2025-01-03", Dirty: models.Dirty{Edited: true, Revision: 8}}
	require.NoError(t, r.InsertClean(ctx, m))

	edited, deleted, revision := flags(t, db, 2)
	assert.False(t, edited)
	assert.False(t, deleted)
	assert.Zero(t, revision)

	pending, err := r.SelectEdited(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = r.Get(ctx, 1)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestErrorsAreWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	err := r.Save(ctx, &models.Memo{ID: 1, Date: "2025-01-01"})
	require.ErrorContains(t, err, "failed to upsert memo")

	_, err = r.SelectEdited(ctx)
	require.ErrorContains(t, err, "failed to select memos")

	_, err = r.ClearEdited(ctx, 1, 1)
	require.ErrorContains(t, err, "failed to clear memo flag")
}
