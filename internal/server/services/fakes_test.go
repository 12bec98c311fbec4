package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/sumdays/internal/dbx"
	"github.com/dmitrijs2005/sumdays/internal/server/models"
	"github.com/dmitrijs2005/sumdays/internal/server/repositories/dailyentries"
	"github.com/dmitrijs2005/sumdays/internal/server/repositories/memos"
	"github.com/dmitrijs2005/sumdays/internal/server/repositories/styles"
	"github.com/dmitrijs2005/sumdays/internal/server/repositories/users"
	"github.com/dmitrijs2005/sumdays/internal/server/repositories/weeksummaries"
	"github.com/dmitrijs2005/sumdays/internal/wire"
	"github.com/stretchr/testify/require"
)

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// calls records the order in which repositories were touched.
type calls []string

func (c *calls) add(s string) { *c = append(*c, s) }

type fakeUsers struct {
	log     *calls
	exists  bool
	created bool
	err     error
	got     *models.User
}

func (f *fakeUsers) Touch(_ context.Context, id string) (bool, error) {
	f.log.add("users.touch")
	if f.exists {
		f.got = &models.User{ID: id}
	}
	return f.exists, f.err
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) (bool, error) {
	f.log.add("users.create")
	f.got = u
	return f.created, f.err
}

func (f *fakeUsers) Get(_ context.Context, id string) (*models.User, error) {
	if f.got == nil || f.got.ID != id {
		return nil, sql.ErrNoRows
	}
	return f.got, nil
}

type fakeMemos struct {
	log       *calls
	upserted  []wire.Memo
	deleted   []int64
	list      []wire.Memo
	upsertErr error
	deleteErr error
	listErr   error
}

func (f *fakeMemos) Upsert(_ context.Context, _ string, items []wire.Memo) error {
	f.log.add("memos.upsert")
	f.upserted = items
	return f.upsertErr
}

func (f *fakeMemos) DeleteByKeys(_ context.Context, _ string, ids []int64) (int64, error) {
	f.log.add("memos.delete")
	f.deleted = ids
	return int64(len(ids)), f.deleteErr
}

func (f *fakeMemos) ListByUser(context.Context, string) ([]wire.Memo, error) {
	return f.list, f.listErr
}

type fakeEntries struct {
	log      *calls
	upserted []wire.DailyEntry
	deleted  []string
	list     []wire.DailyEntry
}

func (f *fakeEntries) Upsert(_ context.Context, _ string, items []wire.DailyEntry) error {
	f.log.add("entries.upsert")
	f.upserted = items
	return nil
}

func (f *fakeEntries) DeleteByKeys(_ context.Context, _ string, dates []string) (int64, error) {
	f.log.add("entries.delete")
	f.deleted = dates
	return int64(len(dates)), nil
}

func (f *fakeEntries) ListByUser(context.Context, string) ([]wire.DailyEntry, error) {
	return f.list, nil
}

type fakeStyles struct {
	log      *calls
	upserted []wire.UserStyle
	deleted  []int64
	list     []wire.UserStyle
}

func (f *fakeStyles) Upsert(_ context.Context, _ string, items []wire.UserStyle) error {
	f.log.add("styles.upsert")
	f.upserted = items
	return nil
}

func (f *fakeStyles) DeleteByKeys(_ context.Context, _ string, ids []int64) (int64, error) {
	f.log.add("styles.delete")
	f.deleted = ids
	return int64(len(ids)), nil
}

func (f *fakeStyles) ListByUser(context.Context, string) ([]wire.UserStyle, error) {
	return f.list, nil
}

type fakeWeeks struct {
	log      *calls
	upserted []wire.WeekSummary
	deleted  []string
	list     []wire.WeekSummary
}

func (f *fakeWeeks) Upsert(_ context.Context, _ string, items []wire.WeekSummary) error {
	f.log.add("weeks.upsert")
	f.upserted = items
	return nil
}

func (f *fakeWeeks) DeleteByKeys(_ context.Context, _ string, dates []string) (int64, error) {
	f.log.add("weeks.delete")
	f.deleted = dates
	return int64(len(dates)), nil
}

func (f *fakeWeeks) ListByUser(context.Context, string) ([]wire.WeekSummary, error) {
	return f.list, nil
}

type fakeRM struct {
	calls   calls
	users   *fakeUsers
	memos   *fakeMemos
	entries *fakeEntries
	styles  *fakeStyles
	weeks   *fakeWeeks
}

func newFakeRM() *fakeRM {
	rm := &fakeRM{}
	rm.users = &fakeUsers{log: &rm.calls, created: true}
	rm.memos = &fakeMemos{log: &rm.calls}
	rm.entries = &fakeEntries{log: &rm.calls}
	rm.styles = &fakeStyles{log: &rm.calls}
	rm.weeks = &fakeWeeks{log: &rm.calls}
	return rm
}

func (f *fakeRM) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (f *fakeRM) Users(dbx.DBTX) users.Repository {
	return f.users
}

func (f *fakeRM) Memos(dbx.DBTX) memos.Repository {
	return f.memos
}

func (f *fakeRM) DailyEntries(dbx.DBTX) dailyentries.Repository {
	return f.entries
}

func (f *fakeRM) Styles(dbx.DBTX) styles.Repository {
	return f.styles
}

func (f *fakeRM) WeekSummaries(dbx.DBTX) weeksummaries.Repository {
	return f.weeks
}
