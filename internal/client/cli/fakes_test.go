package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/sumdays/internal/client/models"
	"github.com/dmitrijs2005/sumdays/internal/client/services"
	"github.com/dmitrijs2005/sumdays/internal/client/worker"
	"github.com/dmitrijs2005/sumdays/internal/logging"
	"github.com/dmitrijs2005/sumdays/internal/wire"
)

type fakeAuth struct {
	loggedIn   bool
	token      string
	loginErr   error
	restoreOK  bool
	restoreErr error
}

func (f *fakeAuth) Login(_ context.Context, token string) error {
	if f.loginErr != nil {
		return f.loginErr
	}
	f.token, f.loggedIn = token, true
	return nil
}
func (f *fakeAuth) Logout(context.Context) error { f.loggedIn = false; return nil }
func (f *fakeAuth) Restore(context.Context) (bool, error) {
	f.loggedIn = f.restoreOK
	return f.restoreOK, f.restoreErr
}
func (f *fakeAuth) LoggedIn() bool { return f.loggedIn }

type fakeJournal struct {
	services.JournalService

	memos   []*models.Memo
	diary   *models.DailyEntry
	update  services.DiaryUpdate
	styles  []*models.UserStyle
	weeks   []*models.WeekSummary
	deleted []string
	err     error
}

func (f *fakeJournal) AddMemo(_ context.Context, date, content, memoType string) (*models.Memo, error) {
	if f.err != nil {
		return nil, f.err
	}
	m := &models.Memo{ID: int64(len(f.memos) + 1), Date: date, Content: content, Type: memoType}
	f.memos = append(f.memos, m)
	return m, nil
}
func (f *fakeJournal) ListMemos(context.Context, string) ([]*models.Memo, error) {
	return f.memos, f.err
}
func (f *fakeJournal) EditMemo(_ context.Context, id int64, content string) (*models.Memo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Memo{ID: id, Content: content}, nil
}
func (f *fakeJournal) DeleteMemo(_ context.Context, id int64) error {
	f.deleted = append(f.deleted, "memo")
	return f.err
}
func (f *fakeJournal) GetDiary(context.Context, string) (*models.DailyEntry, error) {
	return f.diary, f.err
}
func (f *fakeJournal) SaveDiary(_ context.Context, u services.DiaryUpdate) (*models.DailyEntry, error) {
	f.update = u
	return &models.DailyEntry{Date: u.Date, Diary: u.Diary}, f.err
}
func (f *fakeJournal) DeleteDiary(_ context.Context, date string) error {
	f.deleted = append(f.deleted, "diary "+date)
	return f.err
}
func (f *fakeJournal) AddStyle(_ context.Context, name, sample string, prompt wire.StylePrompt, _ []string) (*models.UserStyle, error) {
	st := &models.UserStyle{StyleID: 7, StyleName: name, SampleDiary: sample, StylePrompt: prompt}
	f.styles = append(f.styles, st)
	return st, f.err
}
func (f *fakeJournal) ListStyles(context.Context) ([]*models.UserStyle, error) { return f.styles, f.err }
func (f *fakeJournal) DeleteStyle(context.Context, int64) error {
	f.deleted = append(f.deleted, "style")
	return f.err
}
func (f *fakeJournal) SaveWeek(_ context.Context, w *models.WeekSummary) error {
	w.EndDate = "end"
	f.weeks = append(f.weeks, w)
	return f.err
}
func (f *fakeJournal) ListWeeks(context.Context) ([]*models.WeekSummary, error) { return f.weeks, f.err }
func (f *fakeJournal) DeleteWeek(_ context.Context, start string) error {
	f.deleted = append(f.deleted, "week "+start)
	return f.err
}

type fakePhotos struct {
	attached string
	saved    string
}

func (f *fakePhotos) Attach(_ context.Context, date, path string) (*models.DailyEntry, error) {
	f.attached = date + " " + path
	return &models.DailyEntry{Date: date, PhotoURLs: []string{"photos/abc.jpg"}}, nil
}
func (f *fakePhotos) Link(_ context.Context, key string) (string, error) {
	return "https://storage.example/" + key, nil
}
func (f *fakePhotos) Save(_ context.Context, key, dest string) (string, error) {
	f.saved = key + " " + dest
	return dest + "/abc.jpg", nil
}

type fakeSync struct {
	status  *services.Status
	result  worker.Result
	err     error
	synced  int
	resyncs int
}

func (f *fakeSync) RequireResync(context.Context) error { return nil }
func (f *fakeSync) QueueInitialSync()                   {}
func (f *fakeSync) Resume(context.Context) error        { return nil }
func (f *fakeSync) StopAll()                            {}
func (f *fakeSync) SyncNow(context.Context) (worker.Result, error) {
	f.synced++
	return f.result, f.err
}
func (f *fakeSync) Resync(context.Context) (worker.Result, error) {
	f.resyncs++
	return f.result, f.err
}
func (f *fakeSync) Status(context.Context) (*services.Status, error) { return f.status, f.err }

type testApp struct {
	*App
	auth    *fakeAuth
	journal *fakeJournal
	photos  *fakePhotos
	sync    *fakeSync
	out     *bytes.Buffer
}

func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()
	ta := &testApp{
		auth:    &fakeAuth{loggedIn: true},
		journal: &fakeJournal{},
		photos:  &fakePhotos{},
		sync:    &fakeSync{},
		out:     &bytes.Buffer{},
	}
	ta.App = NewApp(Deps{
		Auth:    ta.auth,
		Journal: ta.journal,
		Photos:  ta.photos,
		Sync:    ta.sync,
		Ping:    func(context.Context) error { return nil },
		Log:     logging.Nop{},
	}, strings.NewReader(input), ta.out)
	return ta
}
