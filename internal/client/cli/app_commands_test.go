package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/dmitrijs2005/sumdays/internal/client/client"
	"github.com/dmitrijs2005/sumdays/internal/client/collector"
	"github.com/dmitrijs2005/sumdays/internal/client/models"
	"github.com/dmitrijs2005/sumdays/internal/client/services"
	"github.com/dmitrijs2005/sumdays/internal/client/session"
	"github.com/dmitrijs2005/sumdays/internal/client/worker"
	"github.com/dmitrijs2005/sumdays/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubSecret(t *testing.T, secret string, err error) {
	t.Helper()
	orig := getSecret
	getSecret = func(*bufio.Reader, string, io.Writer) ([]byte, error) { return []byte(secret), err }
	t.Cleanup(func() { getSecret = orig })
}

func TestLogin(t *testing.T) {
	ta := newTestApp(t, "")
	ta.auth.loggedIn = false
	stubSecret(t, "  tok-123 \n", nil)

	require.NoError(t, ta.Login(context.Background()))
	assert.Equal(t, "tok-123", ta.auth.token)
	assert.True(t, ta.isLoggedIn())
	assert.Contains(t, ta.out.String(), "Logged in")
}

func TestLogin_EmptyToken(t *testing.T) {
	ta := newTestApp(t, "")
	ta.auth.loggedIn = false
	ta.auth.loginErr = fmt.Errorf("login: %w", session.ErrEmptyToken)
	stubSecret(t, "", nil)

	err := ta.Login(context.Background())
	assert.ErrorIs(t, err, session.ErrEmptyToken)
	assert.Contains(t, ta.out.String(), "Token must not be empty")
}

func TestLogin_ReadError(t *testing.T) {
	ta := newTestApp(t, "")
	stubSecret(t, "", errors.New("no tty"))

	assert.Error(t, ta.Login(context.Background()))
}

func TestLogout(t *testing.T) {
	ta := newTestApp(t, "")

	require.NoError(t, ta.Logout(context.Background()))
	assert.False(t, ta.isLoggedIn())
	assert.Contains(t, ta.out.String(), "Logged out")
}

func TestMemoCommands(t *testing.T) {
	ta := newTestApp(t, "")
	ta.now = func() time.Time { return time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	require.NoError(t, ta.Memo(ctx, []string{"add", "today", "coffee", "with", "Ann"}))
	require.Len(t, ta.journal.memos, 1)
	assert.Equal(t, "2025-03-04", ta.journal.memos[0].Date)
	assert.Equal(t, "coffee with Ann", ta.journal.memos[0].Content)
	assert.Equal(t, services.MemoTypeText, ta.journal.memos[0].Type)

	require.NoError(t, ta.Memo(ctx, []string{"list", "2025-03-04"}))
	assert.Contains(t, ta.out.String(), "coffee with Ann")

	require.NoError(t, ta.Memo(ctx, []string{"edit", "1", "tea"}))
	require.NoError(t, ta.Memo(ctx, []string{"delete", "1"}))
	assert.Equal(t, []string{"memo"}, ta.journal.deleted)

	assert.ErrorIs(t, ta.Memo(ctx, []string{"add"}), errUsage)
	assert.ErrorIs(t, ta.Memo(ctx, []string{"delete", "x"}), common.ErrorValidation)
	assert.ErrorIs(t, ta.Memo(ctx, []string{"frobnicate", "1"}), errUsage)
}

func TestMemo_NotFound(t *testing.T) {
	ta := newTestApp(t, "")
	ta.journal.err = common.ErrorNotFound

	err := ta.Memo(context.Background(), []string{"delete", "99"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Contains(t, ta.out.String(), "Not found")
}

func TestDiaryEdit_ReadsBodyAndKeywords(t *testing.T) {
	ta := newTestApp(t, "Quiet day.\nRead a book.\n\nbooks, rain\n")

	require.NoError(t, ta.Diary(context.Background(), []string{"edit", "2025-01-01"}))

	u := ta.journal.update
	assert.Equal(t, "2025-01-01", u.Date)
	require.NotNil(t, u.Diary)
	assert.Equal(t, "Quiet day.\nRead a book.", *u.Diary)
	require.NotNil(t, u.Keywords)
	assert.Equal(t, "books, rain", *u.Keywords)
	assert.Nil(t, u.AIComment)
}

func TestDiaryEdit_EmptyKeywordsKeepsStored(t *testing.T) {
	ta := newTestApp(t, "text\n\n\n")

	require.NoError(t, ta.Diary(context.Background(), []string{"edit", "2025-01-01"}))
	assert.Nil(t, ta.journal.update.Keywords)
}

func TestDiaryShowPhotoLinkDelete(t *testing.T) {
	ta := newTestApp(t, "")
	ctx := context.Background()
	body, icon, score := "Sunny", "😊", 0.75
	ta.journal.diary = &models.DailyEntry{Date: "2025-01-01", Diary: &body, EmotionIcon: &icon, EmotionScore: &score}

	require.NoError(t, ta.Diary(ctx, []string{"show", "2025-01-01"}))
	assert.Contains(t, ta.out.String(), "Sunny")
	assert.Contains(t, ta.out.String(), "0.75")

	require.NoError(t, ta.Diary(ctx, []string{"photo", "2025-01-01", "/tmp/cat.jpg"}))
	assert.Equal(t, "2025-01-01 /tmp/cat.jpg", ta.photos.attached)
	assert.Contains(t, ta.out.String(), "photos/abc.jpg")

	require.NoError(t, ta.Diary(ctx, []string{"link", "photos/abc.jpg"}))
	assert.Contains(t, ta.out.String(), "https://storage.example/photos/abc.jpg")

	require.NoError(t, ta.Diary(ctx, []string{"save", "photos/abc.jpg", "/tmp/pics"}))
	assert.Equal(t, "photos/abc.jpg /tmp/pics", ta.photos.saved)
	assert.Contains(t, ta.out.String(), "Photo saved to /tmp/pics/abc.jpg")
	assert.ErrorIs(t, ta.Diary(ctx, []string{"save", "photos/abc.jpg"}), errUsage)

	require.NoError(t, ta.Diary(ctx, []string{"delete", "2025-01-01"}))
	assert.Equal(t, []string{"diary 2025-01-01"}, ta.journal.deleted)
}

func TestStyleCommands(t *testing.T) {
	ta := newTestApp(t, "Calm\nwarm\nDear diary,\ntoday...\n\n")
	ctx := context.Background()

	require.NoError(t, ta.Style(ctx, []string{"add"}))
	require.Len(t, ta.journal.styles, 1)
	st := ta.journal.styles[0]
	assert.Equal(t, "Calm", st.StyleName)
	assert.Equal(t, "warm", st.StylePrompt.Tone)
	assert.Equal(t, "Dear diary,\ntoday...", st.SampleDiary)

	require.NoError(t, ta.Style(ctx, []string{"list"}))
	assert.Contains(t, ta.out.String(), "Calm")

	require.NoError(t, ta.Style(ctx, []string{"delete", "7"}))
	assert.ErrorIs(t, ta.Style(ctx, []string{"delete"}), errUsage)
}

func TestWeekCommands(t *testing.T) {
	ta := newTestApp(t, "Busy week\n5\nShipped the release.\n\n")
	ctx := context.Background()

	require.NoError(t, ta.Week(ctx, []string{"add", "2025-01-06"}))
	require.Len(t, ta.journal.weeks, 1)
	w := ta.journal.weeks[0]
	assert.Equal(t, "2025-01-06", w.StartDate)
	assert.Equal(t, 5, w.DiaryCount)
	assert.Equal(t, "Busy week", w.Summary.Title)
	assert.Equal(t, "Shipped the release.", w.Summary.Overview)

	require.NoError(t, ta.Week(ctx, []string{"list"}))
	assert.Contains(t, ta.out.String(), "Busy week")

	require.NoError(t, ta.Week(ctx, []string{"delete", "2025-01-06"}))
	assert.Equal(t, []string{"week 2025-01-06"}, ta.journal.deleted)
}

func TestWeekAdd_BadCount(t *testing.T) {
	ta := newTestApp(t, "Title\nmany\n")

	err := ta.Week(context.Background(), []string{"add", "2025-01-06"})
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.Empty(t, ta.journal.weeks)
}

func TestStatus(t *testing.T) {
	ta := newTestApp(t, "")
	ta.sync.status = &services.Status{
		LoggedIn:    true,
		Pending:     collector.Stats{Edited: 2, Deleted: 1},
		LastSync:    time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		BackupQueue: true,
		LastBackup:  &worker.Report{Result: worker.Retry, Err: client.ErrUnavailable, At: time.Now()},
	}

	require.NoError(t, ta.Status(context.Background()))
	out := ta.out.String()
	assert.Contains(t, out, "2 edited, 1 deleted")
	assert.Contains(t, out, "Last resync:   never")
	assert.Contains(t, out, "scheduled")
	assert.Contains(t, out, client.ErrUnavailable.Error())
}

func TestSync_ReportsOutcome(t *testing.T) {
	ta := newTestApp(t, "")
	ctx := context.Background()

	ta.sync.result = worker.Success
	require.NoError(t, ta.Sync(ctx))
	assert.Contains(t, ta.out.String(), "Sync: "+worker.Success.String())

	ta.sync.result, ta.sync.err = worker.Retry, fmt.Errorf("sync: %w", client.ErrUnavailable)
	assert.Error(t, ta.Sync(ctx))
	assert.Contains(t, ta.out.String(), "changes are kept locally")
	assert.Equal(t, 2, ta.sync.synced)
}

func TestSync_WaitingForInitialSync(t *testing.T) {
	ta := newTestApp(t, "")
	ctx := context.Background()

	ta.sync.status = &services.Status{LoggedIn: true, ResyncPending: true, BackupQueue: true}
	require.NoError(t, ta.Status(ctx))
	assert.Contains(t, ta.out.String(), "waiting for initial sync")

	ta.sync.result, ta.sync.err = worker.Failure, worker.ErrResyncPending
	assert.ErrorIs(t, ta.Sync(ctx), worker.ErrResyncPending)
	assert.Contains(t, ta.out.String(), "run resync first")
}

func TestResync_AsksForConfirmation(t *testing.T) {
	ta := newTestApp(t, "n\ny\n")
	ctx := context.Background()

	require.NoError(t, ta.Resync(ctx))
	assert.Equal(t, 0, ta.sync.resyncs)
	assert.Contains(t, ta.out.String(), "Cancelled")

	require.NoError(t, ta.Resync(ctx))
	assert.Equal(t, 1, ta.sync.resyncs)
}
