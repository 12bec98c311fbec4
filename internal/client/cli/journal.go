package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/sumdays/internal/client/models"
	"github.com/dmitrijs2005/sumdays/internal/client/services"
	"github.com/dmitrijs2005/sumdays/internal/common"
	"github.com/dmitrijs2005/sumdays/internal/wire"
)

var errUsage = errors.New("usage")

func (a *App) usage(text string) error {
	fmt.Fprintln(a.out, "Usage:", text)
	return errUsage
}

// fail reports err to the user and returns it.
func (a *App) fail(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		fmt.Fprintln(a.out, "Not found")
	} else {
		fmt.Fprintln(a.out, "Error:", err)
	}
	return err
}

// date resolves the "today" alias.
func (a *App) date(s string) string {
	if strings.EqualFold(s, "today") {
		return a.now().Format(common.DateLayout)
	}
	return s
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad id %q", common.ErrorValidation, s)
	}
	return id, nil
}

func (a *App) Memo(ctx context.Context, args []string) error {
	const help = "memo add <date> <text> | list <date> | edit <id> <text> | delete <id>"
	if len(args) < 2 {
		return a.usage(help)
	}

	switch args[0] {
	case "add":
		if len(args) < 3 {
			return a.usage(help)
		}
		m, err := a.journal.AddMemo(ctx, a.date(args[1]), strings.Join(args[2:], " "), services.MemoTypeText)
		if err != nil {
			return a.fail(err)
		}
		fmt.Fprintf(a.out, "Memo %d added\n", m.ID)
	case "list":
		memos, err := a.journal.ListMemos(ctx, a.date(args[1]))
		if err != nil {
			return a.fail(err)
		}
		if len(memos) == 0 {
			fmt.Fprintln(a.out, "No memos")
			return nil
		}
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTIME\tTYPE\tCONTENT")
		for _, m := range memos {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", m.ID, m.Timestamp, m.Type, m.Content)
		}
		return tw.Flush()
	case "edit":
		if len(args) < 3 {
			return a.usage(help)
		}
		id, err := parseID(args[1])
		if err != nil {
			return a.fail(err)
		}
		if _, err := a.journal.EditMemo(ctx, id, strings.Join(args[2:], " ")); err != nil {
			return a.fail(err)
		}
		fmt.Fprintln(a.out, "Memo updated")
	case "delete":
		id, err := parseID(args[1])
		if err != nil {
			return a.fail(err)
		}
		if err := a.journal.DeleteMemo(ctx, id); err != nil {
			return a.fail(err)
		}
		fmt.Fprintln(a.out, "Memo deleted")
	default:
		return a.usage(help)
	}
	return nil
}

func (a *App) Diary(ctx context.Context, args []string) error {
	const help = "diary show <date> | edit <date> | delete <date> | photo <date> <file> | link <key> | save <key> <path>"
	if len(args) < 2 {
		return a.usage(help)
	}

	switch args[0] {
	case "show":
		e, err := a.journal.GetDiary(ctx, a.date(args[1]))
		if err != nil {
			return a.fail(err)
		}
		a.printDiary(e)
	case "edit":
		text, err := getMultiline(a.reader, "Write your diary", a.out)
		if err != nil {
			return a.fail(err)
		}
		u := services.DiaryUpdate{Date: a.date(args[1]), Diary: &text}

		if u.Keywords, err = getOptional(a.reader, "Keywords", a.out); err != nil {
			return a.fail(err)
		}
		if _, err := a.journal.SaveDiary(ctx, u); err != nil {
			return a.fail(err)
		}
		fmt.Fprintln(a.out, "Diary saved")
	case "delete":
		if err := a.journal.DeleteDiary(ctx, a.date(args[1])); err != nil {
			return a.fail(err)
		}
		fmt.Fprintln(a.out, "Diary deleted")
	case "photo":
		if len(args) < 3 {
			return a.usage(help)
		}
		e, err := a.photos.Attach(ctx, a.date(args[1]), args[2])
		if err != nil {
			return a.fail(err)
		}
		fmt.Fprintf(a.out, "Photo attached as %s\n", e.PhotoURLs[len(e.PhotoURLs)-1])
	case "link":
		url, err := a.photos.Link(ctx, args[1])
		if err != nil {
			return a.fail(err)
		}
		fmt.Fprintln(a.out, url)
	case "save":
		if len(args) < 3 {
			return a.usage(help)
		}
		written, err := a.photos.Save(ctx, args[1], args[2])
		if err != nil {
			return a.fail(err)
		}
		fmt.Fprintf(a.out, "Photo saved to %s\n", written)
	default:
		return a.usage(help)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (a *App) printDiary(e *models.DailyEntry) {
	fmt.Fprintf(a.out, "Date:     %s\n", e.Date)
	if e.EmotionIcon != nil || e.ThemeIcon != nil {
		fmt.Fprintf(a.out, "Mood:     %s %s\n", deref(e.EmotionIcon), deref(e.ThemeIcon))
	}
	if e.EmotionScore != nil {
		fmt.Fprintf(a.out, "Score:    %.2f\n", *e.EmotionScore)
	}
	if e.Keywords != nil {
		fmt.Fprintf(a.out, "Keywords: %s\n", *e.Keywords)
	}
	if len(e.PhotoURLs) > 0 {
		fmt.Fprintf(a.out, "Photos:   %s\n", strings.Join(e.PhotoURLs, ", "))
	}
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, deref(e.Diary))
	if e.AIComment != nil {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Comment:", *e.AIComment)
	}
}

func (a *App) Style(ctx context.Context, args []string) error {
	const help = "style add | list | delete <id>"
	if len(args) == 0 {
		return a.usage(help)
	}

	switch args[0] {
	case "add":
		name, err := getSimpleText(a.reader, "Style name", a.out)
		if err != nil {
			return a.fail(err)
		}
		tone, err := getSimpleText(a.reader, "Tone", a.out)
		if err != nil {
			return a.fail(err)
		}
		sample, err := getMultiline(a.reader, "Sample diary", a.out)
		if err != nil {
			return a.fail(err)
		}
		st, err := a.journal.AddStyle(ctx, name, sample, wire.StylePrompt{Tone: tone}, nil)
		if err != nil {
			return a.fail(err)
		}
		fmt.Fprintf(a.out, "Style %d added\n", st.StyleID)
	case "list":
		styles, err := a.journal.ListStyles(ctx)
		if err != nil {
			return a.fail(err)
		}
		if len(styles) == 0 {
			fmt.Fprintln(a.out, "No styles")
			return nil
		}
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tTONE")
		for _, s := range styles {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", s.StyleID, s.StyleName, s.StylePrompt.Tone)
		}
		return tw.Flush()
	case "delete":
		if len(args) < 2 {
			return a.usage(help)
		}
		id, err := parseID(args[1])
		if err != nil {
			return a.fail(err)
		}
		if err := a.journal.DeleteStyle(ctx, id); err != nil {
			return a.fail(err)
		}
		fmt.Fprintln(a.out, "Style deleted")
	default:
		return a.usage(help)
	}
	return nil
}

func (a *App) Week(ctx context.Context, args []string) error {
	const help = "week add <start> | list | delete <start>"
	if len(args) == 0 {
		return a.usage(help)
	}

	switch args[0] {
	case "add":
		if len(args) < 2 {
			return a.usage(help)
		}
		title, err := getSimpleText(a.reader, "Title", a.out)
		if err != nil {
			return a.fail(err)
		}
		count, err := getCount(a.reader, "Number of diaries", a.out)
		if err != nil {
			return a.fail(err)
		}
		overview, err := getMultiline(a.reader, "Overview", a.out)
		if err != nil {
			return a.fail(err)
		}

		w := &models.WeekSummary{
			StartDate:       a.date(args[1]),
			DiaryCount:      count,
			EmotionAnalysis: wire.DefaultEmotionAnalysis(),
			Highlights:      []wire.Highlight{},
			Summary:         wire.SummaryDetails{Title: title, Overview: overview, EmergingTopics: []string{}},
		}
		if err := a.journal.SaveWeek(ctx, w); err != nil {
			return a.fail(err)
		}
		fmt.Fprintf(a.out, "Week %s..%s saved\n", w.StartDate, w.EndDate)
	case "list":
		weeks, err := a.journal.ListWeeks(ctx)
		if err != nil {
			return a.fail(err)
		}
		if len(weeks) == 0 {
			fmt.Fprintln(a.out, "No week summaries")
			return nil
		}
		tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "START\tEND\tDIARIES\tTITLE")
		for _, w := range weeks {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", w.StartDate, w.EndDate, w.DiaryCount, w.Summary.Title)
		}
		return tw.Flush()
	case "delete":
		if len(args) < 2 {
			return a.usage(help)
		}
		if err := a.journal.DeleteWeek(ctx, a.date(args[1])); err != nil {
			return a.fail(err)
		}
		fmt.Fprintln(a.out, "Week summary deleted")
	default:
		return a.usage(help)
	}
	return nil
}
