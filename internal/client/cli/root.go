package cli

import (
	"bufio"
	"context"
	"fmt"
	"time"
)

func (a *App) getStatus() string {
	s := string(a.Mode())
	if !a.isLoggedIn() {
		s += " logged out"
	}
	return fmt.Sprintf("(%s)", s)
}

// Root resumes a saved session, starts the connectivity watcher and runs
// the REPL until the user exits or ctx is cancelled.
func (a *App) Root(ctx context.Context, onlineCheck time.Duration) {
	fmt.Fprintln(a.out, "Welcome to Sumdays CLI (type 'help' for commands)")

	if ok, err := a.auth.Restore(ctx); err != nil {
		a.log.Error(ctx, "restore session", "error", err)
	} else if ok {
		fmt.Fprintln(a.out, "Session restored")
	}

	go a.StartOnlineStatusWatcher(ctx, onlineCheck)

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}
