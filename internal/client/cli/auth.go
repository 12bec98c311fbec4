package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/sumdays/internal/client/session"
	"github.com/dmitrijs2005/sumdays/internal/common"
)

// Prompt indirections, swapped in tests.
var (
	getSimpleText = GetSimpleText
	getOptional   = GetOptional
	getCount      = GetCount
	getMultiline  = GetMultiline
	getSecret     = GetSecret
)

// Login reads an access token without echo and opens a session with it.
// A successful login queues a full download of the account.
func (a *App) Login(ctx context.Context) error {
	secret, err := getSecret(a.reader, "Enter access token", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(secret)

	token := strings.TrimSpace(string(secret))
	if err := a.auth.Login(ctx, token); err != nil {
		if errors.Is(err, session.ErrEmptyToken) {
			fmt.Fprintln(a.out, "Token must not be empty")
		} else {
			fmt.Fprintln(a.out, "Login failed:", err)
		}
		return err
	}

	fmt.Fprintln(a.out, "Logged in")
	return nil
}

// Logout cancels background work and forgets the token. Local data stays.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		fmt.Fprintln(a.out, "Logout failed:", err)
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
