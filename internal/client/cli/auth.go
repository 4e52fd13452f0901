package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/weatherdesk/weatherdesk/internal/client/client"
	"github.com/weatherdesk/weatherdesk/internal/client/session"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username, email and password and creates the
// account. The session is not changed; the user logs in afterwards.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	res := a.session.Register(ctx, username, email, password)
	if !res.Success {
		fmt.Fprintln(a.out, errorStyle.Render(res.Message))
		return nil
	}
	fmt.Fprintln(a.out, okStyle.Render(res.Message+". You can now log in."))
	return nil
}

// Login prompts for credentials, logs in and waits for the profile to
// resolve so the next prompt reflects the outcome.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	res := a.session.Login(ctx, email, password)
	if !res.Success {
		fmt.Fprintln(a.out, errorStyle.Render(res.Message))
		return nil
	}
	if err := a.session.Wait(ctx); err != nil {
		return err
	}

	s := a.session.Snapshot()
	if s.State != session.Authenticated {
		fmt.Fprintln(a.out, errorStyle.Render(s.LastError))
		return nil
	}
	fmt.Fprintln(a.out, okStyle.Render("Logged in as "+s.User.Username))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, mutedStyle.Render("Not logged in."))
	}
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// Profile fetches and shows the current user.
func (a *App) Profile(ctx context.Context) error {
	return a.protected(ctx, func(ctx context.Context, token string) error {
		p, err := a.api.Profile(ctx, token)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, renderProfile(p))
		return nil
	})
}

// protected runs fn with the current token. It refuses to run without an
// authenticated session, and expires the session when the server rejects
// the token.
func (a *App) protected(ctx context.Context, fn func(ctx context.Context, token string) error) error {
	s := a.session.Snapshot()
	if s.State != session.Authenticated {
		fmt.Fprintln(a.out, mutedStyle.Render("Please log in first."))
		return nil
	}

	err := fn(ctx, s.Token)
	if errors.Is(err, client.ErrUnauthorized) {
		a.logger.Info(ctx, "token rejected by server", "error", err)
		a.session.Invalidate(ctx, s.Token)
		fmt.Fprintln(a.out, errorStyle.Render(session.MsgSessionExpired))
		return nil
	}
	return err
}
