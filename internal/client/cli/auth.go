package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/imarqd/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) restoreSession(ctx context.Context) {
	sess, err := a.authService.Restore(ctx)
	if err != nil {
		if !errors.Is(err, common.ErrNoSession) {
			a.logger.Warn(ctx, "session restore failed", "error", err)
		}
		a.session = nil
		return
	}
	a.session = sess
	a.toast.Show(ToastInfo, "Welcome back, "+sess.Email, infoTTL)
}

// Login prompts for email and password and replaces the current session on
// success. The password buffer is wiped before returning. A failed login
// keeps the previous session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.authService.Login(ctx, email, password)
	if err != nil {
		return err
	}

	a.session = sess
	a.lastProtected = nil
	a.active = PanelProtect
	a.toast.Show(ToastSuccess, "Logged in as "+sess.Email, successTTL)
	return nil
}

// Logout drops the in-memory session no matter what the store reports and
// returns to the login view.
func (a *App) Logout(ctx context.Context) error {
	err := a.authService.Logout(ctx)

	a.session = nil
	a.lastProtected = nil
	a.active = PanelProtect

	if err != nil {
		return err
	}
	a.toast.Show(ToastInfo, "Logged out", infoTTL)
	return nil
}
