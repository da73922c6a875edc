package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/services"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// report prints err the way the user should see it: the server's own
// message when there is one.
func (a *App) report(err error) {
	switch {
	case errors.Is(err, client.ErrUnavailable):
		a.setMode(ModeOffline)
		fmt.Fprintln(a.out, "Server unavailable, try again later")
	case errors.Is(err, services.ErrNotSignedIn):
		fmt.Fprintln(a.out, "Not logged in")
	default:
		fmt.Fprintln(a.out, "Error:", common.Message(err, err.Error()))
	}
}

// readCredentials prompts for an e-mail and a password.
func (a *App) readCredentials(passwordPrompt string) (string, string, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", "", err
	}

	password, err := getPassword(passwordPrompt, a.out)
	if err != nil {
		return "", "", err
	}
	defer common.WipeByteArray(password)

	return email, string(password), nil
}

// Register creates an account and signs in with it.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.readCredentials("Enter password")
	if err != nil {
		return err
	}

	s, err := a.authService.Register(ctx, email, password)
	if err != nil {
		a.report(err)
		return err
	}

	a.setMode(ModeOnline)
	fmt.Fprintf(a.out, "Registered and logged in as %s\n", s.Email)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, password, err := a.readCredentials("Enter password")
	if err != nil {
		return err
	}

	s, err := a.authService.Login(ctx, email, password)
	if err != nil {
		a.report(err)
		return err
	}

	a.setMode(ModeOnline)
	fmt.Fprintf(a.out, "Logged in as %s\n", s.Email)
	return nil
}

// Forgot asks the server to mail a reset code. The answer is the same
// whether or not the e-mail is registered.
func (a *App) Forgot(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	if err := a.authService.ForgotPassword(ctx, email); err != nil {
		a.report(err)
		return err
	}

	fmt.Fprintln(a.out, "If the email is registered, a reset code has been sent")
	return nil
}

// Reset sets a new password using an e-mailed code.
func (a *App) Reset(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	code, err := getSimpleText(a.reader, "Enter the 6-digit code", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword("Enter new password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.authService.ResetPassword(ctx, email, code, string(password)); err != nil {
		a.report(err)
		return err
	}

	fmt.Fprintln(a.out, "Password updated, please log in")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	id, err := a.authService.WhoAmI(ctx)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			fmt.Fprintln(a.out, "Session expired, please log in again")
			return err
		}
		a.report(err)
		return err
	}

	fmt.Fprintf(a.out, "%s (id %s)\n", id.Email, id.UserID)
	return nil
}

func (a *App) Ping(ctx context.Context) error {
	if err := a.authService.Ping(ctx); err != nil {
		a.report(err)
		return err
	}

	a.setMode(ModeOnline)
	fmt.Fprintln(a.out, "OK")
	return nil
}

// Logout forgets the saved session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		a.report(err)
		return err
	}

	fmt.Fprintln(a.out, "Logged out")
	return nil
}
