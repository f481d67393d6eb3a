package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/dmitrijs2005/caregiver/internal/client/services"
	"github.com/dmitrijs2005/caregiver/internal/common"
)

// getSimpleText, getPassword and notifyContext are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	notifyContext = signal.NotifyContext
)

// pending runs op while "Loading..." is shown. SIGINT cancels op's context;
// an interrupted operation reports Canceled whatever op returned.
func (a *App) pending(ctx context.Context, op func(ctx context.Context) services.Outcome) services.Outcome {
	fmt.Fprintln(a.out, "Loading...")

	opCtx, stop := notifyContext(ctx, os.Interrupt)
	defer stop()

	out := op(opCtx)
	if err := opCtx.Err(); err != nil {
		return services.Failure(services.CategoryCanceled, err.Error())
	}
	return out
}

// Login prompts for credentials and signs in. On success it looks up the
// profile and shows the home screen; failures are printed, not returned.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	out := a.pending(ctx, func(ctx context.Context) services.Outcome {
		return a.authService.Login(ctx, email, string(password))
	})
	if !out.OK() {
		a.logger.Info(ctx, "login failed", "category", out.Category, "raw", out.RawMessage)
		fmt.Fprintln(a.out, out.Message())
		return nil
	}

	a.profile = a.authService.CurrentProfile(ctx)
	return a.Home(ctx)
}

// Register collects the registration form and creates the account. On
// success the user is sent back to the login prompt.
func (a *App) Register(ctx context.Context) error {
	var req services.RegisterRequest

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Enter username", &req.DisplayName},
		{"Enter email", &req.Identifier},
		{"Enter phone number", &req.PhoneNumber},
		{"Enter gender", &req.Gender},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	req.Secret = string(password)

	out := a.pending(ctx, func(ctx context.Context) services.Outcome {
		return a.authService.Register(ctx, req)
	})
	if !out.OK() {
		a.logger.Info(ctx, "registration failed", "category", out.Category, "raw", out.RawMessage)
		fmt.Fprintln(a.out, out.Message())
		return nil
	}

	fmt.Fprintln(a.out, "Registration successful. Please log in.")
	return a.Login(ctx)
}

// Home greets the signed-in user.
func (a *App) Home(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Please log in first")
		return nil
	}
	if a.profile == nil {
		a.profile = a.authService.CurrentProfile(ctx)
	}
	fmt.Fprintf(a.out, "Welcome, %s\n", a.profile.DisplayName)
	fmt.Fprintln(a.out, "Please pick your mode: caregiver or disability")
	return nil
}

// Logout signs out and clears the cached profile.
func (a *App) Logout(ctx context.Context) error {
	a.profile = nil
	if err := a.authService.Logout(ctx); err != nil {
		a.logger.Warn(ctx, "logout incomplete", "error", err)
		fmt.Fprintln(a.out, "Logged out locally; the server could not be reached")
		return err
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
