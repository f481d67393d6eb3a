package cli

import (
	"context"
	"fmt"
	"time"
)

const banner = `
   ___           _    _
  | __|_ _  __ _| |__| |___ _ _
  | _|| ' \/ _' | '_ \ / -_) '_|
  |___|_||_\__,_|_.__/_\___|_|
`

// pingTimeout bounds the connectivity probe on the splash screen.
var pingTimeout = 3 * time.Second

// Splash prints the banner, probes the server and moves on to the login
// prompt. An unreachable server is reported but does not stop the client;
// the error returned is the login prompt's input error.
func (a *App) Splash(ctx context.Context) error {
	fmt.Fprint(a.out, banner)
	fmt.Fprintln(a.out, "Enabler (type 'help' for commands)")

	pctx, cancel := context.WithTimeout(ctx, pingTimeout)
	err := a.authService.Ping(pctx)
	cancel()
	if err != nil {
		a.logger.Warn(ctx, "server probe failed", "error", err)
		fmt.Fprintln(a.out, "Server is not reachable right now; login will retry.")
	}

	return a.Login(ctx)
}
