// Command omnibox classifies one line of input and hands it to the desktop:
// phone numbers go to the dialer, email addresses to the mail client and
// everything else to the browser.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"omnibox_backend/internal/dispatch"
	"omnibox_backend/internal/omnibox"
	"omnibox_backend/platform/config"
	"omnibox_backend/platform/logger"

	"github.com/mattn/go-isatty"
)

func main() {
	cfg, err := config.LoadSearch()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	// Logs go to stderr so --print output stays machine readable.
	log := logger.NewWithWriter(cfg.Env, os.Stderr)

	cls, defaultEngine, err := omnibox.NewClassifier(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to build classifier:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCommand(&cliDeps{
		classifier:     cls,
		defaultEngine:  defaultEngine,
		maxInputLength: cfg.GetMaxInputLength(),
		dispatcher:     dispatch.NewLauncher(log),
		isTerminal: func() bool {
			fd := os.Stdout.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
	})

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}
