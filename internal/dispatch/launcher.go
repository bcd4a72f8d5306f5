package dispatch

import (
	"context"
	"errors"
	"os/exec"
	"runtime"

	"omnibox_backend/platform/logger"
)

// xdg-open exits with 3 when no tool for the URI scheme is installed.
const xdgOpenNoTool = 3

// RunFunc starts an external program and waits for it to exit.
type RunFunc func(ctx context.Context, name string, args ...string) error

// Launcher dispatches through the desktop's URI opener: tel:, mailto: and
// http(s) URIs go to whatever application the user registered for them.
type Launcher struct {
	opener []string
	run    RunFunc
	log    *logger.Logger
}

// NewLauncher picks the opener for the running OS.
func NewLauncher(log *logger.Logger) *Launcher {
	return NewLauncherWith(defaultOpener(runtime.GOOS), runCommand, log)
}

// NewLauncherWith builds a Launcher with an explicit opener command and runner.
func NewLauncherWith(opener []string, run RunFunc, log *logger.Logger) *Launcher {
	return &Launcher{opener: opener, run: run, log: log}
}

func defaultOpener(goos string) []string {
	switch goos {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	default:
		return []string{"xdg-open"}
	}
}

func (l *Launcher) Dial(ctx context.Context, phoneDigits string) error {
	return l.open(ctx, ActionDial, phoneDigits, "tel:"+phoneDigits)
}

func (l *Launcher) ComposeEmail(ctx context.Context, address string) error {
	return l.open(ctx, ActionEmail, address, "mailto:"+address)
}

func (l *Launcher) OpenURL(ctx context.Context, url string) error {
	return l.open(ctx, ActionOpenURL, url, url)
}

func (l *Launcher) open(ctx context.Context, action Action, target, uri string) error {
	if len(l.opener) == 0 {
		return l.fail(ctx, action, target, ErrNoHandlerAvailable)
	}

	args := append(append([]string(nil), l.opener[1:]...), uri)
	if err := l.run(ctx, l.opener[0], args...); err != nil {
		return l.fail(ctx, action, target, classifyRunError(err))
	}
	return nil
}

func (l *Launcher) fail(ctx context.Context, action Action, target string, err error) error {
	de := &Error{Action: action, Target: target, Err: err}
	if l.log != nil {
		l.log.WithContext(ctx).DispatchFailed(string(action), target, err)
	}
	return de
}

func classifyRunError(err error) error {
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, ErrNoHandlerAvailable) {
		return ErrNoHandlerAvailable
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == xdgOpenNoTool {
		return ErrNoHandlerAvailable
	}
	return err
}

func runCommand(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

var _ Dispatcher = (*Launcher)(nil)
