// Package dispatch hands a classification result to the capability that can
// act on it: a dialer, a mail client or a browser.
package dispatch

import (
	"context"
	"errors"
	"fmt"

	"omnibox_backend/internal/classifier"
)

// Action names a dispatch capability.
type Action string

const (
	ActionDial    Action = "dial"
	ActionEmail   Action = "compose_email"
	ActionOpenURL Action = "open_url"
)

// ErrNoHandlerAvailable means nothing installed can service the action.
var ErrNoHandlerAvailable = errors.New("no handler available")

// Error describes a failed dispatch. Err is ErrNoHandlerAvailable or the
// underlying cause of an unknown failure.
type Error struct {
	Action Action
	Target string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Action, e.Target, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NoHandler reports whether the failure was a missing handler rather than an
// unknown error.
func (e *Error) NoHandler() bool {
	return errors.Is(e.Err, ErrNoHandlerAvailable)
}

// Dispatcher is implemented by hosts that can dial, compose mail and open URLs.
type Dispatcher interface {
	Dial(ctx context.Context, phoneDigits string) error
	ComposeEmail(ctx context.Context, address string) error
	OpenURL(ctx context.Context, url string) error
}

// Route sends result to the matching Dispatcher capability.
func Route(ctx context.Context, d Dispatcher, result classifier.Result) error {
	switch r := result.(type) {
	case classifier.Phone:
		return d.Dial(ctx, r.Digits)
	case classifier.Email:
		return d.ComposeEmail(ctx, r.Address)
	case classifier.WebTarget:
		return d.OpenURL(ctx, r.URL)
	default:
		return &Error{Action: ActionOpenURL, Target: result.Target(), Err: fmt.Errorf("unsupported result %T", result)}
	}
}

// Notice returns the short message shown to the user when a dispatch fails.
func Notice(err error) string {
	var de *Error
	if !errors.As(err, &de) {
		return "Something went wrong: " + err.Error()
	}

	switch de.Action {
	case ActionDial:
		if de.NoHandler() {
			return "No dialer app available or invalid phone number: " + de.Target
		}
		return "Error opening dialer for number: " + de.Target
	case ActionEmail:
		if de.NoHandler() {
			return "No email client available or invalid email address: " + de.Target
		}
		return "Error opening email client for: " + de.Target
	default:
		if de.NoHandler() {
			return "No app available to open the URL"
		}
		return "Error opening the URL: " + de.Target
	}
}
