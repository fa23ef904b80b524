// Package notify shows desktop alerts when a wrap is ready.
package notify

import (
	"io"
	"log/slog"

	"github.com/gen2brain/beeep"

	"github.com/valentinclaes/chat-wrap/internal/config"
	"github.com/valentinclaes/chat-wrap/internal/focus"
)

const appName = "chatwrap"

// Notifier sends best-effort desktop alerts. Failures are logged, never returned.
type Notifier struct {
	Enabled         bool
	SkipWhenFocused bool

	focused func() bool
	alert   func(title, message string, icon any) error
	log     *slog.Logger
}

// New builds a Notifier from cfg backed by beeep.
func New(cfg config.Config, log *slog.Logger) *Notifier {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	beeep.AppName = appName
	return &Notifier{
		Enabled:         cfg.Notify,
		SkipWhenFocused: cfg.SkipWhenFocused,
		focused:         focus.Terminal,
		alert:           beeep.Alert,
		log:             log,
	}
}

// Send shows title and message unless notifications are off or the terminal
// has focus. It reports whether an alert was shown.
func (n *Notifier) Send(title, message string) (shown bool) {
	defer func() {
		if r := recover(); r != nil {
			n.log.Warn("notification panicked", "panic", r)
			shown = false
		}
	}()

	if !n.Enabled {
		return false
	}
	if n.SkipWhenFocused && n.focused() {
		n.log.Debug("terminal focused, skipping notification")
		return false
	}
	if err := n.alert(title, message, ""); err != nil {
		n.log.Warn("notification failed", "err", err)
		return false
	}
	return true
}
