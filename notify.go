package chatwire

import "log/slog"

// Notifier receives the user-visible transient notices that the SDK emits:
// exactly one per classified request failure, plus success notices after
// login, registration, and logout.
//
// The SDK never renders anything itself; a UI embeds chatwire by supplying
// a Notifier via [WithNotifier] and displaying the messages however it sees
// fit (toast, status bar, terminal line). When no Notifier is supplied,
// notices are written to the client's logger.
//
// Implementations must be safe for concurrent use: poll sessions run in
// their own goroutines and may fail concurrently with foreground requests.
type Notifier interface {
	// Success reports a user-visible success notice.
	Success(msg string)

	// Error reports a user-visible failure notice.
	Error(msg string)
}

// slogNotifier routes notices to a structured logger. It is the default
// Notifier when none is configured.
type slogNotifier struct {
	logger *slog.Logger
}

func (n slogNotifier) Success(msg string) {
	n.logger.Info("notice", "message", msg)
}

func (n slogNotifier) Error(msg string) {
	n.logger.Warn("notice", "message", msg)
}

// NopNotifier discards all notices. Useful in tests and in headless callers
// that inspect returned errors directly.
type NopNotifier struct{}

// Success implements [Notifier].
func (NopNotifier) Success(string) {}

// Error implements [Notifier].
func (NopNotifier) Error(string) {}
