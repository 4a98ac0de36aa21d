package chatwire

import (
	"errors"
	"log/slog"
	"time"
)

const (
	defaultPollInterval    = 1 * time.Second
	defaultPollMaxAttempts = 60
)

// pollConfig holds mutable state during poll session construction.
type pollConfig[T any] struct {
	interval    time.Duration
	maxAttempts int
	shouldStop  func(T) bool
	onSuccess   func(T)
	onError     func(error)
	onTimeout   func()
	observer    func(T)
	logger      *slog.Logger
}

// PollOption configures a poll session during construction by [Poll].
//
// PollOption implements the functional options pattern. Options return an
// error if validation fails.
//
// Built-in options: [WithInterval], [WithMaxAttempts], [WithShouldStop],
// [WithOnSuccess], [WithOnError], [WithOnTimeout], [WithObserver],
// [WithPollLogger].
type PollOption[T any] func(*pollConfig[T]) error

// WithInterval sets the delay between the resolution of one fetch and the
// dispatch of the next. Defaults to 1 second.
//
// Returns an error if the duration is zero or negative.
func WithInterval[T any](d time.Duration) PollOption[T] {
	return func(cfg *pollConfig[T]) error {
		if d <= 0 {
			return errors.New("poll interval must be positive")
		}
		cfg.interval = d
		return nil
	}
}

// WithMaxAttempts sets the attempt budget: the number of resolved fetches
// after which the session terminates via the timeout callback. Defaults
// to 60.
//
// The budget is a soft wall-clock bound of roughly maxAttempts x interval;
// it is not a per-request timeout.
//
// Returns an error if n is less than 1.
func WithMaxAttempts[T any](n int) PollOption[T] {
	return func(cfg *pollConfig[T]) error {
		if n < 1 {
			return errors.New("max attempts must be at least 1")
		}
		cfg.maxAttempts = n
		return nil
	}
}

// WithShouldStop sets the termination predicate, evaluated on every
// successful fetch result.
//
// For types implementing [Terminator] the predicate defaults to
// [Terminator.Terminal]; for any other type this option is required.
//
// Returns an error if the predicate is nil.
func WithShouldStop[T any](fn func(T) bool) PollOption[T] {
	return func(cfg *pollConfig[T]) error {
		if fn == nil {
			return errors.New("shouldStop predicate cannot be nil")
		}
		cfg.shouldStop = fn
		return nil
	}
}

// WithOnSuccess registers the callback fired when the termination predicate
// is satisfied. It receives the final snapshot and fires at most once per
// session.
func WithOnSuccess[T any](fn func(T)) PollOption[T] {
	return func(cfg *pollConfig[T]) error {
		cfg.onSuccess = fn
		return nil
	}
}

// WithOnError registers the callback fired when a fetch fails. Fetch
// failures terminate the session immediately; the callback fires at most
// once per session and the failed fetch is never retried.
func WithOnError[T any](fn func(error)) PollOption[T] {
	return func(cfg *pollConfig[T]) error {
		cfg.onError = fn
		return nil
	}
}

// WithOnTimeout registers the callback fired when the attempt budget is
// exhausted without the termination predicate being satisfied. Fires at
// most once per session.
func WithOnTimeout[T any](fn func()) PollOption[T] {
	return func(cfg *pollConfig[T]) error {
		cfg.onTimeout = fn
		return nil
	}
}

// WithObserver registers a function called with every successful fetch
// result, terminal or not.
//
// Observers see intermediate snapshots; use them to surface progress while
// the session runs. Observers must be non-blocking: they run on the session
// goroutine, so a blocking observer delays the next fetch. Panics within
// observers are recovered and logged.
//
// Nil observers are silently ignored.
func WithObserver[T any](fn func(T)) PollOption[T] {
	return func(cfg *pollConfig[T]) error {
		if fn == nil {
			return nil // no-op for nil observer (safe to call)
		}
		cfg.observer = fn
		return nil
	}
}

// WithPollLogger sets the logger used for callback panic recovery.
// Defaults to [slog.Default].
//
// Returns an error if the logger is nil.
func WithPollLogger[T any](logger *slog.Logger) PollOption[T] {
	return func(cfg *pollConfig[T]) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}
