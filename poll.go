package chatwire

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// FetchFunc produces the latest status snapshot of whatever is being
// polled; typically a task fetch through the request pipeline. The polling
// engine never dispatches a fetch before the previous one has resolved.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Terminator is implemented by snapshot types that know when they are
// terminal. When the polled type implements Terminator, [Poll] uses it as
// the default termination predicate; otherwise [WithShouldStop] is
// required. [Task] implements Terminator.
type Terminator interface {
	// Terminal reports whether polling should stop on this snapshot.
	Terminal() bool
}

// OutcomeKind identifies which terminal outcome ended a poll session.
type OutcomeKind string

const (
	// OutcomeCompleted means the termination predicate was satisfied.
	// The final snapshot is in [Outcome.Data].
	OutcomeCompleted OutcomeKind = "completed"

	// OutcomeTimedOut means the attempt budget was exhausted without the
	// predicate being satisfied.
	OutcomeTimedOut OutcomeKind = "timed_out"

	// OutcomeFetchError means a fetch failed. Fetch failures terminate the
	// session immediately; they are never retried. The cause is in
	// [Outcome.Err].
	OutcomeFetchError OutcomeKind = "fetch_error"
)

// Outcome is the single terminal result of a poll session.
type Outcome[T any] struct {
	// Kind identifies the terminal outcome.
	Kind OutcomeKind

	// Data is the final snapshot. Set only for [OutcomeCompleted].
	Data T

	// Err is the fetch failure. Set only for [OutcomeFetchError].
	Err error

	// Attempts is the number of fetches that returned a result.
	// A failed fetch does not count toward the attempt budget.
	Attempts int
}

// ErrPollStopped is returned by [Handle.Wait] when the session was stopped
// (via [Handle.Stop] or context cancellation) before reaching a terminal
// outcome. No callbacks fire in that case.
var ErrPollStopped = errors.New("chatwire: poll session stopped")

// Handle controls one poll session.
//
// A Handle is returned by [Poll] and owns the session's private state. Each
// session is independent; no two sessions share state. The session ends
// when exactly one terminal outcome is reached, or when it is stopped,
// whichever comes first.
type Handle[T any] struct {
	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}

	// outcome and ok are written once by the session goroutine before done
	// is closed; readers must observe done first.
	outcome Outcome[T]
	ok      bool
}

// Stop marks the session stopped. No further fetch is scheduled, and a
// fetch already in flight has its result discarded: no callback fires and
// no outcome is recorded, even if that stale result would have satisfied
// the termination predicate.
//
// Stop is cooperative; it does not abort the in-flight request itself.
// Idempotent and safe for concurrent use.
func (h *Handle[T]) Stop() {
	h.stopOnce.Do(func() { close(h.stopCh) })
}

// Done returns a channel that is closed when the session ends, either with
// a terminal outcome or by being stopped.
func (h *Handle[T]) Done() <-chan struct{} {
	return h.done
}

// Outcome returns the session's terminal outcome. The second return value
// is false while the session is still running and false forever if the
// session was stopped before termination.
func (h *Handle[T]) Outcome() (Outcome[T], bool) {
	select {
	case <-h.done:
		return h.outcome, h.ok
	default:
		var zero Outcome[T]
		return zero, false
	}
}

// Wait blocks until the session ends and returns its terminal outcome.
//
// Returns [ErrPollStopped] if the session was stopped before reaching a
// terminal outcome, or ctx.Err() if waiting itself is cancelled. Waiting
// with a cancelled context does not stop the session; call [Handle.Stop]
// for that.
func (h *Handle[T]) Wait(ctx context.Context) (Outcome[T], error) {
	var zero Outcome[T]
	select {
	case <-h.done:
		if !h.ok {
			return zero, ErrPollStopped
		}
		return h.outcome, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Poll drives fetch to a terminal outcome at a fixed cadence, bounded by an
// attempt budget.
//
// The first fetch is dispatched immediately, not after one interval. After
// each fetch resolves, in order:
//
//  1. A fetch error terminates the session immediately via the error
//     callback; failed fetches are never retried and do not count toward
//     the attempt budget.
//  2. A snapshot satisfying the termination predicate terminates the
//     session via the success callback.
//  3. An exhausted attempt budget terminates the session via the timeout
//     callback.
//  4. Otherwise the next fetch is scheduled one interval later.
//
// Exactly one of the success, error, and timeout callbacks fires per
// session, or none if the session is stopped first. Fetches never overlap
// within one session. Cancelling ctx is equivalent to calling Stop on the
// returned handle.
//
// Defaults: 1s interval, 60 attempts, and, for types implementing
// [Terminator], termination on [Terminator.Terminal]. Types that do not
// implement Terminator must supply [WithShouldStop].
//
// Example:
//
//	h, err := chatwire.Poll(ctx, fetchStatus,
//	    chatwire.WithInterval[chatwire.Task](2*time.Second),
//	    chatwire.WithOnSuccess(func(t chatwire.Task) { done <- t }),
//	)
//
// Returns an error if fetch is nil or any option is invalid.
func Poll[T any](ctx context.Context, fetch FetchFunc[T], opts ...PollOption[T]) (*Handle[T], error) {
	if fetch == nil {
		return nil, errors.New("fetch function is required")
	}

	cfg := &pollConfig[T]{
		interval:    defaultPollInterval,
		maxAttempts: defaultPollMaxAttempts,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.shouldStop == nil {
		var zero T
		if _, ok := any(zero).(Terminator); !ok {
			return nil, errors.New("WithShouldStop is required for types that do not implement Terminator")
		}
		cfg.shouldStop = func(v T) bool { return any(v).(Terminator).Terminal() }
	}

	h := &Handle[T]{
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	go h.run(ctx, fetch, cfg)
	return h, nil
}

// run is the session goroutine. Fetches are strictly sequential: the next
// attempt is scheduled only after the previous result is processed.
func (h *Handle[T]) run(ctx context.Context, fetch FetchFunc[T], cfg *pollConfig[T]) {
	defer close(h.done)

	attempts := 0
	for {
		// stop is checked at the top of each scheduled attempt
		if h.stopped(ctx) {
			return
		}

		data, err := fetch(ctx)

		// a result that resolves after Stop is discarded
		if h.stopped(ctx) {
			return
		}

		if err != nil {
			h.finish(cfg, Outcome[T]{Kind: OutcomeFetchError, Err: err, Attempts: attempts})
			return
		}
		attempts++

		if cfg.observer != nil {
			invokeSafe(cfg.logger, func() { cfg.observer(data) })
		}

		if cfg.shouldStop(data) {
			h.finish(cfg, Outcome[T]{Kind: OutcomeCompleted, Data: data, Attempts: attempts})
			return
		}
		if attempts >= cfg.maxAttempts {
			h.finish(cfg, Outcome[T]{Kind: OutcomeTimedOut, Attempts: attempts})
			return
		}

		timer := time.NewTimer(cfg.interval)
		select {
		case <-timer.C:
		case <-h.stopCh:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

// stopped reports whether the session has been stopped or its context
// cancelled.
func (h *Handle[T]) stopped(ctx context.Context) bool {
	select {
	case <-h.stopCh:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// finish records the terminal outcome and fires its callback.
func (h *Handle[T]) finish(cfg *pollConfig[T], out Outcome[T]) {
	h.outcome = out
	h.ok = true

	switch out.Kind {
	case OutcomeCompleted:
		if cfg.onSuccess != nil {
			invokeSafe(cfg.logger, func() { cfg.onSuccess(out.Data) })
		}
	case OutcomeFetchError:
		if cfg.onError != nil {
			invokeSafe(cfg.logger, func() { cfg.onError(out.Err) })
		}
	case OutcomeTimedOut:
		if cfg.onTimeout != nil {
			invokeSafe(cfg.logger, func() { cfg.onTimeout() })
		}
	}
}

// invokeSafe calls a callback with panic recovery. Panics are logged but
// do not propagate into the session goroutine.
func invokeSafe(logger *slog.Logger, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("poll callback panicked", "panic", r)
		}
	}()
	fn()
}
