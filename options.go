package chatwire

import (
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// clientConfig holds mutable state during Client construction.
type clientConfig struct {
	timeout         time.Duration
	httpClient      *http.Client
	storage         Storage
	notifier        Notifier
	logger          *slog.Logger
	pollInterval    time.Duration
	pollMaxAttempts int
}

// Option configures a [Client] during construction by [New].
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
//
// Built-in options: [WithTimeout], [WithHTTPClient], [WithStorage],
// [WithNotifier], [WithLogger], [WithPollInterval], [WithPollMaxAttempts].
type Option func(*clientConfig) error

// WithTimeout sets the overall per-request timeout for every call the
// client makes. Defaults to 30 seconds.
//
// This is the server call budget; a request that exceeds it fails with
// [KindNetworkError]. Pass a context with a shorter deadline to bound an
// individual call more tightly.
//
// Returns an error if the duration is zero or negative.
func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		cfg.timeout = d
		return nil
	}
}

// WithHTTPClient supplies a custom [http.Client], for callers that need
// their own transport, proxy, or TLS configuration. The client's Timeout
// field is overwritten with the configured request timeout.
//
// Returns an error if the client is nil.
func WithHTTPClient(hc *http.Client) Option {
	return func(cfg *clientConfig) error {
		if hc == nil {
			return errors.New("http client cannot be nil")
		}
		cfg.httpClient = hc
		return nil
	}
}

// WithStorage sets the durable key/value storage backing the session.
//
// With durable storage the credential and cached profile survive process
// restarts; a new Client restores them at construction. Defaults to
// in-memory storage ([NewMemoryStorage]).
//
// Example:
//
//	dir, _ := chatwire.DefaultStorageDir()
//	client, err := chatwire.New(baseURL,
//	    chatwire.WithStorage(chatwire.NewFileStorage(dir)),
//	)
//
// Returns an error if the storage is nil.
func WithStorage(s Storage) Option {
	return func(cfg *clientConfig) error {
		if s == nil {
			return errors.New("storage cannot be nil")
		}
		cfg.storage = s
		return nil
	}
}

// WithNotifier sets the [Notifier] that receives user-visible notices. If
// not specified, notices are routed to the client's logger.
//
// Returns an error if the notifier is nil; use [NopNotifier] to discard
// notices explicitly.
func WithNotifier(n Notifier) Option {
	return func(cfg *clientConfig) error {
		if n == nil {
			return errors.New("notifier cannot be nil")
		}
		cfg.notifier = n
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the client.
//
// This allows SDK consumers to control where logs are written and in what
// format. If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *clientConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithPollInterval sets the default cadence [Client.WaitForTask] polls at.
// Defaults to 1 second. Individual calls can override it with
// [WithInterval].
//
// Returns an error if the duration is zero or negative.
func WithPollInterval(d time.Duration) Option {
	return func(cfg *clientConfig) error {
		if d <= 0 {
			return errors.New("poll interval must be positive")
		}
		cfg.pollInterval = d
		return nil
	}
}

// WithPollMaxAttempts sets the default attempt budget for
// [Client.WaitForTask]. Defaults to 60. Individual calls can override it
// with [WithMaxAttempts].
//
// Returns an error if n is less than 1.
func WithPollMaxAttempts(n int) Option {
	return func(cfg *clientConfig) error {
		if n < 1 {
			return errors.New("poll max attempts must be at least 1")
		}
		cfg.pollMaxAttempts = n
		return nil
	}
}
