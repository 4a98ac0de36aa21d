package chatwire

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/jpalmerr/chatwire/internal/storage"
	"github.com/jpalmerr/chatwire/internal/taskstore"
)

const (
	defaultRequestTimeout = 30 * time.Second
)

// Storage is the durable key/value contract the session persists its
// credential and cached profile through. String keys, string values.
//
// Implementations must be safe for concurrent use. A missing key should be
// reported as an error from Get; deleting an absent key must not be an
// error. [NewFileStorage] and [NewMemoryStorage] provide ready-made
// implementations.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// NewFileStorage returns a [Storage] that keeps one 0600-mode file per key
// under dir, creating dir with mode 0700 on first write. Suitable for CLI
// and desktop embedders that need the session to survive process restarts.
func NewFileStorage(dir string) Storage {
	return storage.NewFile(dir)
}

// NewMemoryStorage returns a [Storage] that keeps values in memory only.
// This is the default when no storage is configured: nothing is written to
// disk, and the session does not survive the process.
func NewMemoryStorage() Storage {
	return storage.NewMemory()
}

// DefaultStorageDir returns the conventional durable storage location for
// this SDK: ~/.config/chatwire.
func DefaultStorageDir() (string, error) {
	return storage.DefaultDir("chatwire")
}

// Client is the entry point of the SDK.
//
// Client owns the session, the authenticated request pipeline, and the task
// tracker; every typed API call goes through the pipeline. A Client is safe
// for concurrent use.
//
// The typical lifecycle is:
//
//	client, err := chatwire.New("https://chat.example.com/api",
//	    chatwire.WithStorage(store),
//	)
//	if err != nil {
//	    slog.Error("failed to create client", "error", err)
//	    os.Exit(1)
//	}
//
//	if !client.Session().Authenticated() {
//	    if err := client.Login(ctx, username, password); err != nil {
//	        return err
//	    }
//	}
//
// Construction restores any previously persisted session from storage, so
// a Client created over durable storage is already authenticated when a
// valid credential was stored by an earlier process.
type Client struct {
	baseURL  string
	session  *Session
	pipeline *pipeline
	notifier Notifier
	logger   *slog.Logger
	tasks    taskstore.Store

	pollInterval    time.Duration
	pollMaxAttempts int
}

// New creates a [Client] for the backend at baseURL.
//
// The baseURL must include a scheme (http:// or https://) and should point
// at the API root, for example "https://chat.example.com/api". Options have
// sensible defaults: request timeout 30s, in-memory storage, notices routed
// to the logger, [slog.Default] logging, and polling defaults of 1s/60
// attempts for [Client.WaitForTask].
//
// Returns an error if the base URL or any option is invalid.
func New(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.New("invalid base URL: " + err.Error())
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.New("base URL must have an http:// or https:// scheme")
	}

	cfg := &clientConfig{
		timeout:         defaultRequestTimeout,
		pollInterval:    defaultPollInterval,
		pollMaxAttempts: defaultPollMaxAttempts,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}
	store := cfg.storage
	if store == nil {
		store = storage.NewMemory()
	}
	notifier := cfg.notifier
	if notifier == nil {
		notifier = slogNotifier{logger: logger}
	}
	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = cfg.timeout

	session := newSession(store, logger)
	session.restore()

	c := &Client{
		baseURL:         baseURL,
		session:         session,
		pipeline:        newPipeline(baseURL, httpClient, session, notifier, logger),
		notifier:        notifier,
		logger:          logger,
		tasks:           taskstore.NewMemoryStore(),
		pollInterval:    cfg.pollInterval,
		pollMaxAttempts: cfg.pollMaxAttempts,
	}
	return c, nil
}

// Session returns the client's session. The session exposes the live
// credential state, the cached profile, and the invalidation subscription
// channel.
func (c *Client) Session() *Session {
	return c.session
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// TaskSnapshot is the latest observed state of a tracked task, as recorded
// by [Client.WaitForTask] and [Client.SendMessage].
type TaskSnapshot struct {
	TaskID       string
	Status       TaskStatus
	Result       string
	ErrorMessage string
	ObservedAt   time.Time
}

// TaskSnapshots returns the latest snapshot of every task this client has
// observed. The returned slice is a copy; order is not guaranteed.
func (c *Client) TaskSnapshots() []TaskSnapshot {
	stored := c.tasks.GetAll()
	out := make([]TaskSnapshot, len(stored))
	for i, s := range stored {
		out[i] = fromStoredSnapshot(s)
	}
	return out
}

// TaskSnapshot returns the latest observed snapshot of one task, if any.
func (c *Client) TaskSnapshot(taskID string) (TaskSnapshot, bool) {
	s, ok := c.tasks.Get(taskID)
	if !ok {
		return TaskSnapshot{}, false
	}
	return fromStoredSnapshot(s), true
}

// WatchTasks returns a channel that receives every task snapshot this
// client records, across all poll sessions, until ctx is cancelled.
//
// Use this to render task progress without driving the polling yourself:
//
//	for snap := range client.WatchTasks(ctx) {
//	    render(snap)
//	}
//
// The channel is closed when ctx is cancelled.
func (c *Client) WatchTasks(ctx context.Context) <-chan TaskSnapshot {
	src := c.tasks.Subscribe()
	out := make(chan TaskSnapshot)

	go func() {
		defer close(out)
		defer c.tasks.Unsubscribe(src)
		for {
			select {
			case <-ctx.Done():
				return
			case s, ok := <-src:
				if !ok {
					return
				}
				select {
				case out <- fromStoredSnapshot(s):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// recordTask stores an observed task state in the tracker.
func (c *Client) recordTask(s TaskSnapshot) {
	c.tasks.Update(taskstore.Snapshot{
		TaskID:       s.TaskID,
		Status:       string(s.Status),
		Result:       s.Result,
		ErrorMessage: s.ErrorMessage,
		ObservedAt:   s.ObservedAt,
	})
}

func fromStoredSnapshot(s taskstore.Snapshot) TaskSnapshot {
	return TaskSnapshot{
		TaskID:       s.TaskID,
		Status:       TaskStatus(s.Status),
		Result:       s.Result,
		ErrorMessage: s.ErrorMessage,
		ObservedAt:   s.ObservedAt,
	}
}
