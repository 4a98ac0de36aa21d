// Package chatwire is a Go client SDK for chat-style backends that process
// messages and attachments asynchronously.
//
// The backend acknowledges long-running work (message processing, attachment
// recognition) immediately with a task identifier; the client tracks the task
// to completion by polling. Chatwire provides the three pieces that make this
// reliable: a session that owns the single live bearer credential, an
// authenticated request pipeline that classifies every failure into a fixed
// taxonomy, and a generic polling engine that drives a status fetch to
// exactly one terminal outcome.
//
// # Quick Start
//
// Create a client, log in, submit a message, and wait for the backend to
// finish processing it:
//
//	client, _ := chatwire.New("https://chat.example.com/api")
//
//	if err := client.Login(ctx, "alice", "secret"); err != nil {
//	    slog.Error("login failed", "error", err)
//	    os.Exit(1)
//	}
//
//	ack, err := client.SendMessage(ctx, conversationID, chatwire.MessageCreate{
//	    Role:    chatwire.RoleUser,
//	    Content: "summarise the attached report",
//	})
//	if err != nil {
//	    return err
//	}
//
//	task, err := client.WaitForTask(ctx, ack.TaskID)
//
// # Configuration
//
// Chatwire uses the functional options pattern for configuration:
//
//	client, err := chatwire.New(baseURL,
//	    chatwire.WithTimeout(10 * time.Second),
//	    chatwire.WithStorage(store),
//	    chatwire.WithNotifier(notifier),
//	    chatwire.WithLogger(logger),
//	)
//
// # Polling
//
// The polling engine is generic and independent of what is being polled.
// [Poll] invokes a fetch function at a fixed cadence until a termination
// predicate is satisfied, the fetch fails, or an attempt budget is exhausted.
// Each poll session produces exactly one terminal [Outcome]; callers either
// wait on the returned [Handle] or register callbacks:
//
//	h, err := chatwire.Poll(ctx, fetchStatus,
//	    chatwire.WithInterval[chatwire.Task](2*time.Second),
//	    chatwire.WithMaxAttempts[chatwire.Task](30),
//	    chatwire.WithOnSuccess(func(t chatwire.Task) { slog.Info("done", "task", t.TaskID) }),
//	)
//
// # Error Classification
//
// Every failure that crosses the pipeline is classified into a [Kind] and
// surfaced as an [*APIError]. An HTTP 401 additionally invalidates the
// session: the credential and cached profile are cleared from memory and
// durable storage, and an event is published on the session's invalidation
// channel, to which a UI or routing layer can subscribe.
//
// # Architecture
//
// The root package is the public API. Supporting packages:
//
//   - internal/storage: durable key/value storage for the credential and profile
//   - internal/taskstore: in-memory task snapshot registry with pub/sub
//   - config: YAML configuration for the standalone CLI
//   - cmd/chatwire: cobra CLI (login, send, task, upload)
//
// The internal packages are not part of the public API and may change
// without notice.
package chatwire
