package chatwire

import (
	"errors"
	"fmt"
)

// Kind classifies a request failure independently of which endpoint was
// called.
//
// Kind is a string type that can hold one of seven predefined values.
// Using a string type keeps kinds human-readable in logs while maintaining
// type safety through the defined constants. Every error returned by the
// request pipeline carries exactly one Kind; use [KindOf] to recover it.
type Kind string

const (
	// KindAuthExpired indicates the server rejected the held credential
	// (HTTP 401). The session has already been invalidated as a side effect:
	// credential and cached profile are cleared from memory and durable
	// storage, and an event was published on the session's invalidation
	// channel.
	KindAuthExpired Kind = "auth_expired"

	// KindForbidden indicates the authenticated identity lacks permission
	// for the requested resource (HTTP 403).
	KindForbidden Kind = "forbidden"

	// KindNotFound indicates the requested resource does not exist (HTTP 404).
	KindNotFound Kind = "not_found"

	// KindServerError indicates a server-side failure (HTTP 500 and above).
	// Transient; the caller may retry.
	KindServerError Kind = "server_error"

	// KindRequestError indicates any other HTTP error status. The server's
	// detail message, when present, is carried in [APIError.Detail].
	KindRequestError Kind = "request_error"

	// KindNetworkError indicates the request was sent but no response was
	// ever received (connection refused, DNS failure, timeout).
	KindNetworkError Kind = "network_error"

	// KindConfigError indicates the request could not be constructed at all
	// (bad URL, unmarshalable body).
	KindConfigError Kind = "config_error"
)

// String returns the string representation of the kind.
// This implements the fmt.Stringer interface.
func (k Kind) String() string {
	return string(k)
}

// APIError is the classified form of every failure produced by the request
// pipeline.
//
// APIError wraps the underlying cause (transport error, or a synthetic error
// for HTTP statuses) and adds the classification [Kind], the HTTP status
// code when a response was received, and the server-supplied detail message
// when one was present in the response body.
type APIError struct {
	// Kind is the failure classification.
	Kind Kind

	// StatusCode is the HTTP status code of the response.
	// Zero if no response was received.
	StatusCode int

	// Detail is the server-supplied detail message, if any.
	Detail string

	// err is the underlying cause, available via Unwrap.
	err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch {
	case e.Detail != "" && e.StatusCode != 0:
		return fmt.Sprintf("%s (HTTP %d): %s", e.Kind, e.StatusCode, e.Detail)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s (HTTP %d)", e.Kind, e.StatusCode)
	case e.err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.err)
	default:
		return string(e.Kind)
	}
}

// Unwrap returns the underlying cause, allowing errors.Is and errors.As
// to see through the classification.
func (e *APIError) Unwrap() error {
	return e.err
}

// KindOf returns the [Kind] carried by err, or the empty string if err was
// not produced by the pipeline.
//
// Example:
//
//	if chatwire.KindOf(err) == chatwire.KindServerError {
//	    // transient, retry later
//	}
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsAuthExpired reports whether err represents an observed authentication
// expiry. When true, the session has already been invalidated.
func IsAuthExpired(err error) bool {
	return KindOf(err) == KindAuthExpired
}

// ErrPollTimeout is returned by [Client.WaitForTask] when the polling
// attempt budget is exhausted before the task reaches a terminal status.
var ErrPollTimeout = errors.New("chatwire: polling attempt budget exhausted")

// TaskFailedError is returned by [Client.WaitForTask] when the task reached
// the terminal failed status. The final task snapshot, including the
// server's error message, is available on the Task field.
type TaskFailedError struct {
	// Task is the final observed snapshot, with Status == TaskFailed.
	Task Task
}

// Error implements the error interface.
func (e *TaskFailedError) Error() string {
	if e.Task.ErrorMessage != "" {
		return fmt.Sprintf("task %s failed: %s", e.Task.TaskID, e.Task.ErrorMessage)
	}
	return fmt.Sprintf("task %s failed", e.Task.TaskID)
}
