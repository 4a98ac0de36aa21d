package chatwire

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// recordingNotifier captures notices for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *recordingNotifier) errorCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.errors)
}

func (n *recordingNotifier) lastError() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.errors) == 0 {
		return ""
	}
	return n.errors[len(n.errors)-1]
}

// newTestClient builds a client against the given handler with a memory
// store and a recording notifier. The server is torn down with the test.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *recordingNotifier) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	notifier := &recordingNotifier{}
	client, err := New(server.URL,
		WithNotifier(notifier),
		WithLogger(testLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return client, notifier
}

// TestPipeline_AttachesBearer verifies that a live credential is attached to
// every request and absent when no credential is held.
func TestPipeline_AttachesBearer(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))

	// no credential held: no Authorization header
	if _, err := client.ListConversations(context.Background()); err != nil {
		t.Fatalf("ListConversations() error = %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q before login, want empty", gotAuth)
	}

	client.Session().setCredential("credential-abc")
	if _, err := client.ListConversations(context.Background()); err != nil {
		t.Fatalf("ListConversations() error = %v", err)
	}
	if gotAuth != "Bearer credential-abc" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer credential-abc")
	}
}

// TestPipeline_CorrelationID verifies every request carries a request id.
func TestPipeline_CorrelationID(t *testing.T) {
	var gotID string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-ID")
		w.Write([]byte(`[]`))
	}))

	if _, err := client.ListConversations(context.Background()); err != nil {
		t.Fatalf("ListConversations() error = %v", err)
	}
	if gotID == "" {
		t.Error("X-Request-ID header missing")
	}
}

// TestPipeline_UnwrapsBody verifies that callers receive the decoded payload
// rather than raw transport details.
func TestPipeline_UnwrapsBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 7, "title": "standup notes"}`))
	}))

	conv, err := client.GetConversation(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetConversation() error = %v", err)
	}
	if conv.ID != 7 || conv.Title != "standup notes" {
		t.Errorf("GetConversation() = %+v, want id 7 title %q", conv, "standup notes")
	}
}

// TestPipeline_Classification verifies the status to kind mapping and that
// each failure produces exactly one notification.
func TestPipeline_Classification(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   Kind
		wantNotice string
	}{
		{"unauthorized", 401, `{"detail": "token expired"}`, KindAuthExpired, "session expired, please log in again"},
		{"forbidden", 403, `{"detail": "admin only"}`, KindForbidden, "permission denied"},
		{"not found", 404, `{"detail": "no such conversation"}`, KindNotFound, "resource not found"},
		{"server error", 500, `{"detail": "boom"}`, KindServerError, "server error, please try again later"},
		{"bad gateway", 502, ``, KindServerError, "server error, please try again later"},
		{"validation error with detail", 422, `{"detail": "title must not be empty"}`, KindRequestError, "title must not be empty"},
		{"client error without detail", 400, ``, KindRequestError, "request failed"},
		{"client error with non-string detail", 422, `{"detail": [{"loc": ["title"]}]}`, KindRequestError, "request failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, notifier := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))

			_, err := client.ListConversations(context.Background())
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if got := KindOf(err); got != tt.wantKind {
				t.Errorf("KindOf(err) = %v, want %v", got, tt.wantKind)
			}

			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error %T does not unwrap to *APIError", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, tt.status)
			}

			if notifier.errorCount() != 1 {
				t.Errorf("notifications = %d, want exactly 1", notifier.errorCount())
			}
			if got := notifier.lastError(); got != tt.wantNotice {
				t.Errorf("notice = %q, want %q", got, tt.wantNotice)
			}
		})
	}
}

// TestPipeline_NetworkError verifies that a connection failure is classified
// as a network error with a single notification.
func TestPipeline_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close() // nothing is listening any more

	notifier := &recordingNotifier{}
	client, err := New(url,
		WithNotifier(notifier),
		WithLogger(testLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = client.ListConversations(context.Background())
	if KindOf(err) != KindNetworkError {
		t.Errorf("KindOf(err) = %v, want %v", KindOf(err), KindNetworkError)
	}
	if notifier.errorCount() != 1 {
		t.Errorf("notifications = %d, want exactly 1", notifier.errorCount())
	}
}

// TestPipeline_MalformedSuccessBody verifies that an undecodable success
// body surfaces as a request error rather than a silent zero value.
func TestPipeline_MalformedSuccessBody(t *testing.T) {
	client, notifier := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "not a number"`))
	}))

	_, err := client.GetConversation(context.Background(), 1)
	if KindOf(err) != KindRequestError {
		t.Errorf("KindOf(err) = %v, want %v", KindOf(err), KindRequestError)
	}
	if notifier.errorCount() != 1 {
		t.Errorf("notifications = %d, want exactly 1", notifier.errorCount())
	}
}

// TestPipeline_UnauthorizedInvalidatesSession verifies the 401 side effect:
// credential and profile are cleared everywhere and exactly one invalidation
// event reaches subscribers.
func TestPipeline_UnauthorizedInvalidatesSession(t *testing.T) {
	client, notifier := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "token expired"}`))
	}))

	session := client.Session()
	session.setCredential("stale-credential")
	session.setProfile(Profile{ID: 1, Username: "alice"})

	events := session.Subscribe()
	defer session.Unsubscribe(events)

	_, err := client.ListConversations(context.Background())
	if !IsAuthExpired(err) {
		t.Fatalf("IsAuthExpired(err) = false for %v", err)
	}

	if session.Authenticated() {
		t.Error("Authenticated() = true after 401")
	}
	if _, ok := session.Profile(); ok {
		t.Error("Profile() still cached after 401")
	}

	select {
	case ev := <-events:
		if ev.Reason != "expired" {
			t.Errorf("event reason = %q, want %q", ev.Reason, "expired")
		}
	case <-time.After(time.Second):
		t.Fatal("no invalidation event published")
	}
	select {
	case ev := <-events:
		t.Fatalf("second invalidation event published: %+v", ev)
	default:
	}

	if notifier.errorCount() != 1 {
		t.Errorf("notifications = %d, want exactly 1", notifier.errorCount())
	}
}

// TestPipeline_DeleteDiscardsBody verifies DELETE succeeds without decoding
// a response payload.
func TestPipeline_DeleteDiscardsBody(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s, want DELETE", r.Method)
		}
		w.Write([]byte(`{"message": "attachment deleted"}`))
	}))

	if err := client.DeleteAttachment(context.Background(), 5); err != nil {
		t.Fatalf("DeleteAttachment() error = %v", err)
	}
}
