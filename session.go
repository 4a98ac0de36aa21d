package chatwire

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Durable storage keys. The credential is stored raw; the profile is stored
// as JSON.
const (
	storageKeyToken   = "token"
	storageKeyProfile = "userInfo"
)

// invalidationBuffer is the per-subscriber channel buffer for invalidation
// events. Events are rare; sends to a full buffer are dropped.
const invalidationBuffer = 4

// InvalidationEvent is published on the session's subscription channels
// when the held credential is observed to be expired (HTTP 401) or is
// explicitly logged out.
//
// By the time a subscriber receives the event, the credential and cached
// profile have already been cleared from memory and durable storage. The
// navigation concern (for example redirecting to a login surface) belongs
// to the subscriber, not to the SDK.
type InvalidationEvent struct {
	// Reason is "expired" for observed auth expiry, "logout" for an
	// explicit logout.
	Reason string

	// Detail is the server-supplied detail message, when one was present.
	Detail string

	// At is when the invalidation was performed.
	At time.Time
}

// Session owns the single live bearer credential and the cached profile.
//
// Exactly one credential is live per Session: created by [Client.Login],
// restored from durable storage at construction, destroyed by
// [Session.Logout] or by any observed authentication expiry. Attaching the
// credential to outbound requests is the pipeline's responsibility, never
// the caller's; components that need to know about credential loss
// subscribe via [Session.Subscribe].
//
// All methods are safe for concurrent use. Reads observe the latest
// committed credential; writes are single-value replacements.
type Session struct {
	mu      sync.RWMutex
	token   string
	profile *Profile

	store  Storage
	logger *slog.Logger

	subMu       sync.RWMutex
	subscribers map[chan InvalidationEvent]struct{}
}

func newSession(store Storage, logger *slog.Logger) *Session {
	return &Session{
		store:       store,
		logger:      logger,
		subscribers: make(map[chan InvalidationEvent]struct{}),
	}
}

// restore loads the credential and cached profile from durable storage.
//
// A missing credential leaves the session anonymous. A malformed stored
// profile is discarded silently (logged only) without aborting restoration
// of the credential: profile data is best-effort and re-derivable.
func (s *Session) restore() {
	token, err := s.store.Get(storageKeyToken)
	if err == nil && token != "" {
		s.mu.Lock()
		s.token = token
		s.mu.Unlock()
	}

	raw, err := s.store.Get(storageKeyProfile)
	if err != nil || raw == "" {
		return
	}
	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		s.logger.Warn("discarding malformed stored profile", "error", err)
		return
	}
	s.mu.Lock()
	s.profile = &p
	s.mu.Unlock()
}

// Token returns the live bearer credential, or the empty string when the
// session is anonymous.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a credential is currently live.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Profile returns the cached profile of the authenticated identity.
// The second return value is false when no profile has been cached.
func (s *Session) Profile() (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.profile == nil {
		return Profile{}, false
	}
	return *s.profile, true
}

// TokenExpiry returns the expiry carried inside the credential, when the
// credential is a JWT with an exp claim. The claim is read without
// signature verification: the client has no verification key, and the
// server remains the authority on token validity.
//
// The second return value is false when no credential is held or the
// expiry cannot be determined.
func (s *Session) TokenExpiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether the held credential carries an expiry that has
// already passed. A credential with no readable expiry is never reported
// as expired; the server's 401 is the authoritative signal either way.
func (s *Session) Expired() bool {
	exp, ok := s.TokenExpiry()
	return ok && time.Now().After(exp)
}

// Logout clears the credential and cached profile from memory and durable
// storage and publishes an invalidation event with reason "logout".
// Idempotent: safe to call when already logged out.
func (s *Session) Logout() {
	s.invalidate(InvalidationEvent{Reason: "logout", At: time.Now()})
}

// Subscribe returns a channel that receives an [InvalidationEvent] whenever
// the session is invalidated (observed auth expiry or explicit logout).
//
// The channel is buffered; events sent while the buffer is full are dropped
// for that subscriber. Caller must call [Session.Unsubscribe] when done to
// prevent resource leaks.
func (s *Session) Subscribe() <-chan InvalidationEvent {
	ch := make(chan InvalidationEvent, invalidationBuffer)

	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	s.subMu.Unlock()

	return ch
}

// Unsubscribe removes a subscription and closes its channel. Safe to call
// multiple times or with an unknown channel.
func (s *Session) Unsubscribe(ch <-chan InvalidationEvent) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for subCh := range s.subscribers {
		if subCh == ch {
			delete(s.subscribers, subCh)
			close(subCh)
			break
		}
	}
}

// setCredential installs a new live credential in memory and durable
// storage. Storage failures are logged but do not fail the login: the
// in-memory credential is authoritative for the life of the process.
func (s *Session) setCredential(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if err := s.store.Set(storageKeyToken, token); err != nil {
		s.logger.Warn("failed to persist credential", "error", err)
	}
}

// setProfile caches a freshly fetched profile in memory and durable storage.
func (s *Session) setProfile(p Profile) {
	s.mu.Lock()
	s.profile = &p
	s.mu.Unlock()

	raw, err := json.Marshal(p)
	if err != nil {
		s.logger.Warn("failed to serialize profile", "error", err)
		return
	}
	if err := s.store.Set(storageKeyProfile, string(raw)); err != nil {
		s.logger.Warn("failed to persist profile", "error", err)
	}
}

// invalidate clears all session state and publishes the event. Clearing is
// idempotent; each call publishes its own event, so two requests that each
// observe a 401 produce two events and subscribers must tolerate that.
func (s *Session) invalidate(ev InvalidationEvent) {
	s.mu.Lock()
	s.token = ""
	s.profile = nil
	s.mu.Unlock()

	if err := s.store.Delete(storageKeyToken); err != nil {
		s.logger.Warn("failed to clear stored credential", "error", err)
	}
	if err := s.store.Delete(storageKeyProfile); err != nil {
		s.logger.Warn("failed to clear stored profile", "error", err)
	}

	s.subMu.RLock()
	defer s.subMu.RUnlock()
	for ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			// subscriber is slow, drop the event
		}
	}
}
