package chatwire

import (
	"context"
	"net/url"
)

// Login authenticates against the backend and installs the returned bearer
// credential as the session's single live credential, in memory and in
// durable storage.
//
// On success the profile is also refreshed; profile refresh is best-effort
// and its failure is logged, never surfaced. On failure the prior session
// state is left untouched and the classified error is returned; the user
// has already been notified by the pipeline.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var tok TokenResponse
	if err := c.pipeline.postForm(ctx, "/auth/login", form, &tok); err != nil {
		return err
	}

	c.session.setCredential(tok.AccessToken)
	if _, err := c.FetchProfile(ctx); err != nil {
		// Profile refresh is a non-critical follow-up; the credential is
		// already installed and the login still counts.
		c.logger.Warn("failed to fetch profile after login", "error", err)
	}
	c.notifier.Success("logged in")
	return nil
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new account and returns its profile.
//
// Registration does not log the new account in and never mutates the live
// credential; call [Client.Login] afterwards.
func (c *Client) Register(ctx context.Context, username, email, password string) (Profile, error) {
	var p Profile
	req := RegisterRequest{Username: username, Email: email, Password: password}
	if err := c.pipeline.postJSON(ctx, "/auth/register", req, &p); err != nil {
		return Profile{}, err
	}
	c.notifier.Success("registered, please log in")
	return p, nil
}

// FetchProfile refreshes the cached profile of the authenticated identity.
//
// On success the profile is cached in memory and durable storage. On
// failure the cached profile is left as-is. The pipeline's notification
// side effects still apply.
func (c *Client) FetchProfile(ctx context.Context) (Profile, error) {
	var p Profile
	if err := c.pipeline.getJSON(ctx, "/auth/me", nil, &p); err != nil {
		return Profile{}, err
	}
	c.session.setProfile(p)
	return p, nil
}

// Logout destroys the live credential and cached profile, in memory and in
// durable storage, and publishes an invalidation event. Idempotent.
func (c *Client) Logout() {
	c.session.Logout()
	c.notifier.Success("logged out")
}
