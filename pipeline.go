package chatwire

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxResponseBodySize caps how much of a response body is read into memory.
// Recognition results can be sizeable, but nothing the backend returns
// should approach this.
const maxResponseBodySize = 8 << 20 // 8MB

// connection pooling limits to prevent resource exhaustion when many poll
// sessions share one client
const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultMaxConnsPerHost     = 10
	defaultIdleConnTimeout     = 60 * time.Second
)

// User-visible notices, one per failure kind.
const (
	noticeAuthExpired  = "session expired, please log in again"
	noticeForbidden    = "permission denied"
	noticeNotFound     = "resource not found"
	noticeServerError  = "server error, please try again later"
	noticeRequestError = "request failed"
	noticeNetworkError = "network error, please check your connection"
	noticeConfigError  = "invalid request configuration"
)

// pipeline is the single choke point for every outbound call.
//
// It attaches the bearer credential when one is live, executes the request,
// unwraps successful JSON bodies, and classifies every failure into a [Kind]
// with exactly one user-visible notification. An observed HTTP 401
// additionally invalidates the session before the error is returned.
type pipeline struct {
	baseURL  string
	http     *http.Client
	session  *Session
	notifier Notifier
	logger   *slog.Logger
}

func newPipeline(baseURL string, httpClient *http.Client, session *Session, notifier Notifier, logger *slog.Logger) *pipeline {
	if httpClient.Transport == nil {
		httpClient.Transport = &http.Transport{
			MaxIdleConns:        defaultMaxIdleConns,
			MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
			MaxConnsPerHost:     defaultMaxConnsPerHost,
			IdleConnTimeout:     defaultIdleConnTimeout,
		}
	}
	return &pipeline{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     httpClient,
		session:  session,
		notifier: notifier,
		logger:   logger,
	}
}

// getJSON performs a GET and decodes the response body into out.
func (p *pipeline) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return p.do(ctx, http.MethodGet, path, query, nil, "", out)
}

// postJSON performs a POST with a JSON body and decodes the response into out.
// A nil body sends no payload.
func (p *pipeline) postJSON(ctx context.Context, path string, body, out any) error {
	reader, err := encodeJSON(body)
	if err != nil {
		return p.fail(path, &APIError{Kind: KindConfigError, err: err}, noticeConfigError)
	}
	return p.do(ctx, http.MethodPost, path, nil, reader, "application/json", out)
}

// postForm performs a POST with a form-encoded body and decodes the
// response into out. The authentication endpoint requires this encoding.
func (p *pipeline) postForm(ctx context.Context, path string, form url.Values, out any) error {
	body := strings.NewReader(form.Encode())
	return p.do(ctx, http.MethodPost, path, nil, body, "application/x-www-form-urlencoded", out)
}

// patchJSON performs a PATCH with a JSON body and decodes the response into out.
func (p *pipeline) patchJSON(ctx context.Context, path string, body, out any) error {
	reader, err := encodeJSON(body)
	if err != nil {
		return p.fail(path, &APIError{Kind: KindConfigError, err: err}, noticeConfigError)
	}
	return p.do(ctx, http.MethodPatch, path, nil, reader, "application/json", out)
}

// delete performs a DELETE, discarding any response body.
func (p *pipeline) delete(ctx context.Context, path string) error {
	return p.do(ctx, http.MethodDelete, path, nil, nil, "", nil)
}

// postMultipart performs a POST with a multipart body assembled by build
// and decodes the response into out.
func (p *pipeline) postMultipart(ctx context.Context, path string, build func(*multipart.Writer) error, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := build(mw); err != nil {
		return p.fail(path, &APIError{Kind: KindConfigError, err: err}, noticeConfigError)
	}
	if err := mw.Close(); err != nil {
		return p.fail(path, &APIError{Kind: KindConfigError, err: err}, noticeConfigError)
	}
	return p.do(ctx, http.MethodPost, path, nil, &buf, mw.FormDataContentType(), out)
}

// download performs a GET and streams the raw response body to w.
// Failures are classified exactly like every other call.
func (p *pipeline) download(ctx context.Context, path string, w io.Writer) error {
	req, err := p.newRequest(ctx, http.MethodGet, path, nil, nil, "")
	if err != nil {
		return p.fail(path, &APIError{Kind: KindConfigError, err: err}, noticeConfigError)
	}

	resp, err := p.http.Do(req)
	if err != nil {
		return p.fail(path, &APIError{Kind: KindNetworkError, err: err}, noticeNetworkError)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
		return p.classify(path, resp.StatusCode, body)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return p.fail(path, &APIError{Kind: KindNetworkError, StatusCode: resp.StatusCode, err: err}, noticeNetworkError)
	}
	return nil
}

// do executes one request end to end: build, send, classify, unwrap.
func (p *pipeline) do(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	req, err := p.newRequest(ctx, method, path, query, body, contentType)
	if err != nil {
		return p.fail(path, &APIError{Kind: KindConfigError, err: err}, noticeConfigError)
	}

	start := time.Now()
	resp, err := p.http.Do(req)
	if err != nil {
		return p.fail(path, &APIError{Kind: KindNetworkError, err: err}, noticeNetworkError)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return p.fail(path, &APIError{Kind: KindNetworkError, StatusCode: resp.StatusCode, err: err}, noticeNetworkError)
	}

	p.logger.Debug("request completed",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
		"request_id", req.Header.Get("X-Request-ID"),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		return p.classify(path, resp.StatusCode, raw)
	}

	// callers see only the payload, never the transport envelope
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		apiErr := &APIError{
			Kind:       KindRequestError,
			StatusCode: resp.StatusCode,
			err:        fmt.Errorf("failed to decode response body: %w", err),
		}
		return p.fail(path, apiErr, noticeRequestError)
	}
	return nil
}

// newRequest builds a request with the base URL, query string, bearer
// credential, and a correlation ID attached.
func (p *pipeline) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Request, error) {
	target := p.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())

	// attaching the credential is the pipeline's job, never the caller's
	if token := p.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// classify maps an HTTP error status to its [Kind], applies the 401 side
// effect, and surfaces the failure.
func (p *pipeline) classify(path string, status int, body []byte) error {
	detail := extractDetail(body)

	switch {
	case status == http.StatusUnauthorized:
		p.session.invalidate(InvalidationEvent{Reason: "expired", Detail: detail, At: time.Now()})
		return p.fail(path, &APIError{Kind: KindAuthExpired, StatusCode: status, Detail: detail}, noticeAuthExpired)
	case status == http.StatusForbidden:
		return p.fail(path, &APIError{Kind: KindForbidden, StatusCode: status, Detail: detail}, noticeForbidden)
	case status == http.StatusNotFound:
		return p.fail(path, &APIError{Kind: KindNotFound, StatusCode: status, Detail: detail}, noticeNotFound)
	case status >= http.StatusInternalServerError:
		return p.fail(path, &APIError{Kind: KindServerError, StatusCode: status, Detail: detail}, noticeServerError)
	default:
		notice := noticeRequestError
		if detail != "" {
			notice = detail
		}
		return p.fail(path, &APIError{Kind: KindRequestError, StatusCode: status, Detail: detail}, notice)
	}
}

// fail notifies the user exactly once, logs the failure, and returns the
// classified error to the caller. The pipeline never swallows an error; it
// enriches and forwards.
func (p *pipeline) fail(path string, apiErr *APIError, notice string) error {
	p.notifier.Error(notice)
	p.logger.Debug("request failed",
		"path", path,
		"kind", apiErr.Kind.String(),
		"status", apiErr.StatusCode,
		"error", apiErr.Error(),
	)
	return apiErr
}

// extractDetail pulls the server's detail message out of an error body.
// Bodies that are not JSON, or whose detail is not a plain string (for
// example validation error arrays), yield an empty detail.
func extractDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var envelope struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.Detail
}

// encodeJSON marshals v into a reader, or returns nil for a nil payload.
func encodeJSON(v any) (io.Reader, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	return bytes.NewReader(data), nil
}
