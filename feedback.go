package chatwire

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// FeedbackListParams filters and paginates feedback listings.
// Zero values are omitted from the request.
type FeedbackListParams struct {
	Skip  int
	Limit int

	// The remaining fields are honored by admin listings only.
	Search       string
	UserID       int64
	FeedbackType FeedbackType
	Status       FeedbackStatus
}

func (p FeedbackListParams) query() url.Values {
	q := url.Values{}
	if p.Skip > 0 {
		q.Set("skip", strconv.Itoa(p.Skip))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.UserID != 0 {
		q.Set("user_id", strconv.FormatInt(p.UserID, 10))
	}
	if p.FeedbackType != "" {
		q.Set("feedback_type", string(p.FeedbackType))
	}
	if p.Status != "" {
		q.Set("status", string(p.Status))
	}
	return q
}

// CreateFeedback submits a piece of user feedback.
func (c *Client) CreateFeedback(ctx context.Context, fb FeedbackCreate) (Feedback, error) {
	var out Feedback
	if err := c.pipeline.postJSON(ctx, "/feedback", fb, &out); err != nil {
		return Feedback{}, err
	}
	return out, nil
}

// ListFeedback returns the authenticated user's feedback entries.
func (c *Client) ListFeedback(ctx context.Context, params FeedbackListParams) (FeedbackList, error) {
	var out FeedbackList
	if err := c.pipeline.getJSON(ctx, "/feedback", params.query(), &out); err != nil {
		return FeedbackList{}, err
	}
	return out, nil
}

// GetFeedback returns one of the authenticated user's feedback entries.
func (c *Client) GetFeedback(ctx context.Context, id int64) (Feedback, error) {
	var out Feedback
	if err := c.pipeline.getJSON(ctx, fmt.Sprintf("/feedback/%d", id), nil, &out); err != nil {
		return Feedback{}, err
	}
	return out, nil
}

// AdminListFeedback lists feedback across all users. Requires an
// administrator credential; ordinary users receive [KindForbidden].
func (c *Client) AdminListFeedback(ctx context.Context, params FeedbackListParams) (FeedbackList, error) {
	var out FeedbackList
	if err := c.pipeline.getJSON(ctx, "/admin/feedback", params.query(), &out); err != nil {
		return FeedbackList{}, err
	}
	return out, nil
}

// AdminGetFeedback returns any user's feedback entry. Requires an
// administrator credential.
func (c *Client) AdminGetFeedback(ctx context.Context, id int64) (Feedback, error) {
	var out Feedback
	if err := c.pipeline.getJSON(ctx, fmt.Sprintf("/admin/feedback/%d", id), nil, &out); err != nil {
		return Feedback{}, err
	}
	return out, nil
}

// AdminUpdateFeedback updates the handling state of a feedback entry.
// Requires an administrator credential.
func (c *Client) AdminUpdateFeedback(ctx context.Context, id int64, patch FeedbackUpdate) (Feedback, error) {
	var out Feedback
	if err := c.pipeline.patchJSON(ctx, fmt.Sprintf("/admin/feedback/%d", id), patch, &out); err != nil {
		return Feedback{}, err
	}
	return out, nil
}

// AdminFeedbackStats returns aggregate feedback statistics. Requires an
// administrator credential.
func (c *Client) AdminFeedbackStats(ctx context.Context) (FeedbackStats, error) {
	var out FeedbackStats
	if err := c.pipeline.getJSON(ctx, "/admin/feedback/stats", nil, &out); err != nil {
		return FeedbackStats{}, err
	}
	return out, nil
}
