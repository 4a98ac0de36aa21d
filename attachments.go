package chatwire

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"strconv"
)

// UploadParams describes a file upload.
type UploadParams struct {
	// Filename is the name reported to the backend.
	Filename string

	// Content is the file contents. Read fully during upload.
	Content io.Reader

	// Description is optional free-form metadata.
	Description string

	// Tags is an optional comma-separated tag list.
	Tags string
}

// AttachmentListParams filters and paginates attachment listings.
// Zero values are omitted from the request.
type AttachmentListParams struct {
	Skip   int
	Limit  int
	Search string
	UserID int64

	// FileType and RecognitionStatus are honored by admin listings only.
	FileType          string
	RecognitionStatus string
}

func (p AttachmentListParams) query() url.Values {
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
	if p.FileType != "" {
		q.Set("file_type", p.FileType)
	}
	if p.RecognitionStatus != "" {
		q.Set("recognition_status", p.RecognitionStatus)
	}
	return q
}

// UploadAttachment uploads a file as a multipart form.
//
// The backend starts recognition asynchronously; the returned attachment
// carries the recognition status, which the caller can follow up on with
// [Client.GetAttachment] or by polling the associated task.
func (c *Client) UploadAttachment(ctx context.Context, params UploadParams) (Attachment, error) {
	var out Attachment
	err := c.pipeline.postMultipart(ctx, "/attachments/upload", func(mw *multipart.Writer) error {
		fw, err := mw.CreateFormFile("file", params.Filename)
		if err != nil {
			return err
		}
		if _, err := io.Copy(fw, params.Content); err != nil {
			return err
		}
		if params.Description != "" {
			if err := mw.WriteField("description", params.Description); err != nil {
				return err
			}
		}
		if params.Tags != "" {
			if err := mw.WriteField("tags", params.Tags); err != nil {
				return err
			}
		}
		return nil
	}, &out)
	if err != nil {
		return Attachment{}, err
	}
	return out, nil
}

// ListAttachments returns the authenticated user's attachments.
func (c *Client) ListAttachments(ctx context.Context, params AttachmentListParams) (AttachmentList, error) {
	var out AttachmentList
	if err := c.pipeline.getJSON(ctx, "/attachments", params.query(), &out); err != nil {
		return AttachmentList{}, err
	}
	return out, nil
}

// GetAttachment returns one attachment.
func (c *Client) GetAttachment(ctx context.Context, id int64) (Attachment, error) {
	var out Attachment
	if err := c.pipeline.getJSON(ctx, fmt.Sprintf("/attachments/%d", id), nil, &out); err != nil {
		return Attachment{}, err
	}
	return out, nil
}

// DownloadAttachment streams an attachment's raw contents to w.
func (c *Client) DownloadAttachment(ctx context.Context, id int64, w io.Writer) error {
	return c.pipeline.download(ctx, fmt.Sprintf("/attachments/%d/download", id), w)
}

// UpdateAttachment applies a partial metadata update to an attachment.
func (c *Client) UpdateAttachment(ctx context.Context, id int64, patch AttachmentUpdate) (Attachment, error) {
	var out Attachment
	if err := c.pipeline.patchJSON(ctx, fmt.Sprintf("/attachments/%d", id), patch, &out); err != nil {
		return Attachment{}, err
	}
	return out, nil
}

// DeleteAttachment removes an attachment.
func (c *Client) DeleteAttachment(ctx context.Context, id int64) error {
	return c.pipeline.delete(ctx, fmt.Sprintf("/attachments/%d", id))
}

// AdminListAttachments lists attachments across all users. Requires an
// administrator credential; ordinary users receive [KindForbidden].
func (c *Client) AdminListAttachments(ctx context.Context, params AttachmentListParams) (AttachmentList, error) {
	var out AttachmentList
	if err := c.pipeline.getJSON(ctx, "/admin/attachments", params.query(), &out); err != nil {
		return AttachmentList{}, err
	}
	return out, nil
}

// AdminGetAttachment returns any user's attachment. Requires an
// administrator credential.
func (c *Client) AdminGetAttachment(ctx context.Context, id int64) (Attachment, error) {
	var out Attachment
	if err := c.pipeline.getJSON(ctx, fmt.Sprintf("/admin/attachments/%d", id), nil, &out); err != nil {
		return Attachment{}, err
	}
	return out, nil
}

// AdminAttachmentStats returns aggregate attachment statistics. Requires an
// administrator credential.
func (c *Client) AdminAttachmentStats(ctx context.Context) (AttachmentStats, error) {
	var out AttachmentStats
	if err := c.pipeline.getJSON(ctx, "/admin/attachments/stats", nil, &out); err != nil {
		return AttachmentStats{}, err
	}
	return out, nil
}
