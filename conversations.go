package chatwire

import (
	"context"
	"fmt"
)

// ListConversations returns all conversations owned by the authenticated
// user, most recent first.
func (c *Client) ListConversations(ctx context.Context) ([]Conversation, error) {
	var out []Conversation
	if err := c.pipeline.getJSON(ctx, "/conversations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateConversation creates a new conversation with the given title.
func (c *Client) CreateConversation(ctx context.Context, title string) (Conversation, error) {
	var out Conversation
	if err := c.pipeline.postJSON(ctx, "/conversations", ConversationCreate{Title: title}, &out); err != nil {
		return Conversation{}, err
	}
	return out, nil
}

// GetConversation returns one conversation including its messages.
func (c *Client) GetConversation(ctx context.Context, id int64) (Conversation, error) {
	var out Conversation
	if err := c.pipeline.getJSON(ctx, fmt.Sprintf("/conversations/%d", id), nil, &out); err != nil {
		return Conversation{}, err
	}
	return out, nil
}
