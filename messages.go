package chatwire

import (
	"context"
	"fmt"
	"time"
)

// SendMessage submits a message to a conversation.
//
// The backend acknowledges with HTTP 202 and a task identifier; the message
// is processed asynchronously. Track the returned task with
// [Client.WaitForTask], or construct a custom session with [Poll] and
// [Client.GetTask].
//
// The acknowledgment is recorded in the client's task tracker so the task
// shows up in [Client.TaskSnapshots] as soon as it is submitted.
func (c *Client) SendMessage(ctx context.Context, conversationID int64, msg MessageCreate) (TaskAck, error) {
	if msg.Role == "" {
		msg.Role = RoleUser
	}

	var ack TaskAck
	path := fmt.Sprintf("/conversations/%d/messages", conversationID)
	if err := c.pipeline.postJSON(ctx, path, msg, &ack); err != nil {
		return TaskAck{}, err
	}

	c.recordTask(TaskSnapshot{
		TaskID:     ack.TaskID,
		Status:     TaskStatus(ack.Status),
		ObservedAt: time.Now(),
	})
	return ack, nil
}
