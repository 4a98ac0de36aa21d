package chatwire

import (
	"context"
	"time"
)

// GetTask fetches the current status snapshot of a task. This is the
// canonical fetch target for the polling engine.
func (c *Client) GetTask(ctx context.Context, taskID string) (Task, error) {
	var t Task
	if err := c.pipeline.getJSON(ctx, "/tasks/"+taskID, nil, &t); err != nil {
		return Task{}, err
	}
	return t, nil
}

// WaitForTask polls a task until it reaches a terminal status and returns
// the final snapshot.
//
// The session uses the client's polling defaults (see [WithPollInterval]
// and [WithPollMaxAttempts]); callers can override them per call:
//
//	task, err := client.WaitForTask(ctx, ack.TaskID,
//	    chatwire.WithInterval[chatwire.Task](2*time.Second),
//	    chatwire.WithMaxAttempts[chatwire.Task](120),
//	)
//
// Every observed snapshot is recorded in the client's task tracker, so
// progress is visible through [Client.WatchTasks] while WaitForTask blocks.
//
// Outcomes map to errors as follows: a task ending in the failed status
// returns the final snapshot together with a [*TaskFailedError]; an
// exhausted attempt budget returns [ErrPollTimeout]; a fetch failure
// returns the classified pipeline error. Cancelling ctx stops the session
// and returns ctx.Err().
func (c *Client) WaitForTask(ctx context.Context, taskID string, opts ...PollOption[Task]) (Task, error) {
	pollOpts := []PollOption[Task]{
		WithInterval[Task](c.pollInterval),
		WithMaxAttempts[Task](c.pollMaxAttempts),
		WithPollLogger[Task](c.logger),
	}
	pollOpts = append(pollOpts, opts...)

	// recording happens in the fetch itself so a caller-supplied observer
	// does not displace the tracker
	h, err := Poll(ctx, func(ctx context.Context) (Task, error) {
		t, err := c.GetTask(ctx, taskID)
		if err != nil {
			return Task{}, err
		}
		c.recordTask(TaskSnapshot{
			TaskID:       t.TaskID,
			Status:       t.Status,
			Result:       t.Result,
			ErrorMessage: t.ErrorMessage,
			ObservedAt:   time.Now(),
		})
		return t, nil
	}, pollOpts...)
	if err != nil {
		return Task{}, err
	}

	out, err := h.Wait(ctx)
	if err != nil {
		// the session itself was cancelled; report the caller's reason
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Task{}, ctxErr
		}
		return Task{}, err
	}

	switch out.Kind {
	case OutcomeCompleted:
		if out.Data.Status == TaskFailed {
			return out.Data, &TaskFailedError{Task: out.Data}
		}
		return out.Data, nil
	case OutcomeTimedOut:
		return Task{}, ErrPollTimeout
	default:
		return Task{}, out.Err
	}
}
