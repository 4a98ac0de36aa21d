// Package taskstore provides in-memory bookkeeping of the task snapshots
// observed while polling, with a pub/sub mechanism so an embedding UI can
// render task progress without driving the polling itself.
package taskstore

import "time"

// Snapshot is the storage representation of an observed task status.
//
// Snapshot is decoupled from the SDK's public task type so the two can
// evolve independently; it is optimized for JSON serialization.
type Snapshot struct {
	// TaskID is the server-assigned task identifier.
	TaskID string `json:"task_id"`

	// Status is the task lifecycle state at observation time.
	Status string `json:"status"`

	// Result is the task result, populated once the task completes.
	Result string `json:"result,omitempty"`

	// ErrorMessage is the failure detail, populated once the task fails.
	ErrorMessage string `json:"error_message,omitempty"`

	// ObservedAt is when this snapshot was fetched from the backend.
	ObservedAt time.Time `json:"observed_at"`
}

// Store defines the interface for recording and subscribing to task
// snapshots.
//
// Store implementations must be safe for concurrent access: multiple poll
// sessions may record snapshots concurrently.
type Store interface {
	// Update records a snapshot and notifies all subscribers.
	// Snapshots are keyed by TaskID; later observations replace earlier ones.
	Update(s Snapshot)

	// Get returns the latest snapshot for a task, if one was observed.
	Get(taskID string) (Snapshot, bool)

	// GetAll returns the latest snapshot of every observed task.
	// The returned slice is a copy; modifications do not affect the store.
	GetAll() []Snapshot

	// Subscribe returns a channel that receives every recorded snapshot.
	// The channel is buffered; slow consumers may miss updates.
	// Caller must call Unsubscribe when done to prevent resource leaks.
	Subscribe() <-chan Snapshot

	// Unsubscribe removes a subscription and closes its channel.
	// Safe to call with a channel that was already unsubscribed.
	Unsubscribe(ch <-chan Snapshot)
}
