package chatwire

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

// taskHandler serves a task that walks through the given statuses, one per
// fetch.
func taskHandler(calls *atomic.Int32, statuses ...map[string]any) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/tasks/task-1", func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		idx := int(n) - 1
		if idx >= len(statuses) {
			idx = len(statuses) - 1
		}
		json.NewEncoder(w).Encode(statuses[idx])
	})
	return mux
}

// TestGetTask verifies the single-shot status fetch.
func TestGetTask(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, taskHandler(&calls,
		map[string]any{"id": 1, "task_id": "task-1", "status": "processing"},
	))

	task, err := client.GetTask(context.Background(), "task-1")
	if err != nil {
		t.Fatalf("GetTask() error = %v", err)
	}
	if task.TaskID != "task-1" || task.Status != TaskProcessing {
		t.Errorf("GetTask() = %+v, want task-1 processing", task)
	}
}

// TestWaitForTask_Completes verifies polling to completion and that every
// observed snapshot lands in the task tracker.
func TestWaitForTask_Completes(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, taskHandler(&calls,
		map[string]any{"task_id": "task-1", "status": "pending"},
		map[string]any{"task_id": "task-1", "status": "processing"},
		map[string]any{"task_id": "task-1", "status": "completed", "result": "42"},
	))

	task, err := client.WaitForTask(context.Background(), "task-1",
		WithInterval[Task](time.Millisecond),
	)
	if err != nil {
		t.Fatalf("WaitForTask() error = %v", err)
	}
	if task.Result != "42" {
		t.Errorf("Result = %q, want %q", task.Result, "42")
	}
	if calls.Load() != 3 {
		t.Errorf("status fetches = %d, want 3", calls.Load())
	}

	snap, ok := client.TaskSnapshot("task-1")
	if !ok {
		t.Fatal("task missing from tracker after WaitForTask")
	}
	if snap.Status != TaskCompleted {
		t.Errorf("tracked Status = %v, want %v", snap.Status, TaskCompleted)
	}
}

// TestWaitForTask_Failed verifies a task ending in the failed status returns
// the snapshot alongside a TaskFailedError.
func TestWaitForTask_Failed(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, taskHandler(&calls,
		map[string]any{"task_id": "task-1", "status": "failed", "error_message": "model overloaded"},
	))

	task, err := client.WaitForTask(context.Background(), "task-1")
	var failed *TaskFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("WaitForTask() error = %v, want *TaskFailedError", err)
	}
	if failed.Task.ErrorMessage != "model overloaded" {
		t.Errorf("ErrorMessage = %q, want %q", failed.Task.ErrorMessage, "model overloaded")
	}
	// the final snapshot is returned even on failure
	if task.Status != TaskFailed {
		t.Errorf("returned Status = %v, want %v", task.Status, TaskFailed)
	}
}

// TestWaitForTask_Timeout verifies an exhausted attempt budget surfaces as
// ErrPollTimeout.
func TestWaitForTask_Timeout(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, taskHandler(&calls,
		map[string]any{"task_id": "task-1", "status": "processing"},
	))

	_, err := client.WaitForTask(context.Background(), "task-1",
		WithInterval[Task](time.Millisecond),
		WithMaxAttempts[Task](3),
	)
	if !errors.Is(err, ErrPollTimeout) {
		t.Fatalf("WaitForTask() error = %v, want ErrPollTimeout", err)
	}
	if calls.Load() != 3 {
		t.Errorf("status fetches = %d, want exactly 3", calls.Load())
	}
}

// TestWaitForTask_FetchError verifies a failing status fetch ends the wait
// immediately with the classified error.
func TestWaitForTask_FetchError(t *testing.T) {
	client, notifier := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "task not found"}`))
	}))

	_, err := client.WaitForTask(context.Background(), "task-1")
	if KindOf(err) != KindNotFound {
		t.Fatalf("KindOf(err) = %v, want %v", KindOf(err), KindNotFound)
	}
	if notifier.errorCount() != 1 {
		t.Errorf("notifications = %d, want 1 (no retry after fetch failure)", notifier.errorCount())
	}
}

// TestWaitForTask_ContextCancelled verifies cancellation surfaces the
// caller's context error.
func TestWaitForTask_ContextCancelled(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, taskHandler(&calls,
		map[string]any{"task_id": "task-1", "status": "processing"},
	))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := client.WaitForTask(ctx, "task-1",
		WithInterval[Task](time.Hour),
	)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("WaitForTask() error = %v, want context.Canceled", err)
	}
}

// TestSendMessage verifies submission returns the acknowledgment and seeds
// the task tracker.
func TestSendMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/conversations/3/messages", func(w http.ResponseWriter, r *http.Request) {
		var msg MessageCreate
		if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
			t.Errorf("decode message body: %v", err)
		}
		if msg.Role != RoleUser {
			t.Errorf("Role = %q, want default %q", msg.Role, RoleUser)
		}
		if msg.Content != "hello" {
			t.Errorf("Content = %q, want %q", msg.Content, "hello")
		}
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]string{
			"task_id": "task-9",
			"status":  "pending",
			"message": "message accepted",
		})
	})

	client, _ := newTestClient(t, mux)

	ack, err := client.SendMessage(context.Background(), 3, MessageCreate{Content: "hello"})
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if ack.TaskID != "task-9" {
		t.Errorf("TaskID = %q, want %q", ack.TaskID, "task-9")
	}

	snap, ok := client.TaskSnapshot("task-9")
	if !ok {
		t.Fatal("submitted task missing from tracker")
	}
	if snap.Status != TaskPending {
		t.Errorf("tracked Status = %v, want %v", snap.Status, TaskPending)
	}
}
