package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// mockTask tracks a submitted task and when it should finish.
type mockTask struct {
	id       string
	finishAt time.Time
}

// StartMockChatServer runs a mock chat backend: login issues a static bearer
// token, messages are acknowledged with a task id, and tasks complete about
// two seconds after submission.
// Call this in a goroutine before creating the chatwire client.
func StartMockChatServer(addr string) {
	var (
		tasks  = make(map[string]*mockTask)
		nextID int
		mu     sync.Mutex
	)

	// unsigned demo JWT with a far-future expiry
	const token = "eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0." +
		"eyJzdWIiOiJkZW1vIiwiZXhwIjo0MTAyNDQ0ODAwfQ."

	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("failed to write response", "error", err)
		}
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"access_token": token,
			"token_type":   "bearer",
		})
	})

	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"id":       1,
			"username": "demo",
			"email":    "demo@example.com",
		})
	})

	mux.HandleFunc("/conversations", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"id":    1,
			"title": "demo conversation",
		})
	})

	mux.HandleFunc("/conversations/1/messages", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		nextID++
		id := fmt.Sprintf("task-%d", nextID)
		tasks[id] = &mockTask{id: id, finishAt: time.Now().Add(2 * time.Second)}
		mu.Unlock()

		writeJSON(w, http.StatusAccepted, map[string]string{
			"task_id": id,
			"status":  "pending",
			"message": "message accepted",
		})
	})

	mux.HandleFunc("/tasks/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/tasks/")

		mu.Lock()
		task, exists := tasks[id]
		mu.Unlock()
		if !exists {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "task not found"})
			return
		}

		status := "processing"
		result := ""
		if time.Now().After(task.finishAt) {
			status = "completed"
			result = "42"
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"id":      1,
			"task_id": task.id,
			"status":  status,
			"result":  result,
		})
	})

	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("mock server error", "error", err)
	}
}
