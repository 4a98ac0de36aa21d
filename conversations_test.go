package chatwire

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

// TestListConversations verifies the listing decodes in order.
func TestListConversations(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/conversations", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 2, "title": "newest"},
			{"id": 1, "title": "oldest"},
		})
	})

	client, _ := newTestClient(t, mux)

	convs, err := client.ListConversations(context.Background())
	if err != nil {
		t.Fatalf("ListConversations() error = %v", err)
	}
	if len(convs) != 2 {
		t.Fatalf("len = %d, want 2", len(convs))
	}
	if convs[0].ID != 2 || convs[0].Title != "newest" {
		t.Errorf("convs[0] = %+v, want id 2 title newest", convs[0])
	}
}

// TestCreateConversation verifies the title is sent and the created
// conversation decoded.
func TestCreateConversation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/conversations", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		var req ConversationCreate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if req.Title != "planning" {
			t.Errorf("Title = %q, want %q", req.Title, "planning")
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": 9, "title": req.Title})
	})

	client, _ := newTestClient(t, mux)

	conv, err := client.CreateConversation(context.Background(), "planning")
	if err != nil {
		t.Fatalf("CreateConversation() error = %v", err)
	}
	if conv.ID != 9 {
		t.Errorf("ID = %d, want 9", conv.ID)
	}
}

// TestGetConversation verifies messages come back with the conversation.
func TestGetConversation(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/conversations/9", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"id":    9,
			"title": "planning",
			"messages": []map[string]any{
				{"id": 1, "role": "user", "content": "hello"},
				{"id": 2, "role": "assistant", "content": "hi there"},
			},
		})
	})

	client, _ := newTestClient(t, mux)

	conv, err := client.GetConversation(context.Background(), 9)
	if err != nil {
		t.Fatalf("GetConversation() error = %v", err)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(conv.Messages))
	}
	if conv.Messages[1].Role != RoleAssistant {
		t.Errorf("Messages[1].Role = %v, want %v", conv.Messages[1].Role, RoleAssistant)
	}
}
