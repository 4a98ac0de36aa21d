package chatwire

import "time"

// Profile is the cached, denormalized view of the authenticated identity.
//
// A Profile is never authoritative: it is re-derivable from the backend at
// any time via [Client.FetchProfile]. The session caches the most recently
// fetched value in memory and in durable storage.
type Profile struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenResponse is the authentication endpoint's success payload.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Role identifies the author of a message.
type Role string

const (
	// RoleUser marks a message authored by the human user.
	RoleUser Role = "user"

	// RoleAssistant marks a message authored by the backend assistant.
	RoleAssistant Role = "assistant"
)

// Conversation is a thread of messages owned by one user.
type Conversation struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`

	// Messages is populated only when fetching a single conversation.
	Messages []Message `json:"messages,omitempty"`
}

// ConversationCreate is the payload for creating a conversation.
type ConversationCreate struct {
	Title string `json:"title"`
}

// Message is a single entry in a conversation.
type Message struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversation_id"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// MessageCreate is the payload for submitting a message.
type MessageCreate struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// TaskStatus is the lifecycle state of a server-side work unit.
type TaskStatus string

const (
	// TaskPending means the work has been accepted but not started.
	TaskPending TaskStatus = "pending"

	// TaskProcessing means the work is in progress.
	TaskProcessing TaskStatus = "processing"

	// TaskCompleted means the work finished successfully. Terminal.
	TaskCompleted TaskStatus = "completed"

	// TaskFailed means the work finished unsuccessfully. Terminal.
	TaskFailed TaskStatus = "failed"
)

// Terminal reports whether the status is one the backend will never move
// away from.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

// TaskAck is the immediate acknowledgment returned when work is submitted.
// The backend performs the actual work asynchronously; track it to
// completion with [Client.WaitForTask].
type TaskAck struct {
	TaskID  string `json:"task_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Task is a status snapshot of a server-side work unit.
//
// Only Status (and, on termination, Result or ErrorMessage) changes between
// snapshots; the snapshot is re-fetched, never mutated locally.
type Task struct {
	ID           int64      `json:"id"`
	TaskID       string     `json:"task_id"`
	Status       TaskStatus `json:"status"`
	Result       string     `json:"result"`
	ErrorMessage string     `json:"error_message"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Terminal reports whether the task has reached a terminal status. It
// satisfies the polling engine's [Terminator] interface, making Task usable
// with [Poll] without an explicit [WithShouldStop] predicate.
func (t Task) Terminal() bool {
	return t.Status.Terminal()
}

// Attachment is an uploaded file and the state of its asynchronous
// recognition.
type Attachment struct {
	ID                int64      `json:"id"`
	Filename          string     `json:"filename"`
	StoredFilename    string     `json:"stored_filename"`
	FilePath          string     `json:"file_path"`
	FileSize          int64      `json:"file_size"`
	FileType          string     `json:"file_type"`
	FileExtension     string     `json:"file_extension"`
	RecognitionResult string     `json:"recognition_result"`
	RecognitionStatus TaskStatus `json:"recognition_status"`
	RecognitionError  string     `json:"recognition_error"`
	Description       string     `json:"description"`
	Tags              string     `json:"tags"`
	Source            string     `json:"source"`
	IsShared          bool       `json:"is_shared"`
	UserID            int64      `json:"user_id"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// AttachmentList is a paginated attachment listing.
type AttachmentList struct {
	Total int64        `json:"total"`
	Items []Attachment `json:"items"`
}

// AttachmentUpdate is a partial update to attachment metadata. Nil fields
// are left unchanged.
type AttachmentUpdate struct {
	Description *string `json:"description,omitempty"`
	Tags        *string `json:"tags,omitempty"`
	IsShared    *bool   `json:"is_shared,omitempty"`
}

// AttachmentStats is the admin-only aggregate view of stored attachments.
type AttachmentStats struct {
	Total       int64            `json:"total"`
	TotalSize   int64            `json:"total_size"`
	TotalSizeMB float64          `json:"total_size_mb"`
	StatusStats map[string]int64 `json:"status_stats"`
	TypeStats   map[string]int64 `json:"type_stats"`
	UserStats   map[string]int64 `json:"user_stats"`
}

// FeedbackType categorizes a piece of user feedback.
type FeedbackType string

const (
	FeedbackBug       FeedbackType = "bug"
	FeedbackFeature   FeedbackType = "feature"
	FeedbackComplaint FeedbackType = "complaint"
	FeedbackOther     FeedbackType = "other"
)

// FeedbackStatus is the handling state of a piece of feedback.
type FeedbackStatus string

const (
	FeedbackPending    FeedbackStatus = "pending"
	FeedbackProcessing FeedbackStatus = "processing"
	FeedbackResolved   FeedbackStatus = "resolved"
	FeedbackClosed     FeedbackStatus = "closed"
)

// Feedback is a piece of user feedback and its handling state.
type Feedback struct {
	ID           int64          `json:"id"`
	UserID       int64          `json:"user_id"`
	FeedbackType FeedbackType   `json:"feedback_type"`
	Content      string         `json:"content"`
	Status       FeedbackStatus `json:"status"`
	AdminComment string         `json:"admin_comment"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// FeedbackList is a paginated feedback listing.
type FeedbackList struct {
	Total int64      `json:"total"`
	Items []Feedback `json:"items"`
}

// FeedbackCreate is the payload for submitting feedback.
type FeedbackCreate struct {
	FeedbackType FeedbackType `json:"feedback_type"`
	Content      string       `json:"content"`
}

// FeedbackUpdate is the admin-only partial update to a piece of feedback.
// Nil fields are left unchanged.
type FeedbackUpdate struct {
	Status       *FeedbackStatus `json:"status,omitempty"`
	AdminComment *string         `json:"admin_comment,omitempty"`
}

// FeedbackStats is the admin-only aggregate view of feedback.
type FeedbackStats struct {
	Total       int64            `json:"total"`
	StatusStats map[string]int64 `json:"status_stats"`
	TypeStats   map[string]int64 `json:"type_stats"`
	UserStats   map[string]int64 `json:"user_stats"`
}
