// Package thread owns the persisted conversation containers and their
// messages. A thread belongs to exactly one user; messages are immutable
// once created and ordered ascending by creation time.
package thread

import (
	"time"

	"verse-server/services/chat-api/internal/domain/llm"
)

// MaxMessageContentLength bounds persisted message content.
const MaxMessageContentLength = 50000

// Thread is a conversation container owned by one user.
type Thread struct {
	ID        uint      `json:"-"`
	PublicID  string    `json:"id"`
	UserID    string    `json:"-"`
	Title     *string   `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Message is a single immutable entry in a thread.
type Message struct {
	ID        uint      `json:"-"`
	PublicID  string    `json:"id"`
	ThreadID  uint      `json:"-"`
	Role      llm.Role  `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
