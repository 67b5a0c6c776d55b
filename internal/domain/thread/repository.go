package thread

import (
	"context"

	"verse-server/services/chat-api/internal/domain/llm"
)

// Repository exposes thread and message persistence. It does not enforce
// authorization; callers verify ownership before every read or write.
type Repository interface {
	Create(ctx context.Context, thread *Thread) error
	FindByPublicID(ctx context.Context, publicID string) (*Thread, error)
	ListByUser(ctx context.Context, userID string) ([]*Thread, error)
	Delete(ctx context.Context, id uint) error

	// AppendMessage inserts one message and returns the persisted row.
	AppendMessage(ctx context.Context, threadID uint, role llm.Role, content string) (*Message, error)

	// ListRecentMessages returns the last limit messages of a thread in
	// ascending creation order.
	ListRecentMessages(ctx context.Context, threadID uint, limit int) ([]*Message, error)
	ListMessages(ctx context.Context, threadID uint) ([]*Message, error)

	// Touch bumps the thread's updated_at.
	Touch(ctx context.Context, id uint) error
}
