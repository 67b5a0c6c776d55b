package entities

import (
	"time"

	"verse-server/services/chat-api/internal/domain/llm"
	"verse-server/services/chat-api/internal/domain/thread"
)

// Thread models the persisted representation of a conversation thread.
type Thread struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID string  `gorm:"type:varchar(50);uniqueIndex;not null"`
	UserID   string  `gorm:"type:varchar(64);index:idx_thread_user_updated;not null"`
	Title    *string `gorm:"type:varchar(256)"`

	Messages []Message `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Thread.
func (Thread) TableName() string {
	return "threads"
}

// NewSchemaThread maps a domain thread onto its entity.
func NewSchemaThread(t *thread.Thread) *Thread {
	return &Thread{
		ID:       t.ID,
		PublicID: t.PublicID,
		UserID:   t.UserID,
		Title:    t.Title,
	}
}

// EtoD converts the entity to its domain representation.
func (e *Thread) EtoD() *thread.Thread {
	return &thread.Thread{
		ID:        e.ID,
		PublicID:  e.PublicID,
		UserID:    e.UserID,
		Title:     e.Title,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

// Message models the persisted representation of a thread message.
type Message struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_message_thread_created"`

	PublicID string `gorm:"type:varchar(50);uniqueIndex;not null"`
	ThreadID uint   `gorm:"index:idx_message_thread_created;not null"`
	Role     string `gorm:"type:varchar(16);not null"`
	Content  string `gorm:"type:text;not null"`
}

// TableName specifies the table name for Message.
func (Message) TableName() string {
	return "messages"
}

// EtoD converts the entity to its domain representation.
func (e *Message) EtoD() *thread.Message {
	return &thread.Message{
		ID:        e.ID,
		PublicID:  e.PublicID,
		ThreadID:  e.ThreadID,
		Role:      llm.Role(e.Role),
		Content:   e.Content,
		CreatedAt: e.CreatedAt,
	}
}
