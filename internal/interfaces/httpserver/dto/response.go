package dto

import (
	"time"

	"verse-server/services/chat-api/internal/domain/chat"
	"verse-server/services/chat-api/internal/domain/llm"
	"verse-server/services/chat-api/internal/domain/thread"
)

// ThreadPayload is the HTTP shape of a thread.
type ThreadPayload struct {
	ID        string    `json:"id"`
	Title     *string   `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MessagePayload is the HTTP shape of a message.
type MessagePayload struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// UsagePayload reports token accounting for one exchange.
type UsagePayload struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatPayload is the result of POST /v1/chat.
type ChatPayload struct {
	Thread           ThreadPayload  `json:"thread"`
	UserMessage      MessagePayload `json:"user_message"`
	AssistantMessage MessagePayload `json:"assistant_message"`
	Usage            UsagePayload   `json:"usage"`
	FinishReason     string         `json:"finish_reason,omitempty"`
}

// ThreadListPayload wraps GET /v1/threads results.
type ThreadListPayload struct {
	Threads []ThreadPayload `json:"threads"`
}

// MessageListPayload wraps GET /v1/threads/:id/messages results.
type MessageListPayload struct {
	Messages []MessagePayload `json:"messages"`
}

// ProviderConfigPayload is the HTTP shape of the generation config.
// Durations are milliseconds on the wire.
type ProviderConfigPayload struct {
	ModelID          string  `json:"model_id"`
	Temperature      float64 `json:"temperature"`
	TopK             int     `json:"top_k"`
	TopP             float64 `json:"top_p"`
	MaxOutputTokens  int     `json:"max_output_tokens"`
	TimeoutMS        int64   `json:"timeout_ms"`
	MaxRetries       int     `json:"max_retries"`
	RetryBaseDelayMS int64   `json:"retry_base_delay_ms"`
}

// FromThread maps a domain thread.
func FromThread(t *thread.Thread) ThreadPayload {
	return ThreadPayload{
		ID:        t.PublicID,
		Title:     t.Title,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// FromMessage maps a domain message.
func FromMessage(m *thread.Message) MessagePayload {
	return MessagePayload{
		ID:        m.PublicID,
		Role:      string(m.Role),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

// FromExchange maps an orchestrator result.
func FromExchange(result *chat.Result) ChatPayload {
	return ChatPayload{
		Thread:           FromThread(result.Thread),
		UserMessage:      FromMessage(result.UserMessage),
		AssistantMessage: FromMessage(result.AssistantMessage),
		Usage: UsagePayload{
			PromptTokens:     result.Usage.PromptTokens,
			CompletionTokens: result.Usage.CompletionTokens,
			TotalTokens:      result.Usage.TotalTokens,
		},
		FinishReason: result.FinishReason,
	}
}

// FromProviderConfig maps a config snapshot.
func FromProviderConfig(cfg llm.Config) ProviderConfigPayload {
	return ProviderConfigPayload{
		ModelID:          cfg.ModelID,
		Temperature:      cfg.Temperature,
		TopK:             cfg.TopK,
		TopP:             cfg.TopP,
		MaxOutputTokens:  cfg.MaxOutputTokens,
		TimeoutMS:        cfg.Timeout.Milliseconds(),
		MaxRetries:       cfg.MaxRetries,
		RetryBaseDelayMS: cfg.RetryBaseDelay.Milliseconds(),
	}
}

// ToProviderConfig maps the admin update request to a domain config.
func (r UpdateProviderConfigRequest) ToProviderConfig() llm.Config {
	return llm.Config{
		ModelID:         r.ModelID,
		Temperature:     r.Temperature,
		TopK:            r.TopK,
		TopP:            r.TopP,
		MaxOutputTokens: r.MaxOutputTokens,
		Timeout:         time.Duration(r.TimeoutMS) * time.Millisecond,
		MaxRetries:      r.MaxRetries,
		RetryBaseDelay:  time.Duration(r.RetryBaseDelayMS) * time.Millisecond,
	}
}
