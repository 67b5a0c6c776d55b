package dto

// ChatRequest models POST /v1/chat input. ThreadID is optional: absent means
// a new thread is created for the first message.
type ChatRequest struct {
	ThreadID *string `json:"thread_id,omitempty"`
	Message  string  `json:"message" binding:"required"`
}

// CreateThreadRequest models POST /v1/threads input.
type CreateThreadRequest struct {
	Title *string `json:"title,omitempty"`
}

// UpdateProviderConfigRequest models PUT /v1/admin/provider-config input.
// Durations are milliseconds on the wire.
type UpdateProviderConfigRequest struct {
	ModelID          string  `json:"model_id" binding:"required"`
	Temperature      float64 `json:"temperature"`
	TopK             int     `json:"top_k"`
	TopP             float64 `json:"top_p"`
	MaxOutputTokens  int     `json:"max_output_tokens"`
	TimeoutMS        int64   `json:"timeout_ms"`
	MaxRetries       int     `json:"max_retries"`
	RetryBaseDelayMS int64   `json:"retry_base_delay_ms"`
}
