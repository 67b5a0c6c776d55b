// Package llm defines the conversation types exchanged with the generation
// provider and the pure logic that prepares and normalizes them.
package llm

import "context"

// Role identifies who authored a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TurnMessage is a single entry in the bounded context window.
type TurnMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Turn is the transient payload sent to the provider: the trimmed context
// window plus the new prompt. Built fresh per request, never cached.
type Turn struct {
	Context []TurnMessage
	Prompt  string
}

// GenerateResponse is the decoded provider envelope. The client returns it
// raw on HTTP 200; semantic validation belongs to Normalize.
type GenerateResponse struct {
	Candidates    []Candidate    `json:"candidates"`
	UsageMetadata *UsageMetadata `json:"usageMetadata,omitempty"`
}

// Candidate holds one generated alternative.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// Content carries the candidate parts. The provider uses role "model" for
// generated turns.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is a single text fragment.
type Part struct {
	Text string `json:"text"`
}

// UsageMetadata reports provider-side token accounting.
type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// Usage is the normalized token accounting. Counters default to 0 when the
// provider omits them; they are never fabricated.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the validated, cleaned generation result.
type Completion struct {
	Answer       string
	Usage        Usage
	FinishReason string
}

// HealthStatus reports provider reachability.
type HealthStatus string

const (
	HealthOnline  HealthStatus = "online"
	HealthOffline HealthStatus = "offline"
)

// Health is the single-attempt provider probe result.
type Health struct {
	Status    HealthStatus `json:"status"`
	Model     string       `json:"model"`
	LatencyMS int64        `json:"latency_ms"`
	Error     string       `json:"error,omitempty"`
}

// Provider issues generation calls against the remote text-generation API.
// Generate performs its own retry/backoff and returns the raw envelope on
// success or a classified error; HealthCheck makes exactly one attempt.
type Provider interface {
	Generate(ctx context.Context, turn Turn, cfg Config) (*GenerateResponse, error)
	HealthCheck(ctx context.Context, cfg Config) Health
}
