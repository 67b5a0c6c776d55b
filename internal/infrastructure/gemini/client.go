// Package gemini implements the llm.Provider interface against the
// generative-language REST API.
package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"verse-server/services/chat-api/internal/domain/llm"
	"verse-server/services/chat-api/internal/domain/retry"
	"verse-server/services/chat-api/internal/infrastructure/metrics"
	"verse-server/services/chat-api/internal/infrastructure/observability"
	"verse-server/services/chat-api/internal/utils/platformerrors"
)

// wireRoleModel is what the provider calls assistant turns.
const wireRoleModel = "model"

// generateRequest is the provider request envelope.
type generateRequest struct {
	Contents         []wireContent    `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
	SafetySettings   []safetySetting  `json:"safetySettings"`
}

type wireContent struct {
	Role  string     `json:"role"`
	Parts []wirePart `json:"parts"`
}

type wirePart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// defaultSafetySettings is the fixed content-safety parameter set sent with
// every call.
var defaultSafetySettings = []safetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
}

// errorEnvelope is the provider error body, when parseable.
type errorEnvelope struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Client implements the llm.Provider interface.
type Client struct {
	httpClient *resty.Client
	apiKey     string
	sleep      retry.SleepFunc
	log        zerolog.Logger
}

// Option customizes the client.
type Option func(*Client)

// WithSleep replaces the backoff sleeper. Tests inject a recorder so delays
// and attempt counts are asserted without real time passing.
func WithSleep(sleep retry.SleepFunc) Option {
	return func(c *Client) {
		c.sleep = sleep
	}
}

// NewClient creates a Resty-backed provider client.
func NewClient(baseURL, apiKey string, log zerolog.Logger, opts ...Option) *Client {
	client := &Client{
		httpClient: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json"),
		apiKey: apiKey,
		sleep:  retry.Sleep,
		log:    log.With().Str("component", "gemini-client").Logger(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Generate issues the generation call with per-attempt timeout and the
// configured retry/backoff schedule. The raw decoded body is returned on
// HTTP 200; a 200 is never retried even when semantically invalid.
func (c *Client) Generate(ctx context.Context, turn llm.Turn, cfg llm.Config) (*llm.GenerateResponse, error) {
	ctx, span := observability.StartGenerateSpan(ctx, cfg.ModelID, len(turn.Context))
	defer span.End()

	body := buildRequest(turn, cfg)
	policy := retry.Policy{MaxRetries: cfg.MaxRetries, BaseDelay: cfg.RetryBaseDelay}
	start := time.Now()

	var (
		lastClass  retry.Class
		lastDetail string
	)

	for attempt := 0; attempt < policy.Attempts(); attempt++ {
		raw, class, detail := c.attempt(ctx, body, cfg)
		if class == retry.ClassOK {
			metrics.ProviderCallDuration.WithLabelValues(cfg.ModelID, "ok").Observe(time.Since(start).Seconds())
			return raw, nil
		}

		lastClass, lastDetail = class, detail
		if !class.Retryable() || attempt == policy.Attempts()-1 {
			break
		}

		delay := policy.Delay(attempt)
		c.log.Warn().
			Str("model", cfg.ModelID).
			Str("class", string(class)).
			Int("attempt", attempt+1).
			Dur("backoff", delay).
			Msg("provider attempt failed, retrying")
		metrics.ProviderRetriesTotal.WithLabelValues(cfg.ModelID).Inc()

		if err := c.sleep(ctx, delay); err != nil {
			lastClass = retry.Classify(0, err)
			break
		}
	}

	errType := lastClass.ErrorType()
	metrics.ProviderErrorsTotal.WithLabelValues(cfg.ModelID, string(errType)).Inc()
	metrics.ProviderCallDuration.WithLabelValues(cfg.ModelID, "error").Observe(time.Since(start).Seconds())

	classified := platformerrors.NewError(
		ctx,
		platformerrors.LayerInfrastructure,
		errType,
		safeMessage(lastClass, lastDetail, policy.Attempts()),
		nil,
		"45fb0719-a2ec-4d04-f86d-f78ae6cb3e58",
	)
	observability.RecordError(span, classified)
	return nil, classified
}

// HealthCheck probes the provider with exactly one attempt and a minimal
// prompt. The retry schedule never applies here.
func (c *Client) HealthCheck(ctx context.Context, cfg llm.Config) llm.Health {
	probeCfg := cfg
	if probeCfg.MaxOutputTokens > 8 {
		probeCfg.MaxOutputTokens = 8
	}
	probe := buildRequest(llm.Turn{Prompt: "ping"}, probeCfg)

	start := time.Now()
	_, class, detail := c.attempt(ctx, probe, probeCfg)
	latency := time.Since(start).Milliseconds()

	if class == retry.ClassOK {
		return llm.Health{Status: llm.HealthOnline, Model: cfg.ModelID, LatencyMS: latency}
	}
	return llm.Health{
		Status:    llm.HealthOffline,
		Model:     cfg.ModelID,
		LatencyMS: latency,
		Error:     safeMessage(class, detail, 1),
	}
}

// attempt performs a single HTTP call bounded by cfg.Timeout and classifies
// the outcome. It never touches the retry schedule.
func (c *Client) attempt(ctx context.Context, body generateRequest, cfg llm.Config) (*llm.GenerateResponse, retry.Class, string) {
	attemptCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	var success llm.GenerateResponse
	var failure errorEnvelope

	resp, err := c.httpClient.R().
		SetContext(attemptCtx).
		SetHeader("x-goog-api-key", c.apiKey).
		SetBody(body).
		SetResult(&success).
		SetError(&failure).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", cfg.ModelID))
	if err != nil {
		return nil, retry.Classify(0, err), ""
	}

	class := retry.Classify(resp.StatusCode(), nil)
	if class == retry.ClassOK {
		return &success, class, ""
	}
	return nil, class, failure.Error.Message
}

func buildRequest(turn llm.Turn, cfg llm.Config) generateRequest {
	contents := make([]wireContent, 0, len(turn.Context)+1)
	for _, msg := range turn.Context {
		role := string(msg.Role)
		if msg.Role == llm.RoleAssistant {
			role = wireRoleModel
		}
		contents = append(contents, wireContent{
			Role:  role,
			Parts: []wirePart{{Text: msg.Content}},
		})
	}
	contents = append(contents, wireContent{
		Role:  string(llm.RoleUser),
		Parts: []wirePart{{Text: turn.Prompt}},
	})

	return generateRequest{
		Contents: contents,
		GenerationConfig: generationConfig{
			Temperature:     cfg.Temperature,
			TopK:            cfg.TopK,
			TopP:            cfg.TopP,
			MaxOutputTokens: cfg.MaxOutputTokens,
		},
		SafetySettings: defaultSafetySettings,
	}
}

// safeMessage produces a caller-facing summary. Raw provider text is only
// forwarded for bad-request rejections, where it names the offending field.
func safeMessage(class retry.Class, detail string, attempts int) string {
	switch class {
	case retry.ClassRateLimited:
		return fmt.Sprintf("provider rate limit persisted across %d attempts", attempts)
	case retry.ClassUnavailable:
		return fmt.Sprintf("provider unavailable after %d attempts", attempts)
	case retry.ClassInvalidCredentials:
		return "provider rejected the configured API key"
	case retry.ClassAccessForbidden:
		return "provider denied access for the configured API key"
	case retry.ClassBadRequest:
		if detail != "" {
			return "provider rejected the request: " + detail
		}
		return "provider rejected the request"
	case retry.ClassNetwork:
		return fmt.Sprintf("provider unreachable after %d attempts", attempts)
	case retry.ClassTimeout:
		return fmt.Sprintf("provider timed out after %d attempts", attempts)
	default:
		return "provider call failed"
	}
}

// Ensure interface compliance.
var _ llm.Provider = (*Client)(nil)
