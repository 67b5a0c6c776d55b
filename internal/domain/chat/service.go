// Package chat coordinates a full conversation exchange: authorize, build
// the bounded context, call the generation provider, normalize its reply and
// persist both sides of the exchange.
package chat

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"verse-server/services/chat-api/internal/domain/llm"
	"verse-server/services/chat-api/internal/domain/thread"
	"verse-server/services/chat-api/internal/utils/platformerrors"
)

// Result is the outcome of a successful exchange.
type Result struct {
	Thread           *thread.Thread
	UserMessage      *thread.Message
	AssistantMessage *thread.Message
	Usage            llm.Usage
	FinishReason     string
}

// Service is the orchestrator contract exposed to HTTP handlers.
type Service interface {
	// Handle runs one exchange. An empty threadPublicID creates a new
	// thread on first message, titled from the prompt.
	Handle(ctx context.Context, userID, threadPublicID, prompt string) (*Result, error)

	// Health probes the provider with a single attempt.
	Health(ctx context.Context) llm.Health
}

type service struct {
	threads  thread.Service
	repo     thread.Repository
	provider llm.Provider
	configs  *llm.ConfigStore
	log      zerolog.Logger
}

// NewService wires the orchestrator.
func NewService(
	threads thread.Service,
	repo thread.Repository,
	provider llm.Provider,
	configs *llm.ConfigStore,
	log zerolog.Logger,
) Service {
	return &service{
		threads:  threads,
		repo:     repo,
		provider: provider,
		configs:  configs,
		log:      log.With().Str("component", "chat-service").Logger(),
	}
}

func (s *service) Handle(ctx context.Context, userID, threadPublicID, prompt string) (*Result, error) {
	var (
		existing *thread.Thread
		history  []llm.TurnMessage
		err      error
	)

	// Authorize before any context or provider work. Ownership mismatches
	// surface as not found.
	if threadPublicID != "" {
		existing, err = s.threads.Authorize(ctx, userID, threadPublicID)
		if err != nil {
			return nil, err
		}

		prior, err := s.repo.ListRecentMessages(ctx, existing.ID, llm.MaxContextMessages)
		if err != nil {
			return nil, err
		}
		history = make([]llm.TurnMessage, 0, len(prior))
		for _, msg := range prior {
			history = append(history, llm.TurnMessage{Role: msg.Role, Content: msg.Content})
		}
	}

	turn, err := llm.BuildTurn(ctx, history, prompt)
	if err != nil {
		return nil, err
	}

	// One snapshot per call; admin updates apply to subsequent calls only.
	cfg := s.configs.Snapshot()

	raw, err := s.provider.Generate(ctx, turn, cfg)
	if err != nil {
		return nil, err
	}

	completion, err := llm.Normalize(ctx, raw)
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeUpstreamResponse,
			"provider returned an unusable response",
			err,
			"23d9e5f7-80ca-4be2-d64b-d568c4a91c36",
		)
	}

	result, err := s.persistExchange(ctx, existing, userID, turn.Prompt, completion)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("thread_id", result.Thread.PublicID).
		Str("model", cfg.ModelID).
		Int("total_tokens", completion.Usage.TotalTokens).
		Msg("exchange completed")
	return result, nil
}

// persistExchange appends the user message, the assistant message, then
// bumps the thread's updated_at. The writes are a best-effort sequence: a
// failure after the user write leaves the user message persisted, with no
// compensating rollback.
func (s *service) persistExchange(
	ctx context.Context,
	existing *thread.Thread,
	userID, prompt string,
	completion llm.Completion,
) (*Result, error) {
	target := existing
	if target == nil {
		title := titleFromPrompt(prompt)
		created, err := s.threads.Create(ctx, userID, &title)
		if err != nil {
			return nil, persistenceError(ctx, "create thread for first message", err)
		}
		target = created
	}

	userMsg, err := s.repo.AppendMessage(ctx, target.ID, llm.RoleUser, prompt)
	if err != nil {
		return nil, persistenceError(ctx, "persist user message", err)
	}

	assistantMsg, err := s.repo.AppendMessage(ctx, target.ID, llm.RoleAssistant, completion.Answer)
	if err != nil {
		// The user message stays; accepted at-least-once semantic.
		s.log.Error().Err(err).
			Str("thread_id", target.PublicID).
			Str("user_message_id", userMsg.PublicID).
			Msg("assistant message write failed after user message was persisted")
		return nil, persistenceError(ctx, "persist assistant message", err)
	}

	if err := s.repo.Touch(ctx, target.ID); err != nil {
		s.log.Error().Err(err).
			Str("thread_id", target.PublicID).
			Msg("thread timestamp update failed after both messages were persisted")
		return nil, persistenceError(ctx, "update thread timestamp", err)
	}

	return &Result{
		Thread:           target,
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
		Usage:            completion.Usage,
		FinishReason:     completion.FinishReason,
	}, nil
}

func (s *service) Health(ctx context.Context) llm.Health {
	return s.provider.HealthCheck(ctx, s.configs.Snapshot())
}

func persistenceError(ctx context.Context, message string, err error) *platformerrors.PlatformError {
	return platformerrors.NewError(
		ctx,
		platformerrors.LayerDomain,
		platformerrors.ErrorTypePersistence,
		message,
		err,
		"34eaf608-91db-4cf3-e75c-e679d5ba2d47",
	)
}

func titleFromPrompt(prompt string) string {
	words := strings.Fields(prompt)
	if len(words) > 8 {
		words = words[:8]
	}
	title := strings.Join(words, " ")
	if len(title) > 64 {
		title = title[:64]
	}
	return title
}
