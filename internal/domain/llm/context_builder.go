package llm

import (
	"context"
	"fmt"
	"strings"

	"verse-server/services/chat-api/internal/utils/platformerrors"
)

const (
	// MaxContextMessages bounds the context window. Older history is
	// silently dropped; there is no summarization.
	MaxContextMessages = 10

	// MaxPromptLength is the maximum accepted prompt size after trimming.
	MaxPromptLength = 30000
)

// BuildTurn assembles the bounded conversation payload from the prior
// messages (already sorted ascending by creation time) and the raw prompt.
// It retains at most the last MaxContextMessages entries, oldest first, and
// appends the trimmed prompt as the final user turn. Pure function of its
// inputs; no side effects.
func BuildTurn(ctx context.Context, prior []TurnMessage, rawPrompt string) (Turn, error) {
	prompt := strings.TrimSpace(rawPrompt)
	if prompt == "" {
		return Turn{}, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			"message must not be empty",
			nil,
			"a4c1f0d2-8b7e-4a39-91c5-3de06f2b8a17",
		)
	}
	if len(prompt) > MaxPromptLength {
		return Turn{}, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeValidation,
			fmt.Sprintf("message exceeds maximum length of %d characters", MaxPromptLength),
			nil,
			"b9e2d4c6-1f5a-4e78-8c03-6a91b7d2e4f9",
		)
	}

	window := prior
	if len(window) > MaxContextMessages {
		window = window[len(window)-MaxContextMessages:]
	}

	turn := Turn{
		Context: make([]TurnMessage, len(window)),
		Prompt:  prompt,
	}
	copy(turn.Context, window)
	return turn, nil
}
