package llm

import (
	"context"
	"regexp"
	"strings"

	"verse-server/services/chat-api/internal/utils/platformerrors"
)

var (
	spaceRuns     = regexp.MustCompile(`[ \t]+`)
	blankLineRuns = regexp.MustCompile(`\n(?:[ \t]*\n)+`)
)

// CleanText trims outer whitespace, collapses runs of spaces to one space
// and runs of blank lines to single newlines. Deterministic and idempotent:
// CleanText(CleanText(s)) == CleanText(s).
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSpace(s)
	s = spaceRuns.ReplaceAllString(s, " ")
	s = blankLineRuns.ReplaceAllString(s, "\n")
	return s
}

// Normalize validates the raw provider envelope and extracts the cleaned
// answer text plus usage counters. The provider may return HTTP 200 with an
// unusable body; those cases surface here, never as transport retries.
func Normalize(ctx context.Context, raw *GenerateResponse) (Completion, error) {
	if raw == nil || len(raw.Candidates) == 0 {
		return Completion{}, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeInvalidResponse,
			"provider response has no candidates",
			nil,
			"c7d3e9f1-2a64-4b8d-90e5-7f12c8a3b6d0",
		)
	}

	candidate := raw.Candidates[0]
	if len(candidate.Content.Parts) == 0 {
		return Completion{}, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeInvalidResponse,
			"provider candidate has no content parts",
			nil,
			"d8e4f0a2-3b75-4c9e-a1f6-8013d9b4c7e1",
		)
	}

	var builder strings.Builder
	for _, part := range candidate.Content.Parts {
		builder.WriteString(part.Text)
	}

	answer := CleanText(builder.String())
	if answer == "" {
		return Completion{}, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeEmptyResponse,
			"provider returned empty text",
			nil,
			"e9f5a1b3-4c86-4daf-b207-9124e0c5d8f2",
		)
	}

	completion := Completion{
		Answer:       answer,
		FinishReason: candidate.FinishReason,
	}
	if raw.UsageMetadata != nil {
		completion.Usage = Usage{
			PromptTokens:     raw.UsageMetadata.PromptTokenCount,
			CompletionTokens: raw.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      raw.UsageMetadata.TotalTokenCount,
		}
	}
	return completion, nil
}
