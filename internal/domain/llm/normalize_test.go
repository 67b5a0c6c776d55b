package llm

import (
	"context"
	"testing"

	"verse-server/services/chat-api/internal/utils/platformerrors"
)

func TestCleanText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"outer whitespace", "  hello  ", "hello"},
		{"space runs", "I'm   well!", "I'm well!"},
		{"tab runs", "a\t\tb", "a b"},
		{"crlf", "line one\r\nline two", "line one\nline two"},
		{"blank line runs", "first\n\n\nsecond", "first\nsecond"},
		{"blank lines with spaces", "first\n  \n\t\nsecond", "first\nsecond"},
		{"mixed", "  I'm   well!\n\n\nThanks.  ", "I'm well!\nThanks."},
		{"empty", "", ""},
		{"only whitespace", " \n \t ", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CleanText(tc.in)
			if got != tc.want {
				t.Errorf("CleanText(%q) = %q, want %q", tc.in, got, tc.want)
			}
			// Idempotence: cleaning a cleaned string is a no-op.
			if again := CleanText(got); again != got {
				t.Errorf("CleanText not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNormalizeExtractsAnswerAndUsage(t *testing.T) {
	raw := &GenerateResponse{
		Candidates: []Candidate{{
			Content:      Content{Role: "model", Parts: []Part{{Text: "  I'm   well!\n\n\nThanks.  "}}},
			FinishReason: "STOP",
		}},
		UsageMetadata: &UsageMetadata{
			PromptTokenCount:     12,
			CandidatesTokenCount: 7,
			TotalTokenCount:      19,
		},
	}

	completion, err := Normalize(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completion.Answer != "I'm well!\nThanks." {
		t.Errorf("unexpected answer: %q", completion.Answer)
	}
	if completion.FinishReason != "STOP" {
		t.Errorf("unexpected finish reason: %q", completion.FinishReason)
	}
	if completion.Usage.PromptTokens != 12 || completion.Usage.CompletionTokens != 7 || completion.Usage.TotalTokens != 19 {
		t.Errorf("unexpected usage: %+v", completion.Usage)
	}
}

func TestNormalizeConcatenatesParts(t *testing.T) {
	raw := &GenerateResponse{
		Candidates: []Candidate{{
			Content: Content{Parts: []Part{{Text: "first "}, {Text: "second"}}},
		}},
	}

	completion, err := Normalize(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completion.Answer != "first second" {
		t.Errorf("unexpected answer: %q", completion.Answer)
	}
}

func TestNormalizeMissingUsageDefaultsToZero(t *testing.T) {
	raw := &GenerateResponse{
		Candidates: []Candidate{{
			Content: Content{Parts: []Part{{Text: "answer"}}},
		}},
	}

	completion, err := Normalize(context.Background(), raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if completion.Usage != (Usage{}) {
		t.Errorf("expected zero usage, got %+v", completion.Usage)
	}
}

func TestNormalizeRejectsUnusableResponses(t *testing.T) {
	cases := []struct {
		name     string
		raw      *GenerateResponse
		wantType platformerrors.ErrorType
	}{
		{"nil response", nil, platformerrors.ErrorTypeInvalidResponse},
		{"no candidates", &GenerateResponse{}, platformerrors.ErrorTypeInvalidResponse},
		{
			"no parts",
			&GenerateResponse{Candidates: []Candidate{{Content: Content{Role: "model"}}}},
			platformerrors.ErrorTypeInvalidResponse,
		},
		{
			"whitespace only text",
			&GenerateResponse{Candidates: []Candidate{{
				Content: Content{Parts: []Part{{Text: "  \n\n  "}}},
			}}},
			platformerrors.ErrorTypeEmptyResponse,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(context.Background(), tc.raw)
			if err == nil {
				t.Fatal("expected error")
			}
			if !platformerrors.IsType(err, tc.wantType) {
				t.Errorf("expected %s, got %v", tc.wantType, err)
			}
		})
	}
}
