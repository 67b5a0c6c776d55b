package llm

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"verse-server/services/chat-api/internal/utils/platformerrors"
)

func TestBuildTurnTrimsPrompt(t *testing.T) {
	turn, err := BuildTurn(context.Background(), nil, "  hello there  \n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if turn.Prompt != "hello there" {
		t.Errorf("expected trimmed prompt, got %q", turn.Prompt)
	}
	if len(turn.Context) != 0 {
		t.Errorf("expected empty context, got %d entries", len(turn.Context))
	}
}

func TestBuildTurnRejectsEmptyPrompt(t *testing.T) {
	cases := []struct {
		name   string
		prompt string
	}{
		{"empty", ""},
		{"spaces", "   "},
		{"whitespace mix", " \t\n "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildTurn(context.Background(), nil, tc.prompt)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !platformerrors.IsType(err, platformerrors.ErrorTypeValidation) {
				t.Errorf("expected validation error type, got %v", err)
			}
		})
	}
}

func TestBuildTurnRejectsOversizePrompt(t *testing.T) {
	_, err := BuildTurn(context.Background(), nil, strings.Repeat("a", MaxPromptLength+1))
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !platformerrors.IsType(err, platformerrors.ErrorTypeValidation) {
		t.Errorf("expected validation error type, got %v", err)
	}

	// Exactly at the limit is accepted.
	if _, err := BuildTurn(context.Background(), nil, strings.Repeat("a", MaxPromptLength)); err != nil {
		t.Errorf("prompt at limit should be accepted, got %v", err)
	}
}

func TestBuildTurnKeepsLastTenMessages(t *testing.T) {
	prior := make([]TurnMessage, 0, 25)
	for i := 0; i < 25; i++ {
		role := RoleUser
		if i%2 == 1 {
			role = RoleAssistant
		}
		prior = append(prior, TurnMessage{Role: role, Content: fmt.Sprintf("message %d", i)})
	}

	turn, err := BuildTurn(context.Background(), prior, "latest question")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(turn.Context) != MaxContextMessages {
		t.Fatalf("expected %d context messages, got %d", MaxContextMessages, len(turn.Context))
	}
	// Oldest retained entry is message 15; ordering stays ascending.
	if turn.Context[0].Content != "message 15" {
		t.Errorf("expected window to start at message 15, got %q", turn.Context[0].Content)
	}
	if turn.Context[len(turn.Context)-1].Content != "message 24" {
		t.Errorf("expected window to end at message 24, got %q", turn.Context[len(turn.Context)-1].Content)
	}
}

func TestBuildTurnCopiesContext(t *testing.T) {
	prior := []TurnMessage{{Role: RoleUser, Content: "original"}}
	turn, err := BuildTurn(context.Background(), prior, "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prior[0].Content = "mutated"
	if turn.Context[0].Content != "original" {
		t.Error("turn context should not alias the caller's slice")
	}
}
