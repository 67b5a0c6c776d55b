package handlers

import (
	"github.com/rs/zerolog"

	"verse-server/services/chat-api/internal/domain/chat"
	"verse-server/services/chat-api/internal/domain/llm"
	"verse-server/services/chat-api/internal/domain/thread"
)

// Provider wires all HTTP handlers for dependency injection.
type Provider struct {
	Chat   *ChatHandler
	Thread *ThreadHandler
	Admin  *AdminHandler
}

// NewProvider constructs the handler provider with domain services.
func NewProvider(
	chatService chat.Service,
	threadService thread.Service,
	configs *llm.ConfigStore,
	log zerolog.Logger,
) *Provider {
	return &Provider{
		Chat:   NewChatHandler(chatService, configs, log),
		Thread: NewThreadHandler(threadService, log),
		Admin:  NewAdminHandler(configs, log),
	}
}
