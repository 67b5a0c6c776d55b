package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"verse-server/services/chat-api/internal/domain/chat"
	"verse-server/services/chat-api/internal/domain/llm"
	"verse-server/services/chat-api/internal/infrastructure/auth"
	"verse-server/services/chat-api/internal/infrastructure/metrics"
	"verse-server/services/chat-api/internal/infrastructure/observability"
	"verse-server/services/chat-api/internal/interfaces/httpserver/dto"
	"verse-server/services/chat-api/internal/utils/platformerrors"
)

// ChatHandler exposes the conversation endpoints.
type ChatHandler struct {
	service chat.Service
	configs *llm.ConfigStore
	log     zerolog.Logger
}

// NewChatHandler constructs the handler.
func NewChatHandler(service chat.Service, configs *llm.ConfigStore, log zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		configs: configs,
		log:     log.With().Str("handler", "chat").Logger(),
	}
}

// Create handles POST /v1/chat
// @Summary Send a message
// @Description Appends the message to a thread (creating one when thread_id is absent), generates an assistant reply and persists both sides of the exchange.
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Chat request"
// @Success 200 {object} dto.ChatPayload
// @Failure 400 {object} platformerrors.HTTPErrorResponse
// @Failure 404 {object} platformerrors.HTTPErrorResponse
// @Failure 429 {object} platformerrors.HTTPErrorResponse
// @Failure 502 {object} platformerrors.HTTPErrorResponse
// @Failure 503 {object} platformerrors.HTTPErrorResponse
// @Security BearerAuth
// @Router /v1/chat [post]
func (h *ChatHandler) Create(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, err.Error())
		return
	}

	threadID := ""
	if req.ThreadID != nil {
		threadID = *req.ThreadID
	}

	model := h.configs.Snapshot().ModelID
	ctx, span := observability.StartExchangeSpan(c.Request.Context(), threadID, model)
	defer span.End()

	result, err := h.service.Handle(ctx, auth.UserID(c), threadID, req.Message)
	if err != nil {
		observability.RecordError(span, err)
		metrics.ExchangesTotal.WithLabelValues("error").Inc()
		platformerrors.WriteError(c, err, h.log)
		return
	}

	metrics.ExchangesTotal.WithLabelValues("ok").Inc()
	metrics.TokensPromptTotal.WithLabelValues(model).Add(float64(result.Usage.PromptTokens))
	metrics.TokensCompletionTotal.WithLabelValues(model).Add(float64(result.Usage.CompletionTokens))

	c.JSON(http.StatusOK, dto.FromExchange(result))
}

// Health handles GET /v1/chat/health
// @Summary Provider health probe
// @Description Issues a single generation attempt against the provider and reports reachability.
// @Tags Chat
// @Produce json
// @Success 200 {object} llm.Health
// @Security BearerAuth
// @Router /v1/chat/health [get]
func (h *ChatHandler) Health(c *gin.Context) {
	health := h.service.Health(c.Request.Context())
	status := http.StatusOK
	if health.Status != llm.HealthOnline {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, health)
}
