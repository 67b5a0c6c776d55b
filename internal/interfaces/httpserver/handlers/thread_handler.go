package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"verse-server/services/chat-api/internal/domain/thread"
	"verse-server/services/chat-api/internal/infrastructure/auth"
	"verse-server/services/chat-api/internal/infrastructure/metrics"
	"verse-server/services/chat-api/internal/interfaces/httpserver/dto"
	"verse-server/services/chat-api/internal/utils/platformerrors"
)

// ThreadHandler exposes thread management endpoints.
type ThreadHandler struct {
	service thread.Service
	log     zerolog.Logger
}

// NewThreadHandler constructs the handler.
func NewThreadHandler(service thread.Service, log zerolog.Logger) *ThreadHandler {
	return &ThreadHandler{
		service: service,
		log:     log.With().Str("handler", "thread").Logger(),
	}
}

// Create handles POST /v1/threads
// @Summary Create a thread
// @Tags Threads
// @Accept json
// @Produce json
// @Param request body dto.CreateThreadRequest true "Create request"
// @Success 201 {object} dto.ThreadPayload
// @Failure 400 {object} platformerrors.HTTPErrorResponse
// @Security BearerAuth
// @Router /v1/threads [post]
func (h *ThreadHandler) Create(c *gin.Context) {
	var req dto.CreateThreadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, err.Error())
		return
	}

	created, err := h.service.Create(c.Request.Context(), auth.UserID(c), req.Title)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	metrics.ThreadsCreatedTotal.Inc()
	c.JSON(http.StatusCreated, dto.FromThread(created))
}

// List handles GET /v1/threads
// @Summary List the caller's threads
// @Tags Threads
// @Produce json
// @Success 200 {object} dto.ThreadListPayload
// @Security BearerAuth
// @Router /v1/threads [get]
func (h *ThreadHandler) List(c *gin.Context) {
	threads, err := h.service.List(c.Request.Context(), auth.UserID(c))
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	payload := dto.ThreadListPayload{Threads: make([]dto.ThreadPayload, 0, len(threads))}
	for _, t := range threads {
		payload.Threads = append(payload.Threads, dto.FromThread(t))
	}
	c.JSON(http.StatusOK, payload)
}

// Get handles GET /v1/threads/:thread_id
// @Summary Fetch one thread
// @Tags Threads
// @Produce json
// @Param thread_id path string true "Thread ID"
// @Success 200 {object} dto.ThreadPayload
// @Failure 404 {object} platformerrors.HTTPErrorResponse
// @Security BearerAuth
// @Router /v1/threads/{thread_id} [get]
func (h *ThreadHandler) Get(c *gin.Context) {
	found, err := h.service.Get(c.Request.Context(), auth.UserID(c), c.Param("thread_id"))
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, dto.FromThread(found))
}

// Delete handles DELETE /v1/threads/:thread_id
// @Summary Delete a thread and its messages
// @Tags Threads
// @Produce json
// @Param thread_id path string true "Thread ID"
// @Success 204 "No Content"
// @Failure 404 {object} platformerrors.HTTPErrorResponse
// @Security BearerAuth
// @Router /v1/threads/{thread_id} [delete]
func (h *ThreadHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), auth.UserID(c), c.Param("thread_id")); err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.Status(http.StatusNoContent)
}

// Messages handles GET /v1/threads/:thread_id/messages
// @Summary List a thread's messages in ascending creation order
// @Tags Threads
// @Produce json
// @Param thread_id path string true "Thread ID"
// @Success 200 {object} dto.MessageListPayload
// @Failure 404 {object} platformerrors.HTTPErrorResponse
// @Security BearerAuth
// @Router /v1/threads/{thread_id}/messages [get]
func (h *ThreadHandler) Messages(c *gin.Context) {
	messages, err := h.service.Messages(c.Request.Context(), auth.UserID(c), c.Param("thread_id"))
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}

	payload := dto.MessageListPayload{Messages: make([]dto.MessagePayload, 0, len(messages))}
	for _, m := range messages {
		payload.Messages = append(payload.Messages, dto.FromMessage(m))
	}
	c.JSON(http.StatusOK, payload)
}
