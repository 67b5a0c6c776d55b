package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"verse-server/services/chat-api/internal/domain/llm"
	"verse-server/services/chat-api/internal/interfaces/httpserver/dto"
	"verse-server/services/chat-api/internal/utils/platformerrors"
)

// AdminHandler exposes runtime provider configuration.
type AdminHandler struct {
	configs *llm.ConfigStore
	log     zerolog.Logger
}

// NewAdminHandler constructs the handler.
func NewAdminHandler(configs *llm.ConfigStore, log zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		configs: configs,
		log:     log.With().Str("handler", "admin").Logger(),
	}
}

// GetProviderConfig handles GET /v1/admin/provider-config
// @Summary Read the current generation config
// @Tags Admin
// @Produce json
// @Success 200 {object} dto.ProviderConfigPayload
// @Security BearerAuth
// @Router /v1/admin/provider-config [get]
func (h *AdminHandler) GetProviderConfig(c *gin.Context) {
	c.JSON(http.StatusOK, dto.FromProviderConfig(h.configs.Snapshot()))
}

// UpdateProviderConfig handles PUT /v1/admin/provider-config
// @Summary Replace the generation config
// @Description The new config applies to subsequent chat calls only;
// @Description calls already in flight keep the snapshot they started with.
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body dto.UpdateProviderConfigRequest true "New config"
// @Success 200 {object} dto.ProviderConfigPayload
// @Failure 400 {object} platformerrors.HTTPErrorResponse
// @Security BearerAuth
// @Router /v1/admin/provider-config [put]
func (h *AdminHandler) UpdateProviderConfig(c *gin.Context) {
	var req dto.UpdateProviderConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, err.Error())
		return
	}

	next := req.ToProviderConfig()
	if err := h.configs.Update(next); err != nil {
		platformerrors.WriteValidationError(c, err.Error())
		return
	}

	h.log.Info().Str("model_id", next.ModelID).Msg("provider config updated")
	c.JSON(http.StatusOK, dto.FromProviderConfig(h.configs.Snapshot()))
}
