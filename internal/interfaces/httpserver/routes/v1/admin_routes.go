package v1

import (
	"github.com/gin-gonic/gin"

	"verse-server/services/chat-api/internal/interfaces/httpserver/handlers"
)

func registerAdminRoutes(router gin.IRoutes, handler *handlers.AdminHandler) {
	router.GET("/admin/provider-config", handler.GetProviderConfig)
	router.PUT("/admin/provider-config", handler.UpdateProviderConfig)
}
