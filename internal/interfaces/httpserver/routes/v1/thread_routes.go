package v1

import (
	"github.com/gin-gonic/gin"

	"verse-server/services/chat-api/internal/interfaces/httpserver/handlers"
)

func registerThreadRoutes(router gin.IRoutes, handler *handlers.ThreadHandler) {
	router.POST("/threads", handler.Create)
	router.GET("/threads", handler.List)
	router.GET("/threads/:thread_id", handler.Get)
	router.DELETE("/threads/:thread_id", handler.Delete)
	router.GET("/threads/:thread_id/messages", handler.Messages)
}
