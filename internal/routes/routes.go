package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tutorlink_backend/internal/handlers"
	"tutorlink_backend/internal/middleware"
	"tutorlink_backend/ws"
)

// RegisterRoutes mounts the HTTP API and the websocket endpoint.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.Handler,
) {
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"ws_clients": wsHandler.ClientCount(),
		})
	})

	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.UserHandler.RegisterRoutes(api)
		appHandlers.ProfileHandler.RegisterRoutes(api)
		appHandlers.MatchingHandler.RegisterRoutes(api)
		appHandlers.SessionHandler.RegisterRoutes(api)
		appHandlers.ReviewHandler.RegisterRoutes(api)
		appHandlers.ChatHandler.RegisterRoutes(api)
		appHandlers.PaymentHandler.RegisterRoutes(api)
		appHandlers.NotificationHandler.RegisterRoutes(api)
	}

	wsGroup := ginRouter.Group("/ws")
	wsGroup.Use(middleware.AuthMiddleware())
	{
		wsGroup.GET("/connect", wsHandler.ServeWS)
	}
}
