package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"tutorlink_backend/internal/logger"
	"tutorlink_backend/pkg/apperrors"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	manager *Manager
}

func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// ServeWS upgrades the request. It must be mounted behind AuthMiddleware so
// the user's identity comes from the token, not a query parameter.
func (h *Handler) ServeWS(c *gin.Context) {
	userIDVal, exists := c.Get("userID")
	userID, _ := userIDVal.(string)
	if !exists || userID == "" {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return
	}

	if h.manager.IsConnected(userID) {
		logger.Debug("replacing existing ws connection", "user_id", userID)
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", "user_id", userID, "error", err)
		return
	}

	client := &Client{
		UserID:  userID,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		manager: h.manager,
	}

	h.manager.register <- client

	go client.readPump()
	go client.writePump()
}

// ClientCount reports how many users currently hold a live connection.
func (h *Handler) ClientCount() int {
	return h.manager.ClientCount()
}
