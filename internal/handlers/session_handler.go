package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tutorlink_backend/internal/middleware"
	"tutorlink_backend/internal/services"
	"tutorlink_backend/internal/services/dto"
)

type SessionHandler struct {
	*BaseHandler
	sessionService services.SessionService
}

func NewSessionHandler(base *BaseHandler, sessionService services.SessionService) *SessionHandler {
	return &SessionHandler{
		BaseHandler:    base,
		sessionService: sessionService,
	}
}

func (h *SessionHandler) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/sessions")
	sessions.Use(middleware.AuthMiddleware())
	{
		sessions.POST("", h.CreateSession)
		sessions.GET("", h.ListSessions)
		sessions.GET("/:sessionId", h.GetSession)
		sessions.PATCH("/:sessionId/status", h.UpdateStatus)
		sessions.PATCH("/:sessionId/payment-status", h.UpdatePaymentStatus)
	}
}

func (h *SessionHandler) CreateSession(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateSessionRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	session, err := h.sessionService.CreateSession(userID, h.GetCallerRole(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

func (h *SessionHandler) ListSessions(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)

	sessions, err := h.sessionService.ListSessions(userID, h.GetCallerRole(c), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	session, err := h.sessionService.GetSession(userID, c.Param("sessionId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) UpdateStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateSessionStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	session, err := h.sessionService.UpdateStatus(userID, c.Param("sessionId"), req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

func (h *SessionHandler) UpdatePaymentStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateSessionPaymentStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	session, err := h.sessionService.UpdatePaymentStatus(userID, c.Param("sessionId"), req.PaymentStatus)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}
