package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tutorlink_backend/internal/middleware"
	"tutorlink_backend/internal/services"
	"tutorlink_backend/internal/services/dto"
)

type PaymentHandler struct {
	*BaseHandler
	paymentService services.PaymentService
}

func NewPaymentHandler(base *BaseHandler, paymentService services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    base,
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup) {
	payments := r.Group("/payment-methods")
	payments.Use(middleware.AuthMiddleware())
	{
		payments.POST("", h.AddPaymentMethod)
		payments.GET("", h.ListPaymentMethods)
		payments.PUT("/:methodId/default", h.SetDefault)
		payments.DELETE("/:methodId", h.DeletePaymentMethod)
	}
}

func (h *PaymentHandler) AddPaymentMethod(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePaymentMethodRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	method, err := h.paymentService.AddPaymentMethod(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, method)
}

func (h *PaymentHandler) ListPaymentMethods(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	methods, err := h.paymentService.ListPaymentMethods(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payment_methods": methods,
		"total":           len(methods),
	})
}

func (h *PaymentHandler) SetDefault(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.paymentService.SetDefaultPaymentMethod(userID, c.Param("methodId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Default payment method updated"})
}

func (h *PaymentHandler) DeletePaymentMethod(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.paymentService.DeletePaymentMethod(userID, c.Param("methodId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment method deleted"})
}
