package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tutorlink_backend/internal/middleware"
	"tutorlink_backend/internal/models"
	"tutorlink_backend/internal/services"
	"tutorlink_backend/internal/services/dto"
)

type ReviewHandler struct {
	*BaseHandler
	reviewService services.ReviewService
}

func NewReviewHandler(base *BaseHandler, reviewService services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		BaseHandler:   base,
		reviewService: reviewService,
	}
}

func (h *ReviewHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Ratings and reviews are public; prospective students browse them.
	public := r.Group("/reviews")
	{
		public.GET("/tutors/:tutorId", h.GetTutorReviews)
		public.GET("/tutors/:tutorId/rating", h.GetTutorRating)
	}

	// Only students write reviews.
	reviews := r.Group("/reviews")
	reviews.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleStudent))
	{
		reviews.POST("", h.SubmitReview)
	}
}

func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	studentID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReviewRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	req.StudentID = studentID

	review, err := h.reviewService.SubmitReview(studentID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) GetTutorReviews(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	reviews, err := h.reviewService.GetTutorReviews(c.Param("tutorId"), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) GetTutorRating(c *gin.Context) {
	rating, err := h.reviewService.GetTutorRating(c.Param("tutorId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rating)
}
