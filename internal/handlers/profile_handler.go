package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tutorlink_backend/internal/middleware"
	"tutorlink_backend/internal/models"
	"tutorlink_backend/internal/services"
	"tutorlink_backend/internal/services/dto"
)

type ProfileHandler struct {
	*BaseHandler
	profileService services.ProfileService
}

func NewProfileHandler(base *BaseHandler, profileService services.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    base,
		profileService: profileService,
	}
}

func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Browsing tutors is public.
	public := r.Group("/tutors")
	{
		public.GET("", h.ListTutors)
		public.GET("/:profileId", h.GetTutorProfile)
	}

	// Only tutors manage their own profile.
	tutors := r.Group("/tutors")
	tutors.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleTutor))
	{
		tutors.POST("/profile", h.CreateTutorProfile)
		tutors.GET("/profile/me", h.GetMyTutorProfile)
		tutors.PUT("/profile", h.UpdateTutorProfile)
	}
}

func (h *ProfileHandler) ListTutors(c *gin.Context) {
	tutors, err := h.profileService.ListTutors()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tutors": tutors,
		"total":  len(tutors),
	})
}

func (h *ProfileHandler) GetTutorProfile(c *gin.Context) {
	profile, err := h.profileService.GetTutorProfile(c.Param("profileId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) CreateTutorProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateTutorProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.profileService.CreateTutorProfile(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, profile)
}

func (h *ProfileHandler) GetMyTutorProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileService.GetTutorProfileByUserID(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateTutorProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateTutorProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	profile, err := h.profileService.UpdateTutorProfile(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}
