package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tutorlink_backend/internal/middleware"
	"tutorlink_backend/internal/models"
	"tutorlink_backend/internal/services"
	"tutorlink_backend/internal/services/dto"
)

type MatchingHandler struct {
	*BaseHandler
	matchingService services.MatchingService
}

func NewMatchingHandler(base *BaseHandler, matchingService services.MatchingService) *MatchingHandler {
	return &MatchingHandler{
		BaseHandler:     base,
		matchingService: matchingService,
	}
}

func (h *MatchingHandler) RegisterRoutes(r *gin.RouterGroup) {
	search := r.Group("/search")
	search.Use(middleware.AuthMiddleware())
	{
		search.GET("/tutors", h.SearchTutors)
	}

	// Only tutors browse the student side.
	tutorSearch := r.Group("/search")
	tutorSearch.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleTutor))
	{
		tutorSearch.GET("/students", h.SearchStudents)
	}
}

func (h *MatchingHandler) SearchTutors(c *gin.Context) {
	var criteria dto.TutorSearchCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	result, err := h.matchingService.SearchTutors(&criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *MatchingHandler) SearchStudents(c *gin.Context) {
	var criteria dto.StudentSearchCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	result, err := h.matchingService.SearchStudents(&criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
