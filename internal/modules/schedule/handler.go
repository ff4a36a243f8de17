package schedule

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"velopark/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/assignments", h.CreateAssignment)
	rg.DELETE("/assignments/:id", h.DeactivateAssignment)
	rg.GET("/guards/available", h.AvailableGuards)
}

func (h *Handler) CreateAssignment(c *gin.Context) {
	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	a, err := h.service.CreateAssignment(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, a)
}

func (h *Handler) DeactivateAssignment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid assignment id")
		return
	}

	a, err := h.service.DeactivateAssignment(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}

func (h *Handler) AvailableGuards(c *gin.Context) {
	var req AvailableGuardsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	var date time.Time
	if req.Date != "" {
		var err error
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid date, expected YYYY-MM-DD")
			return
		}
	}

	guards, err := h.service.AvailableGuards(c.Request.Context(), req.DayOfWeek, req.StartTime, req.EndTime, date)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, guards)
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrScheduleOverlap):
		response.Error(c, http.StatusConflict, "SCHEDULE_OVERLAP", "Assignment overlaps an existing one")
	case errors.Is(err, ErrNotAGuard):
		response.Error(c, http.StatusUnprocessableEntity, "NOT_A_GUARD", "User does not have the guard role")
	case errors.Is(err, ErrGuardNotFound):
		response.Error(c, http.StatusNotFound, "GUARD_NOT_FOUND", "Guard not found")
	case errors.Is(err, ErrRackNotFound):
		response.Error(c, http.StatusNotFound, "RACK_NOT_FOUND", "Rack not found")
	case errors.Is(err, ErrAssignmentNotFound):
		response.Error(c, http.StatusNotFound, "ASSIGNMENT_NOT_FOUND", "Assignment not found")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
