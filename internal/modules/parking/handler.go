package parking

import (
	"errors"
	"net/http"
	"strconv"

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
	rg.POST("/reservations", h.Reserve)
	rg.GET("/reservations", h.UserReservations)
	rg.GET("/reservations/:code", h.ReservationByCode)
	rg.DELETE("/reservations/:code", h.CancelReservation)
	rg.POST("/checkins", h.OccupyWithReservation)
	rg.POST("/walk-ins", h.OccupyWithoutReservation)
	rg.POST("/spaces/:id/checkout", h.Liberate)
	rg.GET("/spaces/:id", h.SpaceSnapshot)
	rg.GET("/spaces/:id/history", h.SpaceHistory)
	rg.GET("/racks", h.ListRacks)
	rg.GET("/racks/:id/spaces", h.RackSpaces)
	rg.GET("/racks/:id/occupancy", h.RackOccupancy)
}

func (h *Handler) Reserve(c *gin.Context) {
	var req ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	out, err := h.service.Reserve(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, out)
}

func (h *Handler) OccupyWithReservation(c *gin.Context) {
	var req CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	out, err := h.service.OccupyWithReservation(c.Request.Context(), req.ReservationCode)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, out)
}

func (h *Handler) OccupyWithoutReservation(c *gin.Context) {
	var req WalkInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	out, err := h.service.OccupyWithoutReservation(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, out)
}

func (h *Handler) Liberate(c *gin.Context) {
	spaceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid space ID")
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	out, err := h.service.Liberate(c.Request.Context(), spaceID, req.RetrievalCode)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) CancelReservation(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	out, err := h.service.CancelReservation(c.Request.Context(), c.Param("code"), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, out)
}

func (h *Handler) SpaceSnapshot(c *gin.Context) {
	spaceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid space ID")
		return
	}

	snap, err := h.service.SpaceSnapshot(c.Request.Context(), spaceID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, snap)
}

func (h *Handler) RackOccupancy(c *gin.Context) {
	rackID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid rack ID")
		return
	}

	sum, err := h.service.RackOccupancy(c.Request.Context(), rackID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, sum)
}

func (h *Handler) UserReservations(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	list, err := h.service.UserReservations(c.Request.Context(), userID, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservations": list})
}

func (h *Handler) ReservationByCode(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	res, err := h.service.ReservationByCode(c.Request.Context(), c.Param("code"), userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) SpaceHistory(c *gin.Context) {
	spaceID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid space ID")
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	list, err := h.service.SpaceHistory(c.Request.Context(), spaceID, limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"entries": list})
}

func (h *Handler) ListRacks(c *gin.Context) {
	list, err := h.service.ListRacks(c.Request.Context())
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"racks": list})
}

func (h *Handler) RackSpaces(c *gin.Context) {
	rackID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid rack ID")
		return
	}

	list, err := h.service.RackSpaces(c.Request.Context(), rackID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"spaces": list})
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrDuplicateReservation):
		response.Error(c, http.StatusConflict, "DUPLICATE_RESERVATION", "User already holds a live reservation")
	case errors.Is(err, ErrUserBusy):
		response.Error(c, http.StatusConflict, "USER_BUSY", "User already holds a live reservation")
	case errors.Is(err, ErrNoAvailableSpace):
		response.Error(c, http.StatusConflict, "NO_AVAILABLE_SPACE", "No free space in rack")
	case errors.Is(err, ErrSpaceNotAvailable):
		response.Error(c, http.StatusConflict, "SPACE_NOT_AVAILABLE", "Space is not free")
	case errors.Is(err, ErrReservationAlreadyUsed):
		response.Error(c, http.StatusConflict, "RESERVATION_ALREADY_USED", "Reservation already used")
	case errors.Is(err, ErrReservationExpired):
		response.Error(c, http.StatusConflict, "RESERVATION_EXPIRED", "Reservation expired")
	case errors.Is(err, ErrCodeMismatch):
		response.Error(c, http.StatusForbidden, "CODE_MISMATCH", "Retrieval code does not match")
	case errors.Is(err, ErrCodeExpired):
		response.Error(c, http.StatusForbidden, "CODE_EXPIRED", "Retrieval code expired")
	case errors.Is(err, ErrReservationNotFound):
		response.Error(c, http.StatusNotFound, "RESERVATION_NOT_FOUND", "Reservation not found")
	case errors.Is(err, ErrSpaceNotFound):
		response.Error(c, http.StatusNotFound, "SPACE_NOT_FOUND", "Space not found")
	case errors.Is(err, ErrRackNotFound):
		response.Error(c, http.StatusNotFound, "RACK_NOT_FOUND", "Rack not found")
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, ErrInvalidBicycle):
		response.Error(c, http.StatusForbidden, "INVALID_BICYCLE", "Bicycle does not belong to user")
	case errors.Is(err, ErrNoActiveOccupant):
		response.Error(c, http.StatusConflict, "NO_ACTIVE_OCCUPANT", "No active occupant on space")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Operation failed")
	}
}
