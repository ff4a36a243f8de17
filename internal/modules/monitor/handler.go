package monitor

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"velopark/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes exposes on-demand sweep triggers, intended for admin use.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sweeps/infractions", h.TriggerInfractionSweep)
	rg.POST("/sweeps/expirations", h.TriggerExpirySweep)
}

func (h *Handler) TriggerInfractionSweep(c *gin.Context) {
	n, err := h.service.RunInfractionSweep(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Sweep failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"affected": n})
}

func (h *Handler) TriggerExpirySweep(c *gin.Context) {
	n, err := h.service.RunExpirySweep(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Sweep failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"affected": n})
}
