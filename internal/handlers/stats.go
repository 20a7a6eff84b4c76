package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetStats - GET /api/admin/stats
func (h *Handlers) GetStats(c *gin.Context) {
	stats, err := h.services.Stats.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to compute stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}
