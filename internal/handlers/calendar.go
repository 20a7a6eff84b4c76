package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"railbook/internal/calendar"
)

// DownloadCalendar - GET /api/trips/:reference/calendar.ics
func (h *Handlers) DownloadCalendar(c *gin.Context) {
	booking, err := h.services.Listings.FindByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondError(c, err, "Failed to get booking")
		return
	}
	if booking == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	ics, err := calendar.RenderBooking(booking)
	if err != nil {
		respondError(c, err, "Failed to render calendar")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.ics", booking.Reference))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}

// CreateShareLink - POST /api/trips/:reference/share
func (h *Handlers) CreateShareLink(c *gin.Context) {
	link, err := h.services.Share.CreateLink(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondError(c, err, "Failed to create share link")
		return
	}

	c.JSON(http.StatusCreated, link)
}

// ResolveShareLink - GET /api/share/:token
func (h *Handlers) ResolveShareLink(c *gin.Context) {
	booking, err := h.services.Share.Resolve(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err, "Failed to resolve share link")
		return
	}

	c.JSON(http.StatusOK, booking)
}
