package handlers

import (
	"net/http"
	"strconv"
	"time"

	"railbook/internal/models"

	"github.com/gin-gonic/gin"
)

// Read-only listing handlers

// GetBooking - GET /api/admin/bookings/:id
func (h *Handlers) GetBooking(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		return
	}

	booking, err := h.services.Listings.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to get booking")
		return
	}
	if booking == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	c.JSON(http.StatusOK, booking)
}

// GetBookingByReference - GET /api/trips/:reference
func (h *Handlers) GetBookingByReference(c *gin.Context) {
	booking, err := h.services.Listings.FindByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		respondError(c, err, "Failed to get booking")
		return
	}
	if booking == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	c.JSON(http.StatusOK, booking)
}

// GetBookingByPNR - GET /api/admin/lookup/pnr/:pnr
func (h *Handlers) GetBookingByPNR(c *gin.Context) {
	booking, err := h.services.Listings.FindByPNR(c.Request.Context(), c.Param("pnr"))
	if err != nil {
		respondError(c, err, "Failed to get booking")
		return
	}
	if booking == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	c.JSON(http.StatusOK, booking)
}

// GetBookingByPaymentID - GET /api/admin/lookup/payment/:paymentId
func (h *Handlers) GetBookingByPaymentID(c *gin.Context) {
	booking, err := h.services.Listings.FindByPaymentID(c.Request.Context(), c.Param("paymentId"))
	if err != nil {
		respondError(c, err, "Failed to get booking")
		return
	}
	if booking == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	c.JSON(http.StatusOK, booking)
}

// SearchBookings - GET /api/admin/bookings
func (h *Handlers) SearchBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be >= 1"})
		return
	}
	if limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 100"})
		return
	}

	params := &models.SearchParams{
		Query:  c.Query("query"),
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	}

	if from := c.Query("from_date"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from_date must be YYYY-MM-DD"})
			return
		}
		params.FromDate = &parsed
	}
	if to := c.Query("to_date"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to_date must be YYYY-MM-DD"})
			return
		}
		params.ToDate = &parsed
	}

	response, err := h.services.Listings.Search(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to search bookings")
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetCustomerBookings - GET /api/admin/customers/:email/bookings
func (h *Handlers) GetCustomerBookings(c *gin.Context) {
	bookings, err := h.services.Listings.FindByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err, "Failed to list customer bookings")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// GetUpcomingBookings - GET /api/admin/customers/:email/bookings/upcoming
func (h *Handlers) GetUpcomingBookings(c *gin.Context) {
	bookings, err := h.services.Listings.Upcoming(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err, "Failed to list upcoming bookings")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// GetPastBookings - GET /api/admin/customers/:email/bookings/past
func (h *Handlers) GetPastBookings(c *gin.Context) {
	bookings, err := h.services.Listings.Past(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err, "Failed to list past bookings")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// GetTodayBookings - GET /api/admin/today
func (h *Handlers) GetTodayBookings(c *gin.Context) {
	bookings, err := h.services.Listings.Today(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to list today's bookings")
		return
	}

	c.JSON(http.StatusOK, bookings)
}
