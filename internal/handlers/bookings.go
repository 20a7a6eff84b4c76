package handlers

import (
	"net/http"
	"strconv"

	"railbook/internal/models"

	"github.com/gin-gonic/gin"
)

// Booking lifecycle handlers

// CreateBooking - POST /api/bookings
func (h *Handlers) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.services.Bookings.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create booking")
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// UpdateBookingStatus - PATCH /api/admin/bookings/:id/status
func (h *Handlers) UpdateBookingStatus(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		return
	}

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.services.Bookings.UpdateStatus(c.Request.Context(), id, req.Status, req.Reason)
	if err != nil {
		respondError(c, err, "Failed to update booking status")
		return
	}

	c.JSON(http.StatusOK, booking)
}

// UpdateBookingTicket - PATCH /api/admin/bookings/:id/ticket
func (h *Handlers) UpdateBookingTicket(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		return
	}

	var req models.UpdateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.services.Bookings.UpdateTicketInfo(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update ticket info")
		return
	}

	c.JSON(http.StatusOK, booking)
}

// RefundBooking - POST /api/admin/bookings/:id/refund
func (h *Handlers) RefundBooking(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		return
	}

	var req models.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.services.Bookings.ProcessRefund(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to process refund")
		return
	}

	c.JSON(http.StatusOK, booking)
}

// UpdateBookingPayment - PATCH /api/admin/bookings/:id/payment
func (h *Handlers) UpdateBookingPayment(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		return
	}

	var req models.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.services.Bookings.UpdatePaymentInfo(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err, "Failed to update payment info")
		return
	}

	c.JSON(http.StatusOK, booking)
}

// bookingID parses the :id path parameter, replying 400 on garbage
func bookingID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be an integer"})
		return 0, err
	}
	return id, nil
}
