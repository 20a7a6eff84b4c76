package consumers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/stan.go"

	"railbook/internal/external"
	"railbook/internal/models"
	"railbook/internal/repository"
)

type Handlers struct {
	repos              *repository.Repositories
	notificationClient *external.NotificationClient
	carrierClient      *external.CarrierClient
}

func NewHandlers(repos *repository.Repositories, notificationClient *external.NotificationClient, carrierClient *external.CarrierClient) *Handlers {
	return &Handlers{
		repos:              repos,
		notificationClient: notificationClient,
		carrierClient:      carrierClient,
	}
}

func (h *Handlers) HandleBookingCreated(m *stan.Msg) {
	var event models.BookingCreatedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking created event", "error", err)
		return
	}

	slog.Info("Processing booking created event", "booking_id", event.BookingID, "reference", event.Reference)

	h.sendEmail(event.CustomerEmail, "booking_created", map[string]interface{}{
		"reference":   event.Reference,
		"total_price": event.TotalPrice,
		"currency":    event.Currency,
	})

	m.Ack()
}

func (h *Handlers) HandleBookingStatusChanged(m *stan.Msg) {
	var event models.BookingStatusChangedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal status changed event", "error", err)
		return
	}

	slog.Info("Processing status changed event",
		"booking_id", event.BookingID,
		"old_status", event.OldStatus,
		"new_status", event.NewStatus)

	switch event.NewStatus {
	case models.StatusConfirmed:
		h.registerWithCarrier(event.BookingID)
		h.sendEmail(event.CustomerEmail, "booking_confirmed", map[string]interface{}{
			"reference": event.Reference,
		})
	case models.StatusCancelled:
		h.sendEmail(event.CustomerEmail, "booking_cancelled", map[string]interface{}{
			"reference": event.Reference,
			"reason":    event.Reason,
		})
	}

	m.Ack()
}

func (h *Handlers) HandleBookingTicketed(m *stan.Msg) {
	var event models.BookingTicketedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking ticketed event", "error", err)
		return
	}

	slog.Info("Processing booking ticketed event", "booking_id", event.BookingID)

	h.sendEmail(event.CustomerEmail, "ticket_ready", map[string]interface{}{
		"reference":      event.Reference,
		"ticket_pdf_url": event.TicketPdfURL,
	})

	m.Ack()
}

func (h *Handlers) HandleBookingRefunded(m *stan.Msg) {
	var event models.BookingRefundedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking refunded event", "error", err)
		return
	}

	slog.Info("Processing booking refunded event",
		"booking_id", event.BookingID,
		"amount", event.Amount,
		"status", event.Status)

	h.sendEmail(event.CustomerEmail, "refund_processed", map[string]interface{}{
		"reference":       event.Reference,
		"amount":          event.Amount,
		"refunded_amount": event.RefundedAmount,
		"status":          event.Status,
	})

	m.Ack()
}

func (h *Handlers) HandleBookingExpired(m *stan.Msg) {
	var event models.BookingExpiredEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal booking expired event", "error", err)
		return
	}

	slog.Info("Processing booking expired event", "booking_id", event.BookingID)

	ctx := context.Background()
	booking, err := h.repos.Bookings.GetByID(ctx, event.BookingID)
	if err != nil {
		slog.Error("Failed to get expired booking", "booking_id", event.BookingID, "error", err)
		return
	}

	if booking != nil {
		h.sendEmail(booking.CustomerEmail, "booking_expired", map[string]interface{}{
			"reference": booking.Reference,
			"reason":    event.Reason,
		})
	}

	m.Ack()
}

// registerWithCarrier submits a freshly confirmed booking to the carrier
// and stores the PNR it assigns
func (h *Handlers) registerWithCarrier(bookingID int64) {
	ctx := context.Background()

	booking, err := h.repos.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		slog.Error("Failed to get booking for carrier registration", "booking_id", bookingID, "error", err)
		return
	}
	if booking == nil {
		slog.Error("Booking not found for carrier registration", "booking_id", bookingID)
		return
	}
	if booking.PNR != nil && *booking.PNR != "" {
		return
	}

	resp, err := h.carrierClient.RegisterReservation(&external.RegisterReservationRequest{
		Reference:     booking.Reference,
		TrainNumber:   booking.TrainNumber,
		DepartureDate: booking.DepartureDate.Format("2006-01-02"),
		Origin:        booking.OriginStation,
		Destination:   booking.DestinationStation,
		Passengers:    booking.Adults + booking.Children,
	})
	if err != nil {
		slog.Error("Failed to register reservation with carrier", "booking_id", bookingID, "error", err)
		return
	}

	booking.PNR = &resp.PNR
	if err := h.repos.Bookings.Update(ctx, booking); err != nil {
		slog.Error("Failed to store PNR", "booking_id", bookingID, "pnr", resp.PNR, "error", err)
		return
	}

	slog.Info("PNR assigned by carrier", "booking_id", bookingID, "pnr", resp.PNR)
}

// sendEmail fires one templated email and logs failures. Email delivery
// never blocks event processing.
func (h *Handlers) sendEmail(to, template string, data map[string]interface{}) {
	if to == "" {
		return
	}

	if _, err := h.notificationClient.SendTemplate(to, template, data); err != nil {
		slog.Error("Failed to send notification email", "template", template, "error", err)
	}
}
