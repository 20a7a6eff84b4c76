package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	apperrors "railbook/internal/errors"
	"railbook/internal/logger"
	"railbook/internal/models"

	"github.com/google/uuid"
)

// BookingService owns every write to a booking's status, ticket and
// refund fields
type BookingService struct {
	store BookingStore
	nats  Publisher
	index BookingIndexer
}

func NewBookingService(store BookingStore, nats Publisher, index BookingIndexer) *BookingService {
	return &BookingService{
		store: store,
		nats:  nats,
		index: index,
	}
}

// allowedTransitions is the guard table for UpdateStatus. Re-asserting
// the current status is always allowed. The refund-driven statuses
// (refunded, partially_refunded) are set by ProcessRefund only and are
// never a legal UpdateStatus target from another status.
var allowedTransitions = map[string]map[string]bool{
	models.StatusPending: {
		models.StatusPending:   true,
		models.StatusConfirmed: true,
		models.StatusCancelled: true,
		models.StatusExpired:   true,
	},
	models.StatusConfirmed: {
		models.StatusConfirmed: true,
		models.StatusTicketed:  true,
		models.StatusCancelled: true,
		models.StatusExchanged: true,
	},
	models.StatusTicketed: {
		models.StatusTicketed:  true,
		models.StatusCancelled: true,
		models.StatusExchanged: true,
	},
	models.StatusPartiallyRefunded: {
		models.StatusPartiallyRefunded: true,
		models.StatusCancelled:         true,
	},
	models.StatusRefunded:  {models.StatusRefunded: true},
	models.StatusCancelled: {models.StatusCancelled: true},
	models.StatusExchanged: {models.StatusExchanged: true},
	models.StatusExpired:   {models.StatusExpired: true},
}

// newReference generates the human-facing booking reference. Uniqueness
// is backed by the database constraint; a collision is a fatal error, not
// a recoverable one.
func newReference() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "RB-" + strings.ToUpper(id[:10])
}

// Create persists a new booking in pending status. The total price is
// computed once, here, and never recomputed.
func (s *BookingService) Create(ctx context.Context, req *models.CreateBookingRequest) (*models.Booking, error) {
	booking := &models.Booking{
		Reference: newReference(),

		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,

		OriginStation:      req.OriginStation,
		OriginCode:         req.OriginCode,
		DestinationStation: req.DestinationStation,
		DestinationCode:    req.DestinationCode,
		DepartureDate:      req.DepartureDate,
		DepartureTime:      req.DepartureTime,
		ArrivalTime:        req.ArrivalTime,
		TrainNumber:        req.TrainNumber,
		Operator:           req.Operator,
		FareClass:          req.FareClass,

		Adults:    req.Adults,
		Children:  req.Children,
		Travelers: req.Travelers,

		TicketPrice:    req.TicketPrice,
		ServiceFee:     req.ServiceFee,
		DiscountAmount: req.DiscountAmount,
		TotalPrice:     req.TicketPrice + req.ServiceFee - req.DiscountAmount,
		Currency:       req.Currency,
		PromoCode:      req.PromoCode,

		Status: models.StatusPending,

		Locale:    req.Locale,
		UserAgent: req.UserAgent,
		IPAddress: req.IPAddress,
		SessionID: req.SessionID,
	}

	if err := s.store.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.publish(ctx, models.EventBookingCreated, models.BookingCreatedEvent{
		BookingID:     booking.ID,
		Reference:     booking.Reference,
		CustomerEmail: booking.CustomerEmail,
		TotalPrice:    booking.TotalPrice,
		Currency:      booking.Currency,
		Timestamp:     time.Now(),
	})
	s.reindex(ctx, booking)

	return booking, nil
}

// UpdateStatus moves a booking to a new status. Illegal transitions per
// the guard table are rejected with ErrInvalidTransition. confirmedAt is
// re-stamped on every transition to confirmed, cancelledAt on every
// transition to cancelled.
func (s *BookingService) UpdateStatus(ctx context.Context, id int64, newStatus string, reason *string) (*models.Booking, error) {
	booking, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperrors.ErrNotFound
	}

	if !allowedTransitions[booking.Status][newStatus] {
		return nil, fmt.Errorf("%s -> %s: %w", booking.Status, newStatus, apperrors.ErrInvalidTransition)
	}

	now := time.Now()
	oldStatus := booking.Status

	booking.Status = newStatus
	booking.StatusReason = reason
	booking.LastStatusChange = now

	switch newStatus {
	case models.StatusConfirmed:
		booking.ConfirmedAt = &now
	case models.StatusCancelled:
		booking.CancelledAt = &now
	}

	if err := s.store.Update(ctx, booking); err != nil {
		return nil, err
	}

	reasonText := ""
	if reason != nil {
		reasonText = *reason
	}
	s.publish(ctx, models.EventBookingStatusChanged, models.BookingStatusChangedEvent{
		BookingID:     booking.ID,
		Reference:     booking.Reference,
		CustomerEmail: booking.CustomerEmail,
		OldStatus:     oldStatus,
		NewStatus:     newStatus,
		Reason:        reasonText,
		Timestamp:     now,
	})
	s.reindex(ctx, booking)

	return booking, nil
}

// UpdateTicketInfo merges the provided ticket artifacts onto the booking
// and marks it ticketed. An empty string means "not provided" and leaves
// the existing value untouched; ticket fields are never cleared here.
func (s *BookingService) UpdateTicketInfo(ctx context.Context, id int64, req *models.UpdateTicketRequest) (*models.Booking, error) {
	booking, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperrors.ErrNotFound
	}

	if req.TicketPdfURL != "" {
		booking.TicketPdfURL = &req.TicketPdfURL
	}
	if req.TicketPkpassURL != "" {
		booking.TicketPkpassURL = &req.TicketPkpassURL
	}
	if req.TicketData != nil {
		booking.TicketData = req.TicketData
	}

	booking.Status = models.StatusTicketed
	booking.LastStatusChange = time.Now()

	if err := s.store.Update(ctx, booking); err != nil {
		return nil, err
	}

	pdfURL := ""
	if booking.TicketPdfURL != nil {
		pdfURL = *booking.TicketPdfURL
	}
	s.publish(ctx, models.EventBookingTicketed, models.BookingTicketedEvent{
		BookingID:     booking.ID,
		Reference:     booking.Reference,
		CustomerEmail: booking.CustomerEmail,
		TicketPdfURL:  pdfURL,
		Timestamp:     time.Now(),
	})
	s.reindex(ctx, booking)

	return booking, nil
}

// ProcessRefund applies one refund to a booking. Amounts accumulate
// across calls and are intentionally not clamped to the total price;
// the status is derived from the cumulative amount.
func (s *BookingService) ProcessRefund(ctx context.Context, id int64, req *models.RefundRequest) (*models.Booking, error) {
	booking, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperrors.ErrNotFound
	}

	now := time.Now()

	booking.RefundedAmount += req.Amount
	booking.RefundReason = &req.Reason
	booking.RefundedBy = &req.RefundedBy
	booking.RefundedAt = &now

	if booking.RefundedAmount >= booking.TotalPrice {
		booking.Status = models.StatusRefunded
	} else {
		booking.Status = models.StatusPartiallyRefunded
	}
	booking.LastStatusChange = now

	if err := s.store.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.publish(ctx, models.EventBookingRefunded, models.BookingRefundedEvent{
		BookingID:      booking.ID,
		Reference:      booking.Reference,
		CustomerEmail:  booking.CustomerEmail,
		Amount:         req.Amount,
		RefundedAmount: booking.RefundedAmount,
		Status:         booking.Status,
		RefundedBy:     req.RefundedBy,
		Timestamp:      now,
	})
	s.reindex(ctx, booking)

	return booking, nil
}

// UpdatePaymentInfo records the payment collaborator's identifiers on the
// booking. The lifecycle itself never initiates payment.
func (s *BookingService) UpdatePaymentInfo(ctx context.Context, id int64, req *models.UpdatePaymentRequest) (*models.Booking, error) {
	booking, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperrors.ErrNotFound
	}

	booking.PaymentReference = &req.PaymentReference
	booking.PaymentMethod = &req.PaymentMethod
	if req.TransactionID != "" {
		booking.TransactionID = &req.TransactionID
	}

	if err := s.store.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.reindex(ctx, booking)
	return booking, nil
}

// SetPNR stores the carrier-assigned PNR; called by the reservation sync
// consumer after the carrier accepts a confirmed booking
func (s *BookingService) SetPNR(ctx context.Context, id int64, pnr string) (*models.Booking, error) {
	booking, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperrors.ErrNotFound
	}

	booking.PNR = &pnr

	if err := s.store.Update(ctx, booking); err != nil {
		return nil, err
	}

	s.reindex(ctx, booking)
	return booking, nil
}

func (s *BookingService) publish(ctx context.Context, subject string, data interface{}) {
	if s.nats == nil {
		return
	}
	if err := s.nats.Publish(subject, data); err != nil {
		// Events are best-effort; the mutation itself already succeeded
		logger.WithContext(ctx).Error("Failed to publish booking event",
			"error", err,
			"event_type", subject)
	}
}

func (s *BookingService) reindex(ctx context.Context, booking *models.Booking) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexBooking(ctx, booking); err != nil {
		logger.WithContext(ctx).Error("Failed to index booking",
			"error", err,
			"booking_id", booking.ID)
	}
}
