package models

import "time"

// NATS Event Types
const (
	EventBookingCreated       = "booking.created"
	EventBookingStatusChanged = "booking.status_changed"
	EventBookingTicketed      = "booking.ticketed"
	EventBookingRefunded      = "booking.refunded"
	EventBookingExpired       = "booking.expired"
)

// BookingCreatedEvent is published after a booking is persisted
type BookingCreatedEvent struct {
	BookingID     int64     `json:"booking_id"`
	Reference     string    `json:"reference"`
	CustomerEmail string    `json:"customer_email"`
	TotalPrice    float64   `json:"total_price"`
	Currency      string    `json:"currency"`
	Timestamp     time.Time `json:"timestamp"`
}

// BookingStatusChangedEvent is published on every status transition
type BookingStatusChangedEvent struct {
	BookingID     int64     `json:"booking_id"`
	Reference     string    `json:"reference"`
	CustomerEmail string    `json:"customer_email"`
	OldStatus     string    `json:"old_status"`
	NewStatus     string    `json:"new_status"`
	Reason        string    `json:"reason,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// BookingTicketedEvent is published after ticket artifacts are attached
type BookingTicketedEvent struct {
	BookingID     int64     `json:"booking_id"`
	Reference     string    `json:"reference"`
	CustomerEmail string    `json:"customer_email"`
	TicketPdfURL  string    `json:"ticket_pdf_url,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// BookingRefundedEvent is published after a refund is applied
type BookingRefundedEvent struct {
	BookingID      int64     `json:"booking_id"`
	Reference      string    `json:"reference"`
	CustomerEmail  string    `json:"customer_email"`
	Amount         float64   `json:"amount"`
	RefundedAmount float64   `json:"refunded_amount"`
	Status         string    `json:"status"`
	RefundedBy     string    `json:"refunded_by"`
	Timestamp      time.Time `json:"timestamp"`
}

// BookingExpiredEvent is published when the expiration job times out a
// pending booking
type BookingExpiredEvent struct {
	BookingID int64     `json:"booking_id"`
	Reference string    `json:"reference"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}
