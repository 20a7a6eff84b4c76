package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Booking statuses
const (
	StatusPending           = "pending"
	StatusConfirmed         = "confirmed"
	StatusTicketed          = "ticketed"
	StatusCancelled         = "cancelled"
	StatusRefunded          = "refunded"
	StatusPartiallyRefunded = "partially_refunded"
	StatusExchanged         = "exchanged"
	StatusExpired           = "expired"
)

// Traveler is one passenger on a booking
type Traveler struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Type           string `json:"type"` // adult or child
	DocumentType   string `json:"document_type,omitempty"`
	DocumentNumber string `json:"document_number,omitempty"`
}

// TravelerList is stored as a JSONB column
type TravelerList []Traveler

func (t TravelerList) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	return json.Marshal(t)
}

func (t *TravelerList) Scan(src interface{}) error {
	if src == nil {
		*t = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into TravelerList", src)
	}
	return json.Unmarshal(b, t)
}

// TicketData holds the structured ticket payload issued by the carrier.
// All fields are optional; the record is only meaningful once a booking
// has been ticketed.
type TicketData struct {
	SeatNumber  *string    `json:"seat_number,omitempty"`
	CoachNumber *string    `json:"coach_number,omitempty"`
	QRPayload   *string    `json:"qr_payload,omitempty"`
	ValidFrom   *time.Time `json:"valid_from,omitempty"`
	ValidUntil  *time.Time `json:"valid_until,omitempty"`
}

func (d TicketData) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *TicketData) Scan(src interface{}) error {
	if src == nil {
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into TicketData", src)
	}
	return json.Unmarshal(b, d)
}

// Booking represents one train reservation, from creation through
// ticketing, cancellation or refund
type Booking struct {
	ID        int64   `json:"id" db:"id"`
	Reference string  `json:"reference" db:"reference"`
	PNR       *string `json:"pnr" db:"pnr"`

	CustomerName  string  `json:"customer_name" db:"customer_name"`
	CustomerEmail string  `json:"customer_email" db:"customer_email"`
	CustomerPhone *string `json:"customer_phone" db:"customer_phone"`

	OriginStation      string    `json:"origin_station" db:"origin_station"`
	OriginCode         *string   `json:"origin_code" db:"origin_code"`
	DestinationStation string    `json:"destination_station" db:"destination_station"`
	DestinationCode    *string   `json:"destination_code" db:"destination_code"`
	DepartureDate      time.Time `json:"departure_date" db:"departure_date"`
	DepartureTime      string    `json:"departure_time" db:"departure_time"`
	ArrivalTime        string    `json:"arrival_time" db:"arrival_time"`
	TrainNumber        string    `json:"train_number" db:"train_number"`
	Operator           string    `json:"operator" db:"operator"`
	FareClass          string    `json:"fare_class" db:"fare_class"`

	Adults    int          `json:"adults" db:"adults"`
	Children  int          `json:"children" db:"children"`
	Travelers TravelerList `json:"travelers" db:"travelers"`

	TicketPrice    float64 `json:"ticket_price" db:"ticket_price"`
	ServiceFee     float64 `json:"service_fee" db:"service_fee"`
	DiscountAmount float64 `json:"discount_amount" db:"discount_amount"`
	TotalPrice     float64 `json:"total_price" db:"total_price"`
	Currency       string  `json:"currency" db:"currency"`
	PromoCode      *string `json:"promo_code" db:"promo_code"`

	PaymentReference *string `json:"payment_reference" db:"payment_reference"`
	PaymentMethod    *string `json:"payment_method" db:"payment_method"`
	TransactionID    *string `json:"transaction_id" db:"transaction_id"`

	RefundedAmount float64    `json:"refunded_amount" db:"refunded_amount"`
	RefundReason   *string    `json:"refund_reason" db:"refund_reason"`
	RefundedAt     *time.Time `json:"refunded_at" db:"refunded_at"`
	RefundedBy     *string    `json:"refunded_by" db:"refunded_by"`

	TicketPdfURL    *string     `json:"ticket_pdf_url" db:"ticket_pdf_url"`
	TicketPkpassURL *string     `json:"ticket_pkpass_url" db:"ticket_pkpass_url"`
	TicketData      *TicketData `json:"ticket_data" db:"ticket_data"`

	Status           string     `json:"status" db:"status"`
	StatusReason     *string    `json:"status_reason" db:"status_reason"`
	LastStatusChange time.Time  `json:"last_status_change" db:"last_status_change"`
	ConfirmedAt      *time.Time `json:"confirmed_at" db:"confirmed_at"`
	CancelledAt      *time.Time `json:"cancelled_at" db:"cancelled_at"`

	// Diagnostic metadata, no behavioral effect
	Locale    *string `json:"locale" db:"locale"`
	UserAgent *string `json:"user_agent" db:"user_agent"`
	IPAddress *string `json:"ip_address" db:"ip_address"`
	SessionID *string `json:"session_id" db:"session_id"`

	Version   int       `json:"-" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AdminUser represents a back-office user
type AdminUser struct {
	UserID       int64     `json:"user_id" db:"user_id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	Surname      string    `json:"surname" db:"surname"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	LastLoggedIn time.Time `json:"last_logged_in" db:"last_logged_in"`
}
