package models

import "time"

// CreateBookingRequest - full field set for a new booking, minus
// server-assigned fields (id, reference, status, timestamps)
type CreateBookingRequest struct {
	CustomerName  string  `json:"customer_name" binding:"required"`
	CustomerEmail string  `json:"customer_email" binding:"required,email"`
	CustomerPhone *string `json:"customer_phone"`

	OriginStation      string    `json:"origin_station" binding:"required"`
	OriginCode         *string   `json:"origin_code"`
	DestinationStation string    `json:"destination_station" binding:"required"`
	DestinationCode    *string   `json:"destination_code"`
	DepartureDate      time.Time `json:"departure_date" binding:"required"`
	DepartureTime      string    `json:"departure_time" binding:"required"`
	ArrivalTime        string    `json:"arrival_time"`
	TrainNumber        string    `json:"train_number" binding:"required"`
	Operator           string    `json:"operator"`
	FareClass          string    `json:"fare_class"`

	Adults    int          `json:"adults" binding:"required,min=1"`
	Children  int          `json:"children"`
	Travelers TravelerList `json:"travelers"`

	TicketPrice    float64 `json:"ticket_price" binding:"required"`
	ServiceFee     float64 `json:"service_fee"`
	DiscountAmount float64 `json:"discount_amount"`
	Currency       string  `json:"currency" binding:"required"`
	PromoCode      *string `json:"promo_code"`

	Locale    *string `json:"locale"`
	UserAgent *string `json:"user_agent"`
	IPAddress *string `json:"ip_address"`
	SessionID *string `json:"session_id"`
}

// UpdateStatusRequest - request to move a booking to a new status
type UpdateStatusRequest struct {
	Status string  `json:"status" binding:"required"`
	Reason *string `json:"reason"`
}

// UpdateTicketRequest - any subset of ticket artifacts to merge onto a
// booking; empty string means "not provided", not an explicit clear
type UpdateTicketRequest struct {
	TicketPdfURL    string      `json:"ticket_pdf_url"`
	TicketPkpassURL string      `json:"ticket_pkpass_url"`
	TicketData      *TicketData `json:"ticket_data"`
}

// RefundRequest - apply one refund to a booking
type RefundRequest struct {
	Amount     float64 `json:"amount" binding:"required"`
	Reason     string  `json:"reason" binding:"required"`
	RefundedBy string  `json:"refunded_by" binding:"required"`
}

// UpdatePaymentRequest - payment collaborator writes these fields once
type UpdatePaymentRequest struct {
	PaymentReference string `json:"payment_reference" binding:"required"`
	PaymentMethod    string `json:"payment_method" binding:"required"`
	TransactionID    string `json:"transaction_id"`
}

// SearchParams - filtered, paginated admin listing
type SearchParams struct {
	Query    string
	Status   string
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
	Limit    int
}

// SearchResponse - one page of matching bookings plus paging info
type SearchResponse struct {
	Bookings   []Booking `json:"bookings"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"total_pages"`
}

// StatsResponse - point-in-time aggregates over the booking store
type StatsResponse struct {
	Total     int64   `json:"total"`
	Confirmed int64   `json:"confirmed"`
	Cancelled int64   `json:"cancelled"`
	Revenue   float64 `json:"revenue"`
}

// ShareLinkResponse - result of creating a share link for a booking
type ShareLinkResponse struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
