package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"railbook/internal/database"
	apperrors "railbook/internal/errors"
	"railbook/internal/models"

	"github.com/lib/pq"
)

type BookingRepository struct {
	db *database.DB
}

func NewBookingRepository(db *database.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, reference, pnr, customer_name, customer_email, customer_phone,
	       origin_station, origin_code, destination_station, destination_code,
	       departure_date, departure_time, arrival_time, train_number, operator, fare_class,
	       adults, children, travelers,
	       ticket_price, service_fee, discount_amount, total_price, currency, promo_code,
	       payment_reference, payment_method, transaction_id,
	       refunded_amount, refund_reason, refunded_at, refunded_by,
	       ticket_pdf_url, ticket_pkpass_url, ticket_data,
	       status, status_reason, last_status_change, confirmed_at, cancelled_at,
	       locale, user_agent, ip_address, session_id,
	       version, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// nullTicketData scans a nullable JSONB ticket_data column
type nullTicketData struct {
	data *models.TicketData
}

func (n *nullTicketData) Scan(src interface{}) error {
	if src == nil {
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into ticket_data", src)
	}
	var d models.TicketData
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	n.data = &d
	return nil
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	booking := &models.Booking{}
	var ticketData nullTicketData

	err := row.Scan(
		&booking.ID,
		&booking.Reference,
		&booking.PNR,
		&booking.CustomerName,
		&booking.CustomerEmail,
		&booking.CustomerPhone,
		&booking.OriginStation,
		&booking.OriginCode,
		&booking.DestinationStation,
		&booking.DestinationCode,
		&booking.DepartureDate,
		&booking.DepartureTime,
		&booking.ArrivalTime,
		&booking.TrainNumber,
		&booking.Operator,
		&booking.FareClass,
		&booking.Adults,
		&booking.Children,
		&booking.Travelers,
		&booking.TicketPrice,
		&booking.ServiceFee,
		&booking.DiscountAmount,
		&booking.TotalPrice,
		&booking.Currency,
		&booking.PromoCode,
		&booking.PaymentReference,
		&booking.PaymentMethod,
		&booking.TransactionID,
		&booking.RefundedAmount,
		&booking.RefundReason,
		&booking.RefundedAt,
		&booking.RefundedBy,
		&booking.TicketPdfURL,
		&booking.TicketPkpassURL,
		&ticketData,
		&booking.Status,
		&booking.StatusReason,
		&booking.LastStatusChange,
		&booking.ConfirmedAt,
		&booking.CancelledAt,
		&booking.Locale,
		&booking.UserAgent,
		&booking.IPAddress,
		&booking.SessionID,
		&booking.Version,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.TicketData = ticketData.data
	return booking, nil
}

func collectBookings(rows *sql.Rows) ([]models.Booking, error) {
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}

	return bookings, rows.Err()
}

func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (reference, customer_name, customer_email, customer_phone,
		                      origin_station, origin_code, destination_station, destination_code,
		                      departure_date, departure_time, arrival_time, train_number, operator, fare_class,
		                      adults, children, travelers,
		                      ticket_price, service_fee, discount_amount, total_price, currency, promo_code,
		                      status, locale, user_agent, ip_address, session_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)
		RETURNING id, refunded_amount, last_status_change, version, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		booking.Reference,
		booking.CustomerName,
		booking.CustomerEmail,
		booking.CustomerPhone,
		booking.OriginStation,
		booking.OriginCode,
		booking.DestinationStation,
		booking.DestinationCode,
		booking.DepartureDate,
		booking.DepartureTime,
		booking.ArrivalTime,
		booking.TrainNumber,
		booking.Operator,
		booking.FareClass,
		booking.Adults,
		booking.Children,
		booking.Travelers,
		booking.TicketPrice,
		booking.ServiceFee,
		booking.DiscountAmount,
		booking.TotalPrice,
		booking.Currency,
		booking.PromoCode,
		booking.Status,
		booking.Locale,
		booking.UserAgent,
		booking.IPAddress,
		booking.SessionID,
	).Scan(&booking.ID, &booking.RefundedAmount, &booking.LastStatusChange,
		&booking.Version, &booking.CreatedAt, &booking.UpdatedAt)

	return err
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	return r.getByKey(ctx, "id = $1", id)
}

func (r *BookingRepository) GetByReference(ctx context.Context, reference string) (*models.Booking, error) {
	return r.getByKey(ctx, "reference = $1", reference)
}

func (r *BookingRepository) GetByPNR(ctx context.Context, pnr string) (*models.Booking, error) {
	return r.getByKey(ctx, "pnr = $1", pnr)
}

func (r *BookingRepository) GetByPaymentID(ctx context.Context, paymentID string) (*models.Booking, error) {
	return r.getByKey(ctx, "payment_reference = $1", paymentID)
}

func (r *BookingRepository) getByKey(ctx context.Context, where string, arg interface{}) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + where

	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return booking, nil
}

func (r *BookingRepository) GetByEmail(ctx context.Context, email string) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE customer_email = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, err
	}

	return collectBookings(rows)
}

// GetByIDs returns the bookings for a set of ids, newest-created first
func (r *BookingRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.Booking, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE id = ANY($1)
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}

	return collectBookings(rows)
}

// Update writes every field the lifecycle may mutate. The write is a
// compare-and-swap on (id, version): if another request updated the row
// first, no row matches and ErrVersionConflict is returned instead of
// silently losing the increment.
func (r *BookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	query := `
		UPDATE bookings
		SET pnr = $1, payment_reference = $2, payment_method = $3, transaction_id = $4,
		    refunded_amount = $5, refund_reason = $6, refunded_at = $7, refunded_by = $8,
		    ticket_pdf_url = $9, ticket_pkpass_url = $10, ticket_data = $11,
		    status = $12, status_reason = $13, last_status_change = $14,
		    confirmed_at = $15, cancelled_at = $16,
		    version = version + 1, updated_at = NOW()
		WHERE id = $17 AND version = $18`

	var ticketData interface{}
	if booking.TicketData != nil {
		ticketData = *booking.TicketData
	}

	result, err := r.db.ExecContext(ctx, query,
		booking.PNR,
		booking.PaymentReference,
		booking.PaymentMethod,
		booking.TransactionID,
		booking.RefundedAmount,
		booking.RefundReason,
		booking.RefundedAt,
		booking.RefundedBy,
		booking.TicketPdfURL,
		booking.TicketPkpassURL,
		ticketData,
		booking.Status,
		booking.StatusReason,
		booking.LastStatusChange,
		booking.ConfirmedAt,
		booking.CancelledAt,
		booking.ID,
		booking.Version,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperrors.ErrVersionConflict
	}

	booking.Version++
	return nil
}

// Search runs the filtered, paginated admin listing. Returns the page's
// bookings plus the total match count across all pages.
func (r *BookingRepository) Search(ctx context.Context, params *models.SearchParams) ([]models.Booking, int, error) {
	where := "1=1"
	args := []interface{}{}

	if params.Query != "" {
		args = append(args, "%"+params.Query+"%")
		n := len(args)
		where += fmt.Sprintf(` AND (reference ILIKE $%d OR pnr ILIKE $%d OR customer_email ILIKE $%d OR customer_name ILIKE $%d)`, n, n, n, n)
	}
	if params.Status != "" {
		args = append(args, params.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if params.FromDate != nil {
		args = append(args, *params.FromDate)
		where += fmt.Sprintf(" AND departure_date >= $%d", len(args))
	}
	if params.ToDate != nil {
		args = append(args, *params.ToDate)
		where += fmt.Sprintf(" AND departure_date <= $%d", len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM bookings WHERE ` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, params.Limit, (params.Page-1)*params.Limit)
	query := fmt.Sprintf(`SELECT `+bookingColumns+`
		FROM bookings
		WHERE `+where+`
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	bookings, err := collectBookings(rows)
	if err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

// GetUpcomingByEmail returns a customer's confirmed bookings departing
// today or later, soonest first
func (r *BookingRepository) GetUpcomingByEmail(ctx context.Context, email string, today time.Time) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE customer_email = $1
		  AND status = $2
		  AND departure_date >= $3
		ORDER BY departure_date ASC`

	rows, err := r.db.QueryContext(ctx, query, email, models.StatusConfirmed, today)
	if err != nil {
		return nil, err
	}

	return collectBookings(rows)
}

// GetPastByEmail returns a customer's bookings that already departed,
// most recent first
func (r *BookingRepository) GetPastByEmail(ctx context.Context, email string, today time.Time) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE customer_email = $1
		  AND departure_date < $2
		ORDER BY departure_date DESC`

	rows, err := r.db.QueryContext(ctx, query, email, today)
	if err != nil {
		return nil, err
	}

	return collectBookings(rows)
}

// GetCreatedBetween returns bookings created within [from, to), newest first
func (r *BookingRepository) GetCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}

	return collectBookings(rows)
}

// GetExpiredPending returns pending bookings created before the cutoff
func (r *BookingRepository) GetExpiredPending(ctx context.Context, cutoff time.Time) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = $1 AND created_at < $2
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, models.StatusPending, cutoff)
	if err != nil {
		return nil, err
	}

	return collectBookings(rows)
}

// GetStats aggregates counts and revenue over the current store state
func (r *BookingRepository) GetStats(ctx context.Context) (*models.StatsResponse, error) {
	stats := &models.StatsResponse{}
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'confirmed'),
		       COUNT(*) FILTER (WHERE status = 'cancelled'),
		       COALESCE(SUM(total_price) FILTER (WHERE status IN ('confirmed', 'ticketed')), 0)
		FROM bookings`

	err := r.db.QueryRowContext(ctx, query).Scan(
		&stats.Total,
		&stats.Confirmed,
		&stats.Cancelled,
		&stats.Revenue,
	)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
