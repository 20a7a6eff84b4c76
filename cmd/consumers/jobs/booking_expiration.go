package jobs

import (
	"context"
	"log/slog"
	"time"

	"railbook/internal/models"
	"railbook/internal/service"
)

// BookingExpirationJob times out bookings that were created but never paid
type BookingExpirationJob struct {
	store    service.BookingStore
	bookings *service.BookingService
	nats     service.Publisher
	timeout  time.Duration
	ticker   *time.Ticker
	done     chan bool
}

// NewBookingExpirationJob creates a new booking expiration job. Expiry is
// written through the lifecycle service so the transition guard applies
// and the search index stays current.
func NewBookingExpirationJob(store service.BookingStore, bookings *service.BookingService, nats service.Publisher, timeout time.Duration) *BookingExpirationJob {
	return &BookingExpirationJob{
		store:    store,
		bookings: bookings,
		nats:     nats,
		timeout:  timeout,
		done:     make(chan bool),
	}
}

// Start begins the background job that checks for expired bookings every minute
func (j *BookingExpirationJob) Start(ctx context.Context) {
	slog.Info("Starting booking expiration job", "check_interval", "1m", "timeout", j.timeout)

	j.ticker = time.NewTicker(time.Minute)

	// Run initial check immediately
	go j.checkExpiredBookings(ctx)

	go func() {
		for {
			select {
			case <-j.ticker.C:
				go j.checkExpiredBookings(ctx)
			case <-j.done:
				slog.Info("Booking expiration job stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the background job
func (j *BookingExpirationJob) Stop() {
	if j.ticker != nil {
		j.ticker.Stop()
	}
	close(j.done)
}

func (j *BookingExpirationJob) checkExpiredBookings(ctx context.Context) {
	cutoff := time.Now().Add(-j.timeout)

	expired, err := j.store.GetExpiredPending(ctx, cutoff)
	if err != nil {
		slog.Error("Failed to get expired bookings", "error", err)
		return
	}

	if len(expired) == 0 {
		slog.Debug("No expired bookings found")
		return
	}

	slog.Info("Found expired bookings to process", "count", len(expired))

	for i := range expired {
		booking := &expired[i]
		if err := j.expireBooking(ctx, booking); err != nil {
			slog.Error("Failed to expire booking",
				"error", err,
				"booking_id", booking.ID,
				"reference", booking.Reference,
				"created_at", booking.CreatedAt)
		} else {
			slog.Info("Booking expired",
				"booking_id", booking.ID,
				"reference", booking.Reference,
				"elapsed_time", time.Since(booking.CreatedAt).String())
		}
	}
}

func (j *BookingExpirationJob) expireBooking(ctx context.Context, booking *models.Booking) error {
	reason := "payment not completed in time"

	// A booking confirmed between the select and this call fails the
	// transition guard and is simply left alone
	updated, err := j.bookings.UpdateStatus(ctx, booking.ID, models.StatusExpired, &reason)
	if err != nil {
		return err
	}

	event := models.BookingExpiredEvent{
		BookingID: updated.ID,
		Reference: updated.Reference,
		Reason:    reason,
		Timestamp: time.Now(),
	}

	if err := j.nats.Publish(models.EventBookingExpired, event); err != nil {
		// Expiration is already committed, delivery failures only get logged
		slog.Error("Failed to publish booking expired event",
			"error", err,
			"booking_id", updated.ID)
	}

	return nil
}
