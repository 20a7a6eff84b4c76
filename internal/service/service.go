package service

import (
	"context"
	"time"

	"railbook/internal/models"
)

// BookingStore is the persistence surface the services need. It is
// implemented by repository.BookingRepository; tests substitute a mock.
type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id int64) (*models.Booking, error)
	GetByReference(ctx context.Context, reference string) (*models.Booking, error)
	GetByPNR(ctx context.Context, pnr string) (*models.Booking, error)
	GetByPaymentID(ctx context.Context, paymentID string) (*models.Booking, error)
	GetByEmail(ctx context.Context, email string) ([]models.Booking, error)
	GetByIDs(ctx context.Context, ids []int64) ([]models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	Search(ctx context.Context, params *models.SearchParams) ([]models.Booking, int, error)
	GetUpcomingByEmail(ctx context.Context, email string, today time.Time) ([]models.Booking, error)
	GetPastByEmail(ctx context.Context, email string, today time.Time) ([]models.Booking, error)
	GetCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error)
	GetExpiredPending(ctx context.Context, cutoff time.Time) ([]models.Booking, error)
	GetStats(ctx context.Context) (*models.StatsResponse, error)
}

// Publisher publishes domain events; implemented by messaging.NATSClient
type Publisher interface {
	Publish(subject string, data interface{}) error
}

// BookingIndexer keeps the admin free-text search index in sync;
// implemented by search.ElasticsearchClient
type BookingIndexer interface {
	IndexBooking(ctx context.Context, booking *models.Booking) error
	SearchBookings(ctx context.Context, params *models.SearchParams) ([]int64, int, error)
}

// TokenCache stores short-lived share-link tokens; implemented by
// cache.ValkeyClient
type TokenCache interface {
	SetShareToken(ctx context.Context, token, reference string, ttl time.Duration) error
	GetShareToken(ctx context.Context, token string) (string, error)
}

type Services struct {
	Bookings *BookingService
	Listings *ListingService
	Stats    *StatsService
	Share    *ShareService
}

type ShareConfig struct {
	BaseURL string
	TTL     time.Duration
}

func NewServices(store BookingStore, natsClient Publisher, index BookingIndexer, tokens TokenCache, shareCfg ShareConfig) *Services {
	return &Services{
		Bookings: NewBookingService(store, natsClient, index),
		Listings: NewListingService(store, index),
		Stats:    NewStatsService(store),
		Share:    NewShareService(store, tokens, shareCfg),
	}
}
