package service

import (
	"context"
	"fmt"
	"time"

	"railbook/internal/logger"
	"railbook/internal/models"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

// ListingService is the read-only query surface over the booking store;
// it never mutates
type ListingService struct {
	store BookingStore
	index BookingIndexer
}

func NewListingService(store BookingStore, index BookingIndexer) *ListingService {
	return &ListingService{
		store: store,
		index: index,
	}
}

// FindByID returns the booking or nil when no booking matches
func (s *ListingService) FindByID(ctx context.Context, id int64) (*models.Booking, error) {
	return s.store.GetByID(ctx, id)
}

func (s *ListingService) FindByReference(ctx context.Context, reference string) (*models.Booking, error) {
	return s.store.GetByReference(ctx, reference)
}

func (s *ListingService) FindByPNR(ctx context.Context, pnr string) (*models.Booking, error) {
	return s.store.GetByPNR(ctx, pnr)
}

func (s *ListingService) FindByPaymentID(ctx context.Context, paymentID string) (*models.Booking, error) {
	return s.store.GetByPaymentID(ctx, paymentID)
}

// FindByEmail returns all bookings for a customer, newest-created first
func (s *ListingService) FindByEmail(ctx context.Context, email string) ([]models.Booking, error) {
	return s.store.GetByEmail(ctx, email)
}

// Search runs the filtered, paginated admin listing. Free-text queries go
// through the Elasticsearch index when one is configured; Postgres is the
// authoritative fallback.
func (s *ListingService) Search(ctx context.Context, params *models.SearchParams) (*models.SearchResponse, error) {
	if params.Page < 1 {
		params.Page = defaultPage
	}
	if params.Limit < 1 {
		params.Limit = defaultLimit
	}

	bookings, total, err := s.search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search bookings: %w", err)
	}

	if bookings == nil {
		bookings = []models.Booking{}
	}

	return &models.SearchResponse{
		Bookings:   bookings,
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: (total + params.Limit - 1) / params.Limit,
	}, nil
}

func (s *ListingService) search(ctx context.Context, params *models.SearchParams) ([]models.Booking, int, error) {
	if s.index != nil && params.Query != "" {
		ids, total, err := s.index.SearchBookings(ctx, params)
		if err == nil {
			bookings, err := s.store.GetByIDs(ctx, ids)
			if err != nil {
				return nil, 0, err
			}
			return bookings, total, nil
		}
		logger.WithContext(ctx).Error("Search index query failed, falling back to database",
			"error", err)
	}

	return s.store.Search(ctx, params)
}

// Upcoming returns a customer's confirmed bookings that have not departed
// yet, soonest departure first
func (s *ListingService) Upcoming(ctx context.Context, email string) ([]models.Booking, error) {
	return s.store.GetUpcomingByEmail(ctx, email, startOfDay(time.Now()))
}

// Past returns a customer's bookings that already departed, most recent
// departure first
func (s *ListingService) Past(ctx context.Context, email string) ([]models.Booking, error) {
	return s.store.GetPastByEmail(ctx, email, startOfDay(time.Now()))
}

// Today returns the bookings created during the local calendar day,
// newest first
func (s *ListingService) Today(ctx context.Context) ([]models.Booking, error) {
	from := startOfDay(time.Now())
	return s.store.GetCreatedBetween(ctx, from, from.AddDate(0, 0, 1))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
