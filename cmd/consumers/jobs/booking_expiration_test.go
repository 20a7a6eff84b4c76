package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "railbook/internal/errors"
	"railbook/internal/models"
	"railbook/internal/service"
)

// stubStore is a minimal in-memory service.BookingStore; only the methods
// the expiration path touches do real work
type stubStore struct {
	bookings map[int64]*models.Booking
}

func newStubStore(bookings ...*models.Booking) *stubStore {
	s := &stubStore{bookings: map[int64]*models.Booking{}}
	for _, b := range bookings {
		s.bookings[b.ID] = b
	}
	return s
}

func (s *stubStore) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, nil
	}
	clone := *b
	return &clone, nil
}

func (s *stubStore) Update(ctx context.Context, booking *models.Booking) error {
	clone := *booking
	s.bookings[booking.ID] = &clone
	return nil
}

func (s *stubStore) GetExpiredPending(ctx context.Context, cutoff time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range s.bookings {
		if b.Status == models.StatusPending && b.CreatedAt.Before(cutoff) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *stubStore) Create(ctx context.Context, booking *models.Booking) error { return nil }
func (s *stubStore) GetByReference(ctx context.Context, reference string) (*models.Booking, error) {
	return nil, nil
}
func (s *stubStore) GetByPNR(ctx context.Context, pnr string) (*models.Booking, error) {
	return nil, nil
}
func (s *stubStore) GetByPaymentID(ctx context.Context, paymentID string) (*models.Booking, error) {
	return nil, nil
}
func (s *stubStore) GetByEmail(ctx context.Context, email string) ([]models.Booking, error) {
	return nil, nil
}
func (s *stubStore) GetByIDs(ctx context.Context, ids []int64) ([]models.Booking, error) {
	return nil, nil
}
func (s *stubStore) Search(ctx context.Context, params *models.SearchParams) ([]models.Booking, int, error) {
	return nil, 0, nil
}
func (s *stubStore) GetUpcomingByEmail(ctx context.Context, email string, today time.Time) ([]models.Booking, error) {
	return nil, nil
}
func (s *stubStore) GetPastByEmail(ctx context.Context, email string, today time.Time) ([]models.Booking, error) {
	return nil, nil
}
func (s *stubStore) GetCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	return nil, nil
}
func (s *stubStore) GetStats(ctx context.Context) (*models.StatsResponse, error) {
	return &models.StatsResponse{}, nil
}

type stubPublisher struct {
	subjects []string
}

func (p *stubPublisher) Publish(subject string, data interface{}) error {
	p.subjects = append(p.subjects, subject)
	return nil
}

type stubIndexer struct {
	statuses []string
}

func (i *stubIndexer) IndexBooking(ctx context.Context, booking *models.Booking) error {
	i.statuses = append(i.statuses, booking.Status)
	return nil
}

func (i *stubIndexer) SearchBookings(ctx context.Context, params *models.SearchParams) ([]int64, int, error) {
	return nil, 0, nil
}

func newTestJob(store *stubStore) (*BookingExpirationJob, *stubPublisher, *stubIndexer) {
	nats := &stubPublisher{}
	index := &stubIndexer{}
	bookings := service.NewBookingService(store, nats, index)
	return NewBookingExpirationJob(store, bookings, nats, 30*time.Minute), nats, index
}

func TestCheckExpiredBookings_ExpiresStalePending(t *testing.T) {
	stale := &models.Booking{
		ID:        1,
		Reference: "RB-AAAA111111",
		Status:    models.StatusPending,
		CreatedAt: time.Now().Add(-time.Hour),
	}
	fresh := &models.Booking{
		ID:        2,
		Reference: "RB-BBBB222222",
		Status:    models.StatusPending,
		CreatedAt: time.Now(),
	}
	store := newStubStore(stale, fresh)
	job, nats, index := newTestJob(store)

	job.checkExpiredBookings(context.Background())

	expired := store.bookings[1]
	assert.Equal(t, models.StatusExpired, expired.Status)
	require.NotNil(t, expired.StatusReason)
	assert.Equal(t, "payment not completed in time", *expired.StatusReason)
	assert.Equal(t, models.StatusPending, store.bookings[2].Status)

	// the write goes through the lifecycle service, so the search index
	// gets the expired document too
	require.NotEmpty(t, index.statuses)
	assert.Equal(t, models.StatusExpired, index.statuses[len(index.statuses)-1])
	assert.Contains(t, nats.subjects, models.EventBookingStatusChanged)
	assert.Contains(t, nats.subjects, models.EventBookingExpired)
}

func TestExpireBooking_ConfirmedMeanwhileIsLeftAlone(t *testing.T) {
	booking := &models.Booking{
		ID:        3,
		Reference: "RB-CCCC333333",
		Status:    models.StatusConfirmed,
		CreatedAt: time.Now().Add(-time.Hour),
	}
	store := newStubStore(booking)
	job, nats, index := newTestJob(store)

	stale := *booking
	err := job.expireBooking(context.Background(), &stale)

	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Equal(t, models.StatusConfirmed, store.bookings[3].Status)
	assert.Empty(t, index.statuses)
	assert.Empty(t, nats.subjects)
}
