package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"railbook/internal/models"
)

type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) Create(ctx context.Context, booking *models.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingStore) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingStore) GetByReference(ctx context.Context, reference string) (*models.Booking, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingStore) GetByPNR(ctx context.Context, pnr string) (*models.Booking, error) {
	args := m.Called(ctx, pnr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingStore) GetByPaymentID(ctx context.Context, paymentID string) (*models.Booking, error) {
	args := m.Called(ctx, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingStore) GetByEmail(ctx context.Context, email string) ([]models.Booking, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *MockBookingStore) GetByIDs(ctx context.Context, ids []int64) ([]models.Booking, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *MockBookingStore) Update(ctx context.Context, booking *models.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingStore) Search(ctx context.Context, params *models.SearchParams) ([]models.Booking, int, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]models.Booking), args.Int(1), args.Error(2)
}

func (m *MockBookingStore) GetUpcomingByEmail(ctx context.Context, email string, today time.Time) ([]models.Booking, error) {
	args := m.Called(ctx, email, today)
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *MockBookingStore) GetPastByEmail(ctx context.Context, email string, today time.Time) ([]models.Booking, error) {
	args := m.Called(ctx, email, today)
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *MockBookingStore) GetCreatedBetween(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *MockBookingStore) GetExpiredPending(ctx context.Context, cutoff time.Time) ([]models.Booking, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *MockBookingStore) GetStats(ctx context.Context) (*models.StatsResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StatsResponse), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(subject string, data interface{}) error {
	args := m.Called(subject, data)
	return args.Error(0)
}

type MockIndexer struct {
	mock.Mock
}

func (m *MockIndexer) IndexBooking(ctx context.Context, booking *models.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockIndexer) SearchBookings(ctx context.Context, params *models.SearchParams) ([]int64, int, error) {
	args := m.Called(ctx, params)
	return args.Get(0).([]int64), args.Int(1), args.Error(2)
}

type MockTokenCache struct {
	mock.Mock
}

func (m *MockTokenCache) SetShareToken(ctx context.Context, token, reference string, ttl time.Duration) error {
	args := m.Called(ctx, token, reference, ttl)
	return args.Error(0)
}

func (m *MockTokenCache) GetShareToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}
