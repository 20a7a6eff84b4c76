package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "railbook/internal/errors"
	"railbook/internal/models"
)

func pendingBooking(id int64) *models.Booking {
	return &models.Booking{
		ID:                 id,
		Reference:          "RB-ABCDEF1234",
		CustomerName:       "Anna Schmidt",
		CustomerEmail:      "anna@example.com",
		OriginStation:      "Berlin Hbf",
		DestinationStation: "München Hbf",
		DepartureDate:      time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		DepartureTime:      "08:30",
		ArrivalTime:        "12:45",
		TrainNumber:        "ICE 501",
		Adults:             1,
		TicketPrice:        100,
		ServiceFee:         5,
		TotalPrice:         105,
		Currency:           "EUR",
		Status:             models.StatusPending,
	}
}

func TestBookingService_Create(t *testing.T) {
	store := &MockBookingStore{}
	nats := &MockPublisher{}
	svc := NewBookingService(store, nats, nil)

	ctx := context.Background()
	req := &models.CreateBookingRequest{
		CustomerName:       "Anna Schmidt",
		CustomerEmail:      "anna@example.com",
		OriginStation:      "Berlin Hbf",
		DestinationStation: "München Hbf",
		DepartureDate:      time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		DepartureTime:      "08:30",
		ArrivalTime:        "12:45",
		TrainNumber:        "ICE 501",
		Operator:           "DB",
		FareClass:          "second",
		Adults:             2,
		TicketPrice:        120,
		ServiceFee:         10,
		DiscountAmount:     15,
		Currency:           "EUR",
	}

	store.On("Create", ctx, mock.AnythingOfType("*models.Booking")).Return(nil).Once()
	nats.On("Publish", models.EventBookingCreated, mock.Anything).Return(nil).Once()

	booking, err := svc.Create(ctx, req)

	assert.NoError(t, err)
	assert.NotNil(t, booking)
	assert.Equal(t, models.StatusPending, booking.Status)
	assert.Equal(t, 115.0, booking.TotalPrice)
	assert.True(t, len(booking.Reference) > 3)
	assert.Equal(t, "RB-", booking.Reference[:3])

	store.AssertExpectations(t)
	nats.AssertExpectations(t)
}

func TestBookingService_UpdateStatus_AllowedTransition(t *testing.T) {
	store := &MockBookingStore{}
	nats := &MockPublisher{}
	svc := NewBookingService(store, nats, nil)

	ctx := context.Background()
	booking := pendingBooking(1)

	store.On("GetByID", ctx, int64(1)).Return(booking, nil).Once()
	store.On("Update", ctx, booking).Return(nil).Once()
	nats.On("Publish", models.EventBookingStatusChanged, mock.Anything).Return(nil).Once()

	updated, err := svc.UpdateStatus(ctx, 1, models.StatusConfirmed, nil)

	assert.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)
	assert.NotNil(t, updated.ConfirmedAt)
	assert.WithinDuration(t, time.Now(), updated.LastStatusChange, time.Second)

	store.AssertExpectations(t)
	nats.AssertExpectations(t)
}

func TestBookingService_UpdateStatus_RejectedTransition(t *testing.T) {
	store := &MockBookingStore{}
	svc := NewBookingService(store, nil, nil)

	ctx := context.Background()

	testCases := []struct {
		name string
		from string
		to   string
	}{
		{"pending cannot be ticketed", models.StatusPending, models.StatusTicketed},
		{"cancelled cannot be confirmed", models.StatusCancelled, models.StatusConfirmed},
		{"refunded is terminal", models.StatusRefunded, models.StatusCancelled},
		{"expired is terminal", models.StatusExpired, models.StatusConfirmed},
		{"refunded is never a direct target", models.StatusConfirmed, models.StatusRefunded},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			booking := pendingBooking(1)
			booking.Status = tc.from

			store.On("GetByID", ctx, int64(1)).Return(booking, nil).Once()

			updated, err := svc.UpdateStatus(ctx, 1, tc.to, nil)

			assert.Nil(t, updated)
			assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
		})
	}

	store.AssertExpectations(t)
}

func TestBookingService_UpdateStatus_ReassertTerminal(t *testing.T) {
	store := &MockBookingStore{}
	svc := NewBookingService(store, nil, nil)

	ctx := context.Background()
	booking := pendingBooking(1)
	booking.Status = models.StatusCancelled

	store.On("GetByID", ctx, int64(1)).Return(booking, nil).Once()
	store.On("Update", ctx, booking).Return(nil).Once()

	updated, err := svc.UpdateStatus(ctx, 1, models.StatusCancelled, nil)

	assert.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, updated.Status)
	// cancelledAt is re-stamped even when the status does not change
	assert.NotNil(t, updated.CancelledAt)

	store.AssertExpectations(t)
}

func TestBookingService_UpdateStatus_NotFound(t *testing.T) {
	store := &MockBookingStore{}
	svc := NewBookingService(store, nil, nil)

	ctx := context.Background()
	store.On("GetByID", ctx, int64(42)).Return(nil, nil).Once()

	updated, err := svc.UpdateStatus(ctx, 42, models.StatusConfirmed, nil)

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestBookingService_UpdateTicketInfo(t *testing.T) {
	store := &MockBookingStore{}
	nats := &MockPublisher{}
	svc := NewBookingService(store, nats, nil)

	ctx := context.Background()
	existing := "https://cdn.example.com/old.pkpass"
	booking := pendingBooking(1)
	booking.TicketPkpassURL = &existing

	store.On("GetByID", ctx, int64(1)).Return(booking, nil).Once()
	store.On("Update", ctx, booking).Return(nil).Once()
	nats.On("Publish", models.EventBookingTicketed, mock.Anything).Return(nil).Once()

	updated, err := svc.UpdateTicketInfo(ctx, 1, &models.UpdateTicketRequest{
		TicketPdfURL: "https://cdn.example.com/ticket.pdf",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.StatusTicketed, updated.Status)
	assert.Equal(t, "https://cdn.example.com/ticket.pdf", *updated.TicketPdfURL)
	// absent fields keep their previous value
	assert.Equal(t, existing, *updated.TicketPkpassURL)

	store.AssertExpectations(t)
	nats.AssertExpectations(t)
}

func TestBookingService_ProcessRefund_Accumulates(t *testing.T) {
	store := &MockBookingStore{}
	nats := &MockPublisher{}
	svc := NewBookingService(store, nats, nil)

	ctx := context.Background()
	booking := pendingBooking(1)
	booking.Status = models.StatusTicketed
	booking.TotalPrice = 100

	store.On("GetByID", ctx, int64(1)).Return(booking, nil).Twice()
	store.On("Update", ctx, booking).Return(nil).Twice()
	nats.On("Publish", models.EventBookingRefunded, mock.Anything).Return(nil).Twice()

	updated, err := svc.ProcessRefund(ctx, 1, &models.RefundRequest{
		Amount: 40, Reason: "seat downgrade", RefundedBy: "agent-7",
	})
	assert.NoError(t, err)
	assert.Equal(t, 40.0, updated.RefundedAmount)
	assert.Equal(t, models.StatusPartiallyRefunded, updated.Status)

	updated, err = svc.ProcessRefund(ctx, 1, &models.RefundRequest{
		Amount: 60, Reason: "trip cancelled", RefundedBy: "agent-7",
	})
	assert.NoError(t, err)
	assert.Equal(t, 100.0, updated.RefundedAmount)
	assert.Equal(t, models.StatusRefunded, updated.Status)
	assert.Equal(t, "trip cancelled", *updated.RefundReason)
	assert.Equal(t, "agent-7", *updated.RefundedBy)

	store.AssertExpectations(t)
	nats.AssertExpectations(t)
}

func TestBookingService_ProcessRefund_OverRefundNotClamped(t *testing.T) {
	store := &MockBookingStore{}
	svc := NewBookingService(store, nil, nil)

	ctx := context.Background()
	booking := pendingBooking(1)
	booking.TotalPrice = 100
	booking.RefundedAmount = 80

	store.On("GetByID", ctx, int64(1)).Return(booking, nil).Once()
	store.On("Update", ctx, booking).Return(nil).Once()

	updated, err := svc.ProcessRefund(ctx, 1, &models.RefundRequest{
		Amount: 50, Reason: "goodwill", RefundedBy: "agent-1",
	})

	assert.NoError(t, err)
	assert.Equal(t, 130.0, updated.RefundedAmount)
	assert.Equal(t, models.StatusRefunded, updated.Status)

	store.AssertExpectations(t)
}

func TestBookingService_SetPNR(t *testing.T) {
	store := &MockBookingStore{}
	svc := NewBookingService(store, nil, nil)

	ctx := context.Background()
	booking := pendingBooking(1)

	store.On("GetByID", ctx, int64(1)).Return(booking, nil).Once()
	store.On("Update", ctx, booking).Return(nil).Once()

	updated, err := svc.SetPNR(ctx, 1, "K7KX2P")

	assert.NoError(t, err)
	assert.Equal(t, "K7KX2P", *updated.PNR)

	store.AssertExpectations(t)
}
