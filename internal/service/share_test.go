package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "railbook/internal/errors"
)

func TestShareService_CreateAndResolve(t *testing.T) {
	store := &MockBookingStore{}
	tokens := &MockTokenCache{}
	svc := NewShareService(store, tokens, ShareConfig{
		BaseURL: "https://railbook.example.com/trips/shared",
		TTL:     time.Hour,
	})

	ctx := context.Background()
	booking := pendingBooking(1)

	store.On("GetByReference", ctx, booking.Reference).Return(booking, nil).Once()
	tokens.On("SetShareToken", ctx, mock.AnythingOfType("string"), booking.Reference, time.Hour).Return(nil).Once()

	link, err := svc.CreateLink(ctx, booking.Reference)

	assert.NoError(t, err)
	assert.NotEmpty(t, link.Token)
	assert.True(t, strings.HasSuffix(link.URL, link.Token))
	assert.WithinDuration(t, time.Now().Add(time.Hour), link.ExpiresAt, time.Second)

	tokens.On("GetShareToken", ctx, link.Token).Return(booking.Reference, nil).Once()
	store.On("GetByReference", ctx, booking.Reference).Return(booking, nil).Once()

	resolved, err := svc.Resolve(ctx, link.Token)

	assert.NoError(t, err)
	assert.Equal(t, booking.ID, resolved.ID)

	store.AssertExpectations(t)
	tokens.AssertExpectations(t)
}

func TestShareService_ResolveUnknownToken(t *testing.T) {
	store := &MockBookingStore{}
	tokens := &MockTokenCache{}
	svc := NewShareService(store, tokens, ShareConfig{TTL: time.Hour})

	ctx := context.Background()
	tokens.On("GetShareToken", ctx, "nope").Return("", nil).Once()

	booking, err := svc.Resolve(ctx, "nope")

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestShareService_CreateLinkUnknownReference(t *testing.T) {
	store := &MockBookingStore{}
	tokens := &MockTokenCache{}
	svc := NewShareService(store, tokens, ShareConfig{TTL: time.Hour})

	ctx := context.Background()
	store.On("GetByReference", ctx, "RB-MISSING").Return(nil, nil).Once()

	link, err := svc.CreateLink(ctx, "RB-MISSING")

	assert.Nil(t, link)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
