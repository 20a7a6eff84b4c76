package service

import (
	"context"
	"fmt"
	"time"

	apperrors "railbook/internal/errors"
	"railbook/internal/models"

	"github.com/google/uuid"
)

// ShareService issues and resolves share links for a booking. A link is a
// bearer token mapped to the booking reference in the cache with a TTL;
// it grants read-only access to a snapshot and feeds nothing back into
// the lifecycle.
type ShareService struct {
	store  BookingStore
	tokens TokenCache
	cfg    ShareConfig
}

func NewShareService(store BookingStore, tokens TokenCache, cfg ShareConfig) *ShareService {
	return &ShareService{
		store:  store,
		tokens: tokens,
		cfg:    cfg,
	}
}

// CreateLink mints a share token for the booking with the given reference
func (s *ShareService) CreateLink(ctx context.Context, reference string) (*models.ShareLinkResponse, error) {
	booking, err := s.store.GetByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperrors.ErrNotFound
	}
	if s.tokens == nil {
		return nil, fmt.Errorf("share links are not configured")
	}

	token := uuid.New().String()
	if err := s.tokens.SetShareToken(ctx, token, booking.Reference, s.cfg.TTL); err != nil {
		return nil, fmt.Errorf("failed to store share token: %w", err)
	}

	return &models.ShareLinkResponse{
		Token:     token,
		URL:       s.cfg.BaseURL + "/" + token,
		ExpiresAt: time.Now().Add(s.cfg.TTL),
	}, nil
}

// Resolve returns the booking a share token points at. Unknown and
// expired tokens surface as not found.
func (s *ShareService) Resolve(ctx context.Context, token string) (*models.Booking, error) {
	if s.tokens == nil {
		return nil, apperrors.ErrNotFound
	}

	reference, err := s.tokens.GetShareToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve share token: %w", err)
	}
	if reference == "" {
		return nil, apperrors.ErrNotFound
	}

	booking, err := s.store.GetByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if booking == nil {
		return nil, apperrors.ErrNotFound
	}

	return booking, nil
}
