package service

import (
	"context"
	"fmt"

	"railbook/internal/models"
)

// StatsService computes point-in-time aggregates. Nothing is cached;
// every call recomputes from the store.
type StatsService struct {
	store BookingStore
}

func NewStatsService(store BookingStore) *StatsService {
	return &StatsService{store: store}
}

// Stats returns total/confirmed/cancelled counts and revenue. Revenue
// sums the full total price of confirmed and ticketed bookings; refunds
// do not reduce it.
func (s *StatsService) Stats(ctx context.Context) (*models.StatsResponse, error) {
	stats, err := s.store.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return stats, nil
}
