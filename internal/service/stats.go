package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/swapcycle/exchange-platform/internal/model"
	"github.com/swapcycle/exchange-platform/internal/store"
	"github.com/swapcycle/exchange-platform/pkg/logger"
)

// StatsService serves the public marketplace counters. The numbers are
// whole-collection counts taken at request time, not cached aggregates.
type StatsService struct {
	store  store.Client
	logger *logger.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(st store.Client, log *logger.Logger) *StatsService {
	return &StatsService{store: st, logger: log}
}

// Global returns the site-wide participant and available-object counts.
// Fails soft to zeros so the landing page never errors on a counter.
func (s *StatsService) Global(ctx context.Context) *model.StatsResponse {
	users, err := s.store.CountUsers()
	if err != nil {
		s.logger.Error("failed to count users", zap.Error(err))
		users = 0
	}

	items, err := s.store.CountItems()
	if err != nil {
		s.logger.Error("failed to count items", zap.Error(err))
		items = 0
	}

	return &model.StatsResponse{
		Participants:     users,
		ObjectsAvailable: items,
	}
}

// ByTheme returns the available-object count for one theme alongside the
// global participant count.
func (s *StatsService) ByTheme(ctx context.Context, themeID string) *model.StatsResponse {
	users, err := s.store.CountUsers()
	if err != nil {
		s.logger.Error("failed to count users", zap.Error(err))
		users = 0
	}

	items, err := s.store.CountItemsByTheme(themeID)
	if err != nil {
		s.logger.Error("failed to count items by theme",
			zap.String("theme_id", themeID),
			zap.Error(err),
		)
		items = 0
	}

	return &model.StatsResponse{
		Participants:     users,
		ObjectsAvailable: items,
	}
}
