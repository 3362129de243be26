package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/swapcycle/exchange-platform/internal/model"
	"github.com/swapcycle/exchange-platform/internal/store"
	"github.com/swapcycle/exchange-platform/pkg/logger"
	"github.com/swapcycle/exchange-platform/pkg/metrics"
)

// CatalogService handles item listing operations.
//
// Duplicate-vote prevention is deliberately not enforced here: callers track
// "already voted" per session on their side, matching the product's
// light-touch behavior.
type CatalogService struct {
	store  store.Client
	logger *logger.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(st store.Client, log *logger.Logger) *CatalogService {
	return &CatalogService{store: st, logger: log}
}

// Create lists a new item for the given owner. The owner's display fields
// are copied onto the item and will not follow later profile edits.
func (s *CatalogService) Create(ctx context.Context, owner *model.User, req *model.CreateItemRequest) (*model.Item, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}
	if !req.Condition.Valid() {
		return nil, fmt.Errorf("%w: condition must be excellent, good or fair", ErrValidation)
	}

	themeID := req.ThemeID
	if themeID == "" {
		themeID = model.ThemeNone
	}

	item := &model.Item{
		ID:          uuid.Must(uuid.NewV7()).String(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Condition:   req.Condition,
		ImageURL:    req.ImageURL,
		OwnerID:     owner.ID,
		OwnerName:   owner.DisplayName,
		OwnerAvatar: owner.AvatarURL,
		CreatedAt:   time.Now().UTC(),
		ThemeID:     themeID,
		Votes:       0,
		Status:      model.ItemStatusAvailable,
	}

	if err := s.store.SaveItem(item); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	metrics.ItemsCreatedTotal.WithLabelValues(themeID).Inc()
	s.logger.Info("item created",
		zap.String("item_id", item.ID),
		zap.String("owner_id", owner.ID),
		zap.String("theme_id", themeID),
	)
	return item, nil
}

// ListAll returns every item, newest first. Listing fails soft: on a read
// error the caller gets an empty slice and the UI degrades to "nothing
// found".
func (s *CatalogService) ListAll(ctx context.Context) []*model.Item {
	items, err := s.store.FindItems()
	if err != nil {
		s.logger.Error("failed to list items", zap.Error(err))
		return []*model.Item{}
	}
	return items
}

// ListByTheme returns the items listed under a theme, newest first.
// Fails soft like ListAll.
func (s *CatalogService) ListByTheme(ctx context.Context, themeID string) []*model.Item {
	items, err := s.store.FindItemsByTheme(themeID)
	if err != nil {
		s.logger.Error("failed to list items by theme",
			zap.String("theme_id", themeID),
			zap.Error(err),
		)
		return []*model.Item{}
	}
	return items
}

// Get returns a single item.
func (s *CatalogService) Get(ctx context.Context, itemID string) (*model.Item, error) {
	return s.store.FindItem(itemID)
}

// Update edits an existing listing. Zero-valued request fields are left
// unchanged. Ownership is assumed to be enforced by the access layer.
func (s *CatalogService) Update(ctx context.Context, itemID string, req *model.UpdateItemRequest) (*model.Item, error) {
	item, err := s.store.FindItem(itemID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		item.Title = req.Title
	}
	if req.Description != "" {
		item.Description = req.Description
	}
	if req.Category != "" {
		item.Category = req.Category
	}
	if req.Condition != "" {
		if !req.Condition.Valid() {
			return nil, fmt.Errorf("%w: condition must be excellent, good or fair", ErrValidation)
		}
		item.Condition = req.Condition
	}
	if req.ImageURL != "" {
		item.ImageURL = req.ImageURL
	}
	if req.ThemeID != "" {
		item.ThemeID = req.ThemeID
	}

	if err := s.store.SaveItem(item); err != nil {
		return nil, fmt.Errorf("update item: %w", err)
	}
	return item, nil
}

// Delete removes a listing.
func (s *CatalogService) Delete(ctx context.Context, itemID string) error {
	return s.store.DeleteItem(itemID)
}

// Vote adds one vote to an item and returns the new count. The increment is
// atomic: N concurrent votes always total N.
func (s *CatalogService) Vote(ctx context.Context, itemID string) (int, error) {
	votes, err := s.store.IncrementItemVotes(itemID)
	if err != nil {
		return 0, err
	}
	metrics.VotesTotal.Inc()
	return votes, nil
}
