package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/swapcycle/exchange-platform/internal/model"
	"github.com/swapcycle/exchange-platform/internal/store"
	"github.com/swapcycle/exchange-platform/pkg/logger"
)

// Identity is what the authentication boundary knows about the caller.
type Identity struct {
	UserID    string
	Name      string
	Email     string
	AvatarURL string
}

// UserService materializes and serves user records.
type UserService struct {
	store  store.Client
	logger *logger.Logger
}

// NewUserService creates a new user service.
func NewUserService(st store.Client, log *logger.Logger) *UserService {
	return &UserService{store: st, logger: log}
}

// Ensure returns the caller's user record, creating it on first contact.
// This covers signup and first-time federated login alike: whoever the
// identity provider vouches for gets a document here, with a generated
// placeholder avatar when the provider supplied none.
func (s *UserService) Ensure(ctx context.Context, id Identity, req *model.EnsureUserRequest) (*model.User, error) {
	if id.UserID == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrValidation)
	}

	existing, err := s.store.FindUser(id.UserID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	name := id.Name
	if req != nil && req.DisplayName != "" {
		name = req.DisplayName
	}
	if name == "" {
		name = id.Email
	}

	avatar := id.AvatarURL
	if req != nil && req.AvatarURL != "" {
		avatar = req.AvatarURL
	}
	if avatar == "" {
		avatar = model.PlaceholderAvatarURL(name)
	}

	user := &model.User{
		ID:          id.UserID,
		DisplayName: name,
		Email:       id.Email,
		AvatarURL:   avatar,
		JoinedAt:    time.Now().UTC(),
	}

	if err := s.store.SaveUser(user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created",
		zap.String("user_id", user.ID),
	)
	return user, nil
}

// Get returns a user record by id.
func (s *UserService) Get(ctx context.Context, userID string) (*model.User, error) {
	return s.store.FindUser(userID)
}
