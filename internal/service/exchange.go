package service

import (
	"context"
	"errors"
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

// co2SavedPerExchangeKg is credited to each participant when an exchange
// completes. A flat estimate; per-category weights are a possible followup.
const co2SavedPerExchangeKg = 15

const defaultRefuseReason = "No reason provided"

// ExchangeService drives the propose/accept/refuse workflow. Every state
// transition also posts a system message into the conversation the proposal
// lives in, so the thread doubles as the exchange's audit trail.
type ExchangeService struct {
	store         store.Client
	conversations *ConversationService
	logger        *logger.Logger
}

// NewExchangeService creates a new exchange service.
func NewExchangeService(st store.Client, convs *ConversationService, log *logger.Logger) *ExchangeService {
	return &ExchangeService{store: st, conversations: convs, logger: log}
}

// Propose records a pending exchange offering the proposer's item against
// the recipient's listed item, and posts a proposal message in the thread.
// The offered item is captured as a value snapshot, so later edits or
// deletion of the proposer's listing do not mutate the proposal.
func (s *ExchangeService) Propose(ctx context.Context, proposerID, conversationID string, req *model.ProposeExchangeRequest) (*model.Exchange, error) {
	if strings.TrimSpace(req.ProposedItem.Title) == "" {
		return nil, fmt.Errorf("%w: proposed item title is required", ErrValidation)
	}
	if req.RequestedItemID == "" {
		return nil, fmt.Errorf("%w: requested item is required", ErrValidation)
	}

	conv, err := s.store.FindConversation(conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(proposerID) {
		return nil, fmt.Errorf("conversation %s: %w", conversationID, ErrForbidden)
	}

	requested, err := s.store.FindItem(req.RequestedItemID)
	if err != nil {
		return nil, fmt.Errorf("requested item: %w", err)
	}

	exchange := &model.Exchange{
		ID:              uuid.Must(uuid.NewV7()).String(),
		ProposerID:      proposerID,
		RecipientID:     conv.OtherParticipant(proposerID),
		ProposedItem:    req.ProposedItem,
		RequestedItemID: requested.ID,
		ConversationID:  conversationID,
		Status:          model.ExchangeStatusPending,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.store.SaveExchange(exchange); err != nil {
		return nil, fmt.Errorf("create exchange: %w", err)
	}

	text := fmt.Sprintf("Exchange proposal: %s for %s", req.ProposedItem.Title, requested.Title)
	if _, err := s.conversations.Send(ctx, conversationID, proposerID, text, model.MessageTypeExchangeProposal, exchange.ID); err != nil {
		s.logger.Error("failed to post proposal message",
			zap.String("exchange_id", exchange.ID),
			zap.Error(err),
		)
	}

	metrics.ExchangesTotal.WithLabelValues(string(model.ExchangeStatusPending)).Inc()
	s.logger.Info("exchange proposed",
		zap.String("exchange_id", exchange.ID),
		zap.String("conversation_id", conversationID),
	)
	return exchange, nil
}

// Accept settles a pending exchange: the exchange flips to accepted, the
// requested item is marked exchanged, and both participants get their
// exchange count and CO2 credit. All of it commits or none of it does.
// Accepting twice, or accepting a refused exchange, fails with
// ErrInvalidState.
func (s *ExchangeService) Accept(ctx context.Context, userID, exchangeID string) (*model.Exchange, error) {
	exchange, err := s.store.FindExchange(exchangeID)
	if err != nil {
		return nil, err
	}
	if exchange.RecipientID != userID {
		return nil, fmt.Errorf("exchange %s: %w", exchangeID, ErrForbidden)
	}

	settled, err := s.store.AcceptExchange(exchangeID, time.Now().UTC(), co2SavedPerExchangeKg)
	if err != nil {
		if errors.Is(err, store.ErrNotPending) {
			return nil, fmt.Errorf("exchange %s already %s: %w", exchangeID, exchange.Status, ErrInvalidState)
		}
		return nil, fmt.Errorf("accept exchange: %w", err)
	}

	text := "Exchange accepted! The item has been marked as exchanged."
	if _, err := s.conversations.Send(ctx, settled.ConversationID, userID, text, model.MessageTypeExchangeAccepted, exchangeID); err != nil {
		s.logger.Error("failed to post acceptance message",
			zap.String("exchange_id", exchangeID),
			zap.Error(err),
		)
	}

	metrics.ExchangesTotal.WithLabelValues(string(model.ExchangeStatusAccepted)).Inc()
	s.logger.Info("exchange accepted",
		zap.String("exchange_id", exchangeID),
	)
	return settled, nil
}

// Refuse declines a pending exchange. The requested item stays available.
func (s *ExchangeService) Refuse(ctx context.Context, userID, exchangeID, reason string) (*model.Exchange, error) {
	exchange, err := s.store.FindExchange(exchangeID)
	if err != nil {
		return nil, err
	}
	if exchange.RecipientID != userID {
		return nil, fmt.Errorf("exchange %s: %w", exchangeID, ErrForbidden)
	}

	if strings.TrimSpace(reason) == "" {
		reason = defaultRefuseReason
	}

	settled, err := s.store.RefuseExchange(exchangeID, reason)
	if err != nil {
		if errors.Is(err, store.ErrNotPending) {
			return nil, fmt.Errorf("exchange %s already %s: %w", exchangeID, exchange.Status, ErrInvalidState)
		}
		return nil, fmt.Errorf("refuse exchange: %w", err)
	}

	text := fmt.Sprintf("Exchange refused. Reason: %s", reason)
	if _, err := s.conversations.Send(ctx, settled.ConversationID, userID, text, model.MessageTypeExchangeRefused, exchangeID); err != nil {
		s.logger.Error("failed to post refusal message",
			zap.String("exchange_id", exchangeID),
			zap.Error(err),
		)
	}

	metrics.ExchangesTotal.WithLabelValues(string(model.ExchangeStatusRefused)).Inc()
	s.logger.Info("exchange refused",
		zap.String("exchange_id", exchangeID),
	)
	return settled, nil
}

// Details returns an exchange by id, requiring the caller to be one of its
// parties.
func (s *ExchangeService) Details(ctx context.Context, userID, exchangeID string) (*model.Exchange, error) {
	exchange, err := s.store.FindExchange(exchangeID)
	if err != nil {
		return nil, err
	}
	if exchange.ProposerID != userID && exchange.RecipientID != userID {
		return nil, fmt.Errorf("exchange %s: %w", exchangeID, ErrForbidden)
	}
	return exchange, nil
}
