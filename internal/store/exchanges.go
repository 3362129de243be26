package store

import (
	"fmt"
	"time"

	"github.com/swapcycle/exchange-platform/internal/model"
)

// SaveExchange inserts or updates an exchange document.
func (c *strm) SaveExchange(ex *model.Exchange) error {
	if err := c.db.Save(ex); err != nil {
		return fmt.Errorf("save exchange: %w", err)
	}
	return nil
}

// FindExchange returns the exchange for the given id.
func (c *strm) FindExchange(id string) (*model.Exchange, error) {
	var ex model.Exchange
	if err := c.db.One("ID", id, &ex); err != nil {
		return nil, fmt.Errorf("find exchange: %w", notFound(err))
	}
	return &ex, nil
}

// AcceptExchange settles a pending exchange. The exchange, the requested
// item and both participants' counters are mutated in a single write
// transaction so the settlement can never partially apply.
func (c *strm) AcceptExchange(id string, acceptedAt time.Time, co2Kg int) (*model.Exchange, error) {
	tx, err := c.db.Begin(true)
	if err != nil {
		return nil, fmt.Errorf("begin acceptance transaction: %w", err)
	}
	defer tx.Rollback()

	var ex model.Exchange
	if err := tx.One("ID", id, &ex); err != nil {
		return nil, fmt.Errorf("find exchange: %w", notFound(err))
	}
	if ex.Status != model.ExchangeStatusPending {
		return nil, fmt.Errorf("accept exchange %s: %w", id, ErrNotPending)
	}

	ex.Status = model.ExchangeStatusAccepted
	ex.AcceptedAt = &acceptedAt
	if err := tx.Save(&ex); err != nil {
		return nil, fmt.Errorf("save exchange: %w", err)
	}

	var item model.Item
	if err := tx.One("ID", ex.RequestedItemID, &item); err != nil {
		return nil, fmt.Errorf("find requested item: %w", notFound(err))
	}
	item.Status = model.ItemStatusExchanged
	item.ExchangeID = ex.ID
	if err := tx.Save(&item); err != nil {
		return nil, fmt.Errorf("save requested item: %w", err)
	}

	for _, userID := range []string{ex.ProposerID, ex.RecipientID} {
		var user model.User
		if err := tx.One("ID", userID, &user); err != nil {
			return nil, fmt.Errorf("find participant %s: %w", userID, notFound(err))
		}
		user.ExchangedItems++
		user.CO2SavedKg += co2Kg
		if err := tx.Save(&user); err != nil {
			return nil, fmt.Errorf("save participant %s: %w", userID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit acceptance: %w", err)
	}
	return &ex, nil
}

// RefuseExchange settles a pending exchange as refused. The requested item
// stays available.
func (c *strm) RefuseExchange(id, reason string) (*model.Exchange, error) {
	tx, err := c.db.Begin(true)
	if err != nil {
		return nil, fmt.Errorf("begin refusal transaction: %w", err)
	}
	defer tx.Rollback()

	var ex model.Exchange
	if err := tx.One("ID", id, &ex); err != nil {
		return nil, fmt.Errorf("find exchange: %w", notFound(err))
	}
	if ex.Status != model.ExchangeStatusPending {
		return nil, fmt.Errorf("refuse exchange %s: %w", id, ErrNotPending)
	}

	ex.Status = model.ExchangeStatusRefused
	ex.RefuseReason = reason
	if err := tx.Save(&ex); err != nil {
		return nil, fmt.Errorf("save exchange: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit refusal: %w", err)
	}
	return &ex, nil
}
