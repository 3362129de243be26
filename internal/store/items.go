package store

import (
	"errors"
	"fmt"
	"sort"

	"github.com/asdine/storm/v3"
	"github.com/asdine/storm/v3/q"

	"github.com/swapcycle/exchange-platform/internal/model"
)

// SaveItem inserts or updates an item document.
func (c *strm) SaveItem(item *model.Item) error {
	if err := c.db.Save(item); err != nil {
		return fmt.Errorf("save item: %w", err)
	}
	return nil
}

// FindItem returns the item for the given id.
func (c *strm) FindItem(id string) (*model.Item, error) {
	var item model.Item
	if err := c.db.One("ID", id, &item); err != nil {
		return nil, fmt.Errorf("find item: %w", notFound(err))
	}
	return &item, nil
}

// FindItems returns every item, newest first.
func (c *strm) FindItems() ([]*model.Item, error) {
	items := make([]*model.Item, 0)
	err := c.db.All(&items)
	if err != nil && !errors.Is(err, storm.ErrNotFound) {
		return nil, fmt.Errorf("find items: %w", err)
	}
	sortItemsNewestFirst(items)
	return items, nil
}

// FindItemsByTheme returns the items listed under a theme, newest first.
func (c *strm) FindItemsByTheme(themeID string) ([]*model.Item, error) {
	items := make([]*model.Item, 0)
	err := c.db.Select(q.Eq("ThemeID", themeID)).Find(&items)
	if err != nil && !errors.Is(err, storm.ErrNotFound) {
		return nil, fmt.Errorf("find items by theme: %w", err)
	}
	sortItemsNewestFirst(items)
	return items, nil
}

// DeleteItem removes an item document.
func (c *strm) DeleteItem(id string) error {
	item, err := c.FindItem(id)
	if err != nil {
		return err
	}
	if err := c.db.DeleteStruct(item); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// IncrementItemVotes atomically adds one vote and returns the new count.
// The read-modify-write runs in a single bolt write transaction, so
// concurrent increments serialize and none are lost.
func (c *strm) IncrementItemVotes(id string) (int, error) {
	tx, err := c.db.Begin(true)
	if err != nil {
		return 0, fmt.Errorf("begin vote transaction: %w", err)
	}
	defer tx.Rollback()

	var item model.Item
	if err := tx.One("ID", id, &item); err != nil {
		return 0, fmt.Errorf("find item: %w", notFound(err))
	}

	item.Votes++
	if err := tx.Save(&item); err != nil {
		return 0, fmt.Errorf("save item: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit vote: %w", err)
	}
	return item.Votes, nil
}

// CountItems returns the size of the items collection.
func (c *strm) CountItems() (int, error) {
	n, err := c.db.Count(&model.Item{})
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

// CountItemsByTheme returns how many items are listed under a theme.
func (c *strm) CountItemsByTheme(themeID string) (int, error) {
	n, err := c.db.Select(q.Eq("ThemeID", themeID)).Count(&model.Item{})
	if err != nil {
		return 0, fmt.Errorf("count items by theme: %w", err)
	}
	return n, nil
}

func sortItemsNewestFirst(items []*model.Item) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
