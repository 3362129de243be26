package store

import (
	"fmt"

	"github.com/swapcycle/exchange-platform/internal/model"
)

// SaveUser inserts or updates a user document.
func (c *strm) SaveUser(user *model.User) error {
	if err := c.db.Save(user); err != nil {
		return fmt.Errorf("save user: %w", err)
	}
	return nil
}

// FindUser returns the user for the given id.
func (c *strm) FindUser(id string) (*model.User, error) {
	var user model.User
	if err := c.db.One("ID", id, &user); err != nil {
		return nil, fmt.Errorf("find user: %w", notFound(err))
	}
	return &user, nil
}

// CountUsers returns the size of the users collection.
func (c *strm) CountUsers() (int, error) {
	n, err := c.db.Count(&model.User{})
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}
