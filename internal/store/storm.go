package store

import (
	"errors"
	"fmt"

	"github.com/asdine/storm/v3"

	"github.com/swapcycle/exchange-platform/internal/model"
)

type strm struct {
	db *storm.DB
}

// Open opens (creating if needed) the storm database at path and initializes
// the collection indexes.
func Open(path string) (Client, error) {
	db, err := storm.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	for _, m := range []interface{}{
		&model.User{},
		&model.Item{},
		&model.Conversation{},
		&model.Message{},
		&model.Exchange{},
	} {
		if err := db.Init(m); err != nil {
			db.Close()
			return nil, fmt.Errorf("could not init index: %w", err)
		}
	}

	return &strm{db: db}, nil
}

// Close closes the underlying bolt file.
func (c *strm) Close() error {
	return c.db.Close()
}

// Ping verifies the database file is still usable.
func (c *strm) Ping() error {
	var u model.User
	err := c.db.One("ID", "__ping__", &u)
	if err != nil && !errors.Is(err, storm.ErrNotFound) {
		return err
	}
	return nil
}

// notFound normalizes storm's sentinel into the package error.
func notFound(err error) error {
	if errors.Is(err, storm.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
