// Package store caches position analyses.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"milkchess/internal/config"
	"milkchess/internal/db"
	"milkchess/internal/models"
)

// ErrNotFound is returned by Get when no analysis is cached for a position.
var ErrNotFound = errors.New("analysis not found")

// Store is an analysis cache keyed by position string.
type Store interface {
	Get(ctx context.Context, position string) (*models.Analysis, error)
	Put(ctx context.Context, analysis *models.Analysis) error
	Close() error
}

// New opens the store selected by cfg.Storage.Driver. database is required
// for the mongo driver and ignored otherwise.
func New(cfg *config.Config, database *db.MongoDB) (Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverBadger:
		s, err := NewBadgerStore(cfg.Storage.BadgerDir, cfg.CacheTTL())
		if err != nil {
			return nil, err
		}
		if cfg.Storage.BadgerDir == "" {
			log.Println("[Store] Using in-memory badger cache")
		} else {
			log.Printf("[Store] Using badger cache at %s", cfg.Storage.BadgerDir)
		}
		return s, nil
	case config.DriverMongo:
		if database == nil {
			return nil, fmt.Errorf("storage driver %q requires a MongoDB connection", cfg.Storage.Driver)
		}
		log.Println("[Store] Using MongoDB analysis cache")
		return NewMongoStore(database), nil
	case config.DriverNone:
		log.Println("[Store] Analysis caching disabled")
		return Nop{}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// Nop caches nothing.
type Nop struct{}

func (Nop) Get(context.Context, string) (*models.Analysis, error) { return nil, ErrNotFound }
func (Nop) Put(context.Context, *models.Analysis) error           { return nil }
func (Nop) Close() error                                          { return nil }
