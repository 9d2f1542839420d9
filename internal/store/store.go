package store

import (
	"context"

	"github.com/alfredjeanlab/eventlog/internal/model"
)

// Store defines the persistence interface for the event log.
type Store interface {
	// Event types
	SyncTypes(ctx context.Context, types []*model.EventType) error

	// Events
	InsertEvent(ctx context.Context, rec *model.Record) (int64, error) // returns the new id; model.ErrNotCreated if no row was written
	GetEvent(ctx context.Context, id int64) (*model.Row, error)
	ListEvents(ctx context.Context, filter model.EventFilter) ([]*model.Row, error)
	CountEvents(ctx context.Context, filter model.EventFilter) (int, error)
	DeleteEvent(ctx context.Context, id int64) error

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Ping(ctx context.Context) error
	Close() error
}
