package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dom/plantally/internal/store"
)

var ErrNotFound = errors.New("record not found")

// SessionRepository keeps the live store behind each session id. Entries
// lapse after an idle period unless refreshed.
type SessionRepository interface {
	Create(ctx context.Context, id string, st *store.Store) error
	GetByID(ctx context.Context, id string) (*store.Store, error)
	// Refresh restarts the idle period of id. It returns ErrNotFound rather
	// than re-adding an id that is gone.
	Refresh(ctx context.Context, id string, st *store.Store) error
	// Retain keeps id for exactly ttl, overriding the idle period. Like
	// Refresh, it never re-adds a missing id.
	Retain(ctx context.Context, id string, st *store.Store, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) (map[string]*store.Store, error)
	Count(ctx context.Context) int
}

type Repositories struct {
	Session SessionRepository
}
