// Package memory implements the repositories on an in-process cache.
package memory

import (
	"context"
	"log"
	"time"

	"github.com/dom/plantally/internal/repository"
	"github.com/dom/plantally/internal/store"
	gocache "github.com/patrickmn/go-cache"
)

type sessionRepository struct {
	cache *gocache.Cache
}

// NewSessionRepository drops sessions idle for longer than idleTTL. Expired
// entries are purged every idleTTL/2.
func NewSessionRepository(idleTTL time.Duration) *sessionRepository {
	c := gocache.New(idleTTL, idleTTL/2)
	c.OnEvicted(func(id string, _ interface{}) {
		log.Printf("session %s evicted", id)
	})
	return &sessionRepository{cache: c}
}

func NewRepositories(idleTTL time.Duration) *repository.Repositories {
	return &repository.Repositories{
		Session: NewSessionRepository(idleTTL),
	}
}

func (r *sessionRepository) Create(ctx context.Context, id string, st *store.Store) error {
	return r.cache.Add(id, st, gocache.DefaultExpiration)
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*store.Store, error) {
	value, found := r.cache.Get(id)
	if !found {
		return nil, repository.ErrNotFound
	}
	st, ok := value.(*store.Store)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return st, nil
}

// Refresh and Retain only touch live entries. A session deleted by a
// concurrent logout stays deleted.
func (r *sessionRepository) Refresh(ctx context.Context, id string, st *store.Store) error {
	if err := r.cache.Replace(id, st, gocache.DefaultExpiration); err != nil {
		return repository.ErrNotFound
	}
	return nil
}

func (r *sessionRepository) Retain(ctx context.Context, id string, st *store.Store, ttl time.Duration) error {
	if err := r.cache.Replace(id, st, ttl); err != nil {
		return repository.ErrNotFound
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	r.cache.Delete(id)
	return nil
}

func (r *sessionRepository) List(ctx context.Context) (map[string]*store.Store, error) {
	items := r.cache.Items()
	stores := make(map[string]*store.Store, len(items))
	for id, item := range items {
		if st, ok := item.Object.(*store.Store); ok {
			stores[id] = st
		}
	}
	return stores, nil
}

func (r *sessionRepository) Count(ctx context.Context) int {
	return r.cache.ItemCount()
}
