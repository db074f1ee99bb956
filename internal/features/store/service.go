package store

import (
	"context"
	"fmt"
	"strings"
)

type StoreService interface {
	ListStores(ctx context.Context) ([]Store, error)
	ListSyncTargets(ctx context.Context) ([]Store, error)
	SaveStore(ctx context.Context, store *Store) error
}

type StoreServiceImpl struct {
	Repo StoreRepository
}

func NewStoreService(repo StoreRepository) StoreService {
	return &StoreServiceImpl{Repo: repo}
}

func (s *StoreServiceImpl) ListStores(ctx context.Context) ([]Store, error) {
	return s.Repo.List(ctx)
}

// ListSyncTargets returns the active stores the booking/rentout/return
// channels must be queried for.
func (s *StoreServiceImpl) ListSyncTargets(ctx context.Context) ([]Store, error) {
	return s.Repo.ListActive(ctx)
}

// SaveStore canonicalizes the name and upserts the directory entry.
func (s *StoreServiceImpl) SaveStore(ctx context.Context, store *Store) error {
	store.Name = Normalize(store.Name)
	if store.Name == "" {
		return fmt.Errorf("store name is required")
	}

	if store.Brand == "" {
		if brand, _, found := strings.Cut(store.Name, " - "); found {
			store.Brand = brand
		}
	}

	return s.Repo.Upsert(ctx, store)
}
