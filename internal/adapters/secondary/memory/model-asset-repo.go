// Package memory holds a process-local record store for tests and
// single-node development runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"model-asset-service/internal/core/domain"
	"model-asset-service/internal/core/ports/output"
)

type modelAssetRepo struct {
	mu     sync.RWMutex
	nextID int64
	assets map[int64]domain.ModelAsset
}

func NewModelAssetRepository() ports.ModelAssetRepository {
	return &modelAssetRepo{assets: make(map[int64]domain.ModelAsset)}
}

func (r *modelAssetRepo) Create(_ context.Context, asset *domain.ModelAsset) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	asset.ID = r.nextID
	r.assets[asset.ID] = clone(asset)
	return nil
}

func (r *modelAssetRepo) GetByID(_ context.Context, id int64) (*domain.ModelAsset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.assets[id]
	if !ok {
		return nil, domain.ErrModelAssetNotFound
	}
	out := clone(&a)
	return &out, nil
}

// Update holds the write lock while fn runs, so updates never interleave.
func (r *modelAssetRepo) Update(_ context.Context, id int64, fn ports.UpdateFunc) (*domain.ModelAsset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.assets[id]
	if !ok {
		return nil, domain.ErrModelAssetNotFound
	}

	next := clone(&cur)
	if err := fn(&next); err != nil {
		return nil, err
	}
	next.ID = id
	next.CreatedAt = cur.CreatedAt
	if next.UpdatedAt.Before(cur.UpdatedAt) {
		next.UpdatedAt = cur.UpdatedAt
	}
	r.assets[id] = clone(&next)
	return &next, nil
}

func (r *modelAssetRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.assets[id]; !ok {
		return domain.ErrModelAssetNotFound
	}
	delete(r.assets, id)
	return nil
}

func (r *modelAssetRepo) List(_ context.Context, filter ports.ListFilter) ([]*domain.ModelAsset, error) {
	r.mu.RLock()
	all := make([]*domain.ModelAsset, 0, len(r.assets))
	for _, a := range r.assets {
		c := clone(&a)
		all = append(all, &c)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID > all[j].ID
	})

	if filter.Offset >= len(all) {
		return []*domain.ModelAsset{}, nil
	}
	all = all[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(all) {
		all = all[:filter.Limit]
	}
	return all, nil
}

func (r *modelAssetRepo) Ping(context.Context) error {
	return nil
}

// clone copies the pointer fields so callers never share state with the store.
func clone(a *domain.ModelAsset) domain.ModelAsset {
	c := *a
	if a.Description != nil {
		d := *a.Description
		c.Description = &d
	}
	if a.Thumbnail != nil {
		t := *a.Thumbnail
		c.Thumbnail = &t
	}
	return c
}
