package ports

import (
	"context"

	"model-asset-service/internal/core/domain"
)

// ListFilter narrows a listing. A zero Limit means no limit.
type ListFilter struct {
	Limit  int
	Offset int
}

// UpdateFunc mutates the current record in place. It runs while the record is
// locked, so concurrent updates apply one after the other. A returned error
// aborts the update.
type UpdateFunc func(asset *domain.ModelAsset) error

// ModelAssetRepository is the record store. Each call is atomic on its own.
// List returns records newest first (created_at DESC, id DESC).
type ModelAssetRepository interface {
	Create(ctx context.Context, asset *domain.ModelAsset) error
	GetByID(ctx context.Context, id int64) (*domain.ModelAsset, error)
	// Update keeps created_at and never moves updated_at backwards.
	Update(ctx context.Context, id int64, fn UpdateFunc) (*domain.ModelAsset, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ListFilter) ([]*domain.ModelAsset, error)
	Ping(ctx context.Context) error
}
