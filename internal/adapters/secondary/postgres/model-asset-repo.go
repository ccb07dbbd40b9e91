package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"model-asset-service/internal/core/domain"
	"model-asset-service/internal/core/ports/output"
)

const modelAssetColumns = `id, name, description, model_file, thumbnail, file_size, created_at, updated_at`

type modelAssetRepo struct {
	pool *pgxpool.Pool
}

func NewModelAssetRepository(pool *pgxpool.Pool) ports.ModelAssetRepository {
	return &modelAssetRepo{pool: pool}
}

func (r *modelAssetRepo) Create(ctx context.Context, asset *domain.ModelAsset) error {
	query := `
		INSERT INTO model_asset
			(name, description, model_file, thumbnail, file_size, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		asset.Name, asset.Description, asset.ModelFile, asset.Thumbnail,
		asset.FileSize, asset.CreatedAt, asset.UpdatedAt,
	).Scan(&asset.ID)
	if err != nil {
		return fmt.Errorf("create model asset: %w", err)
	}
	return nil
}

func (r *modelAssetRepo) GetByID(ctx context.Context, id int64) (*domain.ModelAsset, error) {
	query := `SELECT ` + modelAssetColumns + ` FROM model_asset WHERE id = $1`

	a, err := scanModelAsset(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrModelAssetNotFound
		}
		return nil, fmt.Errorf("get model asset by id: %w", err)
	}
	return a, nil
}

// Update locks the row with SELECT ... FOR UPDATE, applies fn and writes the
// result back in the same transaction. created_at is never written.
func (r *modelAssetRepo) Update(ctx context.Context, id int64, fn ports.UpdateFunc) (*domain.ModelAsset, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update model asset: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `SELECT ` + modelAssetColumns + ` FROM model_asset WHERE id = $1 FOR UPDATE`
	asset, err := scanModelAsset(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrModelAssetNotFound
		}
		return nil, fmt.Errorf("lock model asset: %w", err)
	}

	if err := fn(asset); err != nil {
		return nil, err
	}

	query = `
		UPDATE model_asset
		SET name=$1, description=$2, model_file=$3, thumbnail=$4,
			file_size=$5, updated_at=GREATEST(updated_at, $6)
		WHERE id=$7
		RETURNING ` + modelAssetColumns
	updated, err := scanModelAsset(tx.QueryRow(ctx, query,
		asset.Name, asset.Description, asset.ModelFile, asset.Thumbnail,
		asset.FileSize, asset.UpdatedAt, id,
	))
	if err != nil {
		return nil, fmt.Errorf("update model asset: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update model asset: %w", err)
	}
	return updated, nil
}

func (r *modelAssetRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM model_asset WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete model asset: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrModelAssetNotFound
	}
	return nil
}

func (r *modelAssetRepo) List(ctx context.Context, filter ports.ListFilter) ([]*domain.ModelAsset, error) {
	query := `SELECT ` + modelAssetColumns + ` FROM model_asset ORDER BY created_at DESC, id DESC`
	args := []interface{}{}

	// LIMIT NULL is no limit in Postgres.
	var limit interface{}
	if filter.Limit > 0 {
		limit = filter.Limit
	}
	query += ` LIMIT $1 OFFSET $2`
	args = append(args, limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list model assets: %w", err)
	}
	defer rows.Close()

	assets := []*domain.ModelAsset{}
	for rows.Next() {
		a, err := scanModelAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("scan model asset row: %w", err)
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate model asset rows: %w", err)
	}
	return assets, nil
}

func (r *modelAssetRepo) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

func scanModelAsset(row pgx.Row) (*domain.ModelAsset, error) {
	var a domain.ModelAsset
	err := row.Scan(
		&a.ID, &a.Name, &a.Description, &a.ModelFile, &a.Thumbnail,
		&a.FileSize, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return &a, nil
}
