package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// storeRepository implements the StoreRepository interface using PostgreSQL.
type storeRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewStoreRepository creates a new PostgreSQL-backed store repository.
func NewStoreRepository(pool *pgxpool.Pool, logger zerolog.Logger) StoreRepository {
	return &storeRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "store").Logger(),
	}
}

// GetByID retrieves a store by its ID.
func (r *storeRepository) GetByID(ctx context.Context, id string) (*model.Store, error) {
	query := `
		SELECT id, slug, name, is_active, timezone, latitude, longitude, settings, created_at
		FROM stores
		WHERE id = $1
	`

	var s model.Store
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.Slug,
		&s.Name,
		&s.IsActive,
		&s.Timezone,
		&s.Latitude,
		&s.Longitude,
		&s.Settings,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("store_id", id).Msg("store not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("store_id", id).Msg("failed to query store")
		return nil, fmt.Errorf("failed to query store: %w", err)
	}

	return &s, nil
}

// SlugExists reports whether a published store already owns the slug.
func (r *storeRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM stores WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		r.logger.Error().Err(err).Str("slug", slug).Msg("failed to check store slug")
		return false, fmt.Errorf("failed to check store slug: %w", err)
	}
	return exists, nil
}
