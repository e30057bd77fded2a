package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const uniqueViolation = "23505"

const draftColumns = `id, draft_token, slug, config, expires_at, created_at, updated_at`

// draftStoreRepository implements the DraftStoreRepository interface using PostgreSQL.
type draftStoreRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewDraftStoreRepository creates a new PostgreSQL-backed draft store repository.
func NewDraftStoreRepository(pool *pgxpool.Pool, logger zerolog.Logger) DraftStoreRepository {
	return &draftStoreRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "draft_store").Logger(),
	}
}

// Create inserts a draft.
func (r *draftStoreRepository) Create(ctx context.Context, draft *model.DraftStore) error {
	config := draft.Config
	if config == nil {
		config = map[string]any{}
	}

	query := `
		INSERT INTO draft_stores (` + draftColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		draft.ID, draft.DraftToken, draft.Slug, config,
		draft.ExpiresAt, draft.CreatedAt, draft.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.logger.Info().Str("slug", draft.Slug).Str("constraint", pgErr.ConstraintName).Msg("draft slug already taken")
			return model.ErrSlugTaken
		}
		r.logger.Error().Err(err).Str("slug", draft.Slug).Msg("failed to create draft store")
		return fmt.Errorf("failed to create draft store: %w", err)
	}

	return nil
}

// GetByToken retrieves a draft by its token.
func (r *draftStoreRepository) GetByToken(ctx context.Context, token string) (*model.DraftStore, error) {
	return r.getOne(ctx, "draft_token", token)
}

// GetBySlug retrieves a draft by its slug.
func (r *draftStoreRepository) GetBySlug(ctx context.Context, slug string) (*model.DraftStore, error) {
	return r.getOne(ctx, "slug", slug)
}

func (r *draftStoreRepository) getOne(ctx context.Context, column, value string) (*model.DraftStore, error) {
	query := `SELECT ` + draftColumns + ` FROM draft_stores WHERE ` + column + ` = $1`

	var d model.DraftStore
	err := scanDraft(r.pool.QueryRow(ctx, query, value), &d)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("by", column).Msg("failed to query draft store")
		return nil, fmt.Errorf("failed to query draft store: %w", err)
	}

	return &d, nil
}

// MergeConfig shallow-merges patch into the config of an unexpired draft.
func (r *draftStoreRepository) MergeConfig(ctx context.Context, token string, patch map[string]any, now time.Time) (*model.DraftStore, error) {
	if patch == nil {
		patch = map[string]any{}
	}

	query := `
		UPDATE draft_stores
		SET config = config || $2::jsonb, updated_at = $3
		WHERE draft_token = $1 AND expires_at > $3
		RETURNING ` + draftColumns

	var d model.DraftStore
	err := scanDraft(r.pool.QueryRow(ctx, query, token, patch, now), &d)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		r.logger.Error().Err(err).Msg("failed to update draft store config")
		return nil, fmt.Errorf("failed to update draft store config: %w", err)
	}

	return &d, nil
}

// DeleteByToken removes a draft.
func (r *draftStoreRepository) DeleteByToken(ctx context.Context, token string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM draft_stores WHERE draft_token = $1`, token); err != nil {
		r.logger.Error().Err(err).Msg("failed to delete draft store")
		return fmt.Errorf("failed to delete draft store: %w", err)
	}
	return nil
}

// DeleteExpired removes every draft expired at now.
func (r *draftStoreRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM draft_stores WHERE expires_at <= $1`, now)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to delete expired draft stores")
		return 0, fmt.Errorf("failed to delete expired draft stores: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanDraft(row pgx.Row, d *model.DraftStore) error {
	return row.Scan(&d.ID, &d.DraftToken, &d.Slug, &d.Config, &d.ExpiresAt, &d.CreatedAt, &d.UpdatedAt)
}
