package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// couponRepository implements the CouponRepository interface using PostgreSQL.
type couponRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCouponRepository creates a new PostgreSQL-backed coupon repository.
func NewCouponRepository(pool *pgxpool.Pool, logger zerolog.Logger) CouponRepository {
	return &couponRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "coupon").Logger(),
	}
}

// GetByCode retrieves a store coupon by its normalized code.
func (r *couponRepository) GetByCode(ctx context.Context, storeID, code string) (*model.Coupon, error) {
	query := `
		SELECT id, store_id, code, discount_type, discount_value, min_order_value,
			max_uses, uses_count, is_active, expires_at
		FROM coupons
		WHERE store_id = $1 AND code = $2
	`

	var c model.Coupon
	err := r.pool.QueryRow(ctx, query, storeID, code).Scan(
		&c.ID, &c.StoreID, &c.Code, &c.DiscountType, &c.DiscountValue, &c.MinOrderValue,
		&c.MaxUses, &c.UsesCount, &c.IsActive, &c.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("store_id", storeID).Str("code", code).Msg("coupon not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query coupon")
		return nil, fmt.Errorf("failed to query coupon: %w", err)
	}

	return &c, nil
}

// IncrementUsage atomically consumes one use of the coupon.
func (r *couponRepository) IncrementUsage(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	query := `
		UPDATE coupons
		SET uses_count = uses_count + 1
		WHERE id = $1
			AND is_active
			AND (max_uses IS NULL OR uses_count < max_uses)
			AND (expires_at IS NULL OR expires_at > NOW())
	`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		r.logger.Error().Err(err).Str("coupon_id", id.String()).Msg("failed to increment coupon usage")
		return fmt.Errorf("failed to increment coupon usage: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Warn().Str("coupon_id", id.String()).Msg("coupon exhausted during checkout")
		return model.ErrInvalidCoupon
	}

	return nil
}
