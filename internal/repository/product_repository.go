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

const productColumns = `id, store_id, name, price, category, is_active, track_inventory, stock_quantity, created_at`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// ListByStore retrieves the active menu of a store with pagination support.
func (r *productRepository) ListByStore(ctx context.Context, storeID string, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE store_id = $1 AND is_active
		ORDER BY category, name
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, storeID, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Str("store_id", storeID).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	return r.collect(rows)
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var p model.Product
	err := scanProduct(r.pool.QueryRow(ctx, query, id), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// GetByIDs retrieves multiple products by their IDs.
func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1) ORDER BY name`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query products by IDs")
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}

	return r.collect(rows)
}

// GetModifierOptions retrieves modifier options by their IDs.
func (r *productRepository) GetModifierOptions(ctx context.Context, ids []string) ([]model.ModifierOption, error) {
	if len(ids) == 0 {
		return []model.ModifierOption{}, nil
	}

	query := `
		SELECT id, product_id, name, extra_price, is_active
		FROM modifier_options
		WHERE id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query modifier options")
		return nil, fmt.Errorf("failed to query modifier options: %w", err)
	}
	defer rows.Close()

	options := []model.ModifierOption{}
	for rows.Next() {
		var o model.ModifierOption
		if err := rows.Scan(&o.ID, &o.ProductID, &o.Name, &o.ExtraPrice, &o.IsActive); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan modifier option row")
			return nil, fmt.Errorf("failed to scan modifier option: %w", err)
		}
		options = append(options, o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating modifier option rows")
		return nil, fmt.Errorf("error iterating modifier options: %w", err)
	}

	return options, nil
}

func (r *productRepository) collect(rows pgx.Rows) ([]model.Product, error) {
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

func scanProduct(row pgx.Row, p *model.Product) error {
	return row.Scan(
		&p.ID,
		&p.StoreID,
		&p.Name,
		&p.Price,
		&p.Category,
		&p.IsActive,
		&p.TrackInventory,
		&p.StockQuantity,
		&p.CreatedAt,
	)
}
