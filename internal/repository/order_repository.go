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

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	query := `
		INSERT INTO orders (
			id, store_id, code, channel, status,
			customer_name, customer_phone, customer_email, delivery_address,
			scheduled_for, coupon_code, payment_method, notes,
			subtotal_amount, delivery_fee, discount_amount, total_amount,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
	`

	_, err := tx.Exec(ctx, query,
		order.ID, order.StoreID, order.Code, order.Channel, order.Status,
		order.CustomerName, order.CustomerPhone, order.CustomerEmail, order.DeliveryAddress,
		order.ScheduledFor, order.CouponCode, order.PaymentMethod, order.Notes,
		order.Subtotal, order.DeliveryFee, order.Discount, order.Total,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Str("store_id", order.StoreID).
			Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Str("code", order.Code).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts order items and their modifier snapshots within
// the provided transaction. Items are queued before their modifiers so the
// foreign keys resolve inside a single batch.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	itemQuery := `
		INSERT INTO order_items (
			id, order_id, product_id, title_snapshot, unit_price, quantity, modifiers_total, subtotal
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	modifierQuery := `
		INSERT INTO order_item_modifiers (id, order_item_id, modifier_option_id, name_snapshot, extra_price)
		VALUES ($1, $2, $3, $4, $5)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(itemQuery,
			item.ID, item.OrderID, item.ProductID, item.ProductName,
			item.UnitPrice, item.Quantity, item.ModifiersTotal, item.Subtotal,
		)
	}
	modifiers := 0
	for _, item := range items {
		for _, m := range item.Modifiers {
			batch.Queue(modifierQuery, m.ID, item.ID, m.ModifierOptionID, m.Name, m.ExtraPrice)
			modifiers++
		}
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			ev := r.logger.Error().Err(err)
			if i < len(items) {
				ev = ev.Str("order_id", items[i].OrderID.String()).Str("product_id", items[i].ProductID)
			}
			ev.Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Int("modifiers", modifiers).
		Msg("order items created successfully")

	return nil
}

// DecrementStock removes qty units from a tracked product.
func (r *orderRepository) DecrementStock(ctx context.Context, tx pgx.Tx, productID string, qty int) error {
	query := `
		UPDATE products
		SET stock_quantity = stock_quantity - $2
		WHERE id = $1 AND stock_quantity IS NOT NULL AND stock_quantity >= $2
	`

	tag, err := tx.Exec(ctx, query, productID, qty)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID).Msg("failed to decrement stock")
		return fmt.Errorf("failed to decrement stock: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Warn().
			Str("product_id", productID).
			Int("quantity", qty).
			Msg("insufficient stock")
		return model.ErrOutOfStock
	}

	return nil
}

// GetByID retrieves an order by its ID along with its items and modifiers.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error) {
	orderQuery := `
		SELECT id, store_id, code, channel, status,
			customer_name, customer_phone, customer_email, delivery_address,
			scheduled_for, coupon_code, payment_method, notes,
			subtotal_amount, delivery_fee, discount_amount, total_amount,
			created_at, updated_at
		FROM orders
		WHERE id = $1
	`

	var order model.Order
	err := r.pool.QueryRow(ctx, orderQuery, id).Scan(
		&order.ID, &order.StoreID, &order.Code, &order.Channel, &order.Status,
		&order.CustomerName, &order.CustomerPhone, &order.CustomerEmail, &order.DeliveryAddress,
		&order.ScheduledFor, &order.CouponCode, &order.PaymentMethod, &order.Notes,
		&order.Subtotal, &order.DeliveryFee, &order.Discount, &order.Total,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.getItems(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return &order, items, nil
}

func (r *orderRepository) getItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	itemsQuery := `
		SELECT id, order_id, product_id, title_snapshot, unit_price, quantity, modifiers_total, subtotal
		FROM order_items
		WHERE order_id = $1
		ORDER BY title_snapshot, id
	`

	rows, err := r.pool.Query(ctx, itemsQuery, orderID)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_id", orderID.String()).
			Msg("failed to query order items")
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.UnitPrice, &item.Quantity, &item.ModifiersTotal, &item.Subtotal,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		index[item.ID] = len(items)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}
	if len(items) == 0 {
		return items, nil
	}

	modifierQuery := `
		SELECT m.id, m.order_item_id, m.modifier_option_id, m.name_snapshot, m.extra_price
		FROM order_item_modifiers m
		JOIN order_items i ON i.id = m.order_item_id
		WHERE i.order_id = $1
		ORDER BY m.name_snapshot
	`

	mrows, err := r.pool.Query(ctx, modifierQuery, orderID)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to query order item modifiers")
		return nil, fmt.Errorf("failed to query order item modifiers: %w", err)
	}
	defer mrows.Close()

	for mrows.Next() {
		var m model.OrderItemModifier
		if err := mrows.Scan(&m.ID, &m.OrderItemID, &m.ModifierOptionID, &m.Name, &m.ExtraPrice); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item modifier row")
			return nil, fmt.Errorf("failed to scan order item modifier: %w", err)
		}
		if i, ok := index[m.OrderItemID]; ok {
			items[i].Modifiers = append(items[i].Modifiers, m)
		}
	}
	if err := mrows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item modifier rows")
		return nil, fmt.Errorf("error iterating order item modifiers: %w", err)
	}

	return items, nil
}
