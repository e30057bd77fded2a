package repository

import (
	"context"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// StoreRepository defines the interface for store data access operations.
type StoreRepository interface {
	// GetByID retrieves a store by its ID. Returns nil when it does not exist.
	GetByID(ctx context.Context, id string) (*model.Store, error)

	// SlugExists reports whether a published store already owns the slug.
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// ListByStore retrieves the active menu of a store with pagination support.
	ListByStore(ctx context.Context, storeID string, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)

	// GetByIDs retrieves multiple products by their IDs, active or not.
	GetByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// GetModifierOptions retrieves modifier options by their IDs, active or not.
	GetModifierOptions(ctx context.Context, ids []string) ([]model.ModifierOption, error)
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts order items and their modifier snapshots
	// within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// DecrementStock removes qty units from a tracked product. Returns
	// model.ErrOutOfStock when fewer than qty units remain.
	DecrementStock(ctx context.Context, tx pgx.Tx, productID string, qty int) error

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, []model.OrderItem, error)
}

// CouponRepository defines the interface for coupon data access operations.
type CouponRepository interface {
	// GetByCode retrieves a store coupon by its normalized code.
	GetByCode(ctx context.Context, storeID, code string) (*model.Coupon, error)

	// IncrementUsage atomically consumes one use of the coupon. Returns
	// model.ErrInvalidCoupon when the coupon can no longer be used.
	IncrementUsage(ctx context.Context, tx pgx.Tx, id uuid.UUID) error
}

// DraftStoreRepository defines the interface for draft store data access operations.
type DraftStoreRepository interface {
	// Create inserts a draft. Returns model.ErrSlugTaken when the slug or
	// token is already held by another draft.
	Create(ctx context.Context, draft *model.DraftStore) error

	// GetByToken retrieves a draft by its token, expired or not.
	GetByToken(ctx context.Context, token string) (*model.DraftStore, error)

	// GetBySlug retrieves a draft by its slug, expired or not.
	GetBySlug(ctx context.Context, slug string) (*model.DraftStore, error)

	// MergeConfig shallow-merges patch into the config of an unexpired
	// draft, top-level keys in patch winning. Returns model.ErrNotFound when
	// no unexpired draft has the token.
	MergeConfig(ctx context.Context, token string, patch map[string]any, now time.Time) (*model.DraftStore, error)

	// DeleteByToken removes a draft.
	DeleteByToken(ctx context.Context, token string) error

	// DeleteExpired removes every draft expired at now and returns the count.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
