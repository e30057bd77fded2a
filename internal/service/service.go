package service

import (
	"context"

	"storefront/internal/model"
	"storefront/internal/storehours"

	"github.com/google/uuid"
)

// ProductService defines the storefront menu read path.
type ProductService interface {
	// ListByStore retrieves the active products of a store with pagination.
	ListByStore(ctx context.Context, storeID string, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

// CheckoutService turns a cart submission into a persisted order.
type CheckoutService interface {
	// Submit validates, prices and persists a checkout. Failures are
	// *model.DomainError values for anything the customer can act on.
	Submit(ctx context.Context, req *model.CheckoutRequest) (*model.CheckoutResult, error)
}

// OrderService defines operations for reading orders.
type OrderService interface {
	// GetByID retrieves an order by its ID with all items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderResponse, error)
}

// StoreService reports store availability.
type StoreService interface {
	// Status returns whether the store is open now and the slots open for scheduling.
	Status(ctx context.Context, storeID string) (*StoreStatus, error)
}

// DraftStoreService manages onboarding drafts.
type DraftStoreService interface {
	// Create claims a slug and returns a new draft with its token.
	Create(ctx context.Context, rawSlug string) (*model.DraftStore, error)

	// Get returns an unexpired draft by token.
	Get(ctx context.Context, token string) (*model.DraftStore, error)

	// Update merges config into an unexpired draft.
	Update(ctx context.Context, token string, config map[string]any) (*model.DraftStore, error)

	// SweepExpired deletes every expired draft and returns the count.
	SweepExpired(ctx context.Context) (int, error)
}

// SlugService answers slug availability questions.
type SlugService interface {
	// Check normalizes raw and reports whether the result can be claimed.
	Check(ctx context.Context, raw string) (*model.SlugCheckResponse, error)
}

// StoreStatus is the availability of a store.
type StoreStatus struct {
	StoreID    string               `json:"storeId"`
	Timezone   string               `json:"timezone"`
	Status     storehours.Status    `json:"status"`
	Scheduling bool                 `json:"scheduling"`
	Slots      []storehours.SlotDay `json:"slots,omitempty"`
}
