package model

import (
	"time"

	"github.com/google/uuid"
)

// Coupon discount types.
const (
	DiscountPercent = "percent"
	DiscountFixed   = "fixed"
)

// Coupon is a store-scoped discount code.
type Coupon struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	StoreID       string     `json:"storeId" db:"store_id"`
	Code          string     `json:"code" db:"code"`
	DiscountType  string     `json:"discountType" db:"discount_type"`
	DiscountValue float64    `json:"discountValue" db:"discount_value"`
	MinOrderValue float64    `json:"minOrderValue" db:"min_order_value"`
	MaxUses       *int       `json:"maxUses,omitempty" db:"max_uses"`
	UsesCount     int        `json:"usesCount" db:"uses_count"`
	IsActive      bool       `json:"isActive" db:"is_active"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty" db:"expires_at"`
}
