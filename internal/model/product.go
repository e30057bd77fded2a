package model

import "time"

// Product represents a menu item sold by a store.
type Product struct {
	ID             string    `json:"id" db:"id"`
	StoreID        string    `json:"storeId" db:"store_id"`
	Name           string    `json:"name" db:"name"`
	Price          float64   `json:"price" db:"price"`
	Category       string    `json:"category" db:"category"`
	IsActive       bool      `json:"isActive" db:"is_active"`
	TrackInventory bool      `json:"trackInventory" db:"track_inventory"`
	StockQuantity  *int      `json:"stockQuantity,omitempty" db:"stock_quantity"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
}

// HasStock reports whether qty units can be sold. Products that do not track
// inventory, or have no recorded stock, are always sellable.
func (p *Product) HasStock(qty int) bool {
	if !p.TrackInventory || p.StockQuantity == nil {
		return true
	}
	return *p.StockQuantity >= qty
}

// ModifierOption is an add-on (extra cheese, size upgrade) priced on top of a product.
type ModifierOption struct {
	ID         string  `json:"id" db:"id"`
	ProductID  string  `json:"productId" db:"product_id"`
	Name       string  `json:"name" db:"name"`
	ExtraPrice float64 `json:"extraPrice" db:"extra_price"`
	IsActive   bool    `json:"isActive" db:"is_active"`
}
