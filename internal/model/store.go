package model

import "time"

// Checkout modes configured per store.
const (
	CheckoutModeGuest         = "guest"
	CheckoutModePhoneRequired = "phone_required"
)

// Store is a tenant storefront.
type Store struct {
	ID        string        `json:"id" db:"id"`
	Slug      string        `json:"slug" db:"slug"`
	Name      string        `json:"name" db:"name"`
	IsActive  bool          `json:"isActive" db:"is_active"`
	Timezone  string        `json:"timezone" db:"timezone"`
	Latitude  *float64      `json:"latitude,omitempty" db:"latitude"`
	Longitude *float64      `json:"longitude,omitempty" db:"longitude"`
	Settings  StoreSettings `json:"settings" db:"settings"`
	CreatedAt time.Time     `json:"createdAt" db:"created_at"`
}

// StoreSettings is persisted as JSONB on the store row.
type StoreSettings struct {
	BusinessHours []BusinessHour     `json:"businessHours"`
	Checkout      CheckoutSettings   `json:"checkout"`
	Delivery      DeliverySettings   `json:"delivery"`
	Scheduling    SchedulingSettings `json:"scheduling"`
}

// BusinessHour is the opening window for one weekday (0 = Sunday).
// A Close earlier than Open means the window ends on the following day.
type BusinessHour struct {
	Day    int    `json:"day"`
	Open   string `json:"open"`
	Close  string `json:"close"`
	IsOpen bool   `json:"isOpen"`
}

// CheckoutSettings controls which customer fields are required.
type CheckoutSettings struct {
	Mode string `json:"mode"`
}

// DeliverySettings describes the delivery area and fee table.
type DeliverySettings struct {
	Enabled       bool    `json:"enabled"`
	RadiusKm      float64 `json:"radiusKm"`
	Fee           float64 `json:"fee"`
	FeePerKm      float64 `json:"feePerKm"`
	MinFee        float64 `json:"minFee"`
	MaxFee        float64 `json:"maxFee"`
	FreeRadiusKm  float64 `json:"freeRadiusKm"`
	FreeAbove     float64 `json:"freeAbove"`
	MinOrderValue float64 `json:"minOrderValue"`
}

// SchedulingSettings controls advance ordering.
type SchedulingSettings struct {
	Enabled             bool `json:"enabled"`
	MinLeadMinutes      int  `json:"minLeadMinutes"`
	MaxLeadDays         int  `json:"maxLeadDays"`
	SlotIntervalMinutes int  `json:"slotIntervalMinutes"`
}
