package model

import (
	"time"

	"github.com/google/uuid"
)

// Fulfilment channels.
const (
	ChannelCounter  = "COUNTER"
	ChannelDelivery = "DELIVERY"
	ChannelTakeaway = "TAKEAWAY"
)

// Order statuses.
const (
	OrderStatusPending = "PENDING"
)

// Order represents a persisted customer order.
type Order struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	StoreID         string     `json:"storeId" db:"store_id"`
	Code            string     `json:"code" db:"code"`
	Channel         string     `json:"channel" db:"channel"`
	Status          string     `json:"status" db:"status"`
	CustomerName    string     `json:"customerName" db:"customer_name"`
	CustomerPhone   string     `json:"customerPhone,omitempty" db:"customer_phone"`
	CustomerEmail   string     `json:"customerEmail,omitempty" db:"customer_email"`
	DeliveryAddress *Address   `json:"deliveryAddress,omitempty" db:"delivery_address"`
	ScheduledFor    *time.Time `json:"scheduledFor,omitempty" db:"scheduled_for"`
	CouponCode      *string    `json:"couponCode,omitempty" db:"coupon_code"`
	PaymentMethod   string     `json:"paymentMethod,omitempty" db:"payment_method"`
	Notes           string     `json:"notes,omitempty" db:"notes"`
	Subtotal        float64    `json:"subtotal" db:"subtotal_amount"`
	DeliveryFee     float64    `json:"deliveryFee" db:"delivery_fee"`
	Discount        float64    `json:"discount" db:"discount_amount"`
	Total           float64    `json:"total" db:"total_amount"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
}

// OrderItem represents a line item in an order. Name and prices are
// snapshots taken at checkout time.
type OrderItem struct {
	ID             uuid.UUID           `json:"-" db:"id"`
	OrderID        uuid.UUID           `json:"-" db:"order_id"`
	ProductID      string              `json:"productId" db:"product_id"`
	ProductName    string              `json:"productName" db:"title_snapshot"`
	UnitPrice      float64             `json:"unitPrice" db:"unit_price"`
	Quantity       int                 `json:"quantity" db:"quantity"`
	ModifiersTotal float64             `json:"modifiersTotal" db:"modifiers_total"`
	Subtotal       float64             `json:"subtotal" db:"subtotal"`
	Modifiers      []OrderItemModifier `json:"modifiers,omitempty"`
}

// OrderItemModifier is a snapshot of a modifier option applied to a line.
type OrderItemModifier struct {
	ID               uuid.UUID `json:"-" db:"id"`
	OrderItemID      uuid.UUID `json:"-" db:"order_item_id"`
	ModifierOptionID string    `json:"modifierOptionId" db:"modifier_option_id"`
	Name             string    `json:"name" db:"name_snapshot"`
	ExtraPrice       float64   `json:"extraPrice" db:"extra_price"`
}

// Customer holds the contact fields collected at checkout.
type Customer struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Address is a delivery address. Coordinates are optional and only used
// for the delivery radius check.
type Address struct {
	ZipCode    string   `json:"zip_code"`
	Street     string   `json:"street"`
	Number     string   `json:"number"`
	Complement string   `json:"complement,omitempty"`
	District   string   `json:"district"`
	City       string   `json:"city"`
	State      string   `json:"state"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

// CartItem is a line as submitted by the client. ClientSubtotal is
// informational and never trusted.
type CartItem struct {
	ProductID         string   `json:"product_id"`
	Quantity          int      `json:"quantity"`
	ModifierOptionIDs []string `json:"modifier_option_ids,omitempty"`
	ClientSubtotal    float64  `json:"client_subtotal,omitempty"`
	Notes             string   `json:"notes,omitempty"`
}

// CheckoutRequest is the checkout submission payload. A schedule may be
// given either as ScheduledFor or as a local ScheduledDate/ScheduledTime pair.
type CheckoutRequest struct {
	StoreID         string     `json:"store_id"`
	Customer        Customer   `json:"customer"`
	Channel         string     `json:"channel"`
	Items           []CartItem `json:"items"`
	DeliveryAddress *Address   `json:"delivery_address,omitempty"`
	ScheduledFor    *time.Time `json:"scheduled_for,omitempty"`
	ScheduledDate   string     `json:"scheduled_date,omitempty"`
	ScheduledTime   string     `json:"scheduled_time,omitempty"`
	CouponCode      string     `json:"coupon_code,omitempty"`
	PaymentMethod   string     `json:"payment_method,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	ClientTotal     float64    `json:"client_total,omitempty"`
}

// IsScheduled reports whether the request carries a schedule.
func (r *CheckoutRequest) IsScheduled() bool {
	return r.ScheduledFor != nil || (r.ScheduledDate != "" && r.ScheduledTime != "")
}

// LineTotal is the server-computed price of one cart line.
type LineTotal struct {
	ProductID      string  `json:"productId"`
	ProductName    string  `json:"productName"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unitPrice"`
	ModifiersTotal float64 `json:"modifiersTotal"`
	Subtotal       float64 `json:"subtotal"`
}

// Totals is the server-computed price breakdown of an order.
type Totals struct {
	Lines       []LineTotal `json:"lines"`
	Subtotal    float64     `json:"subtotal"`
	DeliveryFee float64     `json:"deliveryFee"`
	Discount    float64     `json:"discount"`
	Total       float64     `json:"total"`
	DistanceKm  *float64    `json:"distanceKm,omitempty"`
}

// CheckoutResult is returned by a successful checkout.
type CheckoutResult struct {
	Order  *Order      `json:"order"`
	Items  []OrderItem `json:"items"`
	Totals Totals      `json:"totals"`
}

// CheckoutResponse is the HTTP response for a checkout submission.
type CheckoutResponse struct {
	Success      bool       `json:"success"`
	OrderID      *uuid.UUID `json:"orderId,omitempty"`
	OrderCode    string     `json:"orderCode,omitempty"`
	Totals       *Totals    `json:"totals,omitempty"`
	ScheduledFor *time.Time `json:"scheduledFor,omitempty"`
	Code         string     `json:"code,omitempty"`
	Error        string     `json:"error,omitempty"`
	Errors       []string   `json:"errors,omitempty"`
}

// OrderResponse represents the response payload for an order.
type OrderResponse struct {
	Order *Order      `json:"order"`
	Items []OrderItem `json:"items"`
}
