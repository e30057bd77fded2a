package checkout

import (
	"fmt"
	"math"
	"strings"
	"time"

	"storefront/internal/model"
)

// Money is handled in integer cents to keep totals exact.
func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

func fromCents(c int64) float64 {
	return float64(c) / 100
}

// RoundMoney rounds v to whole cents.
func RoundMoney(v float64) float64 {
	return fromCents(toCents(v))
}

// PriceLine prices qty units of p with the given modifier options. Only
// active options contribute. Client-submitted amounts play no part.
func PriceLine(p *model.Product, qty int, options []model.ModifierOption) model.LineTotal {
	var modifiers int64
	for _, o := range options {
		if o.IsActive {
			modifiers += toCents(o.ExtraPrice)
		}
	}
	unit := toCents(p.Price)

	return model.LineTotal{
		ProductID:      p.ID,
		ProductName:    p.Name,
		Quantity:       qty,
		UnitPrice:      fromCents(unit),
		ModifiersTotal: fromCents(modifiers),
		Subtotal:       fromCents((unit + modifiers) * int64(qty)),
	}
}

// ComputeTotals sums the lines and applies the delivery fee and discount.
// The discount never exceeds the subtotal.
func ComputeTotals(lines []model.LineTotal, deliveryFee, discount float64) model.Totals {
	var subtotal int64
	for _, l := range lines {
		subtotal += toCents(l.Subtotal)
	}

	d := toCents(discount)
	if d > subtotal {
		d = subtotal
	}
	if d < 0 {
		d = 0
	}
	fee := toCents(deliveryFee)

	return model.Totals{
		Lines:       lines,
		Subtotal:    fromCents(subtotal),
		DeliveryFee: fromCents(fee),
		Discount:    fromCents(d),
		Total:       fromCents(subtotal + fee - d),
	}
}

// NormalizeCouponCode upper-cases and trims a coupon code.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// CouponDiscount returns the discount c grants on subtotal at now.
func CouponDiscount(c *model.Coupon, subtotal float64, now time.Time) (float64, error) {
	if c == nil || !c.IsActive {
		return 0, model.ErrInvalidCoupon
	}
	if c.ExpiresAt != nil && !now.Before(*c.ExpiresAt) {
		return 0, model.NewDomainError(model.ErrCodeInvalidCoupon, "This coupon has expired")
	}
	if c.MaxUses != nil && c.UsesCount >= *c.MaxUses {
		return 0, model.NewDomainError(model.ErrCodeInvalidCoupon, "This coupon has reached its usage limit")
	}
	if toCents(subtotal) < toCents(c.MinOrderValue) {
		return 0, model.NewDomainError(model.ErrCodeInvalidCoupon,
			fmt.Sprintf("This coupon requires a minimum order of %.2f", c.MinOrderValue))
	}

	var discount int64
	switch c.DiscountType {
	case model.DiscountPercent:
		discount = int64(math.Round(float64(toCents(subtotal)) * c.DiscountValue / 100))
	case model.DiscountFixed:
		discount = toCents(c.DiscountValue)
	default:
		return 0, model.ErrInvalidCoupon
	}

	if sub := toCents(subtotal); discount > sub {
		discount = sub
	}
	return fromCents(discount), nil
}
