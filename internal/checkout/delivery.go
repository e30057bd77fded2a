package checkout

import (
	"fmt"
	"math"

	"storefront/internal/model"
)

const earthRadiusKm = 6371.0

// DistanceKm is the great-circle distance between two coordinates.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := rad(lat2 - lat1)
	dLon := rad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(lat1))*math.Cos(rad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// DeliveryQuote is the fee for one delivery. DistanceKm is nil when either
// side lacks coordinates.
type DeliveryQuote struct {
	Fee        float64
	DistanceKm *float64
}

// QuoteDelivery checks addr against the store's delivery area and minimum
// order and prices the delivery. The radius is enforced only when both the
// store and the address carry coordinates.
func QuoteDelivery(store *model.Store, addr *model.Address, subtotal float64) (DeliveryQuote, error) {
	if addr == nil {
		return DeliveryQuote{}, model.ErrDeliveryAddressRequired
	}

	settings := store.Settings.Delivery
	if !settings.Enabled {
		return DeliveryQuote{}, model.NewDomainError(model.ErrCodeOutOfRange, "This store does not deliver")
	}

	var distance *float64
	if store.Latitude != nil && store.Longitude != nil && addr.Latitude != nil && addr.Longitude != nil {
		d := DistanceKm(*store.Latitude, *store.Longitude, *addr.Latitude, *addr.Longitude)
		distance = &d
	}

	if distance != nil && settings.RadiusKm > 0 && *distance > settings.RadiusKm {
		return DeliveryQuote{DistanceKm: distance}, model.NewDomainError(model.ErrCodeOutOfRange,
			fmt.Sprintf("The address is outside the delivery area (%.1f km)", settings.RadiusKm))
	}

	if settings.MinOrderValue > 0 && toCents(subtotal) < toCents(settings.MinOrderValue) {
		return DeliveryQuote{DistanceKm: distance}, model.NewDomainError(model.ErrCodeMinOrderNotMet,
			fmt.Sprintf("The minimum order for delivery is %.2f", settings.MinOrderValue))
	}

	return DeliveryQuote{Fee: DeliveryFee(settings, distance, subtotal), DistanceKm: distance}, nil
}

// DeliveryFee prices a delivery: a base fee plus an optional per-km rate,
// clamped to the configured bounds. Deliveries inside the free radius or
// above the free-shipping threshold cost nothing.
func DeliveryFee(settings model.DeliverySettings, distance *float64, subtotal float64) float64 {
	if settings.FreeAbove > 0 && toCents(subtotal) >= toCents(settings.FreeAbove) {
		return 0
	}
	if distance != nil && settings.FreeRadiusKm > 0 && *distance <= settings.FreeRadiusKm {
		return 0
	}

	fee := settings.Fee
	if distance != nil && settings.FeePerKm > 0 {
		fee += *distance * settings.FeePerKm
		if settings.MinFee > 0 && fee < settings.MinFee {
			fee = settings.MinFee
		}
		if settings.MaxFee > 0 && fee > settings.MaxFee {
			fee = settings.MaxFee
		}
	}
	return RoundMoney(fee)
}
