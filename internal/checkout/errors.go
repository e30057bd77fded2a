package checkout

import (
	"errors"

	"storefront/internal/model"
)

// User-facing copy for failures that surface after pricing.
const (
	MessageOutOfStock      = "Some items in your cart are no longer in stock. Please review your cart."
	MessageDeliveryAddress = "We could not deliver to this address. Please check your delivery address."
	MessageGeneric         = "We could not create your order. Please try again."
)

// MapError translates an order failure into user copy by error kind.
// Anything it does not recognise gets the generic message, so internal
// detail never reaches the customer.
func MapError(err error) string {
	if msg, ok := mappedMessage(model.ErrorCode(err)); ok {
		return msg
	}
	return MessageGeneric
}

func mappedMessage(code string) (string, bool) {
	switch code {
	case model.ErrCodeOutOfStock:
		return MessageOutOfStock, true
	case model.ErrCodeDeliveryAddressRequired, model.ErrCodeOutOfRange:
		return MessageDeliveryAddress, true
	}
	return "", false
}

// UserMessage returns the message to show for err. Kinds with MapError copy
// always get that copy; other domain errors keep their own message and
// everything else falls back to MapError.
func UserMessage(err error) string {
	if msg, ok := mappedMessage(model.ErrorCode(err)); ok {
		return msg
	}
	var de *model.DomainError
	if errors.As(err, &de) && de.Message != "" {
		return de.Message
	}
	return MapError(err)
}
