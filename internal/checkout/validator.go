// Package checkout holds the pure rules of a checkout: form validation,
// server-side pricing, delivery quoting and user-facing error copy.
package checkout

import (
	"fmt"
	"regexp"
	"strings"

	"storefront/internal/model"
)

// Field errors reported by ValidateForm.
const (
	ErrNameRequired         = "Name is required"
	ErrPhoneRequired        = "Phone is required"
	ErrPhoneInvalid         = "Phone is invalid"
	ErrEmailInvalid         = "Email is invalid"
	ErrChannelInvalid       = "Channel must be COUNTER, DELIVERY or TAKEAWAY"
	ErrZipRequired          = "Zip code (CEP) is required"
	ErrZipInvalid           = "Zip code (CEP) is invalid"
	ErrStreetRequired       = "Street is required"
	ErrNumberRequired       = "Number is required"
	ErrDistrictRequired     = "District is required"
	ErrCityRequired         = "City is required"
	ErrStateRequired        = "State is required"
	ErrCartEmpty            = "Cart is empty"
	ErrScheduleTimeRequired = "Scheduled time is required when a date is given"
	ErrScheduleDateRequired = "Scheduled date is required when a time is given"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

// FormValidation lists every problem found in a checkout form.
type FormValidation struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors,omitempty"`
}

// ValidateForm checks the customer, channel, address and cart fields of req
// and reports all failures at once. Phone is required only in
// phone_required mode; the full address only for DELIVERY. A scheduled date
// and time must come as a pair.
func ValidateForm(req *model.CheckoutRequest, mode string) FormValidation {
	var errs []string

	if strings.TrimSpace(req.Customer.Name) == "" {
		errs = append(errs, ErrNameRequired)
	}

	phone := strings.TrimSpace(req.Customer.Phone)
	switch {
	case phone == "" && mode == model.CheckoutModePhoneRequired:
		errs = append(errs, ErrPhoneRequired)
	case !ValidatePhone(phone):
		errs = append(errs, ErrPhoneInvalid)
	}

	if !ValidateEmail(strings.TrimSpace(req.Customer.Email)) {
		errs = append(errs, ErrEmailInvalid)
	}

	switch req.Channel {
	case model.ChannelCounter, model.ChannelTakeaway:
	case model.ChannelDelivery:
		errs = append(errs, validateAddress(req.DeliveryAddress)...)
	default:
		errs = append(errs, ErrChannelInvalid)
	}

	date, clock := strings.TrimSpace(req.ScheduledDate), strings.TrimSpace(req.ScheduledTime)
	switch {
	case date != "" && clock == "":
		errs = append(errs, ErrScheduleTimeRequired)
	case date == "" && clock != "":
		errs = append(errs, ErrScheduleDateRequired)
	}

	if len(req.Items) == 0 {
		errs = append(errs, ErrCartEmpty)
	}
	for i, item := range req.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			errs = append(errs, fmt.Sprintf("Item %d: product is required", i+1))
		}
		if item.Quantity <= 0 {
			errs = append(errs, fmt.Sprintf("Item %d: quantity must be greater than zero", i+1))
		}
	}

	return FormValidation{IsValid: len(errs) == 0, Errors: errs}
}

func validateAddress(addr *model.Address) []string {
	if addr == nil {
		addr = &model.Address{}
	}

	var errs []string
	zip := strings.TrimSpace(addr.ZipCode)
	switch {
	case zip == "":
		errs = append(errs, ErrZipRequired)
	case !ValidateZipCode(zip):
		errs = append(errs, ErrZipInvalid)
	}

	required := []struct {
		value string
		err   string
	}{
		{addr.Street, ErrStreetRequired},
		{addr.Number, ErrNumberRequired},
		{addr.District, ErrDistrictRequired},
		{addr.City, ErrCityRequired},
		{addr.State, ErrStateRequired},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			errs = append(errs, r.err)
		}
	}
	return errs
}

// ValidateEmail reports whether email is well formed. Empty is valid.
func ValidateEmail(email string) bool {
	if email == "" {
		return true
	}
	return emailPattern.MatchString(email)
}

// ValidatePhone reports whether phone is a Brazilian landline or mobile
// number (10 or 11 digits, optional +55). Formatting characters are
// ignored. Empty is valid.
func ValidatePhone(phone string) bool {
	if phone == "" {
		return true
	}
	digits := nonDigits.ReplaceAllString(phone, "")
	if (len(digits) == 12 || len(digits) == 13) && strings.HasPrefix(digits, "55") {
		digits = digits[2:]
	}
	return len(digits) == 10 || len(digits) == 11
}

// ValidateZipCode reports whether zip is an 8 digit CEP, with or without
// the hyphen. Unlike the other predicates, empty is invalid.
func ValidateZipCode(zip string) bool {
	if zip == "" {
		return false
	}
	if strings.ContainsFunc(zip, func(r rune) bool { return !(r >= '0' && r <= '9') && r != '-' && r != ' ' && r != '.' }) {
		return false
	}
	return len(nonDigits.ReplaceAllString(zip, "")) == 8
}
