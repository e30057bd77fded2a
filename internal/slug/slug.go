// Package slug normalizes and validates store slugs, the URL identifiers
// a tenant storefront is served under.
package slug

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	MinLength = 3
	MaxLength = 40
)

// Rejection reasons, in the order the rules are checked.
const (
	ReasonTooShort     = "slug must be at least 3 characters"
	ReasonTooLong      = "slug must be at most 40 characters"
	ReasonCharset      = "slug may only contain lowercase letters, numbers and hyphens"
	ReasonDoubleHyphen = "slug cannot contain consecutive hyphens"
	ReasonEdgeHyphen   = "slug cannot start or end with a hyphen"
	ReasonReserved     = "slug is reserved"
)

var charset = regexp.MustCompile(`^[a-z0-9-]+$`)

// Result is the outcome of validating a slug. Reason is set when Valid is false.
type Result struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// Normalize turns free text into slug form: lowercase ASCII letters and digits
// separated by single hyphens. It never fails; the result may still be
// invalid (too short, reserved).
func Normalize(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))

	// transform.Chain is stateful, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if stripped, _, err := transform.String(t, s); err == nil {
		s = stripped
	}

	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	return b.String()
}

// Validator checks slugs against the format rules and a reserved set.
type Validator struct {
	reserved Set
}

// NewValidator creates a validator. A nil set falls back to the built-in list.
func NewValidator(reserved Set) *Validator {
	if reserved == nil {
		reserved = DefaultReserved()
	}
	return &Validator{reserved: reserved}
}

// Validate reports the first rule slug violates, checking length, charset,
// hyphen placement and reservation in that order.
func (v *Validator) Validate(slug string) Result {
	n := utf8.RuneCountInString(slug)
	switch {
	case n < MinLength:
		return Result{Reason: ReasonTooShort}
	case n > MaxLength:
		return Result{Reason: ReasonTooLong}
	case !charset.MatchString(slug):
		return Result{Reason: ReasonCharset}
	case strings.Contains(slug, "--"):
		return Result{Reason: ReasonDoubleHyphen}
	case strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-"):
		return Result{Reason: ReasonEdgeHyphen}
	case v.IsReserved(slug):
		return Result{Reason: ReasonReserved}
	}
	return Result{Valid: true}
}

// IsReserved reports whether slug is in the reserved set, ignoring case.
func (v *Validator) IsReserved(slug string) bool {
	return v.reserved.Contains(slug)
}
