package valueobject

import (
	"regexp"
	"strings"

	"github.com/PLAYZONE-UA/zlota-raczka/internal/domain/shared"
)

// phonePattern accepts an optional leading plus followed by 9 to 15 digits
var phonePattern = regexp.MustCompile(`^\+?[0-9]{9,15}$`)

// phoneSeparators are stripped before validation
var phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "\t", "")

// MaxPhoneLength is the storage width of a normalized phone number
const MaxPhoneLength = 20

// Phone is a normalized customer phone number.
// It is immutable; the zero value is an empty, invalid phone.
type Phone struct {
	value string
}

// NewPhone normalizes raw input and validates it
func NewPhone(raw string) (Phone, error) {
	normalized := phoneSeparators.Replace(strings.TrimSpace(raw))
	if normalized == "" {
		return Phone{}, shared.NewDomainError("INVALID_PHONE", "Phone number is required")
	}
	if !phonePattern.MatchString(normalized) {
		return Phone{}, shared.NewDomainError("INVALID_PHONE", "Invalid phone number format")
	}
	return Phone{value: normalized}, nil
}

// MustNewPhone is NewPhone for constants in tests and seeds; it panics on invalid input
func MustNewPhone(raw string) Phone {
	p, err := NewPhone(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the normalized number
func (p Phone) String() string {
	return p.value
}

// IsZero reports whether the phone is empty
func (p Phone) IsZero() bool {
	return p.value == ""
}

// Masked hides the middle digits, keeping the prefix and the last three digits.
// Used wherever a number ends up in logs.
func (p Phone) Masked() string {
	return MaskPhone(p.value)
}

// MaskPhone masks an arbitrary phone string for logging
func MaskPhone(s string) string {
	if len(s) <= 6 {
		return strings.Repeat("*", len(s))
	}
	head, tail := 3, 3
	return s[:head] + strings.Repeat("*", len(s)-head-tail) + s[len(s)-tail:]
}
