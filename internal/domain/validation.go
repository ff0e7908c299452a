package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxMemoLength = 500

	// MaxAmountDigits bounds the integer digits of an amount, the digit count
	// of math.MaxFloat64.
	MaxAmountDigits = 309
	// MaxAmountScale is the number of fractional digits kept; finer amounts
	// are rounded half away from zero.
	MaxAmountScale = 16
)

var maxFiniteAmount = decimal.NewFromFloat(math.MaxFloat64)

// ParseAmount parses a user-entered amount. Both dot and comma decimal
// separators are accepted. Sign is not restricted; magnitudes outside the
// finite float64 range are rejected and precision is capped at
// MaxAmountScale fractional digits, so exponent notation cannot inflate the
// ledger's decimals.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: %w", ErrValidation, ErrEmptyAmount)
	}

	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %w: %q", ErrValidation, ErrInvalidAmount, s)
	}

	return boundAmount(d, s)
}

// boundAmount decides from the coefficient length and exponent alone and
// never rescales an out-of-range value.
func boundAmount(d decimal.Decimal, raw string) (decimal.Decimal, error) {
	if d.IsZero() {
		return decimal.Zero, nil
	}

	exp := int64(d.Exponent())
	magnitude := int64(d.NumDigits()) + exp
	switch {
	case magnitude > MaxAmountDigits,
		magnitude == MaxAmountDigits && d.Abs().GreaterThan(maxFiniteAmount):
		return decimal.Zero, fmt.Errorf("%w: %w: %q is too large", ErrValidation, ErrInvalidAmount, raw)
	case magnitude < -MaxAmountScale:
		// Rounds to zero at MaxAmountScale.
		return decimal.Zero, nil
	case exp < -MaxAmountScale:
		return d.Round(MaxAmountScale), nil
	default:
		return d, nil
	}
}

// ParseOptionalAmount parses an amount that may be left blank, in which case
// it returns nil.
func ParseOptionalAmount(s string) (*decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	d, err := ParseAmount(s)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

// ValidateMemo validates memo length
func ValidateMemo(memo string) error {
	if len(memo) > MaxMemoLength {
		return fmt.Errorf("%w: memo exceeds %d characters", ErrValidation, MaxMemoLength)
	}
	return nil
}

// ValidateName validates the name entered on the landing screen
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: please enter your name", ErrValidation)
	}
	return nil
}

// ValidateEmail validates the email entered on the recovery screen
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: please enter your email", ErrValidation)
	}
	return nil
}
