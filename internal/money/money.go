// Package money provides exact decimal helpers for monetary amounts.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when user input is not a positive amount.
var ErrInvalidAmount = errors.New("invalid amount")

var maxInt = decimal.NewFromInt(math.MaxInt)

// CeilDivide returns the smallest N >= 0 such that N*divisor >= dividend.
// divisor must be positive; callers check this before calling. A quotient
// too large for int saturates at math.MaxInt.
func CeilDivide(dividend, divisor decimal.Decimal) int {
	if !dividend.IsPositive() {
		return 0
	}
	q, r := dividend.QuoRem(divisor, 0)
	if q.GreaterThanOrEqual(maxInt) {
		return math.MaxInt
	}
	n := int(q.IntPart())
	if r.IsPositive() {
		n++
	}
	return n
}

// NonNegative clamps d to zero from below.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ParseAmount parses US-style user input such as "$1,250.50".
// Unparseable or non-positive input returns ErrInvalidAmount.
func ParseAmount(text string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s is not positive", ErrInvalidAmount, d.String())
	}
	return d, nil
}

// MustParse parses a decimal literal, returning zero on error.
func MustParse(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
