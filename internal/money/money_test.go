package money

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCeilDivide(t *testing.T) {
	tests := []struct {
		name     string
		dividend string
		divisor  string
		want     int
	}{
		{"exact", "1000.00", "250.00", 4},
		{"rounds up", "1000.00", "300.00", 4},
		{"zero dividend", "0", "300", 0},
		{"negative dividend", "-5", "300", 0},
		{"smaller than divisor", "0.01", "300", 1},
		{"cents", "0.30", "0.10", 3},
		{"cents remainder", "0.31", "0.10", 4},
		{"default debt", "5055.00", "200.00", 26},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CeilDivide(MustParse(tt.dividend), MustParse(tt.divisor))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCeilDivideBounds(t *testing.T) {
	divisors := []string{"0.01", "0.07", "3", "10.10", "333.33", "500"}
	dividends := []string{"0.01", "1", "99.99", "1000", "4855.00", "5055.17"}

	for _, ds := range divisors {
		r := MustParse(ds)
		for _, ns := range dividends {
			d := MustParse(ns)
			n := CeilDivide(d, r)
			nd := decimal.NewFromInt(int64(n))
			assert.True(t, nd.Mul(r).GreaterThanOrEqual(d), "%d * %s < %s", n, ds, ns)
			if n > 0 {
				prev := decimal.NewFromInt(int64(n - 1))
				assert.True(t, prev.Mul(r).LessThan(d), "(%d-1) * %s >= %s", n, ds, ns)
			}
		}
	}
}

func TestCeilDivideSaturates(t *testing.T) {
	assert.Equal(t, math.MaxInt, CeilDivide(MustParse("1e30"), MustParse("0.01")))
	assert.Equal(t, math.MaxInt, CeilDivide(decimal.NewFromInt(math.MaxInt64), decimal.NewFromInt(1)))
	assert.Equal(t, math.MaxInt-1, CeilDivide(decimal.NewFromInt(math.MaxInt64-1), decimal.NewFromInt(1)))
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount("  $1,250.50 ")
	require.NoError(t, err)
	assert.True(t, d.Equal(MustParse("1250.50")))

	for _, bad := range []string{"", "abc", "0", "-5", "$"} {
		_, err := ParseAmount(bad)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", bad)
	}
}

func TestNonNegative(t *testing.T) {
	assert.True(t, NonNegative(MustParse("-1")).IsZero())
	assert.True(t, NonNegative(MustParse("2.5")).Equal(MustParse("2.5")))
}

func TestFormatter(t *testing.T) {
	f := NewFormatter("USD", "en-US")
	assert.Equal(t, "USD", f.Code())

	got := f.Format(MustParse("4855"))
	assert.Contains(t, got, "4,855.00")
	assert.Contains(t, got, "$")

	neg := f.Format(MustParse("-12.5"))
	assert.Equal(t, "-", neg[:1])
}

func TestFormatterLargeAmountsAreExact(t *testing.T) {
	f := NewFormatter("USD", "en-US")
	assert.Contains(t, f.Format(MustParse("12345678901234567.89")), "12,345,678,901,234,567.89")
	assert.Contains(t, f.Format(MustParse("0.05")), "0.05")
	assert.Contains(t, f.Format(MustParse("1000.1")), "1,000.10")
	assert.Equal(t, Placeholder, f.Format(MustParse("1e30")))
}

func TestFormatterFallback(t *testing.T) {
	assert.Equal(t, Placeholder, NewFormatter("NOPE", "en-US").Format(MustParse("10")))
	assert.Equal(t, Placeholder, NewFormatter("USD", "!!").Format(MustParse("10")))

	var f *Formatter
	assert.Equal(t, Placeholder, f.Format(MustParse("10")))
}

func TestValidCurrency(t *testing.T) {
	assert.True(t, ValidCurrency("USD"))
	assert.True(t, ValidCurrency(" eur "))
	assert.False(t, ValidCurrency("NOPE"))
	assert.False(t, ValidCurrency(""))
}
