package money

import (
	"errors"
	"math"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder is shown when an amount cannot be formatted.
const Placeholder = "$0.00"

// ErrUnknownCurrency is returned for codes that are not ISO 4217 currencies.
var ErrUnknownCurrency = errors.New("unknown currency code")

// ValidCurrency reports whether code is a recognized ISO 4217 code.
func ValidCurrency(code string) bool {
	_, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	return err == nil
}

// Formatter renders amounts in a configured currency and locale.
type Formatter struct {
	unit    currency.Unit
	printer *message.Printer
	symbol  string
	point   string
	scale   int
	ok      bool
}

var maxWhole = decimal.NewFromInt(math.MaxInt64)

// NewFormatter builds a formatter for an ISO currency code and a BCP 47
// locale. An unknown code or locale yields a formatter that always returns
// Placeholder.
func NewFormatter(code, locale string) *Formatter {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return &Formatter{}
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return &Formatter{}
	}

	p := message.NewPrinter(tag)
	scale, _ := currency.Standard.Rounding(unit)
	return &Formatter{
		unit:    unit,
		printer: p,
		symbol:  p.Sprint(currency.Symbol(unit)),
		point:   decimalPoint(p),
		scale:   scale,
		ok:      true,
	}
}

// Format returns the display string for amount, e.g. "$4,855.00".
func (f *Formatter) Format(amount decimal.Decimal) string {
	if f == nil || !f.ok {
		return Placeholder
	}

	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}
	amount = amount.Round(int32(f.scale))
	whole := amount.Truncate(0)
	if whole.GreaterThan(maxWhole) {
		return Placeholder
	}

	// The whole part goes through the printer as an int64 so grouping
	// follows the locale without a float round trip.
	out := sign + f.symbol + f.printer.Sprint(number.Decimal(whole.IntPart()))
	if f.scale > 0 {
		frac := amount.Sub(whole).Shift(int32(f.scale)).IntPart()
		out += f.point + f.printer.Sprint(number.Decimal(frac, number.MinIntegerDigits(f.scale)))
	}
	return out
}

// decimalPoint returns the locale's decimal separator.
func decimalPoint(p *message.Printer) string {
	sample := p.Sprint(number.Decimal(1.5, number.Scale(1)))
	point := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return -1
		}
		return r
	}, sample)
	if point == "" {
		return "."
	}
	return point
}

// Code returns the ISO code, or "" for a placeholder formatter.
func (f *Formatter) Code() string {
	if f == nil || !f.ok {
		return ""
	}
	return f.unit.String()
}
