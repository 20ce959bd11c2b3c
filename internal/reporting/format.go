package reporting

import (
	"strings"

	"github.com/guiaturistica/reportes-api/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the symbol used when none is configured
const DefaultCurrency = "€"

// FormatCurrency renders an amount as "€ 1.234,56"
func FormatCurrency(value float64, symbol string) string {
	if symbol == "" {
		symbol = DefaultCurrency
	}
	return symbol + " " + FormatDecimal(value, 2)
}

// FormatDecimal renders value with places decimals, "." for thousands and
// "," as decimal separator
func FormatDecimal(value float64, places int32) string {
	fixed := FormatFixed(value, places)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if places > 0 {
		b.WriteByte(',')
		b.WriteString(fracPart)
	}
	return sign + b.String()
}

// FormatFixed renders value with places decimals and a "." separator.
// NaN and infinities, e.g. overflowing sums, render as 0.
func FormatFixed(value float64, places int32) string {
	if !models.IsFinite(value) {
		value = 0
	}
	return decimal.NewFromFloat(value).Round(places).StringFixed(places)
}

// Percent returns part/whole*100, 0 when whole is 0
func Percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
