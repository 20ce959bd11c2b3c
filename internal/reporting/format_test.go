package reporting

import (
	"math"
	"testing"

	"github.com/guiaturistica/reportes-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		value    float64
		symbol   string
		expected string
	}{
		{value: 0, symbol: "€", expected: "€ 0,00"},
		{value: 50, symbol: "€", expected: "€ 50,00"},
		{value: 1234.56, symbol: "€", expected: "€ 1.234,56"},
		{value: 1234567.891, symbol: "€", expected: "€ 1.234.567,89"},
		{value: 999.999, symbol: "€", expected: "€ 1.000,00"},
		{value: -1234.5, symbol: "€", expected: "€ -1.234,50"},
		{value: 12, symbol: "", expected: "€ 12,00"},
		{value: 12, symbol: "$", expected: "$ 12,00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatCurrency(tt.value, tt.symbol))
	}
}

func TestFormatDecimal(t *testing.T) {
	assert.Equal(t, "100.000", FormatDecimal(100000, 0))
	assert.Equal(t, "3,5", FormatDecimal(3.45, 1))
	assert.Equal(t, "4.50", FormatFixed(4.5, 2))
}

func TestFormatNonFinite(t *testing.T) {
	assert.Equal(t, "€ 0,00", FormatCurrency(math.Inf(1), "€"))
	assert.Equal(t, "0,0", FormatDecimal(math.NaN(), 1))
	assert.Equal(t, "0.00", FormatFixed(math.Inf(-1), 2))
	assert.Equal(t, "0.00", models.DecimalCell(math.NaN(), 2).String())
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, Percent(1, 0))
	assert.Equal(t, 25.0, Percent(1, 4))
}
