package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func Test_UnitPrice(t *testing.T) {
	testCases := []struct {
		name     string
		price    decimal.Decimal
		quantity decimal.Decimal
		expected decimal.Decimal
	}{
		{name: "Exact division", price: d("100"), quantity: d("4"), expected: d("25")},
		{name: "Single unit", price: d("5"), quantity: d("1"), expected: d("5")},
		{name: "Fractional result", price: d("10"), quantity: d("4"), expected: d("2.5")},
		{name: "Zero quantity", price: d("100"), quantity: decimal.Zero, expected: decimal.Zero},
		{name: "Zero quantity and zero price", price: decimal.Zero, quantity: decimal.Zero, expected: decimal.Zero},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			got := UnitPrice(tc.price, tc.quantity)
			// then
			assert.True(t, tc.expected.Equal(got), "expected %s, got %s", tc.expected, got)
		})
	}
}

func Test_Sum(t *testing.T) {
	assert.True(t, Sum().IsZero())
	assert.True(t, d("15").Equal(Sum(d("10.00"), d("5.00"))))
	assert.True(t, d("0.3").Equal(Sum(d("0.1"), d("0.2"))))
}

func Test_Formatter_FormatCurrency(t *testing.T) {
	testCases := []struct {
		name     string
		amount   decimal.Decimal
		expected string
	}{
		{name: "Integer amount", amount: d("10"), expected: "R$ 10,00"},
		{name: "Two decimals", amount: d("15.5"), expected: "R$ 15,50"},
		{name: "Rounded to two decimals", amount: d("3.3333333"), expected: "R$ 3,33"},
		{name: "Thousands separator", amount: d("1234567.891"), expected: "R$ 1.234.567,89"},
		{name: "Zero", amount: decimal.Zero, expected: "R$ 0,00"},
	}

	f := NewFormatter(BRL)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, f.FormatCurrency(tc.amount))
		})
	}
}

func Test_Formatter_CustomCurrency(t *testing.T) {
	f := NewFormatter(Currency{Symbol: "$", Thousand: ",", Decimal: ".", Precision: 2})

	assert.Equal(t, "$ 1,000.00", f.FormatCurrency(d("1000")))
}
