// Package pricing holds the money arithmetic and currency formatting of a quote.
package pricing

import (
	"github.com/leekchan/accounting"
	"github.com/shopspring/decimal"
)

// UnitPrice returns price divided by quantity, or zero when quantity is zero.
func UnitPrice(price, quantity decimal.Decimal) decimal.Decimal {
	if quantity.IsZero() {
		return decimal.Zero
	}
	return price.Div(quantity)
}

// Sum adds up the given amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Currency describes how amounts are rendered.
type Currency struct {
	Symbol    string
	Thousand  string
	Decimal   string
	Precision int
}

// BRL is the Brazilian real as rendered by the pt-BR locale.
var BRL = Currency{
	Symbol:    "R$",
	Thousand:  ".",
	Decimal:   ",",
	Precision: 2,
}

// Formatter renders amounts in a fixed currency convention.
type Formatter struct {
	ac *accounting.Accounting
}

// NewFormatter creates a Formatter for the given currency.
func NewFormatter(c Currency) *Formatter {
	return &Formatter{
		ac: &accounting.Accounting{
			Symbol:         c.Symbol,
			Precision:      c.Precision,
			Thousand:       c.Thousand,
			Decimal:        c.Decimal,
			Format:         "%s %v",
			FormatNegative: "-%s %v",
			FormatZero:     "%s %v",
		},
	}
}

// FormatCurrency renders amount with the currency symbol prefixed, e.g. "R$ 1.234,50".
func (f *Formatter) FormatCurrency(amount decimal.Decimal) string {
	return f.ac.FormatMoneyDecimal(amount)
}
