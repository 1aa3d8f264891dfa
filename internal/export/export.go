// Package export renders the current product list as a shareable WhatsApp
// message, a table, a CSV file or a PDF document.
//
// None of the functions reject an empty product list; callers decide whether
// exporting an empty quote should be pre-empted with a warning.
package export

import (
	"net/url"
	"strings"

	"github.com/abgdnv/quotebuilder/internal/pricing"
	"github.com/abgdnv/quotebuilder/internal/product/store"
	"github.com/shopspring/decimal"
)

const DefaultShareBaseURL = "https://wa.me/"

// Formatter builds the exported representations of a quote.
type Formatter struct {
	money        *pricing.Formatter
	shareBaseURL string
}

// NewFormatter creates a Formatter. An empty shareBaseURL falls back to DefaultShareBaseURL.
func NewFormatter(money *pricing.Formatter, shareBaseURL string) *Formatter {
	if shareBaseURL == "" {
		shareBaseURL = DefaultShareBaseURL
	}
	return &Formatter{
		money:        money,
		shareBaseURL: shareBaseURL,
	}
}

// Total is the sum of the price of every product. Quantity is not applied.
func Total(products []store.Product) decimal.Decimal {
	prices := make([]decimal.Decimal, len(products))
	for i, p := range products {
		prices[i] = p.Price
	}
	return pricing.Sum(prices...)
}

// ShareText returns the itemized quote as a WhatsApp message.
func (f *Formatter) ShareText(products []store.Product) string {
	var b strings.Builder
	b.WriteString("*Orçamento*\n\n")
	for _, p := range products {
		b.WriteString("*" + p.Name + "*\n")
		b.WriteString("Quantidade: " + p.Quantity.String() + "\n")
		b.WriteString("Preço: " + f.money.FormatCurrency(p.Price) + "\n")
		b.WriteString("Valor unitário: " + f.money.FormatCurrency(pricing.UnitPrice(p.Price, p.Quantity)) + "\n\n")
	}
	b.WriteString("\n*Total: " + f.money.FormatCurrency(Total(products)) + "*")
	return b.String()
}

// ToShareText returns ShareText percent-encoded for a URL query parameter.
func (f *Formatter) ToShareText(products []store.Product) string {
	return EncodeComponent(f.ShareText(products))
}

// ShareURL returns a click-to-chat link carrying the quote. When phone is empty
// the link lets the user pick the recipient.
func (f *Formatter) ShareURL(products []store.Product, phone string) string {
	base := strings.TrimSuffix(f.shareBaseURL, "/") + "/" + url.PathEscape(phone)
	return base + "?text=" + f.ToShareText(products)
}

// EncodeComponent percent-encodes s the way encodeURIComponent does: letters,
// digits and -_.!~*'() are kept, every other UTF-8 byte becomes %XX.
// The WhatsApp bold markers (*) therefore survive unescaped.
func EncodeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if keepUnescaped(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}

func keepUnescaped(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
