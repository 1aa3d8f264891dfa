package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/abgdnv/quotebuilder/internal/pricing"
	"github.com/abgdnv/quotebuilder/internal/product/store"
)

// Columns are the headers of the quote table.
var Columns = []string{"Produto", "Quantidade", "Preço", "Valor Unitário"}

const totalLabel = "Total"

// Table is the tabular form of a quote, every cell already formatted.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Total   string     `json:"total"`
}

// ToTable returns the quote as a table of product, quantity, price and unit price.
func (f *Formatter) ToTable(products []store.Product) Table {
	rows := make([][]string, 0, len(products))
	for _, p := range products {
		rows = append(rows, []string{
			p.Name,
			p.Quantity.String(),
			f.money.FormatCurrency(p.Price),
			f.money.FormatCurrency(pricing.UnitPrice(p.Price, p.Quantity)),
		})
	}
	return Table{
		Columns: append([]string(nil), Columns...),
		Rows:    rows,
		Total:   f.money.FormatCurrency(Total(products)),
	}
}

// WriteCSV writes the header, one record per row and a trailing total record.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	records := make([][]string, 0, len(t.Rows)+1)
	records = append(records, t.Rows...)
	records = append(records, totalRecord(len(t.Columns), t.Total))
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

// ReadCSV parses a table written by WriteCSV.
func ReadCSV(r io.Reader) (Table, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return Table{}, fmt.Errorf("read csv: expected header and total, got %d records", len(records))
	}

	last := records[len(records)-1]
	if last[0] != totalLabel {
		return Table{}, fmt.Errorf("read csv: missing %q record", totalLabel)
	}
	return Table{
		Columns: records[0],
		Rows:    records[1 : len(records)-1],
		Total:   last[len(last)-1],
	}, nil
}

func totalRecord(width int, total string) []string {
	if width < 2 {
		width = 2
	}
	rec := make([]string, width)
	rec[0] = totalLabel
	rec[width-1] = total
	return rec
}
