package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding/charmap"
)

const (
	DefaultTitle       = "Orçamento"
	DefaultPDFFileName = "orcamento.pdf"

	pageWidth  = 210.0
	pageHeight = 297.0
	pageMargin = 14.0
	tableTop   = 22.0
	lineHeight = 6.0
	cellPad    = 1.5
)

// RenderPDF writes the table as an A4 document: a title, a bordered table and
// the total below it. Long cells wrap onto several lines and a row that would
// cross the bottom margin starts a new page with the header repeated.
//
// The document uses the core Helvetica font, so text is encoded as cp1252.
// Runes outside that code page (emoji, CJK) are printed as '?'.
func RenderPDF(w io.Writer, t Table, title string) error {
	if title == "" {
		title = DefaultTitle
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(pageMargin, tableTop, pageMargin)
	pdf.SetAutoPageBreak(false, pageMargin)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "", 16)
	pdf.Text(pageMargin, 15, toCP1252(title))

	widths := columnWidths(len(t.Columns))
	drawHeader(pdf, t.Columns, widths)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range t.Rows {
		lines := make([][]string, len(widths))
		height := lineHeight
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			lines[i] = wrap(pdf, toCP1252(cell), widths[i])
			height = max(height, float64(len(lines[i]))*lineHeight)
		}

		if pdf.GetY()+height > pageHeight-pageMargin {
			pdf.AddPage()
			drawHeader(pdf, t.Columns, widths)
			pdf.SetFont("Helvetica", "", 10)
		}
		drawRow(pdf, lines, widths, height)
	}

	pdf.SetFont("Helvetica", "", 12)
	if pdf.GetY()+15 > pageHeight-pageMargin {
		pdf.AddPage()
	}
	pdf.Text(pageMargin, pdf.GetY()+10, toCP1252("Total: "+t.Total))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func drawHeader(pdf *fpdf.Fpdf, columns []string, widths []float64) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(41, 128, 185)
	pdf.SetTextColor(255, 255, 255)
	for i, col := range columns {
		pdf.CellFormat(widths[i], lineHeight+2, toCP1252(col), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(0, 0, 0)
}

// drawRow draws one bordered row of the given height at the current position.
func drawRow(pdf *fpdf.Fpdf, lines [][]string, widths []float64, height float64) {
	x, y := pageMargin, pdf.GetY()
	for i, w := range widths {
		pdf.Rect(x, y, w, height, "D")
		for j, line := range lines[i] {
			pdf.SetXY(x, y+float64(j)*lineHeight)
			pdf.CellFormat(w, lineHeight, line, "", 0, "L", false, 0, "")
		}
		x += w
	}
	pdf.SetXY(pageMargin, y+height)
}

// wrap splits cp1252 text into lines that fit the column, breaking on spaces
// and inside words longer than a line. A cell never grows past one page; the
// overflow is cut and marked with "...".
func wrap(pdf *fpdf.Fpdf, text string, width float64) []string {
	limit := width - 2*cellPad
	fits := func(s string) bool { return pdf.GetStringWidth(s) <= limit }

	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if fits(candidate) {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
			line = ""
		}
		// cp1252 is one byte per character, so words can be cut at any byte
		for !fits(word) {
			cut := 1
			for cut < len(word) && fits(word[:cut+1]) {
				cut++
			}
			lines = append(lines, word[:cut])
			word = word[cut:]
		}
		line = word
	}
	lines = append(lines, line)

	usable := pageHeight - tableTop - 2*pageMargin
	maxLines := int(usable / lineHeight)
	if len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] += "..."
	}
	return lines
}

// toCP1252 encodes s for the core PDF fonts.
func toCP1252(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		c, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			c = '?'
		}
		b.WriteByte(c)
	}
	return b.String()
}

// columnWidths splits the printable width of an A4 page, giving the first
// column (product name) a double share.
func columnWidths(n int) []float64 {
	if n == 0 {
		return nil
	}
	const printable = pageWidth - 2*pageMargin
	unit := printable / float64(n+1)
	widths := make([]float64, n)
	for i := range widths {
		widths[i] = unit
	}
	widths[0] = 2 * unit
	return widths
}
