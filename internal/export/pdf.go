package export

import (
	"bytes"
	"strings"

	"github.com/go-pdf/fpdf"

	"inventora/webclient/internal/report"
)

const (
	pdfMargin     = 40.0
	pdfTitleY     = 40.0
	pdfTableTop   = 60.0
	pdfLineHeight = 14.0
	pdfCellPad    = 4.0
)

var (
	pdfHeaderFill = [3]int{66, 139, 202}
	pdfStripeFill = [3]int{245, 245, 245}
)

// PDF renders the report as an A4 portrait table. The header row repeats on
// every page and body rows alternate their background.
func PDF(data report.Data) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	// The core Helvetica fonts are cp1252 and have no rupee glyph.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	text := func(s string) string {
		return tr(strings.ReplaceAll(s, report.Currency, "Rs."))
	}

	pageW, pageH := pdf.GetPageSize()
	widths := columnWidths(data, pageW-2*pdfMargin)

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.Text(pdfMargin, pdfTitleY, text(data.Title))

	y := pdfTableTop
	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(pdfHeaderFill[0], pdfHeaderFill[1], pdfHeaderFill[2])
		pdf.SetTextColor(255, 255, 255)
		x := pdfMargin
		h := pdfLineHeight + 2*pdfCellPad
		for i, header := range data.Headers {
			pdf.Rect(x, y, widths[i], h, "F")
			pdf.SetXY(x+pdfCellPad, y+pdfCellPad)
			pdf.CellFormat(widths[i]-2*pdfCellPad, pdfLineHeight, text(header), "", 0, "L", false, 0, "")
			x += widths[i]
		}
		y += h
	}
	drawHeader()

	pdf.SetFont("Helvetica", "", 10)
	for r, row := range data.Rows {
		cells := make([][]string, len(widths))
		lines := 1
		for i := range widths {
			var value string
			if i < len(row) {
				value = text(cellText(row[i]))
			}
			cells[i] = splitCell(pdf, value, widths[i]-2*pdfCellPad)
			if len(cells[i]) > lines {
				lines = len(cells[i])
			}
		}
		h := float64(lines)*pdfLineHeight + 2*pdfCellPad

		if y+h > pageH-pdfMargin {
			pdf.AddPage()
			y = pdfMargin
			drawHeader()
			pdf.SetFont("Helvetica", "", 10)
		}

		pdf.SetTextColor(0, 0, 0)
		x := pdfMargin
		for i, cellLines := range cells {
			if r%2 == 1 {
				pdf.SetFillColor(pdfStripeFill[0], pdfStripeFill[1], pdfStripeFill[2])
				pdf.Rect(x, y, widths[i], h, "F")
			}
			for n, line := range cellLines {
				pdf.SetXY(x+pdfCellPad, y+pdfCellPad+float64(n)*pdfLineHeight)
				pdf.CellFormat(widths[i]-2*pdfCellPad, pdfLineHeight, line, "", 0, "L", false, 0, "")
			}
			x += widths[i]
		}
		y += h
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func splitCell(pdf *fpdf.Fpdf, value string, width float64) []string {
	if value == "" {
		return []string{""}
	}
	var out []string
	for _, part := range strings.Split(value, "\n") {
		if part == "" {
			out = append(out, "")
			continue
		}
		out = append(out, pdf.SplitText(part, width)...)
	}
	return out
}

func columnWidths(data report.Data, usable float64) []float64 {
	var weights []float64
	switch {
	case data.Kind == report.KindSales && len(data.Headers) == 4:
		weights = []float64{0.16, 0.22, 0.44, 0.18}
	case data.Kind == report.KindItems && len(data.Headers) == 3:
		weights = []float64{0.15, 0.6, 0.25}
	default:
		weights = make([]float64, len(data.Headers))
		for i := range weights {
			weights[i] = 1 / float64(len(weights))
		}
	}
	widths := make([]float64, len(weights))
	for i, w := range weights {
		widths[i] = usable * w
	}
	return widths
}
