package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin    = 10.0
	headerHeight = 8.0
	rowHeight    = 7.0
	minColumn    = 18.0
)

// PDFExporter lays the dataset out as an A4 table. Column widths follow the
// longest cell, wide tables turn landscape and the header row repeats on
// every page.
type PDFExporter struct {
	// Now stamps the footer; defaults to time.Now.
	Now func() time.Time
}

func (PDFExporter) Extension() string { return ".pdf" }

func (e PDFExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Columns) == 0 {
		return nil, errNoColumns
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 9)
	widths, orientation := columnWidths(pdf, data)
	if orientation == "L" {
		pdf = gofpdf.New("L", "mm", "A4", "")
		pdf.SetFont("Arial", "", 9)
		widths, _ = columnWidths(pdf, data)
	}
	pdf.SetMargins(pdfMargin, 15, pdfMargin)
	pdf.SetAutoPageBreak(false, 0)
	stamp := now().Format("2006-01-02 15:04")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s - page %d", stamp, pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	header := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for i, col := range data.Columns {
			pdf.CellFormat(widths[i], headerHeight, col, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}

	pdf.AddPage()
	if data.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, data.Title, "", 1, "L", false, 0, "")
		pdf.Ln(3)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	for _, row := range data.Rows {
		if pdf.GetY()+rowHeight > pageHeight-20 {
			pdf.AddPage()
			header()
		}
		for i, cell := range data.cells(row) {
			pdf.CellFormat(widths[i], rowHeight, cell, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// columnWidths sizes columns by their widest cell and scales them to the
// printable width. It reports "L" when the natural widths overflow portrait.
func columnWidths(pdf *gofpdf.Fpdf, data Dataset) ([]float64, string) {
	pageWidth, _ := pdf.GetPageSize()
	usable := pageWidth - 2*pdfMargin

	natural := make([]float64, len(data.Columns))
	var total float64
	for i, col := range data.Columns {
		w := pdf.GetStringWidth(col) + 4
		for _, row := range data.Rows {
			if i < len(row) {
				if cw := pdf.GetStringWidth(row[i]) + 4; cw > w {
					w = cw
				}
			}
		}
		if w < minColumn {
			w = minColumn
		}
		natural[i] = w
		total += w
	}

	orientation := "P"
	if total > usable && pageWidth < 250 {
		orientation = "L"
	}
	scale := usable / total
	for i := range natural {
		natural[i] *= scale
	}
	return natural, orientation
}
