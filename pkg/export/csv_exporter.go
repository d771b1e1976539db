package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
)

var errNoColumns = errors.New("export: dataset has no columns")

// Dataset is a titled table. Each row holds one cell per column; short rows
// are padded with blanks.
type Dataset struct {
	Title   string
	Columns []string
	Rows    [][]string
}

func (d Dataset) cells(row []string) []string {
	out := make([]string, len(d.Columns))
	copy(out, row)
	return out
}

// Renderer turns a Dataset into file bytes.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
	Extension() string
}

// ForFormat returns the renderer for "csv" or "pdf".
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVExporter{}, nil
	case "pdf":
		return PDFExporter{}, nil
	}
	return nil, fmt.Errorf("unsupported export format %q (use csv or pdf)", format)
}

// CSVExporter writes the column row followed by every data row.
type CSVExporter struct{}

func (CSVExporter) Extension() string { return ".csv" }

func (CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Columns) == 0 {
		return nil, errNoColumns
	}
	records := make([][]string, 0, len(data.Rows)+1)
	records = append(records, data.Columns)
	for _, row := range data.Rows {
		records = append(records, data.cells(row))
	}

	var buf bytes.Buffer
	if err := csv.NewWriter(&buf).WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}
