package exporter

import (
	"encoding/csv"
	"fmt"
	"io"

	"diamondprep/internal/diamonds"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter streams rows as CSV
type CSVWriter struct {
	writer *csv.Writer
}

// NewCSVWriter writes the optional BOM and the header line
func NewCSVWriter(w io.Writer, columns []string, bom bool) (*CSVWriter, error) {
	// Write BOM if requested (helps Excel recognize UTF-8)
	if bom {
		if _, err := w.Write(utf8BOM); err != nil {
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(append([]string{IDColumn}, columns...)); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}

	return &CSVWriter{writer: writer}, nil
}

// Write writes a single row
func (c *CSVWriter) Write(id int, row diamonds.Row) error {
	if err := c.writer.Write(formatRecord(id, row.Values())); err != nil {
		return fmt.Errorf("failed to write record %d: %w", id, err)
	}
	return nil
}

// Close flushes buffered output
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.writer.Error()
}
