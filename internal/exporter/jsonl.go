package exporter

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"diamondprep/internal/diamonds"
)

// Line is one JSON Lines entry
type Line struct {
	ID     int            `json:"id"`
	Record map[string]any `json:"record"`
}

// JSONLWriter streams rows as JSON Lines
type JSONLWriter struct {
	buf *bufio.Writer
	enc *json.Encoder
}

// NewJSONLWriter creates a JSON Lines writer
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	buf := bufio.NewWriter(w)
	return &JSONLWriter{buf: buf, enc: json.NewEncoder(buf)}
}

// Write writes a single row
func (j *JSONLWriter) Write(id int, row diamonds.Row) error {
	if err := j.enc.Encode(Line{ID: id, Record: diamonds.ToMap(row)}); err != nil {
		return fmt.Errorf("failed to encode record %d: %w", id, err)
	}
	return nil
}

// Close flushes buffered output
func (j *JSONLWriter) Close() error {
	return j.buf.Flush()
}
