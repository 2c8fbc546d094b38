package exporter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "diamondprep/internal/errors"
)

// Format names an output encoding
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSONL Format = "jsonl"
	FormatXLSX  Format = "xlsx"
)

// ParseFormat accepts csv, jsonl (or json) and xlsx, case-insensitively
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "jsonl", "json", "ndjson":
		return FormatJSONL, nil
	case "xlsx":
		return FormatXLSX, nil
	}
	return "", apperrors.NewAppValidationError(fmt.Sprintf("unsupported output format %q", s))
}

// Extension returns the file extension including the dot
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the MIME type for HTTP responses
func (f Format) ContentType() string {
	switch f {
	case FormatJSONL:
		return "application/x-ndjson"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv; charset=utf-8"
	}
}

// formatFloat keeps integral values recognizable as floats (55 -> "55.0")
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// formatValue renders one cell for text formats
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return formatFloat(val)
	case float32:
		return formatFloat(float64(val))
	case int:
		return strconv.Itoa(val)
	case int8:
		return strconv.Itoa(int(val))
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// formatRecord renders a row's values in column order
func formatRecord(id int, values []any) []string {
	record := make([]string, 0, len(values)+1)
	record = append(record, strconv.Itoa(id))
	for _, v := range values {
		record = append(record, formatValue(v))
	}
	return record
}
