package diamonds

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	apperrors "diamondprep/internal/errors"
)

// RawColumns is the upstream column order of the diamonds CSV.
var RawColumns = []string{"carat", "cut", "color", "clarity", "depth", "table", "price", "x", "y", "z"}

// columnAliases maps accepted header names to canonical column names.
var columnAliases = map[string]string{
	"x": ColX,
	"y": ColY,
	"z": ColZ,
}

// RawTable is an in-memory table of unparsed cells. Rows exclude the header.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// TableLoader produces the raw table on demand. The encoding mode never calls it.
type TableLoader interface {
	Load(ctx context.Context) (*RawTable, error)
}

// TableFunc adapts a function to TableLoader.
type TableFunc func(ctx context.Context) (*RawTable, error)

// Load implements TableLoader
func (f TableFunc) Load(ctx context.Context) (*RawTable, error) {
	return f(ctx)
}

// StaticTable returns a loader that always yields t.
func StaticTable(t *RawTable) TableLoader {
	return TableFunc(func(context.Context) (*RawTable, error) { return t, nil })
}

// ReadCSV materializes a CSV with a header line into a RawTable.
func ReadCSV(r io.Reader) (*RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.NewParsingError("csv input is empty", err)
	}
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read csv header", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	table := &RawTable{Header: header}
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError("failed to read csv record", err).
				WithContext("row", len(table.Rows))
		}
		table.Rows = append(table.Rows, rec)
	}
	return table, nil
}

// columnIndex resolves every canonical column to its position in the header.
func (t *RawTable) columnIndex() (map[string]int, error) {
	idx := make(map[string]int, len(CanonicalColumns))
	for i, h := range t.Header {
		name := strings.TrimSpace(h)
		if alias, ok := columnAliases[name]; ok {
			name = alias
		}
		if _, seen := idx[name]; !seen {
			idx[name] = i
		}
	}

	var missing []string
	for _, col := range CanonicalColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")), nil).
			WithContext("header", t.Header)
	}
	return idx, nil
}

// Column returns every cell of the named column, "" where a row is short.
// Canonical names and their aliases both resolve.
func (t *RawTable) Column(name string) ([]string, error) {
	canonical := name
	if alias, ok := columnAliases[name]; ok {
		canonical = alias
	}

	pos := -1
	for i, h := range t.Header {
		h = strings.TrimSpace(h)
		if alias, ok := columnAliases[h]; ok {
			h = alias
		}
		if h == canonical {
			pos = i
			break
		}
	}
	if pos < 0 {
		return nil, apperrors.NewParsingError(fmt.Sprintf("column %q not found", name), nil).
			WithContext("header", t.Header)
	}

	cells := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		if pos < len(row) {
			cells[i] = row[pos]
		}
	}
	return cells, nil
}
