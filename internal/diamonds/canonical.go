package diamonds

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	apperrors "diamondprep/internal/errors"
)

// Canonicalize sanitizes, encodes and renames every row of the table. The
// returned examples carry DiamondRecord rows in input order; their ID is the
// 0-based position of the source row.
func Canonicalize(table *RawTable) ([]Example, error) {
	if table == nil {
		return nil, apperrors.NewParsingError("no input table", nil)
	}
	idx, err := table.columnIndex()
	if err != nil {
		return nil, err
	}

	out := make([]Example, 0, len(table.Rows))
	for i, cells := range table.Rows {
		rec, err := canonicalRow(idx, cells, i)
		if err != nil {
			return nil, err
		}
		out = append(out, Example{ID: i, Row: rec})
	}
	return out, nil
}

func canonicalRow(idx map[string]int, cells []string, row int) (DiamondRecord, error) {
	var rec DiamondRecord

	cell := func(col string) (string, error) {
		i := idx[col]
		if i >= len(cells) {
			return "", apperrors.NewParsingError(fmt.Sprintf("row %d has no %s column", row, col), nil).
				WithContext("row", row).
				WithContext("column", col)
		}
		return cells[i], nil
	}
	number := func(col string) (float64, error) {
		s, err := cell(col)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, apperrors.NewParsingError(fmt.Sprintf("row %d: invalid %s value %q", row, col, s), err).
				WithContext("row", row).
				WithContext("column", col)
		}
		return v, nil
	}
	category := func(feature string) (int, error) {
		s, err := cell(feature)
		if err != nil {
			return 0, err
		}
		code, err := Encode(feature, SanitizeLabel(s))
		if labelErr, ok := err.(*UnknownLabelError); ok {
			labelErr.Row = row
		}
		return code, err
	}

	var err error
	if rec.Carat, err = number(ColCarat); err != nil {
		return rec, err
	}
	if rec.Cut, err = category(FeatureCut); err != nil {
		return rec, err
	}
	color, err := cell(ColColor)
	if err != nil {
		return rec, err
	}
	rec.Color = ColorLetter(color)
	if rec.Clarity, err = category(FeatureClarity); err != nil {
		return rec, err
	}
	if rec.Depth, err = number(ColDepth); err != nil {
		return rec, err
	}
	if rec.Table, err = number(ColTable); err != nil {
		return rec, err
	}
	if rec.Price, err = number(ColPrice); err != nil {
		return rec, err
	}
	if rec.X, err = number(ColX); err != nil {
		return rec, err
	}
	if rec.Y, err = number(ColY); err != nil {
		return rec, err
	}
	if rec.Z, err = number(ColZ); err != nil {
		return rec, err
	}
	return rec, nil
}

// dedupKey holds exactly the fields rows are deduplicated on. Floats are keyed
// by bit pattern so NaN matches NaN.
type dedupKey struct {
	carat, depth, table, price uint64
	color                      string
	clarity, cut               int
}

func keyOf(r DiamondRecord) dedupKey {
	return dedupKey{
		carat:   floatKey(r.Carat),
		depth:   floatKey(r.Depth),
		table:   floatKey(r.Table),
		price:   floatKey(r.Price),
		color:   r.Color,
		clarity: r.Clarity,
		cut:     r.Cut,
	}
}

func floatKey(f float64) uint64 {
	if f == 0 {
		return 0
	}
	if math.IsNaN(f) {
		return math.Float64bits(math.NaN())
	}
	return math.Float64bits(f)
}

// Deduplicate drops rows that repeat (carat, color, clarity, depth, table,
// price, cut) of an earlier row. The dimension columns are not part of the key.
// The first occurrence is kept and order is preserved.
func Deduplicate(examples []Example) []Example {
	seen := make(map[dedupKey]struct{}, len(examples))
	out := make([]Example, 0, len(examples))
	for _, ex := range examples {
		rec, ok := ex.Row.(DiamondRecord)
		if !ok {
			out = append(out, ex)
			continue
		}
		key := keyOf(rec)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, ex)
	}
	return out
}

// Binarize collapses a cut code to premium-or-better: 0, 1, 2 map to 0 and 3, 4 map to 1.
func Binarize(code int) int {
	if code <= 2 {
		return 0
	}
	return 1
}
