package analysis

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"diamondprep/internal/diamonds"
	apperrors "diamondprep/internal/errors"
)

// Summary holds the descriptive statistics of one numeric column
type Summary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"25%"`
	Q50    float64 `json:"50%"`
	Q75    float64 `json:"75%"`
	Max    float64 `json:"max"`
}

// missingMarkers are cell values read as missing, case-insensitively
var missingMarkers = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
}

// IsMissing reports whether a raw cell carries no value
func IsMissing(cell string) bool {
	return missingMarkers[strings.ToLower(strings.TrimSpace(cell))]
}

// NumericColumn parses every non-missing cell of the named column
func NumericColumn(table *diamonds.RawTable, name string) ([]float64, error) {
	cells, err := table.Column(name)
	if err != nil {
		return nil, err
	}

	values := make([]float64, 0, len(cells))
	for i, cell := range cells {
		if IsMissing(cell) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, apperrors.NewParsingError("invalid number", err).
				WithContext("row", i).
				WithContext("column", name)
		}
		values = append(values, v)
	}
	return values, nil
}

// Describe summarizes every column whose non-missing cells are all numeric,
// in header order. Columns with no values are left out.
func Describe(table *diamonds.RawTable) ([]Summary, error) {
	if table == nil {
		return nil, apperrors.NewAppValidationError("table is nil")
	}

	var out []Summary
	for _, name := range table.Header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		values, err := NumericColumn(table, name)
		if err != nil || len(values) == 0 {
			continue
		}
		out = append(out, DescribeValues(name, values))
	}
	return out, nil
}

// DescribeValues computes count, mean, sample std, min, quartiles and max.
// Std is 0 when fewer than two values exist.
func DescribeValues(name string, values []float64) Summary {
	s := Summary{Column: name, Count: len(values)}
	if len(values) == 0 {
		return s
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 || math.IsNaN(std) {
		std = 0
	}

	s.Mean = mean
	s.Std = std
	s.Min = floats.Min(sorted)
	s.Max = floats.Max(sorted)
	s.Q25 = Quantile(sorted, 0.25)
	s.Q50 = Quantile(sorted, 0.50)
	s.Q75 = Quantile(sorted, 0.75)
	return s
}

// Quantile returns the p-quantile of sorted values using linear
// interpolation between closest ranks, h = (n-1)p.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	h := float64(n-1) * p
	lo := math.Floor(h)
	i := int(lo)
	if i+1 >= n {
		return sorted[n-1]
	}
	return sorted[i] + (h-lo)*(sorted[i+1]-sorted[i])
}

// ColumnCount pairs a column with a count
type ColumnCount struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
}

// MissingCounts counts missing cells per column in header order. Cells
// absent from short rows count as missing.
func MissingCounts(table *diamonds.RawTable) []ColumnCount {
	if table == nil {
		return nil
	}

	out := make([]ColumnCount, len(table.Header))
	for i, name := range table.Header {
		out[i].Column = name
	}
	for _, row := range table.Rows {
		for i := range table.Header {
			if i >= len(row) || IsMissing(row[i]) {
				out[i].Count++
			}
		}
	}
	return out
}

// ValueCount is one category and how often it occurs
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ValueCounts tallies the sanitized labels of a categorical column, most
// frequent first and ties by label. Color cells are reduced to their grade
// letter, other columns go through the label sanitizer.
func ValueCounts(table *diamonds.RawTable, column string) ([]ValueCount, error) {
	if table == nil {
		return nil, apperrors.NewAppValidationError("table is nil")
	}

	cells, err := table.Column(column)
	if err != nil {
		return nil, err
	}

	clean := diamonds.SanitizeLabel
	if column == diamonds.ColColor {
		clean = diamonds.ColorLetter
	}

	counts := make(map[string]int)
	for _, cell := range cells {
		if IsMissing(cell) {
			continue
		}
		counts[clean(cell)]++
	}

	out := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out, nil
}

// Report bundles every summary of one table
type Report struct {
	Rows        int                     `json:"rows"`
	Columns     []string                `json:"columns"`
	Summary     []Summary               `json:"summary"`
	Missing     []ColumnCount           `json:"missing"`
	ValueCounts map[string][]ValueCount `json:"value_counts"`
}

// CategoricalColumns are the label columns counted in a report
var CategoricalColumns = []string{diamonds.ColCut, diamonds.ColColor, diamonds.ColClarity}

// BuildReport runs Describe, MissingCounts and ValueCounts over table
func BuildReport(table *diamonds.RawTable) (*Report, error) {
	summary, err := Describe(table)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Rows:        len(table.Rows),
		Columns:     table.Header,
		Summary:     summary,
		Missing:     MissingCounts(table),
		ValueCounts: make(map[string][]ValueCount, len(CategoricalColumns)),
	}

	for _, col := range CategoricalColumns {
		counts, err := ValueCounts(table, col)
		if err != nil {
			return nil, fmt.Errorf("value counts for %s: %w", col, err)
		}
		report.ValueCounts[col] = counts
	}
	return report, nil
}
