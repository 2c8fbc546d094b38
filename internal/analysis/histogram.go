package analysis

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	apperrors "diamondprep/internal/errors"
)

// Bin is one histogram bucket covering [Min, Max)
type Bin struct {
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Count int     `json:"count"`
}

// Histogram splits values into equal-width bins spanning their range. The
// maximum value lands in the last bin.
func Histogram(values []float64, bins int) ([]Bin, error) {
	if bins < 1 {
		return nil, apperrors.NewAppValidationError(fmt.Sprintf("bins must be positive, got %d", bins))
	}
	if len(values) == 0 {
		return nil, apperrors.NewAppValidationError("no values to bin")
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if math.IsNaN(lo) || math.IsNaN(hi) || math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return nil, apperrors.NewAppValidationError("values must be finite")
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	// stat.Histogram excludes the upper divider
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)

	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Min: dividers[i], Max: dividers[i+1], Count: int(counts[i])}
	}
	out[bins-1].Max = hi
	return out, nil
}
