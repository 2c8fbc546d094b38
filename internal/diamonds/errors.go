package diamonds

import (
	"fmt"
)

// UnknownFeatureError is returned when the encoder is asked about a feature
// that has no lookup table.
type UnknownFeatureError struct {
	Feature string
}

// Error implements the error interface
func (e *UnknownFeatureError) Error() string {
	return fmt.Sprintf("unknown feature: %q", e.Feature)
}

// UnknownLabelError reports a categorical value missing from its feature's
// lookup table. Row is the 0-based data row the value came from, or -1 when
// the lookup was not tied to a row.
type UnknownLabelError struct {
	Feature string
	Label   string
	Row     int
}

// Error implements the error interface
func (e *UnknownLabelError) Error() string {
	if e.Row >= 0 {
		return fmt.Sprintf("unknown %s label %q at row %d", e.Feature, e.Label, e.Row)
	}
	return fmt.Sprintf("unknown %s label %q", e.Feature, e.Label)
}

// UnknownConfigError is returned for a mode outside cut, cut_binary and encoding.
type UnknownConfigError struct {
	Mode string
}

// Error implements the error interface
func (e *UnknownConfigError) Error() string {
	return fmt.Sprintf("unknown config: %q (expected one of %v)", e.Mode, modeNames())
}
