package services

import "errors"

// Service errors
var (
	// ErrNoLoader is returned when a run needs input but no source was configured
	ErrNoLoader = errors.New("no dataset source configured")

	// ErrNoOutput is returned when a run has neither an output path nor a writer
	ErrNoOutput = errors.New("no output destination")
)
