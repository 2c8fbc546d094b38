package http

import (
	"errors"
	"net/http"

	"diamondprep/internal/diamonds"
	apierrors "diamondprep/internal/errors"
	"diamondprep/internal/services"
)

// toAPIError maps dataset and service errors onto API errors. Anything it
// does not recognize is returned unchanged for the error handler.
func toAPIError(err error) error {
	var (
		cfgErr     *diamonds.UnknownConfigError
		labelErr   *diamonds.UnknownLabelError
		featureErr *diamonds.UnknownFeatureError
		maxErr     *http.MaxBytesError
	)

	switch {
	case errors.As(err, &cfgErr):
		return apierrors.UnknownConfig(cfgErr.Mode, err)
	case errors.As(err, &labelErr):
		return apierrors.UnprocessableData("UNKNOWN_LABEL", err)
	case errors.As(err, &featureErr):
		return apierrors.UnprocessableData("UNKNOWN_FEATURE", err)
	case errors.As(err, &maxErr):
		return apierrors.NewWithDetails(
			http.StatusRequestEntityTooLarge,
			"PAYLOAD_TOO_LARGE",
			"Request body exceeds maximum allowed size",
			map[string]interface{}{"max_size": maxErr.Limit},
		)
	case errors.Is(err, services.ErrNoLoader):
		return apierrors.New(http.StatusServiceUnavailable, "SOURCE_UNAVAILABLE", err.Error())
	case apierrors.IsType(err, apierrors.ErrTypeParsing):
		return apierrors.UnprocessableData("PARSING_FAILED", err)
	case apierrors.IsType(err, apierrors.ErrTypeNetwork):
		return apierrors.UpstreamError(err)
	}
	return err
}
