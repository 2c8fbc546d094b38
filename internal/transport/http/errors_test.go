package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diamondprep/internal/diamonds"
	apierrors "diamondprep/internal/errors"
	"diamondprep/internal/services"
)

func TestToAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unknown mode", &diamonds.UnknownConfigError{Mode: "x"}, http.StatusBadRequest, "UNKNOWN_CONFIG"},
		{"unknown label", fmt.Errorf("row 3: %w", &diamonds.UnknownLabelError{Feature: "cut", Label: "Superb"}), http.StatusUnprocessableEntity, "UNKNOWN_LABEL"},
		{"unknown feature", &diamonds.UnknownFeatureError{Feature: "shape"}, http.StatusUnprocessableEntity, "UNKNOWN_FEATURE"},
		{"parsing", apierrors.NewParsingError("bad cell", errors.New("strconv")), http.StatusUnprocessableEntity, "PARSING_FAILED"},
		{"network", apierrors.NewNetworkError("fetch failed", errors.New("503")), http.StatusBadGateway, "UPSTREAM_FAILED"},
		{"no source", fmt.Errorf("load: %w", services.ErrNoLoader), http.StatusServiceUnavailable, "SOURCE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var apiErr *apierrors.APIError
			require.True(t, errors.As(toAPIError(tt.err), &apiErr))
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
		})
	}

	plain := errors.New("plain")
	assert.Equal(t, plain, toAPIError(plain))
}
