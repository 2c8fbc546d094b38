package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "diamondprep/internal/errors"
)

type exportQuery struct {
	Mode   string `query:"mode" validate:"required"`
	Format string `query:"format" validate:"omitempty,oneof=json csv"`
}

func TestValidator_ValidateStruct(t *testing.T) {
	v := NewValidator(testLogger())

	assert.NoError(t, v.ValidateStruct(exportQuery{Mode: "cut", Format: "csv"}))
	assert.NoError(t, v.ValidateStruct(exportQuery{Mode: "cut"}))

	err := v.ValidateStruct(exportQuery{Format: "xml"})

	var apiErr *apierrors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", apiErr.ErrorCode)

	details, ok := apiErr.Details.([]apierrors.ValidationError)
	require.True(t, ok)
	require.Len(t, details, 2)
	assert.Equal(t, "mode", details[0].Field)
	assert.Equal(t, "mode is required", details[0].Message)
	assert.Equal(t, "format", details[1].Field)
	assert.Equal(t, "format must be one of: json, csv", details[1].Message)
}

func TestContentTypeValidator(t *testing.T) {
	eh := apierrors.NewErrorHandler(testLogger(), false)
	h := ContentTypeValidator(eh, "text/csv", "text/plain")(http.HandlerFunc(okHandler))

	tests := []struct {
		name        string
		method      string
		contentType string
		want        int
	}{
		{"csv", http.MethodPost, "text/csv", http.StatusOK},
		{"csv with charset", http.MethodPost, "text/csv; charset=utf-8", http.StatusOK},
		{"plain", http.MethodPost, "TEXT/PLAIN", http.StatusOK},
		{"json rejected", http.MethodPost, "application/json", http.StatusUnsupportedMediaType},
		{"missing", http.MethodPost, "", http.StatusBadRequest},
		{"get skips check", http.MethodGet, "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", strings.NewReader("a,b\n"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want != http.StatusOK {
				assert.Equal(t, apierrors.TypeValidation, decodeProblem(t, rec)["type"])
			}
		})
	}
}
