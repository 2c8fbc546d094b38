package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	apierrors "diamondprep/internal/errors"
	"diamondprep/internal/infrastructure"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.GetReqID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "client-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "client-id", seen)
	assert.Equal(t, "client-id", rec.Header().Get(RequestIDHeader))
}

func TestGetRequestID_FeedsLoggerTraceID(t *testing.T) {
	var reqID, traceID string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID = GetRequestID(r.Context())
		traceID = infrastructure.GetTraceID(r.Context())
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, reqID)
	assert.Equal(t, reqID, traceID)
}

func TestRecoverer(t *testing.T) {
	eh := apierrors.NewErrorHandler(testLogger(), false)
	h := RequestID(Recoverer(eh)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/info", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, apierrors.TypeInternal, body["type"])
	assert.Equal(t, rec.Header().Get(RequestIDHeader), body["trace_id"])
	assert.NotContains(t, body, "panic")
}

func TestRateLimiter(t *testing.T) {
	eh := apierrors.NewErrorHandler(testLogger(), false)
	rl := NewRateLimiter(0.001, 2, eh, testLogger())
	h := rl.Handler(http.HandlerFunc(okHandler))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, apierrors.TypeRateLimit, decodeProblem(t, rec)["type"])
}

func TestMaxBodySize(t *testing.T) {
	var readErr error
	h := MaxBodySize(4)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("abcdefgh")))
	var maxErr *http.MaxBytesError
	assert.ErrorAs(t, readErr, &maxErr)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("abc")))
	assert.NoError(t, readErr)
}

func TestCORS(t *testing.T) {
	h := CORS(CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}})(http.HandlerFunc(okHandler))

	tests := []struct {
		name       string
		method     string
		origin     string
		wantOrigin string
		wantStatus int
	}{
		{"allowed origin", http.MethodGet, "http://localhost:3000", "http://localhost:3000", http.StatusOK},
		{"other origin", http.MethodGet, "http://evil.example", "", http.StatusOK},
		{"preflight", http.MethodOptions, "http://localhost:3000", "http://localhost:3000", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Contains(t, rec.Header().Get("Access-Control-Expose-Headers"), RequestIDHeader)
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(okHandler)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestTelemetry_RoutePattern(t *testing.T) {
	metrics, err := infrastructure.CreateServiceMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	var pattern string
	r := chi.NewRouter()
	r.Use(NewTelemetry(nil, metrics, testLogger()).Handler)
	r.Get("/api/v1/info/{mode}", func(w http.ResponseWriter, r *http.Request) {
		pattern = getRoutePattern(r)
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/info/cut", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "/api/v1/info/{mode}", pattern)

	// unrouted requests fall back to the raw path
	assert.Equal(t, "/raw", getRoutePattern(httptest.NewRequest(http.MethodGet, "/raw", nil)))
}

func TestGetRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "10.0.0.1:1234", GetRealIP(req))

	req.Header.Set("X-Real-IP", "192.168.1.1")
	assert.Equal(t, "192.168.1.1", GetRealIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.5")
	assert.Equal(t, "203.0.113.5", GetRealIP(req))
}
