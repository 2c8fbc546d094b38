package http

import (
	"context"
	"encoding/json"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diamondprep/internal/analysis"
	"diamondprep/internal/diamonds"
	apierrors "diamondprep/internal/errors"
	custommw "diamondprep/internal/middleware"
	"diamondprep/internal/services"
	"diamondprep/internal/shared/testutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T, withSource bool) http.Handler {
	t.Helper()

	var loader diamonds.TableLoader
	if withSource {
		table, err := diamonds.ReadCSV(strings.NewReader(testutil.SampleCSV))
		require.NoError(t, err)
		loader = diamonds.StaticTable(table)
	}

	logger := testLogger()
	errorHandler := apierrors.NewErrorHandler(logger, false)
	svc := services.NewDatasetService(loader, nil, logger)
	handler := NewDatasetHandler(svc, errorHandler, nil, logger)

	r := chi.NewRouter()
	r.Use(custommw.RequestID)
	r.Mount("/api/v1", handler.Routes())
	return r
}

func do(t *testing.T, h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestDatasetHandler_GetEncodings(t *testing.T) {
	rec := do(t, newTestRouter(t, false), http.MethodGet, "/api/v1/encodings", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(13), body["count"])

	first := body["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "cut", first["feature"])
	assert.Equal(t, "Fair", first["original_value"])
	assert.Equal(t, float64(0), first["encoded_value"])
}

func TestDatasetHandler_GetInfo(t *testing.T) {
	router := newTestRouter(t, false)

	rec := do(t, router, http.MethodGet, "/api/v1/info?mode=cut_binary", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, diamonds.DatasetVersion, decodeBody(t, rec)["version"])

	rec = do(t, router, http.MethodGet, "/api/v1/info?mode=nope", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, apierrors.TypeUnknownMode, body["type"])
	assert.Equal(t, "UNKNOWN_CONFIG", body["error_code"])
	assert.Equal(t, rec.Header().Get(custommw.RequestIDHeader), body["trace_id"])
}

func TestDatasetHandler_NormalizeJSON(t *testing.T) {
	rec := do(t, newTestRouter(t, false), http.MethodPost, "/api/v1/normalize?mode=cut", "text/csv", testutil.SampleCSV)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp RecordsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cut", resp.Mode)
	assert.Equal(t, 4, resp.Count)
	require.Len(t, resp.Records, 4)
	assert.Equal(t, 0, resp.Records[0].ID)
	assert.Equal(t, 4, resp.Records[3].ID)
	assert.Equal(t, float64(4), resp.Records[0].Record[diamonds.ColCut])
	assert.Equal(t, "E", resp.Records[0].Record[diamonds.ColColor])
	assert.Equal(t, diamonds.ColCut, resp.Columns[len(resp.Columns)-1])
}

func TestDatasetHandler_NormalizeDefaultsToCut(t *testing.T) {
	rec := do(t, newTestRouter(t, false), http.MethodPost, "/api/v1/normalize", "text/plain", testutil.SampleCSV)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp RecordsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "cut", resp.Mode)
}

func TestDatasetHandler_NormalizeCSV(t *testing.T) {
	rec := do(t, newTestRouter(t, false), http.MethodPost, "/api/v1/normalize?mode=cut_binary&format=csv", "text/csv", testutil.SampleCSV)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "diamonds_cut_binary.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "id,carat,color,clarity,depth,table,price,observation_point_on_axis_x,observation_point_on_axis_y,observation_point_on_axis_z,cut", lines[0])
	assert.Equal(t, "0,0.23,E,6,61.5,55.0,326.0,3.95,3.98,2.43,1", lines[1])
}

func TestDatasetHandler_NormalizeErrors(t *testing.T) {
	badLabel := "carat,cut,color,clarity,depth,table,price,x,y,z\n0.2,Superb,E,SI2,61,55,326,3.9,3.9,2.4\n"
	missingColumn := "carat,cut,color,clarity,depth,table,price,x,y\n0.2,Ideal,E,SI2,61,55,326,3.9,3.9\n"

	tests := []struct {
		name        string
		target      string
		contentType string
		body        string
		wantStatus  int
		wantType    string
		wantCode    string
	}{
		{"unknown label", "/api/v1/normalize?mode=cut", "text/csv", badLabel, http.StatusUnprocessableEntity, apierrors.TypeBadData, "UNKNOWN_LABEL"},
		{"missing column", "/api/v1/normalize", "text/csv", missingColumn, http.StatusUnprocessableEntity, apierrors.TypeBadData, "PARSING_FAILED"},
		{"empty body", "/api/v1/normalize", "text/csv", "", http.StatusUnprocessableEntity, apierrors.TypeBadData, "PARSING_FAILED"},
		{"unknown mode", "/api/v1/normalize?mode=fancy", "text/csv", testutil.SampleCSV, http.StatusBadRequest, apierrors.TypeUnknownMode, "UNKNOWN_CONFIG"},
		{"bad format", "/api/v1/normalize?format=xml", "text/csv", testutil.SampleCSV, http.StatusBadRequest, apierrors.TypeValidation, "VALIDATION_FAILED"},
		{"wrong content type", "/api/v1/normalize", "application/json", "{}", http.StatusUnsupportedMediaType, apierrors.TypeValidation, "UNSUPPORTED_MEDIA_TYPE"},
	}

	router := newTestRouter(t, false)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, router, http.MethodPost, tt.target, tt.contentType, tt.body)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			body := decodeBody(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, tt.wantCode, body["error_code"])
		})
	}
}

func TestDatasetHandler_NormalizeBodyTooLarge(t *testing.T) {
	logger := testLogger()
	errorHandler := apierrors.NewErrorHandler(logger, false)
	handler := NewDatasetHandler(services.NewDatasetService(nil, nil, logger), errorHandler, nil, logger)

	r := chi.NewRouter()
	r.Use(custommw.MaxBodySize(64))
	r.Mount("/api/v1", handler.Routes())

	rec := do(t, r, http.MethodPost, "/api/v1/normalize", "text/csv", testutil.SampleCSV)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "PAYLOAD_TOO_LARGE", decodeBody(t, rec)["error_code"])
}

func TestDatasetHandler_GetReport(t *testing.T) {
	rec := do(t, newTestRouter(t, true), http.MethodGet, "/api/v1/report", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(5), body["rows"])
	assert.Contains(t, body["value_counts"], "clarity")

	rec = do(t, newTestRouter(t, false), http.MethodGet, "/api/v1/report", "", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "SOURCE_UNAVAILABLE", body["error_code"])
	assert.Equal(t, apierrors.TypeUpstream, body["type"])
}

func TestDatasetHandler_Stream(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t, true))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/stream?mode=cut_binary"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	var ids []float64
	var cuts []float64
	for {
		var msg map[string]interface{}
		require.NoError(t, conn.ReadJSON(&msg))
		if done, ok := msg["done"].(bool); ok && done {
			assert.Equal(t, float64(4), msg["count"])
			assert.Equal(t, "cut_binary", msg["mode"])
			break
		}
		ids = append(ids, msg["id"].(float64))
		cuts = append(cuts, msg["record"].(map[string]interface{})[diamonds.ColCut].(float64))
	}

	assert.Equal(t, []float64{0, 1, 2, 4}, ids)
	assert.Equal(t, []float64{1, 1, 0, 0}, cuts)

	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestDatasetHandler_StreamRejectsBeforeUpgrade(t *testing.T) {
	rec := do(t, newTestRouter(t, true), http.MethodGet, "/api/v1/stream?mode=bogus", "", "")

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, apierrors.TypeUnknownMode, decodeBody(t, rec)["type"])
}

func TestCheckOrigin(t *testing.T) {
	h := &DatasetHandler{allowedOrigins: []string{"http://localhost:3000"}}

	req := httptest.NewRequest(http.MethodGet, "http://example.com/api/v1/stream", nil)
	assert.True(t, h.checkOrigin(req))

	req.Header.Set("Origin", "http://localhost:3000")
	assert.True(t, h.checkOrigin(req))

	req.Header.Set("Origin", "http://example.com")
	assert.True(t, h.checkOrigin(req))

	req.Header.Set("Origin", "http://evil.example")
	assert.False(t, h.checkOrigin(req))
}

// fakeDatasetService fails every source-backed call with err
type fakeDatasetService struct {
	err error
}

func (f *fakeDatasetService) Generate(context.Context, string) (iter.Seq2[int, diamonds.Row], []string, error) {
	return nil, nil, f.err
}

func (f *fakeDatasetService) Normalize(context.Context, string, io.Reader) (iter.Seq2[int, diamonds.Row], []string, error) {
	return nil, nil, f.err
}

func (f *fakeDatasetService) Explore(context.Context) (*analysis.Report, error) {
	return nil, f.err
}

func (f *fakeDatasetService) Encodings() []diamonds.EncodingEntry {
	return diamonds.EncodingTable()
}

func (f *fakeDatasetService) Info(mode string) (*diamonds.DatasetInfo, error) {
	return nil, f.err
}

func TestDatasetHandler_UpstreamFailure(t *testing.T) {
	logger := testLogger()
	svc := &fakeDatasetService{err: apierrors.NewNetworkError("fetch failed with status 503", nil)}
	handler := NewDatasetHandler(svc, apierrors.NewErrorHandler(logger, false), nil, logger)

	r := chi.NewRouter()
	r.Mount("/api/v1", handler.Routes())

	for _, target := range []string{"/api/v1/report", "/api/v1/stream?mode=cut"} {
		rec := do(t, r, http.MethodGet, target, "", "")
		require.Equal(t, http.StatusBadGateway, rec.Code, target)
		body := decodeBody(t, rec)
		assert.Equal(t, "UPSTREAM_FAILED", body["error_code"], target)
		assert.Equal(t, apierrors.TypeUpstream, body["type"], target)
	}

	rec := do(t, r, http.MethodGet, "/api/v1/encodings", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
