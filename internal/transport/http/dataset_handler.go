package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"diamondprep/internal/diamonds"
	apierrors "diamondprep/internal/errors"
	"diamondprep/internal/exporter"
	custommw "diamondprep/internal/middleware"
)

// FormatJSON answers with a single JSON document instead of a stream
const FormatJSON = "json"

// datasetQuery holds the query parameters shared by the dataset endpoints.
// Mode is checked by the dataset package so unknown modes keep their own
// error code.
type datasetQuery struct {
	Mode   string `query:"mode"`
	Format string `query:"format" validate:"omitempty,oneof=json csv jsonl xlsx"`
	BOM    bool   `query:"bom"`
}

// RecordsResponse is the JSON body of a normalize call
type RecordsResponse struct {
	Mode    string          `json:"mode"`
	Columns []string        `json:"columns"`
	Count   int             `json:"count"`
	Records []exporter.Line `json:"records"`
}

// DatasetHandler serves the normalized dataset over HTTP
type DatasetHandler struct {
	service        DatasetServiceInterface
	validator      *custommw.Validator
	errorHandler   *apierrors.ErrorHandler
	allowedOrigins []string
	logger         *slog.Logger
}

// NewDatasetHandler creates a dataset handler
func NewDatasetHandler(service DatasetServiceInterface, errorHandler *apierrors.ErrorHandler, allowedOrigins []string, logger *slog.Logger) *DatasetHandler {
	return &DatasetHandler{
		service:        service,
		validator:      custommw.NewValidator(logger),
		errorHandler:   errorHandler,
		allowedOrigins: allowedOrigins,
		logger:         logger.With(slog.String("component", "dataset_handler")),
	}
}

// Routes returns the dataset routes
func (h *DatasetHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/encodings", h.GetEncodings)
		r.Get("/info", h.GetInfo)
		r.Get("/report", h.GetReport)
	})

	r.With(custommw.ContentTypeValidator(h.errorHandler, "text/csv", "text/plain", "application/octet-stream")).
		Post("/normalize", h.Normalize)

	r.Get("/stream", h.Stream)

	return r
}

func (h *DatasetHandler) parseQuery(r *http.Request) (datasetQuery, error) {
	q := r.URL.Query()
	query := datasetQuery{
		Mode:   q.Get("mode"),
		Format: q.Get("format"),
		BOM:    q.Get("bom") == "true" || q.Get("bom") == "1",
	}
	if err := h.validator.ValidateStruct(query); err != nil {
		return query, err
	}
	return query, nil
}

// fail maps err and hands it to the error handler
func (h *DatasetHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.errorHandler.HandleError(w, r, toAPIError(err))
}

// GetEncodings handles GET /api/v1/encodings
func (h *DatasetHandler) GetEncodings(w http.ResponseWriter, r *http.Request) {
	entries := h.service.Encodings()
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   entries,
		"count":  len(entries),
	})
}

// GetInfo handles GET /api/v1/info?mode=
func (h *DatasetHandler) GetInfo(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	info, err := h.service.Info(query.Mode)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, info)
}

// GetReport handles GET /api/v1/report; it summarizes the configured source
func (h *DatasetHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Explore(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, report)
}

// Normalize handles POST /api/v1/normalize?mode=&format=. The body is a raw
// diamonds CSV.
func (h *DatasetHandler) Normalize(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query, err := h.parseQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	seq, cols, err := h.service.Normalize(ctx, query.Mode, r.Body)
	if err != nil {
		h.logger.WarnContext(ctx, "normalize rejected",
			slog.String("mode", query.Mode),
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetReqID(ctx)))
		h.fail(w, r, err)
		return
	}

	mode := query.Mode
	if mode == "" {
		mode = string(diamonds.ModeCut)
	}

	if query.Format == "" || query.Format == FormatJSON {
		resp := RecordsResponse{Mode: mode, Columns: cols, Records: []exporter.Line{}}
		for id, row := range seq {
			resp.Records = append(resp.Records, exporter.Line{ID: id, Record: diamonds.ToMap(row)})
		}
		resp.Count = len(resp.Records)
		render.JSON(w, r, resp)
		return
	}

	format, err := exporter.ParseFormat(query.Format)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "diamonds_"+mode+format.Extension()))

	n, err := exporter.Export(ctx, w, format, cols, seq, exporter.Options{BOMPrefix: query.BOM})
	if err != nil {
		// headers are gone; all we can do is log
		h.logger.ErrorContext(ctx, "export interrupted",
			slog.Int("rows", n),
			slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "normalize completed",
		slog.String("mode", mode),
		slog.String("format", string(format)),
		slog.Int("rows", n))
}
