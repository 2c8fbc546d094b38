package services

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"diamondprep/internal/analysis"
	"diamondprep/internal/diamonds"
	"diamondprep/internal/exporter"
	"diamondprep/internal/infrastructure"
)

const tracerName = "diamondprep/internal/services"

// RunRequest describes one normalization run
type RunRequest struct {
	Mode      string
	Format    string
	Output    string    // file path; empty means Writer
	Writer    io.Writer // used when Output is empty
	BOMPrefix bool
}

// RunResult reports what a run produced
type RunResult struct {
	RunID    string        `json:"run_id"`
	Mode     string        `json:"mode"`
	Format   string        `json:"format"`
	Output   string        `json:"output,omitempty"`
	Rows     int           `json:"rows"`
	Duration time.Duration `json:"duration"`
}

// DatasetService generates, exports and explores the diamonds dataset
type DatasetService struct {
	loader  diamonds.TableLoader
	metrics *infrastructure.ServiceMetrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

// NewDatasetService creates a dataset service. loader may be nil when only
// the encoding table and uploaded data are served.
func NewDatasetService(loader diamonds.TableLoader, metrics *infrastructure.ServiceMetrics, logger *slog.Logger) *DatasetService {
	return &DatasetService{
		loader:  loader,
		metrics: metrics,
		tracer:  otel.Tracer(tracerName),
		logger:  infrastructure.WithComponent(logger, "dataset_service"),
	}
}

// Generate parses mode and returns the lazy record sequence over the
// configured source along with its column order.
func (s *DatasetService) Generate(ctx context.Context, mode string) (iter.Seq2[int, diamonds.Row], []string, error) {
	return s.generate(ctx, mode, s.loader)
}

// Normalize runs the pipeline over an uploaded CSV instead of the
// configured source.
func (s *DatasetService) Normalize(ctx context.Context, mode string, body io.Reader) (iter.Seq2[int, diamonds.Row], []string, error) {
	m, err := diamonds.ParseMode(mode)
	if err != nil {
		return nil, nil, err
	}
	if m == diamonds.ModeEncoding {
		return s.generate(ctx, mode, nil)
	}

	table, err := diamonds.ReadCSV(body)
	if err != nil {
		return nil, nil, err
	}
	return s.generate(ctx, mode, diamonds.StaticTable(table))
}

func (s *DatasetService) generate(ctx context.Context, mode string, loader diamonds.TableLoader) (iter.Seq2[int, diamonds.Row], []string, error) {
	m, err := diamonds.ParseMode(mode)
	if err != nil {
		return nil, nil, err
	}
	if loader == nil && m != diamonds.ModeEncoding {
		return nil, nil, ErrNoLoader
	}

	cols, err := m.Columns()
	if err != nil {
		return nil, nil, err
	}

	seq, err := diamonds.Generate(ctx, m, loader)
	if err != nil {
		return nil, nil, err
	}
	return seq, cols, nil
}

// Run generates the requested variant and writes it to a file or writer
func (s *DatasetService) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	runID := infrastructure.GenerateTraceID()
	ctx = infrastructure.WithTraceID(ctx, runID)

	ctx, span := s.tracer.Start(ctx, "dataset.run",
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("dataset.mode", req.Mode),
			attribute.String("dataset.format", req.Format),
		))
	defer span.End()

	start := time.Now()
	result := &RunResult{RunID: runID, Mode: req.Mode, Format: req.Format, Output: req.Output}

	s.logger.InfoContext(ctx, "Dataset run started",
		slog.String("mode", req.Mode),
		slog.String("format", req.Format),
		slog.String("output", req.Output))

	rows, err := s.run(ctx, req)
	result.Rows = rows
	result.Duration = time.Since(start)
	s.metrics.RecordRun(ctx, req.Mode, req.Format, rows, result.Duration, err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.ErrorContext(ctx, "Dataset run failed",
			slog.String("mode", req.Mode),
			slog.String("error", err.Error()),
			slog.Duration("elapsed", result.Duration))
		return nil, err
	}

	span.SetAttributes(attribute.Int("dataset.rows", rows))
	s.logger.InfoContext(ctx, "Dataset run finished",
		slog.String("mode", req.Mode),
		slog.Int("rows", rows),
		slog.Duration("elapsed", result.Duration))

	return result, nil
}

func (s *DatasetService) run(ctx context.Context, req RunRequest) (int, error) {
	format, err := exporter.ParseFormat(req.Format)
	if err != nil {
		return 0, err
	}
	if req.Output == "" && req.Writer == nil {
		return 0, ErrNoOutput
	}

	seq, cols, err := s.Generate(ctx, req.Mode)
	if err != nil {
		return 0, err
	}

	opts := exporter.Options{BOMPrefix: req.BOMPrefix}
	if req.Output != "" {
		return exporter.ExportFile(ctx, req.Output, format, cols, seq, opts)
	}
	return exporter.Export(ctx, req.Writer, format, cols, seq, opts)
}

// Explore loads the raw source and summarizes it
func (s *DatasetService) Explore(ctx context.Context) (*analysis.Report, error) {
	table, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.BuildReport(table)
}

// SavePlots writes the price and carat histograms and one count plot per
// categorical column into dir, returning the files written.
func (s *DatasetService) SavePlots(ctx context.Context, dir string) ([]string, error) {
	table, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	var written []string

	histograms := []struct {
		column string
		opts   analysis.PlotOptions
	}{
		{diamonds.ColPrice, analysis.PriceHistogram},
		{diamonds.ColCarat, analysis.CaratHistogram},
	}
	for _, h := range histograms {
		values, err := analysis.NumericColumn(table, h.column)
		if err != nil {
			return written, err
		}
		path := filepath.Join(dir, h.column+"_hist.png")
		if err := analysis.SaveHistogram(values, h.opts, path); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	for _, col := range analysis.CategoricalColumns {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		counts, err := analysis.ValueCounts(table, col)
		if err != nil {
			return written, err
		}
		path := filepath.Join(dir, col+"_counts.png")
		opts := analysis.PlotOptions{Title: col, XLabel: col, YLabel: "Nr of Diamonds"}
		if err := analysis.SaveCountPlot(counts, opts, path); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	s.logger.InfoContext(ctx, "Plots saved",
		slog.String("dir", dir),
		slog.Int("files", len(written)))

	return written, nil
}

func (s *DatasetService) load(ctx context.Context) (*diamonds.RawTable, error) {
	if s.loader == nil {
		return nil, ErrNoLoader
	}
	table, err := s.loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load source: %w", err)
	}
	return table, nil
}

// Encodings returns the encoding reference table
func (s *DatasetService) Encodings() []diamonds.EncodingEntry {
	return diamonds.EncodingTable()
}

// Info returns dataset metadata for mode
func (s *DatasetService) Info(mode string) (*diamonds.DatasetInfo, error) {
	m, err := diamonds.ParseMode(mode)
	if err != nil {
		return nil, err
	}
	return diamonds.Info(m)
}
