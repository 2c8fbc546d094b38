package diamonds

import (
	"context"
	"iter"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	apperrors "diamondprep/internal/errors"
)

// Mode selects the output variant.
type Mode string

const (
	// ModeCut emits the full encoded set, cut in 0..4.
	ModeCut Mode = "cut"
	// ModeCutBinary emits the same rows with cut collapsed to 0/1.
	ModeCutBinary Mode = "cut_binary"
	// ModeEncoding emits the encoding reference table and reads no input.
	ModeEncoding Mode = "encoding"

	// DefaultMode is used when no mode is given.
	DefaultMode = ModeCut
)

const instrumentationName = "diamondprep/internal/diamonds"

var modes = []Mode{ModeEncoding, ModeCut, ModeCutBinary}

func modeNames() []string {
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return names
}

// ParseMode maps a config name to a Mode. The empty string selects DefaultMode.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return DefaultMode, nil
	}
	m := Mode(s)
	if !m.Valid() {
		return "", &UnknownConfigError{Mode: s}
	}
	return m, nil
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	for _, known := range modes {
		if m == known {
			return true
		}
	}
	return false
}

// Columns returns the emitted column order for the mode.
func (m Mode) Columns() ([]string, error) {
	switch m {
	case ModeCut, ModeCutBinary:
		return recordColumns, nil
	case ModeEncoding:
		return encodingColumns, nil
	default:
		return nil, &UnknownConfigError{Mode: string(m)}
	}
}

type pipelineMetrics struct {
	rowsRead    metric.Int64Counter
	duplicates  metric.Int64Counter
	rowsEmitted metric.Int64Counter
	failures    metric.Int64Counter
}

var (
	metricsOnce sync.Once
	metrics     *pipelineMetrics
)

func getMetrics() *pipelineMetrics {
	metricsOnce.Do(func() {
		metrics = newPipelineMetrics(otel.Meter(instrumentationName))
	})
	return metrics
}

// newPipelineMetrics creates the normalizer counters on meter. A counter that
// cannot be created is reported through otel.Handle and replaced by a no-op.
func newPipelineMetrics(meter metric.Meter) *pipelineMetrics {
	counter := func(name, description string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(description))
		if err != nil {
			otel.Handle(err)
			c, _ = noop.NewMeterProvider().Meter(instrumentationName).Int64Counter(name)
		}
		return c
	}

	return &pipelineMetrics{
		rowsRead:    counter("diamonds_rows_read_total", "Raw rows read by the normalizer"),
		duplicates:  counter("diamonds_duplicates_dropped_total", "Rows dropped as duplicates"),
		rowsEmitted: counter("diamonds_rows_emitted_total", "Rows emitted by the normalizer"),
		failures:    counter("diamonds_failures_total", "Normalizer runs that failed"),
	}
}

// Generate runs the pipeline for mode and returns its output as a one-shot
// sequence of (row identifier, row) pairs. Every error, including an unknown
// mode, is returned before any row is produced. The loader is not called in
// encoding mode.
func Generate(ctx context.Context, mode Mode, loader TableLoader) (iter.Seq2[int, Row], error) {
	examples, err := Build(ctx, mode, loader)
	if err != nil {
		return nil, err
	}
	return sequence(examples), nil
}

// Build is Generate without the iterator: it returns the materialized examples.
func Build(ctx context.Context, mode Mode, loader TableLoader) ([]Example, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "diamonds.build",
		trace.WithAttributes(attribute.String("mode", string(mode))))
	defer span.End()

	examples, err := build(ctx, mode, loader)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		getMetrics().failures.Add(ctx, 1, metric.WithAttributes(attribute.String("mode", string(mode))))
		return nil, err
	}
	span.SetAttributes(attribute.Int("rows_emitted", len(examples)))
	getMetrics().rowsEmitted.Add(ctx, int64(len(examples)), metric.WithAttributes(attribute.String("mode", string(mode))))
	return examples, nil
}

func build(ctx context.Context, mode Mode, loader TableLoader) ([]Example, error) {
	if !mode.Valid() {
		return nil, &UnknownConfigError{Mode: string(mode)}
	}
	if mode == ModeEncoding {
		entries := EncodingTable()
		out := make([]Example, len(entries))
		for i, e := range entries {
			out[i] = Example{ID: i, Row: e}
		}
		return out, nil
	}

	if loader == nil {
		return nil, apperrors.NewAppValidationError("no table loader for mode " + string(mode))
	}
	table, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Preprocess(ctx, mode, table)
}

// Preprocess runs sanitize, encode, rename, deduplicate and, for
// ModeCutBinary, binarize over an already loaded table.
func Preprocess(ctx context.Context, mode Mode, table *RawTable) ([]Example, error) {
	if mode != ModeCut && mode != ModeCutBinary {
		return nil, &UnknownConfigError{Mode: string(mode)}
	}
	span := trace.SpanFromContext(ctx)

	examples, err := Canonicalize(table)
	if err != nil {
		return nil, err
	}
	getMetrics().rowsRead.Add(ctx, int64(len(examples)))

	deduped := Deduplicate(examples)
	dropped := len(examples) - len(deduped)
	getMetrics().duplicates.Add(ctx, int64(dropped))
	span.SetAttributes(
		attribute.Int("rows_read", len(examples)),
		attribute.Int("duplicates_dropped", dropped))

	if mode == ModeCutBinary {
		for i, ex := range deduped {
			rec := ex.Row.(DiamondRecord)
			rec.Cut = Binarize(rec.Cut)
			deduped[i].Row = rec
		}
	}
	return deduped, nil
}

// sequence yields the examples once; later iterations produce nothing.
func sequence(examples []Example) iter.Seq2[int, Row] {
	var once sync.Once
	return func(yield func(int, Row) bool) {
		var pending []Example
		once.Do(func() { pending, examples = examples, nil })
		for _, ex := range pending {
			if !yield(ex.ID, ex.Row) {
				return
			}
		}
	}
}
