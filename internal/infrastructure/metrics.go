package infrastructure

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ServiceMetrics holds the HTTP and dataset-run instruments
type ServiceMetrics struct {
	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	// Dataset run metrics
	RunsTotal       metric.Int64Counter
	RunDuration     metric.Float64Histogram
	RunErrors       metric.Int64Counter
	RowsExported    metric.Int64Counter
	SourceBytesRead metric.Int64Counter
}

// CreateServiceMetrics creates application-specific metrics
func CreateServiceMetrics(meter metric.Meter) (*ServiceMetrics, error) {
	m := &ServiceMetrics{}
	var err error

	if m.HTTPRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.HTTPRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.HTTPActiveRequests, err = meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	); err != nil {
		return nil, err
	}

	if m.RunsTotal, err = meter.Int64Counter(
		"dataset_runs_total",
		metric.WithDescription("Total number of dataset generation runs"),
	); err != nil {
		return nil, err
	}

	if m.RunDuration, err = meter.Float64Histogram(
		"dataset_run_duration_seconds",
		metric.WithDescription("Dataset generation duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.RunErrors, err = meter.Int64Counter(
		"dataset_run_errors_total",
		metric.WithDescription("Total number of failed dataset runs"),
	); err != nil {
		return nil, err
	}

	if m.RowsExported, err = meter.Int64Counter(
		"dataset_rows_exported_total",
		metric.WithDescription("Total number of records written by exporters"),
	); err != nil {
		return nil, err
	}

	if m.SourceBytesRead, err = meter.Int64Counter(
		"dataset_source_bytes_total",
		metric.WithDescription("Bytes read from dataset sources"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// RecordRun records the outcome of one dataset run
func (m *ServiceMetrics) RecordRun(ctx context.Context, mode, format string, rows int, duration time.Duration, err error) {
	if m == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("mode", mode),
		attribute.String("format", format),
	}

	status := "success"
	if err != nil {
		status = "failure"
		errAttrs := append(attrs, attribute.String("error.type", fmt.Sprintf("%T", err)))
		m.RunErrors.Add(ctx, 1, metric.WithAttributes(errAttrs...))
	}

	m.RunsTotal.Add(ctx, 1, metric.WithAttributes(append(attrs, attribute.String("status", status))...))
	m.RunDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	if rows > 0 {
		m.RowsExported.Add(ctx, int64(rows), metric.WithAttributes(attrs...))
	}
}

// RecordRequest records one finished HTTP request
func (m *ServiceMetrics) RecordRequest(ctx context.Context, method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordSourceBytes counts bytes read from a dataset source
func (m *ServiceMetrics) RecordSourceBytes(ctx context.Context, remote bool, n int64) {
	if m == nil || n <= 0 {
		return
	}

	kind := "local"
	if remote {
		kind = "remote"
	}
	m.SourceBytesRead.Add(ctx, n, metric.WithAttributes(attribute.String("source.kind", kind)))
}
