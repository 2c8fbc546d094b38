package http

import (
	"context"
	"io"
	"iter"

	"diamondprep/internal/analysis"
	"diamondprep/internal/diamonds"
)

// DatasetServiceInterface defines the dataset operations the handlers need
type DatasetServiceInterface interface {
	Generate(ctx context.Context, mode string) (iter.Seq2[int, diamonds.Row], []string, error)
	Normalize(ctx context.Context, mode string, body io.Reader) (iter.Seq2[int, diamonds.Row], []string, error)
	Explore(ctx context.Context) (*analysis.Report, error)
	Encodings() []diamonds.EncodingEntry
	Info(mode string) (*diamonds.DatasetInfo, error)
}
