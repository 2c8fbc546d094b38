package exporter

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"

	"diamondprep/internal/diamonds"
	apperrors "diamondprep/internal/errors"
)

// IDColumn heads the row ID column in tabular formats
const IDColumn = "id"

// RowWriter is implemented by every output format
type RowWriter interface {
	Write(id int, row diamonds.Row) error
	Close() error
}

// Options configures writer behavior
type Options struct {
	BOMPrefix bool // CSV only: add UTF-8 BOM for Excel compatibility
}

// NewWriter opens a writer for format over w
func NewWriter(format Format, w io.Writer, columns []string, opts Options) (RowWriter, error) {
	switch format {
	case FormatCSV:
		return NewCSVWriter(w, columns, opts.BOMPrefix)
	case FormatJSONL:
		return NewJSONLWriter(w), nil
	case FormatXLSX:
		return NewXLSXWriter(w, columns)
	}
	return nil, apperrors.NewAppValidationError(fmt.Sprintf("unsupported output format %q", format))
}

// Export drains seq into w and returns the number of rows written
func Export(ctx context.Context, w io.Writer, format Format, columns []string, seq iter.Seq2[int, diamonds.Row], opts Options) (int, error) {
	writer, err := NewWriter(format, w, columns, opts)
	if err != nil {
		return 0, err
	}

	count := 0
	for id, row := range seq {
		if err := ctx.Err(); err != nil {
			writer.Close()
			return count, err
		}
		if err := writer.Write(id, row); err != nil {
			writer.Close()
			return count, apperrors.NewStorageError("failed to write row", err).WithContext("id", id)
		}
		count++
	}

	if err := writer.Close(); err != nil {
		return count, apperrors.NewStorageError("failed to finish output", err)
	}
	return count, nil
}

// ExportFile writes seq to path through a temporary file so a failed run
// never leaves a partial output behind.
func ExportFile(ctx context.Context, path string, format Format, columns []string, seq iter.Seq2[int, diamonds.Row], opts Options) (int, error) {
	slog.InfoContext(ctx, "Writing export file",
		slog.String("file_path", path),
		slog.String("format", string(format)))

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, apperrors.NewStorageError("failed to create directory", err).WithContext("path", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, apperrors.NewStorageError("failed to create file", err).WithContext("path", path)
	}
	defer os.Remove(tmp.Name())

	count, err := Export(ctx, tmp, format, columns, seq, opts)
	if err != nil {
		tmp.Close()
		return count, err
	}
	if err := tmp.Close(); err != nil {
		return count, apperrors.NewStorageError("failed to close file", err).WithContext("path", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return count, apperrors.NewStorageError("failed to move file into place", err).WithContext("path", path)
	}
	return count, nil
}
