package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"diamondprep/internal/diamonds"
)

// SheetName is the worksheet that receives exported rows
const SheetName = "diamonds"

// XLSXWriter streams rows into a single worksheet
type XLSXWriter struct {
	out    io.Writer
	file   *excelize.File
	stream *excelize.StreamWriter
	row    int
}

// NewXLSXWriter creates a workbook with a header row. Nothing reaches out
// until Close.
func NewXLSXWriter(out io.Writer, columns []string) (*XLSXWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	stream, err := f.NewStreamWriter(SheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create stream writer: %w", err)
	}

	header := make([]interface{}, 0, len(columns)+1)
	header = append(header, IDColumn)
	for _, c := range columns {
		header = append(header, c)
	}
	if err := stream.SetRow("A1", header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}

	return &XLSXWriter{out: out, file: f, stream: stream, row: 1}, nil
}

// Write writes a single row with native cell types
func (x *XLSXWriter) Write(id int, row diamonds.Row) error {
	x.row++
	cell, err := excelize.CoordinatesToCellName(1, x.row)
	if err != nil {
		return err
	}

	values := row.Values()
	cells := make([]interface{}, 0, len(values)+1)
	cells = append(cells, id)
	cells = append(cells, values...)

	if err := x.stream.SetRow(cell, cells); err != nil {
		return fmt.Errorf("failed to write record %d: %w", id, err)
	}
	return nil
}

// Close finishes the workbook and writes it out
func (x *XLSXWriter) Close() error {
	defer x.file.Close()

	if err := x.stream.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if _, err := x.file.WriteTo(x.out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
