// Package exporter writes normalized diamond rows to CSV, JSON Lines or xlsx.
//
// Every writer takes the column list up front, so an empty run still yields
// a header. CSV and xlsx lead with an "id" column carrying the row ID; JSON
// Lines wraps each row as {"id": ..., "record": {...}}.
//
// Example usage:
//
//	seq, _ := diamonds.Generate(ctx, mode, loader)
//	cols, _ := mode.Columns()
//	n, err := exporter.Export(ctx, os.Stdout, exporter.FormatCSV, cols, seq, exporter.Options{})
package exporter
