package exporter

import (
	"context"
	"fmt"
	"log/slog"
)

// Sink persists encoded tables.
type Sink interface {
	// Name identifies the sink in logs.
	Name() string
	// WriteTable replaces the named table and returns where it was written.
	WriteTable(ctx context.Context, table TableData) (string, error)
	Close() error
}

// CSVSink writes each table to <dir>/<table>.csv with a header row.
type CSVSink struct {
	writer *CSVWriter
	locate func(table string) string
}

// NewCSVSink creates a sink that writes into dir.
func NewCSVSink(dir string, logger *slog.Logger) *CSVSink {
	return &CSVSink{
		writer: NewCSVWriter(dir, logger),
		locate: func(table string) string { return table + ".csv" },
	}
}

// WithLocator makes the sink write each table to locate(table). Relative
// results are joined onto the sink directory.
func (s *CSVSink) WithLocator(locate func(table string) string) *CSVSink {
	if locate != nil {
		s.locate = locate
	}
	return s
}

// Name implements Sink.
func (s *CSVSink) Name() string { return "csv" }

// WriteTable implements Sink.
func (s *CSVSink) WriteTable(ctx context.Context, table TableData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	file := s.locate(table.Name)
	if err := s.writer.WriteSimpleCSV(file, table.Headers(), table.Records); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", table.Name, err)
	}
	return s.writer.Path(file), nil
}

// Close implements Sink.
func (s *CSVSink) Close() error { return nil }
