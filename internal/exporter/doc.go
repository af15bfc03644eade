// Package exporter persists the star schema.
//
// Tables are first encoded into TableData, text records in the fixed column
// order consumers expect, and then handed to a Sink. CSVSink is the primary
// output; SQLiteSink mirrors the same tables into a database file.
//
// Encoding rules:
//
//	booleans   1 / 0
//	dates      YYYY-MM-DD
//	floats     shortest exact decimal (45.5, not 45.50)
//	null score empty field
//
// Example usage:
//
//	tables, err := exporter.EncodeSchema(schema)
//	sink := exporter.NewCSVSink(paths.OutputDir, logger)
//	for _, t := range tables {
//	    path, err := sink.WriteTable(ctx, t)
//	}
package exporter
