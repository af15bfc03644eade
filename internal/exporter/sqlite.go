package exporter

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	// sqlite driver for the database sink.
	_ "modernc.org/sqlite"
)

// SQLiteSink writes tables into a SQLite database file.
type SQLiteSink struct {
	db   *sql.DB
	path string
}

// OpenSQLiteSink opens or creates the database at path.
func OpenSQLiteSink(ctx context.Context, path string) (*SQLiteSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One writer; a single connection keeps the file lock simple.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return &SQLiteSink{db: db, path: path}, nil
}

// Name implements Sink.
func (s *SQLiteSink) Name() string { return "sqlite" }

// WriteTable drops and recreates the table, then loads every record inside
// one transaction.
func (s *SQLiteSink) WriteTable(ctx context.Context, table TableData) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(table.Name)); err != nil {
		return "", fmt.Errorf("failed to drop %s: %w", table.Name, err)
	}
	if _, err := tx.ExecContext(ctx, createTableSQL(table)); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", table.Name, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL(table))
	if err != nil {
		return "", fmt.Errorf("failed to prepare insert for %s: %w", table.Name, err)
	}
	defer stmt.Close()

	args := make([]any, len(table.Columns))
	for i, rec := range table.Records {
		for j, col := range table.Columns {
			v, err := columnValue(col, rec[j])
			if err != nil {
				return "", fmt.Errorf("%s row %d: %w", table.Name, i+1, err)
			}
			args[j] = v
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return "", fmt.Errorf("failed to insert into %s: %w", table.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit %s: %w", table.Name, err)
	}
	return s.path + "#" + table.Name, nil
}

// Close implements Sink.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

func createTableSQL(table TableData) string {
	defs := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		defs[i] = quoteIdent(c.Name) + " " + string(c.Type)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table.Name), strings.Join(defs, ", "))
}

func insertSQL(table TableData) string {
	names := make([]string, len(table.Columns))
	marks := make([]string, len(table.Columns))
	for i, c := range table.Columns {
		names[i] = quoteIdent(c.Name)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table.Name), strings.Join(names, ", "), strings.Join(marks, ", "))
}

// columnValue converts an encoded field back to a typed value. Empty
// numeric fields become NULL.
func columnValue(col Column, field string) (any, error) {
	switch col.Type {
	case ColumnInteger:
		if field == "" {
			return nil, nil
		}
		v, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name, err)
		}
		return v, nil
	case ColumnReal:
		if field == "" {
			return nil, nil
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name, err)
		}
		return v, nil
	default:
		return field, nil
	}
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
