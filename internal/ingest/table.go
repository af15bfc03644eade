package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Row is one data row of a table. Line is its 1-based position below the
// header, counting blank rows that were skipped.
type Row struct {
	Line  int
	Cells []string
}

// Table is a header plus data rows read from a sheet or a CSV file.
type Table struct {
	Name   string
	Header []string
	Rows   []Row

	index map[string]int
}

// MissingColumnError reports a required header that a source lacks.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: missing required column %q", e.Table, e.Column)
}

// ReadOptions controls how a workbook is read.
type ReadOptions struct {
	// Sheet names the worksheet; empty selects the first sheet.
	Sheet string
	// RawValues returns stored cell values instead of formatted text, so
	// dates come back as serial numbers.
	RawValues bool
}

// ReadTable reads an .xlsx or .csv file into a Table.
func ReadTable(path string, opts ReadOptions) (*Table, error) {
	var (
		records [][]string
		name    string
		err     error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		records, name, err = readWorkbook(path, opts)
	case ".csv":
		records, err = readCSV(path)
		name = filepath.Base(path)
	default:
		return nil, fmt.Errorf("unsupported source format: %s", path)
	}
	if err != nil {
		return nil, err
	}

	return newTable(name, records), nil
}

func newTable(name string, records [][]string) *Table {
	t := &Table{Name: name, index: make(map[string]int)}
	if len(records) == 0 {
		return t
	}

	t.Header = make([]string, len(records[0]))
	for i, h := range records[0] {
		h = strings.TrimSpace(h)
		t.Header[i] = h
		key := strings.ToLower(h)
		if _, seen := t.index[key]; !seen && key != "" {
			t.index[key] = i
		}
	}

	for i, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		t.Rows = append(t.Rows, Row{Line: i + 1, Cells: rec})
	}
	return t
}

// Column returns the index of the first header matching name, ignoring
// case and surrounding spaces.
func (t *Table) Column(name string) (int, bool) {
	idx, ok := t.index[strings.ToLower(strings.TrimSpace(name))]
	return idx, ok
}

// RequireColumns resolves every name or reports the first one missing.
func (t *Table) RequireColumns(names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, n := range names {
		idx, ok := t.Column(n)
		if !ok {
			return nil, &MissingColumnError{Table: t.Name, Column: n}
		}
		out[i] = idx
	}
	return out, nil
}

// Cell returns the trimmed value at idx, or "" when the row is short.
func (r Row) Cell(idx int) string {
	if idx < 0 || idx >= len(r.Cells) {
		return ""
	}
	return strings.TrimSpace(r.Cells[idx])
}

func readWorkbook(path string, opts ReadOptions) ([][]string, string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, "", fmt.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: opts.RawValues})
	if err != nil {
		return nil, "", fmt.Errorf("failed to read sheet %q of %s: %w", sheet, path, err)
	}
	return rows, sheet, nil
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func readCSV(path string) ([][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
