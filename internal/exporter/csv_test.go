package exporter

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testWriter(t *testing.T) (*CSVWriter, string) {
	t.Helper()
	dir := t.TempDir()
	return NewCSVWriter(dir, slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))), dir
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	tests := []struct {
		name     string
		options  WriteOptions
		expected string
	}{
		{
			name: "headers and records",
			options: WriteOptions{
				Headers: []string{"email", "score"},
				Records: [][]string{{"ama@example.com", "90"}, {"kojo@example.com", ""}},
			},
			expected: "email,score\nama@example.com,90\nkojo@example.com,\n",
		},
		{
			name: "fields needing quotes",
			options: WriteOptions{
				Headers: []string{"join_time", "learner_name"},
				Records: [][]string{{"8/5/2024, 9:00", `Ama "A" Owusu`}},
			},
			expected: "join_time,learner_name\n\"8/5/2024, 9:00\",\"Ama \"\"A\"\" Owusu\"\n",
		},
		{
			name:     "header only",
			options:  WriteOptions{Headers: []string{"week_number", "week_label"}},
			expected: "week_number,week_label\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			writer, dir := testWriter(t)
			require.NoError(t, writer.WriteCSV("out/table.csv", tt.options))

			content, err := os.ReadFile(filepath.Join(dir, "out", "table.csv"))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(content))
		})
	}
}

func TestCSVWriter_Overwrite(t *testing.T) {
	writer, dir := testWriter(t)
	path := filepath.Join(dir, "dim_week.csv")

	require.NoError(t, writer.WriteSimpleCSV("dim_week.csv", []string{"h"}, [][]string{{"1"}, {"2"}}))
	require.NoError(t, writer.WriteSimpleCSV("dim_week.csv", []string{"h"}, [][]string{{"3"}}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "h\n3\n", string(content))
}

func TestCSVWriter_Path(t *testing.T) {
	writer, dir := testWriter(t)
	assert.Equal(t, filepath.Join(dir, "dim_date.csv"), writer.Path("dim_date.csv"))

	abs := filepath.Join(t.TempDir(), "x.csv")
	assert.Equal(t, abs, writer.Path(abs))
}

func TestCSVWriter_UnwritableDir(t *testing.T) {
	writer, dir := testWriter(t)
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	err := writer.WriteSimpleCSV("blocker/table.csv", []string{"a"}, nil)
	assert.Error(t, err)
}
