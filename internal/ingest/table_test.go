package ingest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTable_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "05-Aug-2024.csv")
	writeFile(t, path, "\xEF\xBB\xBF Name ,EMAIL,Duration\nAma,ama@x.io,1:00:00\n,,\nKojo,kojo@x.io\n")

	table, err := ReadTable(path, ReadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "05-Aug-2024.csv", table.Name)
	assert.Equal(t, []string{"Name", "EMAIL", "Duration"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, 1, table.Rows[0].Line)
	assert.Equal(t, 3, table.Rows[1].Line)

	cols, err := table.RequireColumns("name", "Email", "duration")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, cols)
	assert.Equal(t, "", table.Rows[1].Cell(cols[2]))
}

func TestReadTable_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	writeWorkbook(t, path,
		sheetFixture{name: "Labs", rows: [][]interface{}{{"email", "Week 1"}, {"a@x.io", 80}}},
		sheetFixture{name: "Quizzes", rows: [][]interface{}{{"email", "Week 1", "Week 2"}, {"a@x.io", 7.5, 9}}},
	)

	first, err := ReadTable(path, ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Labs", first.Name)

	quizzes, err := ReadTable(path, ReadOptions{Sheet: "Quizzes", RawValues: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"email", "Week 1", "Week 2"}, quizzes.Header)
	require.Len(t, quizzes.Rows, 1)
	assert.Equal(t, []string{"a@x.io", "7.5", "9"}, quizzes.Rows[0].Cells)

	_, err = ReadTable(path, ReadOptions{Sheet: "Missing"})
	assert.Error(t, err)
}

func TestReadTable_MissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "status.csv")
	writeFile(t, path, "email,Graduation Status\n")

	table, err := ReadTable(path, ReadOptions{})
	require.NoError(t, err)
	assert.Empty(t, table.Rows)

	_, err = table.RequireColumns("email", "Certification Status")
	var missing *MissingColumnError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "Certification Status", missing.Column)
	assert.Equal(t, `status.csv: missing required column "Certification Status"`, err.Error())
}

func TestReadTable_UnsupportedFormat(t *testing.T) {
	_, err := ReadTable("roster.xls", ReadOptions{})
	assert.Error(t, err)
}
