package main

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "cohortetl/internal/errors"
	"cohortetl/pkg/contracts/domain"
)

func writeWorkbook(t *testing.T, path, sheet string, rows [][]interface{}) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		row := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

// workspace creates a data directory with one week of exports and a config
// file pointing every location into a temp dir. extra is appended to the
// YAML as-is.
func workspace(t *testing.T, extra string) (root, configFile string) {
	t.Helper()
	root = t.TempDir()
	data := filepath.Join(root, "data")

	attendance := filepath.Join(data, "Zoom Attendance", "Week 1", "05-Aug-2024.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(attendance), 0755))
	require.NoError(t, os.WriteFile(attendance, []byte(
		"Name,Email,Join Time,Leave Time,Duration\n"+
			"Ama Owusu,ama@example.com,9:00,10:00,1:00:00\n"+
			"Kojo Mensah,kojo@example.com,9:10,9:50,0:40:00\n"), 0644))

	labs := filepath.Join(data, "Labs & Quizes", "Labs & Quizes.xlsx")
	require.NoError(t, os.MkdirAll(filepath.Dir(labs), 0755))
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Labs"))
	require.NoError(t, f.SetSheetRow("Labs", "A1", &[]interface{}{"email", "Week 1"}))
	require.NoError(t, f.SetSheetRow("Labs", "A2", &[]interface{}{"ama@example.com", 88}))
	_, err := f.NewSheet("Quizzes")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Quizzes", "A1", &[]interface{}{"email", "Week 1"}))
	require.NoError(t, f.SetSheetRow("Quizzes", "A2", &[]interface{}{"kojo@example.com", 9}))
	require.NoError(t, f.SaveAs(labs))
	require.NoError(t, f.Close())

	writeWorkbook(t, filepath.Join(data, "Participation", "Participation records.xlsx"), "Sheet1", [][]interface{}{
		{"Date", "Participants"},
		{"06-Aug-2024", "Ama Owusu, Kojo Mensah, Kojo Mensah"},
	})
	writeWorkbook(t, filepath.Join(data, "Status of Learners", "Status of Participanat.xlsx"), "Sheet1", [][]interface{}{
		{"email", "Graduation Status", "Certification Status"},
		{"ama@example.com", "Graduate", "Certified"},
		{"kojo@example.com", "Not Graduate", "Not Certified"},
	})

	configFile = filepath.Join(root, "cohortetl.yaml")
	content := fmt.Sprintf(`paths:
  data_dir: %q
  output_dir: %q
  logs_dir: %q
logging:
  level: debug
  output: both
%s`, data, filepath.Join(root, "out"), filepath.Join(root, "logs"), extra)
	require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))
	return root, configFile
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func countRows(t *testing.T, path string) int {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return len(strings.Split(strings.TrimRight(string(content), "\n"), "\n")) - 1
}

func TestRun(t *testing.T) {
	root, cfgFile := workspace(t, "")

	out, err := execute(t, "run", "--config", cfgFile)
	require.NoError(t, err, out)

	for _, name := range domain.TableNames() {
		assert.FileExists(t, filepath.Join(root, "out", name+".csv"))
	}
	assert.Equal(t, 2, countRows(t, filepath.Join(root, "out", "fact_attendance.csv")))
	assert.Equal(t, 3, countRows(t, filepath.Join(root, "out", "fact_participation.csv")))
	assert.Equal(t, 2, countRows(t, filepath.Join(root, "out", "dim_date.csv")))

	assert.Contains(t, out, "PIPELINE SUMMARY")
	assert.Contains(t, out, `"msg":"pipeline_completed"`)

	logContent, err := os.ReadFile(filepath.Join(root, "logs", "etl_pipeline.log"))
	require.NoError(t, err)
	assert.Contains(t, string(logContent), `"stage":"persist"`)
	assert.Contains(t, string(logContent), `"run_id":`)
}

func TestRun_RootCommandRunsPipeline(t *testing.T) {
	root, cfgFile := workspace(t, "")

	_, err := execute(t, "--config", cfgFile)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(root, "out", "dim_learner.csv"))
}

func TestRun_FlagsOverrideConfig(t *testing.T) {
	root, cfgFile := workspace(t, "rules:\n  attendance_threshold_minutes: 10\n")
	other := filepath.Join(root, "other")

	_, err := execute(t, "run", "--config", cfgFile,
		"--output-dir", other,
		"--threshold", "45",
		"--dedupe-participation")
	require.NoError(t, err)

	assert.NoFileExists(t, filepath.Join(root, "out", "fact_attendance.csv"))
	content, err := os.ReadFile(filepath.Join(other, "fact_attendance.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[1], ",1"), "60 minutes exceeds 45")
	assert.True(t, strings.HasSuffix(lines[2], ",0"), "40 minutes does not exceed 45")

	assert.Equal(t, 2, countRows(t, filepath.Join(other, "fact_participation.csv")))
}

func TestRun_OptionalOutputs(t *testing.T) {
	root, cfgFile := workspace(t, `sink:
  sqlite_path: cohort.db
metrics:
  textfile: cohortetl.prom
tracing:
  enabled: true
  file_name: traces.json
`)

	_, err := execute(t, "run", "--config", cfgFile)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(root, "out", "cohort.db"))

	metrics, err := os.ReadFile(filepath.Join(root, "logs", "cohortetl.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `cohortetl_rows_total{table="dim_week"} 1`)
	assert.Contains(t, string(metrics), `cohortetl_stage_duration_seconds_count{stage="reconcile",status="success"} 1`)

	traces, err := os.ReadFile(filepath.Join(root, "logs", "traces.json"))
	require.NoError(t, err)
	for _, stage := range []string{"ingest", "facts", "reconcile", "persist", "pipeline"} {
		assert.Contains(t, string(traces), fmt.Sprintf(`"Name":%q`, stage))
	}
}

func TestRun_MissingSources(t *testing.T) {
	root, cfgFile := workspace(t, "")
	require.NoError(t, os.RemoveAll(filepath.Join(root, "data", "Status of Learners")))

	out, err := execute(t, "run", "--config", cfgFile)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeNotFound, apperrors.TypeOf(err))
	assert.Contains(t, err.Error(), "status_file")
	assert.Contains(t, out, "Input sources missing")
}

func TestRun_InvalidFlag(t *testing.T) {
	_, cfgFile := workspace(t, "")

	_, err := execute(t, "run", "--config", cfgFile, "--threshold=-5")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeConfig, apperrors.TypeOf(err))
	assert.Contains(t, err.Error(), "AttendanceThresholdMinutes")
}

func TestRun_MissingConfigFile(t *testing.T) {
	_, err := execute(t, "run", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrTypeConfig, apperrors.TypeOf(err))
}

func TestConfigCommand(t *testing.T) {
	_, cfgFile := workspace(t, "")

	out, err := execute(t, "config", "--config", cfgFile, "--threshold", "45")
	require.NoError(t, err)
	assert.Contains(t, out, "attendance_threshold_minutes: 45")
	assert.Contains(t, out, "level: debug")
	assert.Contains(t, out, "COHORT_RULES_ATTENDANCE_THRESHOLD_MINUTES")
	assert.Contains(t, out, "COHORT_SINK_SQLITE_PATH")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "cohortetl v")
	assert.Contains(t, out, "schema v1")

	out, err = execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "cohortetl 0.1.0\n", out)
}
