package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths holds the absolute locations used by a run.
type Paths struct {
	DataDir           string
	OutputDir         string
	LogsDir           string
	AttendanceDir     string
	LabsQuizzesFile   string
	ParticipationFile string
	StatusFile        string

	// Optional outputs, empty when disabled
	SQLiteFile  string
	MetricsFile string
}

// ResolvePaths makes every configured location absolute. Directories resolve
// against the working directory and source files against the data directory.
func (c *Config) ResolvePaths() (*Paths, error) {
	dataDir, err := filepath.Abs(c.Paths.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data dir: %w", err)
	}
	outputDir, err := filepath.Abs(c.Paths.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output dir: %w", err)
	}
	logsDir, err := filepath.Abs(c.Paths.LogsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve logs dir: %w", err)
	}

	p := &Paths{
		DataDir:           dataDir,
		OutputDir:         outputDir,
		LogsDir:           logsDir,
		AttendanceDir:     underDir(dataDir, c.Paths.AttendanceDir),
		LabsQuizzesFile:   underDir(dataDir, c.Paths.LabsQuizzesFile),
		ParticipationFile: underDir(dataDir, c.Paths.ParticipationFile),
		StatusFile:        underDir(dataDir, c.Paths.StatusFile),
	}
	if c.Sink.SQLitePath != "" {
		p.SQLiteFile = underDir(outputDir, c.Sink.SQLitePath)
	}
	if c.Metrics.Textfile != "" {
		p.MetricsFile = underDir(logsDir, c.Metrics.Textfile)
	}
	return p, nil
}

func underDir(dir, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}

// OutputFile returns the CSV path for a star schema table.
func (p *Paths) OutputFile(table string) string {
	return filepath.Join(p.OutputDir, table+".csv")
}

// LogFile returns a path inside the logs directory.
func (p *Paths) LogFile(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.LogsDir, name)
}

// EnsureDirectories creates the output and logs directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.OutputDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ValidateSources checks that every input location exists.
func (p *Paths) ValidateSources() error {
	checks := []struct {
		name  string
		path  string
		isDir bool
	}{
		{"attendance_dir", p.AttendanceDir, true},
		{"labs_quizzes_file", p.LabsQuizzesFile, false},
		{"participation_file", p.ParticipationFile, false},
		{"status_file", p.StatusFile, false},
	}
	for _, c := range checks {
		info, err := os.Stat(c.path)
		if err != nil {
			return fmt.Errorf("%s %s: %w", c.name, c.path, err)
		}
		if info.IsDir() != c.isDir {
			kind := "a file"
			if c.isDir {
				kind = "a directory"
			}
			return fmt.Errorf("%s %s: expected %s", c.name, c.path, kind)
		}
	}
	return nil
}

// LogPathResolution logs the resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Debug("Path resolution complete",
		slog.Group("paths",
			slog.String("data_dir", p.DataDir),
			slog.String("output_dir", p.OutputDir),
			slog.String("logs_dir", p.LogsDir),
			slog.String("attendance_dir", p.AttendanceDir),
			slog.String("labs_quizzes_file", p.LabsQuizzesFile),
			slog.String("participation_file", p.ParticipationFile),
			slog.String("status_file", p.StatusFile),
			slog.String("sqlite_file", p.SQLiteFile),
			slog.String("metrics_file", p.MetricsFile),
		),
	)
}
