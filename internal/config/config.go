package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix namespaces every environment variable read by Load.
const EnvPrefix = "COHORT"

// Config represents the complete application configuration
type Config struct {
	Paths   PathsConfig   `yaml:"paths" envconfig:"PATHS"`
	Sources SourcesConfig `yaml:"sources" envconfig:"SOURCES"`
	Rules   RulesConfig   `yaml:"rules" envconfig:"RULES"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Sink    SinkConfig    `yaml:"sink" envconfig:"SINK"`
	Metrics MetricsConfig `yaml:"metrics" envconfig:"METRICS"`
	Tracing TracingConfig `yaml:"tracing" envconfig:"TRACING"`
}

// PathsConfig contains file system locations. Source files that are not
// absolute are resolved against DataDir.
type PathsConfig struct {
	DataDir           string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required" desc:"root directory of the raw exports"`
	OutputDir         string `yaml:"output_dir" envconfig:"OUTPUT_DIR" validate:"required" desc:"directory receiving the star schema CSVs"`
	LogsDir           string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required" desc:"directory for the log file and traces"`
	AttendanceDir     string `yaml:"attendance_dir" envconfig:"ATTENDANCE_DIR" validate:"required" desc:"attendance export tree, one sub folder per week"`
	LabsQuizzesFile   string `yaml:"labs_quizzes_file" envconfig:"LABS_QUIZZES_FILE" validate:"required,sourcefile" desc:"workbook holding the lab and quiz sheets"`
	ParticipationFile string `yaml:"participation_file" envconfig:"PARTICIPATION_FILE" validate:"required,sourcefile" desc:"participation register"`
	StatusFile        string `yaml:"status_file" envconfig:"STATUS_FILE" validate:"required,sourcefile" desc:"learner status roster"`
}

// SourcesConfig names the sheets inside the assessment workbook.
type SourcesConfig struct {
	LabsSheet    string `yaml:"labs_sheet" envconfig:"LABS_SHEET" validate:"required"`
	QuizzesSheet string `yaml:"quizzes_sheet" envconfig:"QUIZZES_SHEET" validate:"required"`
}

// RulesConfig holds the business rules applied while deriving facts.
type RulesConfig struct {
	AttendanceThresholdMinutes float64 `yaml:"attendance_threshold_minutes" envconfig:"ATTENDANCE_THRESHOLD_MINUTES" validate:"gte=0" desc:"minutes strictly above which a session counts as attended"`
	DedupeParticipation        bool    `yaml:"dedupe_participation" envconfig:"DEDUPE_PARTICIPATION" desc:"keep only the first participation per learner and date"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FileName string `yaml:"file_name" envconfig:"FILE_NAME" validate:"required_unless=Output console"`
}

// SinkConfig enables the optional database sink.
type SinkConfig struct {
	SQLitePath string `yaml:"sqlite_path" envconfig:"SQLITE_PATH" desc:"write the tables to this SQLite database as well"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile" envconfig:"TEXTFILE" desc:"write run metrics to this file in textfile collector format"`
}

// TracingConfig controls span export.
type TracingConfig struct {
	Enabled  bool   `yaml:"enabled" envconfig:"ENABLED"`
	FileName string `yaml:"file_name" envconfig:"FILE_NAME" validate:"required_if=Enabled true"`
}

// Load builds the configuration from defaults, the first config file found
// in the usual locations and COHORT_* environment variables, in that order
// of increasing precedence.
func Load() (*Config, error) {
	return LoadFile(getConfigFilePath())
}

// LoadFile is Load with an explicit config file. An empty path skips the
// file layer; a named file that does not exist is an error.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Fields without a matching variable are left untouched, so the file and
	// default values survive this pass.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// mergeFile overlays the keys present in a YAML file onto c.
func (c *Config) mergeFile(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, c)
}

// YAML renders the effective configuration.
func (c *Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"cohortetl.yaml",
		"configs/cohortetl.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			DataDir:           "data",
			OutputDir:         "cleaned_data",
			LogsDir:           "logs",
			AttendanceDir:     "Zoom Attendance",
			LabsQuizzesFile:   "Labs & Quizes/Labs & Quizes.xlsx",
			ParticipationFile: "Participation/Participation records.xlsx",
			StatusFile:        "Status of Learners/Status of Participanat.xlsx",
		},
		Sources: SourcesConfig{
			LabsSheet:    "Labs",
			QuizzesSheet: "Quizzes",
		},
		Rules: RulesConfig{
			AttendanceThresholdMinutes: 30,
			DedupeParticipation:        false,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "both",
			FileName: "etl_pipeline.log",
		},
		Tracing: TracingConfig{
			Enabled:  false,
			FileName: "traces.json",
		},
	}
}
