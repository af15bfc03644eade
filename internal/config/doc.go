// Package config provides configuration loading for the cohort ETL.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (YAML)
//	3. Default values (lowest priority)
//
// The file is cohortetl.yaml or configs/cohortetl.yaml in the working
// directory unless a path is passed to LoadFile.
//
// # Environment Variables
//
// All environment variables follow the pattern COHORT_<SECTION>_<OPTION>:
//
//	COHORT_PATHS_DATA_DIR=data
//	COHORT_PATHS_OUTPUT_DIR=cleaned_data
//	COHORT_RULES_ATTENDANCE_THRESHOLD_MINUTES=30
//	COHORT_RULES_DEDUPE_PARTICIPATION=false
//	COHORT_LOGGING_LEVEL=info
//	COHORT_SINK_SQLITE_PATH=cleaned_data/cohort.db
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	paths, err := cfg.ResolvePaths()
//
// Validation runs after every layer is applied and reports all invalid
// options at once through *ValidationError.
package config
