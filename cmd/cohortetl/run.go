package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"cohortetl/internal/config"
	apperrors "cohortetl/internal/errors"
	"cohortetl/internal/exporter"
	"cohortetl/internal/infrastructure"
	"cohortetl/internal/ingest"
	"cohortetl/internal/pipeline"
	"cohortetl/internal/transform"
	"cohortetl/pkg/contracts"
)

const shutdownTimeout = 5 * time.Second

// runPipeline wires configuration, logging, telemetry, sources and sinks
// into a pipeline.Runner and executes one run.
func runPipeline(cmd *cobra.Command, opts *runOptions) (err error) {
	ctx := infrastructure.EnsureRunID(cmd.Context())

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	paths, err := cfg.ResolvePaths()
	if err != nil {
		return apperrors.NewConfigError("failed to resolve paths", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return apperrors.NewStorageError("failed to prepare directories", err)
	}

	logger, closer, err := infrastructure.NewLogger(cfg.Logging, paths.LogFile(cfg.Logging.FileName), cmd.OutOrStdout())
	if err != nil {
		return apperrors.NewConfigError("failed to initialize logger", err)
	}
	defer closer.Close()
	slog.SetDefault(logger)

	logger.InfoContext(ctx, "ETL pipeline starting", slog.String("version", contracts.Version))
	paths.LogPathResolution(logger)

	if err := paths.ValidateSources(); err != nil {
		appErr := apperrors.NewNotFoundError("input source", err)
		logger.LogAttrs(ctx, slog.LevelError, "Input sources missing", appErr.LogAttrs()...)
		return appErr
	}

	tel, err := initTelemetry(cfg, paths, logger)
	if err != nil {
		return err
	}
	defer func() {
		if paths.MetricsFile != "" {
			if werr := tel.WriteMetrics(paths.MetricsFile); werr != nil {
				logger.ErrorContext(ctx, "Failed to write metrics", slog.String("error", werr.Error()))
			} else {
				logger.InfoContext(ctx, "Metrics written", slog.String("path", paths.MetricsFile))
			}
		}
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if serr := tel.Shutdown(shutdownCtx); serr != nil {
			logger.WarnContext(ctx, "Telemetry shutdown failed", slog.String("error", serr.Error()))
		}
	}()

	metrics, err := infrastructure.CreatePipelineMetrics(tel.Meter)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrTypeInternal, "failed to create metrics", err)
	}

	sinks, err := openSinks(ctx, paths, logger)
	if err != nil {
		return err
	}
	defer func() {
		for _, s := range sinks {
			if cerr := s.Close(); cerr != nil {
				logger.ErrorContext(ctx, "Failed to close sink",
					slog.String("sink", s.Name()),
					slog.String("error", cerr.Error()))
				if err == nil {
					err = apperrors.NewStorageError("failed to close "+s.Name()+" sink", cerr)
				}
			}
		}
	}()

	loader := ingest.NewLoader(ingest.Sources{
		AttendanceDir:     paths.AttendanceDir,
		LabsQuizzesFile:   paths.LabsQuizzesFile,
		ParticipationFile: paths.ParticipationFile,
		StatusFile:        paths.StatusFile,
		LabsSheet:         cfg.Sources.LabsSheet,
		QuizzesSheet:      cfg.Sources.QuizzesSheet,
	}, logger)

	runner, err := pipeline.NewRunner(pipeline.Dependencies{
		Loader: loader,
		Sinks:  sinks,
		Rules: transform.Rules{
			AttendanceThreshold: cfg.Rules.AttendanceThresholdMinutes,
			DedupeParticipation: cfg.Rules.DedupeParticipation,
		},
		Logger:  logger,
		Tracer:  tel.Tracer,
		Metrics: metrics,
	})
	if err != nil {
		return err
	}

	res, err := runner.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.WarnContext(ctx, "ETL pipeline interrupted")
		}
		return err
	}

	pipeline.WriteSummary(cmd.OutOrStdout(), res)
	logger.InfoContext(ctx, "ETL pipeline completed successfully",
		slog.Int64("duration_ms", res.Duration.Milliseconds()))
	return nil
}

func initTelemetry(cfg *config.Config, paths *config.Paths, logger *slog.Logger) (*infrastructure.Telemetry, error) {
	telCfg := infrastructure.TelemetryConfig{ServiceVersion: contracts.Version}
	if cfg.Tracing.Enabled {
		telCfg.TraceFile = paths.LogFile(cfg.Tracing.FileName)
	}
	tel, err := infrastructure.InitializeTelemetry(telCfg, logger)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrTypeInternal, "failed to initialize telemetry", err)
	}
	return tel, nil
}

// openSinks returns the CSV sink followed by the optional SQLite sink.
func openSinks(ctx context.Context, paths *config.Paths, logger *slog.Logger) ([]exporter.Sink, error) {
	sinks := []exporter.Sink{exporter.NewCSVSink(paths.OutputDir, logger).WithLocator(paths.OutputFile)}
	if paths.SQLiteFile == "" {
		return sinks, nil
	}

	sqlite, err := exporter.OpenSQLiteSink(ctx, paths.SQLiteFile)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open SQLite sink", err).
			WithContext("path", paths.SQLiteFile)
	}
	logger.InfoContext(ctx, "SQLite sink enabled", slog.String("path", paths.SQLiteFile))
	return append(sinks, sqlite), nil
}
