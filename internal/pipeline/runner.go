package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	apperrors "cohortetl/internal/errors"
	"cohortetl/internal/exporter"
	"cohortetl/internal/infrastructure"
	"cohortetl/internal/transform"
	"cohortetl/pkg/contracts/domain"
)

// Loader reads every raw input of a run.
type Loader interface {
	Load(ctx context.Context) (*domain.RawDataset, error)
}

// Dependencies wires a Runner. Loader and at least one sink are required;
// the rest fall back to no-op or default implementations.
type Dependencies struct {
	Loader  Loader
	Sinks   []exporter.Sink
	Rules   transform.Rules
	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *infrastructure.PipelineMetrics
}

// InputCounts records how many raw rows each source produced.
type InputCounts struct {
	AttendanceRecords int
	LabRows           int
	QuizRows          int
	ParticipationRows int
	StatusRows        int
}

// TableResult describes one persisted table.
type TableResult struct {
	Name      string
	Rows      int
	Locations []string // one per sink, in sink order
}

// StageTiming is the wall time of one completed stage.
type StageTiming struct {
	Stage    Stage
	Duration time.Duration
}

// Result summarizes a completed run.
type Result struct {
	RunID    string
	Inputs   InputCounts
	Stats    transform.BuildStats
	Tables   []TableResult
	Stages   []StageTiming
	Runtime  infrastructure.RuntimeStats
	Duration time.Duration
}

// Rows returns the row count of the named table, or 0.
func (r *Result) Rows(table string) int {
	for _, t := range r.Tables {
		if t.Name == table {
			return t.Rows
		}
	}
	return 0
}

// Runner executes the ETL stages against its sinks.
type Runner struct {
	loader  Loader
	sinks   []exporter.Sink
	rules   transform.Rules
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewRunner validates deps and returns a Runner.
func NewRunner(deps Dependencies) (*Runner, error) {
	if deps.Loader == nil {
		return nil, apperrors.NewConfigError("pipeline requires a loader", nil)
	}
	if len(deps.Sinks) == 0 {
		return nil, apperrors.NewConfigError("pipeline requires at least one sink", nil)
	}
	if deps.Rules.AttendanceThreshold < 0 {
		return nil, apperrors.NewConfigError(
			fmt.Sprintf("attendance threshold must not be negative, got %v", deps.Rules.AttendanceThreshold), nil)
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := deps.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(infrastructure.ServiceName)
	}

	return &Runner{
		loader:  deps.Loader,
		sinks:   deps.Sinks,
		rules:   deps.Rules,
		logger:  infrastructure.WithComponent(logger, "pipeline"),
		tracer:  tracer,
		metrics: deps.Metrics,
	}, nil
}

// Run executes ingest, facts, reconcile and persist in order. A run ID is
// added to ctx when it has none. On failure the returned Result holds what
// was completed and the error is a *StageError.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	result := &Result{RunID: infrastructure.GetRunID(ctx)}
	start := time.Now()

	ctx, span := r.tracer.Start(ctx, "pipeline",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", result.RunID),
			attribute.Float64("rules.attendance_threshold", r.rules.AttendanceThreshold),
			attribute.Bool("rules.dedupe_participation", r.rules.DedupeParticipation),
		),
	)
	defer span.End()

	r.logger.InfoContext(ctx, "pipeline_started",
		slog.Float64("attendance_threshold", r.rules.AttendanceThreshold),
		slog.Bool("dedupe_participation", r.rules.DedupeParticipation),
		slog.Int("sinks", len(r.sinks)))

	err := r.execute(ctx, result)
	result.Duration = time.Since(start)
	result.Runtime = r.metrics.CollectRuntime(ctx)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		attrs := []any{slog.Int64("duration_ms", result.Duration.Milliseconds())}
		if stage, ok := StageOf(err); ok {
			attrs = append(attrs, slog.String("stage", string(stage)))
		}
		attrs = append(attrs, slog.String("error", err.Error()))
		r.logger.ErrorContext(ctx, "pipeline_failed", attrs...)
		return result, err
	}

	r.logger.InfoContext(ctx, "pipeline_completed",
		slog.Int64("duration_ms", result.Duration.Milliseconds()),
		slog.Uint64("heap_alloc_bytes", result.Runtime.HeapAlloc),
		slog.Uint64("num_gc", uint64(result.Runtime.NumGC)))
	return result, nil
}

func (r *Runner) execute(ctx context.Context, result *Result) error {
	var (
		raw    *domain.RawDataset
		facts  *transform.Facts
		schema *domain.StarSchema
	)

	if err := r.runStage(ctx, result, StageIngest, func(ctx context.Context) error {
		var err error
		raw, err = r.ingest(ctx, result)
		return err
	}); err != nil {
		return err
	}

	if err := r.runStage(ctx, result, StageFacts, func(ctx context.Context) error {
		var err error
		facts, err = r.deriveFacts(ctx, raw)
		return err
	}); err != nil {
		return err
	}

	if err := r.runStage(ctx, result, StageReconcile, func(ctx context.Context) error {
		var err error
		schema, err = r.reconcile(ctx, raw, facts, result)
		return err
	}); err != nil {
		return err
	}

	return r.runStage(ctx, result, StagePersist, func(ctx context.Context) error {
		return r.persist(ctx, schema, result)
	})
}

// runStage wraps fn with a span, logs, metrics and error classification.
func (r *Runner) runStage(ctx context.Context, result *Result, stage Stage, fn func(context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return &StageError{Stage: stage, Cause: err}
	}

	ctx, span := r.tracer.Start(ctx, string(stage),
		trace.WithAttributes(attribute.String("stage", string(stage))))
	defer span.End()

	r.logger.InfoContext(ctx, "stage_started", slog.String("stage", string(stage)))
	start := time.Now()

	err := classify(stage, fn(ctx))
	duration := time.Since(start)
	r.metrics.RecordStage(ctx, string(stage), duration, err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		attrs := []any{
			slog.String("stage", string(stage)),
			slog.Int64("duration_ms", duration.Milliseconds()),
		}
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			for _, a := range appErr.LogAttrs() {
				attrs = append(attrs, a)
			}
		} else {
			attrs = append(attrs, slog.String("error", err.Error()))
		}
		r.logger.ErrorContext(ctx, "stage_failed", attrs...)
		return &StageError{Stage: stage, Cause: err}
	}

	result.Stages = append(result.Stages, StageTiming{Stage: stage, Duration: duration})
	r.logger.InfoContext(ctx, "stage_completed",
		slog.String("stage", string(stage)),
		slog.Int64("duration_ms", duration.Milliseconds()))
	return nil
}

func (r *Runner) ingest(ctx context.Context, result *Result) (*domain.RawDataset, error) {
	raw, err := r.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	result.Inputs = InputCounts{
		AttendanceRecords: len(raw.Attendance),
		LabRows:           len(raw.Labs.Rows),
		QuizRows:          len(raw.Quizzes.Rows),
		ParticipationRows: len(raw.Participation),
		StatusRows:        len(raw.Status),
	}
	r.logger.InfoContext(ctx, "inputs_loaded",
		slog.Int("attendance_records", result.Inputs.AttendanceRecords),
		slog.Int("lab_rows", result.Inputs.LabRows),
		slog.Int("quiz_rows", result.Inputs.QuizRows),
		slog.Int("participation_rows", result.Inputs.ParticipationRows),
		slog.Int("status_rows", result.Inputs.StatusRows))
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"inputs.attendance_records": result.Inputs.AttendanceRecords,
		"inputs.participation_rows": result.Inputs.ParticipationRows,
		"inputs.status_rows":        result.Inputs.StatusRows,
	})
	return raw, nil
}

func (r *Runner) deriveFacts(ctx context.Context, raw *domain.RawDataset) (*transform.Facts, error) {
	facts, err := transform.DeriveFacts(raw, r.rules)
	if err != nil {
		return nil, err
	}
	r.logger.InfoContext(ctx, "table_built",
		slog.String("table", domain.TableFactAttendance),
		slog.Int("rows", len(facts.Attendance)))
	r.logger.InfoContext(ctx, "table_built",
		slog.String("table", domain.TableFactAssessment),
		slog.Int("rows", len(facts.Assessment)))
	return facts, nil
}

func (r *Runner) reconcile(ctx context.Context, raw *domain.RawDataset, facts *transform.Facts, result *Result) (*domain.StarSchema, error) {
	schema, stats, err := transform.Reconcile(raw, facts, r.rules)
	result.Stats = stats
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "resolver_built",
		slog.Int("entries", stats.DirectoryNames),
		slog.Int("emails", stats.DirectoryEmails),
		slog.Int("conflicts", stats.DirectoryConflicts))

	p := stats.Participation
	r.logger.InfoContext(ctx, "participation_resolved",
		slog.Int("listed", p.Listed),
		slog.Int("resolved", p.Resolved),
		slog.Int("unresolved", p.Unresolved),
		slog.Int("duplicates", p.Duplicates))
	if len(p.UnresolvedNames) > 0 {
		r.logger.DebugContext(ctx, "unresolved_participants",
			slog.Any("names", p.UnresolvedNames))
	}
	if stats.Learners.Duplicates > 0 || stats.Learners.Unnamed > 0 {
		r.logger.WarnContext(ctx, "learner_roster_gaps",
			slog.Int("duplicate_emails", stats.Learners.Duplicates),
			slog.Int("unnamed_learners", stats.Learners.Unnamed))
	}
	r.metrics.RecordResolution(ctx, p.Unresolved, stats.DirectoryConflicts)
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"resolver.entries":         stats.DirectoryNames,
		"resolver.conflicts":       stats.DirectoryConflicts,
		"participation.unresolved": p.Unresolved,
	})

	for _, t := range []struct {
		name string
		rows int
	}{
		{domain.TableDimLearner, len(schema.DimLearner)},
		{domain.TableDimDate, len(schema.DimDate)},
		{domain.TableDimWeek, len(schema.DimWeek)},
		{domain.TableFactParticipation, len(schema.FactParticipation)},
	} {
		r.logger.InfoContext(ctx, "table_built",
			slog.String("table", t.name),
			slog.Int("rows", t.rows))
	}
	return schema, nil
}

// persist writes every table to every sink in order and stops at the first
// failure. Tables already written stay written.
func (r *Runner) persist(ctx context.Context, schema *domain.StarSchema, result *Result) error {
	tables, err := exporter.EncodeSchema(schema)
	if err != nil {
		return apperrors.NewAppError(apperrors.ErrTypeInternal, "failed to encode tables", err)
	}

	for _, table := range tables {
		tr := TableResult{Name: table.Name, Rows: len(table.Records)}
		for _, sink := range r.sinks {
			location, err := sink.WriteTable(ctx, table)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				return apperrors.NewStorageError(fmt.Sprintf("failed to write %s", table.Name), err).
					WithContext("table", table.Name).
					WithContext("sink", sink.Name())
			}
			tr.Locations = append(tr.Locations, location)
			r.logger.InfoContext(ctx, "table_written",
				slog.String("table", table.Name),
				slog.Int("rows", tr.Rows),
				slog.String("sink", sink.Name()),
				slog.String("path", location))
		}
		r.metrics.RecordRows(ctx, table.Name, tr.Rows)
		infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
			"rows." + table.Name: tr.Rows,
		})
		result.Tables = append(result.Tables, tr)
	}
	return nil
}
