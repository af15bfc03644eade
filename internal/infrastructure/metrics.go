package infrastructure

import (
	"context"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PipelineMetrics holds the instruments recorded by a pipeline run
type PipelineMetrics struct {
	RowsWritten            metric.Int64Counter
	UnresolvedParticipants metric.Int64Counter
	ResolverConflicts      metric.Int64Counter
	StageDuration          metric.Float64Histogram
	StageErrors            metric.Int64Counter
	HeapAllocated          metric.Int64Gauge
}

// CreatePipelineMetrics creates the run instruments on meter
func CreatePipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	rowsWritten, err := meter.Int64Counter(
		"cohortetl_rows",
		metric.WithDescription("Rows written per output table"),
	)
	if err != nil {
		return nil, err
	}

	unresolved, err := meter.Int64Counter(
		"cohortetl_unresolved_participants",
		metric.WithDescription("Participation entries whose name did not resolve to an email"),
	)
	if err != nil {
		return nil, err
	}

	conflicts, err := meter.Int64Counter(
		"cohortetl_resolver_conflicts",
		metric.WithDescription("Learner names seen with more than one email"),
	)
	if err != nil {
		return nil, err
	}

	stageDuration, err := meter.Float64Histogram(
		"cohortetl_stage_duration",
		metric.WithDescription("Pipeline stage duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	stageErrors, err := meter.Int64Counter(
		"cohortetl_stage_errors",
		metric.WithDescription("Pipeline stages that failed"),
	)
	if err != nil {
		return nil, err
	}

	heap, err := meter.Int64Gauge(
		"cohortetl_heap_allocated",
		metric.WithDescription("Heap bytes allocated at the end of the run"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &PipelineMetrics{
		RowsWritten:            rowsWritten,
		UnresolvedParticipants: unresolved,
		ResolverConflicts:      conflicts,
		StageDuration:          stageDuration,
		StageErrors:            stageErrors,
		HeapAllocated:          heap,
	}, nil
}

// RecordStage records a stage duration and, on failure, an error count
func (m *PipelineMetrics) RecordStage(ctx context.Context, stage string, duration time.Duration, err error) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
		m.StageErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("stage", stage)))
	}
	m.StageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	))
}

// RecordRows records the row count written for a table
func (m *PipelineMetrics) RecordRows(ctx context.Context, table string, rows int) {
	if m == nil {
		return
	}
	m.RowsWritten.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("table", table)))
}

// RecordResolution records participation and resolver outcomes
func (m *PipelineMetrics) RecordResolution(ctx context.Context, unresolved, conflicts int) {
	if m == nil {
		return
	}
	m.UnresolvedParticipants.Add(ctx, int64(unresolved))
	m.ResolverConflicts.Add(ctx, int64(conflicts))
}

// RuntimeStats is a snapshot of Go runtime memory figures
type RuntimeStats struct {
	HeapAlloc  uint64
	TotalAlloc uint64
	Sys        uint64
	NumGC      uint32
}

// CollectRuntime reads runtime memory statistics and records the heap gauge
func (m *PipelineMetrics) CollectRuntime(ctx context.Context) RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := RuntimeStats{
		HeapAlloc:  memStats.HeapAlloc,
		TotalAlloc: memStats.TotalAlloc,
		Sys:        memStats.Sys,
		NumGC:      memStats.NumGC,
	}
	if m != nil {
		m.HeapAllocated.Record(ctx, int64(stats.HeapAlloc))
	}
	return stats
}
