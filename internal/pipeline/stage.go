package pipeline

import (
	"context"
	"errors"
	"fmt"

	apperrors "cohortetl/internal/errors"
	"cohortetl/internal/transform"
)

// Stage identifies one step of a run.
type Stage string

const (
	StageIngest    Stage = "ingest"
	StageFacts     Stage = "facts"
	StageReconcile Stage = "reconcile"
	StagePersist   Stage = "persist"
)

// Stages lists the stages in execution order.
func Stages() []Stage {
	return []Stage{StageIngest, StageFacts, StageReconcile, StagePersist}
}

// StageError reports the stage that stopped a run.
type StageError struct {
	Stage Stage
	Cause error
}

// Error implements the error interface
func (e *StageError) Error() string {
	if e == nil {
		return "unknown stage error"
	}
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Cause)
}

// Unwrap returns the underlying error
func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// StageOf returns the stage recorded in err's chain, if any.
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

// classify maps a stage failure onto the application error taxonomy.
// Errors that already carry an AppError and context cancellations are
// returned unchanged.
func classify(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}

	var pe *transform.ParseError
	if errors.As(err, &pe) {
		wrapped := apperrors.NewParsingError(fmt.Sprintf("failed to derive %s", pe.Field), err).
			WithContext("field", pe.Field).
			WithContext("value", pe.Value)
		if pe.Source != "" {
			wrapped.WithContext("source", pe.Source)
		}
		if pe.Row > 0 {
			wrapped.WithContext("row", pe.Row)
		}
		return wrapped
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	if stage == StagePersist {
		return apperrors.NewStorageError("failed to persist tables", err)
	}
	return apperrors.NewAppError(apperrors.ErrTypeInternal, fmt.Sprintf("%s stage failed", stage), err)
}
