// Package pipeline runs the four ETL stages in order: ingest, facts,
// reconcile and persist. Each stage gets its own span, a start and finish
// log record and a duration sample; the first failing stage stops the run
// and is reported as a *StageError.
package pipeline
