// Package transform turns raw cohort inputs into the star schema.
//
// Every builder is a pure function of its inputs: no I/O, no globals, and
// deterministic output order for a given input order. Side-channel counts
// (unresolved participants, duplicate roster rows, resolver conflicts) are
// returned as stats values so callers can log and export them.
//
// The ordering the builders impose on each other:
//
//	BuildFactAttendance -> NewDirectory -> BuildFactParticipation
//	                                    -> BuildDimLearner
//	BuildFactAttendance + BuildFactParticipation -> BuildDimDate
//	BuildFactAttendance -> BuildDimWeek
//
// BuildFactAssessment depends on nothing but its own sheets.
package transform
