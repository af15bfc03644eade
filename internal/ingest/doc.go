// Package ingest reads the raw cohort exports into domain records.
//
// Sources are read without interpretation: durations, dates and scores stay
// as the strings found in the files so that the transform package owns every
// parsing rule. The only conversion done here is turning Excel serial date
// numbers back into the DD-Mon-YYYY text the register normally carries.
//
// Example usage:
//
//	loader := ingest.NewLoader(ingest.Sources{
//	    AttendanceDir:     paths.AttendanceDir,
//	    LabsQuizzesFile:   paths.LabsQuizzesFile,
//	    ParticipationFile: paths.ParticipationFile,
//	    StatusFile:        paths.StatusFile,
//	    LabsSheet:         "Labs",
//	    QuizzesSheet:      "Quizzes",
//	}, logger)
//	raw, err := loader.Load(ctx)
package ingest
