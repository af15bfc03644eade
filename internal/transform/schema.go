package transform

import (
	"cohortetl/pkg/contracts/domain"
)

// Rules are the business rules applied while building the schema.
type Rules struct {
	AttendanceThreshold float64
	DedupeParticipation bool
}

// DefaultRules returns the rules used when nothing is configured.
func DefaultRules() Rules {
	return Rules{AttendanceThreshold: DefaultAttendanceThreshold}
}

// BuildStats collects every side-channel count of a Build call.
type BuildStats struct {
	DirectoryNames     int
	DirectoryEmails    int
	DirectoryConflicts int
	Participation      ParticipationStats
	Learners           LearnerStats
}

// Facts is the output of the fact derivation stage.
type Facts struct {
	Attendance []domain.FactAttendance
	Assessment []domain.FactAssessment
}

// DeriveFacts runs the fact builders that depend only on raw inputs.
func DeriveFacts(raw *domain.RawDataset, rules Rules) (*Facts, error) {
	attendance, err := BuildFactAttendance(raw.Attendance, rules.AttendanceThreshold)
	if err != nil {
		return nil, err
	}
	assessment, err := BuildFactAssessment(raw.Labs, raw.Quizzes)
	if err != nil {
		return nil, err
	}
	return &Facts{Attendance: attendance, Assessment: assessment}, nil
}

// Reconcile builds the Directory from attendance, resolves participation
// through it and synthesizes the dimensions.
func Reconcile(raw *domain.RawDataset, facts *Facts, rules Rules) (*domain.StarSchema, BuildStats, error) {
	dir := NewDirectory(facts.Attendance)
	stats := BuildStats{
		DirectoryNames:     dir.Len(),
		DirectoryEmails:    dir.Emails(),
		DirectoryConflicts: dir.Conflicts(),
	}

	participation, pstats, err := BuildFactParticipation(raw.Participation, dir, ParticipationOptions{
		Dedupe: rules.DedupeParticipation,
	})
	if err != nil {
		return nil, stats, err
	}
	stats.Participation = pstats

	learners, lstats := BuildDimLearner(raw.Status, dir)
	stats.Learners = lstats

	return &domain.StarSchema{
		DimLearner:        learners,
		DimDate:           BuildDimDate(facts.Attendance, participation),
		DimWeek:           BuildDimWeek(facts.Attendance),
		FactAttendance:    facts.Attendance,
		FactAssessment:    facts.Assessment,
		FactParticipation: participation,
	}, stats, nil
}

// Build runs fact derivation and reconciliation in one call.
func Build(raw *domain.RawDataset, rules Rules) (*domain.StarSchema, BuildStats, error) {
	facts, err := DeriveFacts(raw, rules)
	if err != nil {
		return nil, BuildStats{}, err
	}
	return Reconcile(raw, facts, rules)
}
