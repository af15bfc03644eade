package domain

// AssessmentType tags the source sheet of an assessment score.
type AssessmentType string

const (
	AssessmentTypeLab  AssessmentType = "Lab"
	AssessmentTypeQuiz AssessmentType = "Quiz"
)

// RawAssessment is a wide score sheet: one row per learner, one column per
// week. WeekLabels holds the week column headers in sheet order and every
// row's Scores is aligned with it (blank cells are empty strings).
type RawAssessment struct {
	WeekLabels []string           `json:"week_labels"`
	Rows       []RawAssessmentRow `json:"rows"`
}

// RawAssessmentRow is one learner's scores across the week columns.
type RawAssessmentRow struct {
	Email  string   `json:"email"`
	Scores []string `json:"scores"`
}

// FactAssessment is one (learner, week, assessment type) score.
// Score is nil when the sheet cell was blank.
type FactAssessment struct {
	AssessmentID   int            `json:"assessment_id" db:"assessment_id"`
	Email          string         `json:"email" db:"email"`
	WeekNumber     int            `json:"week_number" db:"week_number"`
	AssessmentType AssessmentType `json:"assessment_type" db:"assessment_type"`
	Score          *float64       `json:"score,omitempty" db:"score"`
}
