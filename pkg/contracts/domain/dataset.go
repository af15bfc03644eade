package domain

// RawDataset holds every raw input of one pipeline run.
type RawDataset struct {
	Attendance    []RawAttendanceRecord `json:"attendance"`
	Labs          RawAssessment         `json:"labs"`
	Quizzes       RawAssessment         `json:"quizzes"`
	Participation []RawParticipation    `json:"participation"`
	Status        []RawStatus           `json:"status"`
}

// StarSchema holds the six output tables of one pipeline run.
type StarSchema struct {
	DimLearner        []DimLearner        `json:"dim_learner"`
	DimDate           []DimDate           `json:"dim_date"`
	DimWeek           []DimWeek           `json:"dim_week"`
	FactAttendance    []FactAttendance    `json:"fact_attendance"`
	FactAssessment    []FactAssessment    `json:"fact_assessment"`
	FactParticipation []FactParticipation `json:"fact_participation"`
}

// Output table names, in persistence order.
const (
	TableDimLearner        = "dim_learner"
	TableDimDate           = "dim_date"
	TableDimWeek           = "dim_week"
	TableFactAttendance    = "fact_attendance"
	TableFactAssessment    = "fact_assessment"
	TableFactParticipation = "fact_participation"
)

// TableNames lists the output tables in persistence order.
func TableNames() []string {
	return []string{
		TableDimLearner,
		TableDimDate,
		TableDimWeek,
		TableFactAttendance,
		TableFactAssessment,
		TableFactParticipation,
	}
}
