package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cohortetl/pkg/contracts/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleSchema() *domain.StarSchema {
	score := 90.0
	return &domain.StarSchema{
		DimLearner: []domain.DimLearner{
			{LearnerID: 1, Email: "ama@example.com", LearnerName: "Ama Owusu", GraduationStatus: "Graduate", CertificationStatus: "Certified", IsGraduated: true, IsCertified: true},
			{LearnerID: 2, Email: "esi@example.com", GraduationStatus: "Not Graduate", CertificationStatus: "Not Certified"},
		},
		DimDate: []domain.DimDate{
			{DateKey: 20240810, Date: day(2024, 8, 10), Year: 2024, Month: 8, MonthName: "August", Day: 10, DayName: "Saturday", DayOfWeek: 5, WeekOfYear: 32, IsWeekend: true},
		},
		DimWeek: []domain.DimWeek{
			{WeekNumber: 1, WeekStartDate: day(2024, 8, 5), WeekEndDate: day(2024, 8, 9), WeekLabel: "Week 1"},
		},
		FactAttendance: []domain.FactAttendance{
			{AttendanceID: 1, Email: "ama@example.com", LearnerName: "Ama Owusu", AttendanceDate: day(2024, 8, 5), WeekNumber: 1, JoinTime: "9:00", LeaveTime: "10:00", DurationMinutes: 90, DurationHours: 1.5, IsAttended: true},
		},
		FactAssessment: []domain.FactAssessment{
			{AssessmentID: 1, Email: "ama@example.com", WeekNumber: 1, AssessmentType: domain.AssessmentTypeLab, Score: &score},
			{AssessmentID: 2, Email: "ama@example.com", WeekNumber: 1, AssessmentType: domain.AssessmentTypeQuiz},
		},
		FactParticipation: []domain.FactParticipation{
			{ParticipationID: 1, Email: "ama@example.com", LearnerName: "Ama Owusu", ParticipationDate: day(2024, 8, 6), Participated: 1},
		},
	}
}

func TestEncodeSchema(t *testing.T) {
	tables, err := EncodeSchema(sampleSchema())
	require.NoError(t, err)
	require.Len(t, tables, 6)

	byName := map[string]TableData{}
	for i, table := range tables {
		assert.Equal(t, domain.TableNames()[i], table.Name)
		for _, rec := range table.Records {
			assert.Len(t, rec, len(table.Columns), table.Name)
		}
		byName[table.Name] = table
	}

	tests := []struct {
		table   string
		headers []string
		records [][]string
	}{
		{
			table:   domain.TableDimLearner,
			headers: []string{"learner_id", "email", "learner_name", "graduation_status", "certification_status", "is_graduated", "is_certified"},
			records: [][]string{
				{"1", "ama@example.com", "Ama Owusu", "Graduate", "Certified", "1", "1"},
				{"2", "esi@example.com", "", "Not Graduate", "Not Certified", "0", "0"},
			},
		},
		{
			table:   domain.TableDimDate,
			headers: []string{"date_key", "date", "year", "month", "month_name", "day", "day_name", "day_of_week", "week_of_year", "is_weekend"},
			records: [][]string{{"20240810", "2024-08-10", "2024", "8", "August", "10", "Saturday", "5", "32", "1"}},
		},
		{
			table:   domain.TableDimWeek,
			headers: []string{"week_number", "week_start_date", "week_end_date", "week_label"},
			records: [][]string{{"1", "2024-08-05", "2024-08-09", "Week 1"}},
		},
		{
			table:   domain.TableFactAttendance,
			headers: []string{"attendance_id", "email", "learner_name", "attendance_date", "week_number", "join_time", "leave_time", "duration_minutes", "duration_hours", "is_attended"},
			records: [][]string{{"1", "ama@example.com", "Ama Owusu", "2024-08-05", "1", "9:00", "10:00", "90", "1.5", "1"}},
		},
		{
			table:   domain.TableFactAssessment,
			headers: []string{"assessment_id", "email", "week_number", "assessment_type", "score"},
			records: [][]string{
				{"1", "ama@example.com", "1", "Lab", "90"},
				{"2", "ama@example.com", "1", "Quiz", ""},
			},
		},
		{
			table:   domain.TableFactParticipation,
			headers: []string{"participation_id", "email", "learner_name", "participation_date", "participated"},
			records: [][]string{{"1", "ama@example.com", "Ama Owusu", "2024-08-06", "1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.table, func(t *testing.T) {
			table := byName[tt.table]
			assert.Equal(t, tt.headers, table.Headers())
			assert.Equal(t, tt.records, table.Records)
		})
	}
}

func TestEncodeSchema_Empty(t *testing.T) {
	tables, err := EncodeSchema(&domain.StarSchema{})
	require.NoError(t, err)
	require.Len(t, tables, 6)
	for _, table := range tables {
		assert.Empty(t, table.Records)
		assert.NotEmpty(t, table.Columns)
	}
}
