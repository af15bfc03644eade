package transform

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

func TestBuildDimLearner(t *testing.T) {
	dir := NewDirectory([]domain.FactAttendance{
		{Email: "ama@example.com", LearnerName: "Ama Owusu"},
	})
	status := []domain.RawStatus{
		{Email: " AMA@example.com", GraduationStatus: "Graduate", CertificationStatus: "Certified"},
		{Email: "kojo@example.com", GraduationStatus: "graduate", CertificationStatus: "Not Certified"},
		{Email: "ama@example.com ", GraduationStatus: "Dropped", CertificationStatus: ""},
	}

	learners, stats := BuildDimLearner(status, dir)
	require.Len(t, learners, 2)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, 1, stats.Unnamed)

	ama := learners[0]
	assert.Equal(t, 1, ama.LearnerID)
	assert.Equal(t, "ama@example.com", ama.Email)
	assert.Equal(t, "Ama Owusu", ama.LearnerName)
	assert.Equal(t, "Graduate", ama.GraduationStatus)
	assert.True(t, ama.IsGraduated)
	assert.True(t, ama.IsCertified)

	kojo := learners[1]
	assert.Equal(t, 2, kojo.LearnerID)
	assert.Empty(t, kojo.LearnerName, "never attended")
	assert.False(t, kojo.IsGraduated, "status match is case sensitive")
	assert.False(t, kojo.IsCertified)
	assert.Equal(t, "Not Certified", kojo.CertificationStatus)
}

func TestNewDimDate(t *testing.T) {
	monday := NewDimDate(day(2024, time.August, 5))
	assert.Equal(t, 20240805, monday.DateKey)
	assert.Equal(t, 2024, monday.Year)
	assert.Equal(t, 8, monday.Month)
	assert.Equal(t, "August", monday.MonthName)
	assert.Equal(t, 5, monday.Day)
	assert.Equal(t, "Monday", monday.DayName)
	assert.Equal(t, 0, monday.DayOfWeek)
	assert.Equal(t, 32, monday.WeekOfYear)
	assert.False(t, monday.IsWeekend)

	saturday := NewDimDate(day(2024, time.August, 10))
	assert.Equal(t, 5, saturday.DayOfWeek)
	assert.True(t, saturday.IsWeekend)

	sunday := NewDimDate(day(2024, time.August, 11))
	assert.Equal(t, 6, sunday.DayOfWeek)
	assert.Equal(t, "Sunday", sunday.DayName)
	assert.True(t, sunday.IsWeekend)

	// ISO week of 2024-12-30 belongs to 2025
	assert.Equal(t, 1, NewDimDate(day(2024, time.December, 30)).WeekOfYear)
}

func TestBuildDimDate_CoversFacts(t *testing.T) {
	attendance := []domain.FactAttendance{
		{AttendanceDate: day(2024, time.August, 7)},
		{AttendanceDate: day(2024, time.August, 5)},
	}
	participation := []domain.FactParticipation{
		{ParticipationDate: day(2024, time.August, 12)},
	}

	dates := BuildDimDate(attendance, participation)
	require.Len(t, dates, 8)
	assert.Equal(t, 20240805, dates[0].DateKey)
	assert.Equal(t, 20240812, dates[len(dates)-1].DateKey)

	keys := make(map[int]bool, len(dates))
	for i, d := range dates {
		keys[d.DateKey] = true
		if i > 0 {
			assert.Equal(t, dates[i-1].Date.AddDate(0, 0, 1), d.Date, "no gaps")
		}
	}
	for _, f := range attendance {
		assert.True(t, keys[NewDimDate(f.AttendanceDate).DateKey])
	}
	for _, f := range participation {
		assert.True(t, keys[NewDimDate(f.ParticipationDate).DateKey])
	}
}

func TestBuildDimDate_Empty(t *testing.T) {
	assert.Empty(t, BuildDimDate(nil, nil))
}

func TestBuildDimWeek(t *testing.T) {
	attendance := []domain.FactAttendance{
		{WeekNumber: 2, AttendanceDate: day(2024, time.August, 14)},
		{WeekNumber: 1, AttendanceDate: day(2024, time.August, 7)},
		{WeekNumber: 2, AttendanceDate: day(2024, time.August, 12)},
		{WeekNumber: 1, AttendanceDate: day(2024, time.August, 5)},
		{WeekNumber: 2, AttendanceDate: day(2024, time.August, 16)},
	}

	weeks := BuildDimWeek(attendance)
	require.Len(t, weeks, 2)

	assert.Equal(t, domain.DimWeek{
		WeekNumber:    1,
		WeekStartDate: day(2024, time.August, 5),
		WeekEndDate:   day(2024, time.August, 7),
		WeekLabel:     "Week 1",
	}, weeks[0])
	assert.Equal(t, domain.DimWeek{
		WeekNumber:    2,
		WeekStartDate: day(2024, time.August, 12),
		WeekEndDate:   day(2024, time.August, 16),
		WeekLabel:     "Week 2",
	}, weeks[1])
}
