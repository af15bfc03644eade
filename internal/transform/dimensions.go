package transform

import (
	"fmt"
	"sort"
	"time"

	"cohortetl/pkg/contracts/domain"
)

// LearnerStats is the side channel of BuildDimLearner.
type LearnerStats struct {
	Duplicates int // roster rows dropped because their email was already seen
	Unnamed    int // learners with no attendance row to take a name from
}

// BuildDimLearner builds one learner per distinct roster email, first row
// wins. Display names come from dir by email; flags are exact matches
// against StatusGraduate and StatusCertified. IDs run from 1.
func BuildDimLearner(status []domain.RawStatus, dir *Directory) ([]domain.DimLearner, LearnerStats) {
	var stats LearnerStats
	learners := make([]domain.DimLearner, 0, len(status))
	seen := make(map[string]struct{}, len(status))

	for _, s := range status {
		email := NormalizeEmail(s.Email)
		if _, dup := seen[email]; dup {
			stats.Duplicates++
			continue
		}
		seen[email] = struct{}{}

		name, ok := dir.NameFor(email)
		if !ok || name == "" {
			stats.Unnamed++
		}

		learners = append(learners, domain.DimLearner{
			LearnerID:           len(learners) + 1,
			Email:               email,
			LearnerName:         name,
			GraduationStatus:    s.GraduationStatus,
			CertificationStatus: s.CertificationStatus,
			IsGraduated:         s.GraduationStatus == domain.StatusGraduate,
			IsCertified:         s.CertificationStatus == domain.StatusCertified,
		})
	}

	return learners, stats
}

// ObservedDateRange returns the earliest and latest date across attendance
// and participation facts. ok is false when both are empty.
func ObservedDateRange(attendance []domain.FactAttendance, participation []domain.FactParticipation) (first, last time.Time, ok bool) {
	observe := func(d time.Time) {
		if !ok || d.Before(first) {
			first = d
		}
		if !ok || d.After(last) {
			last = d
		}
		ok = true
	}
	for _, f := range attendance {
		observe(f.AttendanceDate)
	}
	for _, f := range participation {
		observe(f.ParticipationDate)
	}
	return first, last, ok
}

// BuildDimDate generates one row per calendar day from the earliest to the
// latest date observed in the facts, with no gaps. It is empty when there
// are no facts.
func BuildDimDate(attendance []domain.FactAttendance, participation []domain.FactParticipation) []domain.DimDate {
	first, last, ok := ObservedDateRange(attendance, participation)
	if !ok {
		return []domain.DimDate{}
	}
	return DateSpan(first, last)
}

// DateSpan generates dim_date rows for every day in [first, last].
func DateSpan(first, last time.Time) []domain.DimDate {
	first = civilDate(first)
	last = civilDate(last)

	days := int(last.Sub(first).Hours()/24) + 1
	if days < 1 {
		return []domain.DimDate{}
	}

	dates := make([]domain.DimDate, 0, days)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		dates = append(dates, NewDimDate(d))
	}
	return dates
}

// NewDimDate derives the calendar attributes of a single day.
func NewDimDate(d time.Time) domain.DimDate {
	d = civilDate(d)
	_, isoWeek := d.ISOWeek()
	weekday := d.Weekday()

	return domain.DimDate{
		DateKey:    d.Year()*10000 + int(d.Month())*100 + d.Day(),
		Date:       d,
		Year:       d.Year(),
		Month:      int(d.Month()),
		MonthName:  d.Month().String(),
		Day:        d.Day(),
		DayName:    weekday.String(),
		DayOfWeek:  (int(weekday) + 6) % 7,
		WeekOfYear: isoWeek,
		IsWeekend:  weekday == time.Saturday || weekday == time.Sunday,
	}
}

// BuildDimWeek derives one row per observed week number, spanning the
// earliest and latest attendance date recorded for that week. Rows are
// ordered by week number.
func BuildDimWeek(attendance []domain.FactAttendance) []domain.DimWeek {
	byWeek := make(map[int]*domain.DimWeek)

	for _, f := range attendance {
		w, ok := byWeek[f.WeekNumber]
		if !ok {
			byWeek[f.WeekNumber] = &domain.DimWeek{
				WeekNumber:    f.WeekNumber,
				WeekStartDate: f.AttendanceDate,
				WeekEndDate:   f.AttendanceDate,
				WeekLabel:     fmt.Sprintf("Week %d", f.WeekNumber),
			}
			continue
		}
		if f.AttendanceDate.Before(w.WeekStartDate) {
			w.WeekStartDate = f.AttendanceDate
		}
		if f.AttendanceDate.After(w.WeekEndDate) {
			w.WeekEndDate = f.AttendanceDate
		}
	}

	weeks := make([]domain.DimWeek, 0, len(byWeek))
	for _, w := range byWeek {
		weeks = append(weeks, *w)
	}
	sort.Slice(weeks, func(i, j int) bool {
		return weeks[i].WeekNumber < weeks[j].WeekNumber
	})
	return weeks
}

// civilDate drops the clock and zone, keeping the calendar day.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
