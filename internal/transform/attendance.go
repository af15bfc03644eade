package transform

import (
	"time"

	"cohortetl/pkg/contracts/domain"
)

// DefaultAttendanceThreshold is the minimum session length, in minutes, a
// learner must exceed to count as attended.
const DefaultAttendanceThreshold = 30.0

type fileProvenance struct {
	date time.Time
	week int
}

// BuildFactAttendance normalizes raw attendance rows into facts, one fact per
// raw row in input order. A row is attended when its duration is strictly
// greater than threshold minutes. IDs run from 1 in output order.
func BuildFactAttendance(raw []domain.RawAttendanceRecord, threshold float64) ([]domain.FactAttendance, error) {
	facts := make([]domain.FactAttendance, 0, len(raw))
	provenance := make(map[string]fileProvenance)

	for i, r := range raw {
		prov, ok := provenance[r.SourcePath]
		if !ok {
			date, err := DateFromFileName(r.SourceFile)
			if err != nil {
				return nil, withLocation(err, r.SourcePath, 0)
			}
			week, err := WeekFromPath(r.SourcePath)
			if err != nil {
				return nil, withLocation(err, r.SourcePath, 0)
			}
			prov = fileProvenance{date: date, week: week}
			provenance[r.SourcePath] = prov
		}

		minutes, err := ParseDuration(r.Duration)
		if err != nil {
			return nil, withLocation(err, r.SourcePath, r.SourceRow)
		}

		facts = append(facts, domain.FactAttendance{
			AttendanceID:    i + 1,
			Email:           NormalizeEmail(r.Email),
			LearnerName:     NormalizeName(r.Name),
			AttendanceDate:  prov.date,
			WeekNumber:      prov.week,
			JoinTime:        r.JoinTime,
			LeaveTime:       r.LeaveTime,
			DurationMinutes: minutes,
			DurationHours:   minutes / 60,
			IsAttended:      minutes > threshold,
		})
	}

	return facts, nil
}
