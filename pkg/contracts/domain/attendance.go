package domain

import (
	"time"
)

// RawAttendanceRecord is one participant row of a Zoom session export.
// SourceFile and SourcePath carry the provenance the session date and
// program week are recovered from; every row of a file shares them.
type RawAttendanceRecord struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	JoinTime  string `json:"join_time"`
	LeaveTime string `json:"leave_time"`
	Duration  string `json:"duration"` // H:MM:SS

	SourceFile string `json:"source_file" validate:"required"`
	SourcePath string `json:"source_path" validate:"required"`
	SourceRow  int    `json:"source_row"` // 1-based data row within SourceFile
}

// FactAttendance is one normalized attendance session row.
type FactAttendance struct {
	AttendanceID    int       `json:"attendance_id" db:"attendance_id"`
	Email           string    `json:"email" db:"email"`
	LearnerName     string    `json:"learner_name" db:"learner_name"`
	AttendanceDate  time.Time `json:"attendance_date" db:"attendance_date"`
	WeekNumber      int       `json:"week_number" db:"week_number" validate:"min=1"`
	JoinTime        string    `json:"join_time" db:"join_time"`
	LeaveTime       string    `json:"leave_time" db:"leave_time"`
	DurationMinutes float64   `json:"duration_minutes" db:"duration_minutes"`
	DurationHours   float64   `json:"duration_hours" db:"duration_hours"`
	IsAttended      bool      `json:"is_attended" db:"is_attended"`
}
