package domain

import (
	"time"
)

// DimDate is one calendar day.
type DimDate struct {
	DateKey    int       `json:"date_key" db:"date_key"` // YYYYMMDD
	Date       time.Time `json:"date" db:"date"`
	Year       int       `json:"year" db:"year"`
	Month      int       `json:"month" db:"month"`
	MonthName  string    `json:"month_name" db:"month_name"`
	Day        int       `json:"day" db:"day"`
	DayName    string    `json:"day_name" db:"day_name"`
	DayOfWeek  int       `json:"day_of_week" db:"day_of_week"`   // 0 = Monday
	WeekOfYear int       `json:"week_of_year" db:"week_of_year"` // ISO 8601
	IsWeekend  bool      `json:"is_weekend" db:"is_weekend"`
}

// DimWeek is one program week.
type DimWeek struct {
	WeekNumber    int       `json:"week_number" db:"week_number"`
	WeekStartDate time.Time `json:"week_start_date" db:"week_start_date"`
	WeekEndDate   time.Time `json:"week_end_date" db:"week_end_date"`
	WeekLabel     string    `json:"week_label" db:"week_label"`
}
