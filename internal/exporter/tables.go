package exporter

import (
	"fmt"

	"cohortetl/pkg/contracts/domain"
)

// ColumnType is the storage class of a column in database sinks.
type ColumnType string

const (
	ColumnInteger ColumnType = "INTEGER"
	ColumnReal    ColumnType = "REAL"
	ColumnText    ColumnType = "TEXT"
)

// Column describes one output column.
type Column struct {
	Name string
	Type ColumnType
}

// TableData is a star schema table encoded as text records, ready for any
// sink. Every record has exactly len(Columns) fields.
type TableData struct {
	Name    string
	Columns []Column
	Records [][]string
}

// Headers returns the column names in output order.
func (t TableData) Headers() []string {
	h := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		h[i] = c.Name
	}
	return h
}

var (
	dimLearnerColumns = []Column{
		{"learner_id", ColumnInteger},
		{"email", ColumnText},
		{"learner_name", ColumnText},
		{"graduation_status", ColumnText},
		{"certification_status", ColumnText},
		{"is_graduated", ColumnInteger},
		{"is_certified", ColumnInteger},
	}
	dimDateColumns = []Column{
		{"date_key", ColumnInteger},
		{"date", ColumnText},
		{"year", ColumnInteger},
		{"month", ColumnInteger},
		{"month_name", ColumnText},
		{"day", ColumnInteger},
		{"day_name", ColumnText},
		{"day_of_week", ColumnInteger},
		{"week_of_year", ColumnInteger},
		{"is_weekend", ColumnInteger},
	}
	dimWeekColumns = []Column{
		{"week_number", ColumnInteger},
		{"week_start_date", ColumnText},
		{"week_end_date", ColumnText},
		{"week_label", ColumnText},
	}
	factAttendanceColumns = []Column{
		{"attendance_id", ColumnInteger},
		{"email", ColumnText},
		{"learner_name", ColumnText},
		{"attendance_date", ColumnText},
		{"week_number", ColumnInteger},
		{"join_time", ColumnText},
		{"leave_time", ColumnText},
		{"duration_minutes", ColumnReal},
		{"duration_hours", ColumnReal},
		{"is_attended", ColumnInteger},
	}
	factAssessmentColumns = []Column{
		{"assessment_id", ColumnInteger},
		{"email", ColumnText},
		{"week_number", ColumnInteger},
		{"assessment_type", ColumnText},
		{"score", ColumnReal},
	}
	factParticipationColumns = []Column{
		{"participation_id", ColumnInteger},
		{"email", ColumnText},
		{"learner_name", ColumnText},
		{"participation_date", ColumnText},
		{"participated", ColumnInteger},
	}
)

// EncodeSchema encodes the six tables in persistence order.
func EncodeSchema(s *domain.StarSchema) ([]TableData, error) {
	tables := map[string]TableData{
		domain.TableDimLearner:        encodeDimLearner(s.DimLearner),
		domain.TableDimDate:           encodeDimDate(s.DimDate),
		domain.TableDimWeek:           encodeDimWeek(s.DimWeek),
		domain.TableFactAttendance:    encodeFactAttendance(s.FactAttendance),
		domain.TableFactAssessment:    encodeFactAssessment(s.FactAssessment),
		domain.TableFactParticipation: encodeFactParticipation(s.FactParticipation),
	}

	out := make([]TableData, 0, len(tables))
	for _, name := range domain.TableNames() {
		t, ok := tables[name]
		if !ok {
			return nil, fmt.Errorf("no encoder for table %s", name)
		}
		out = append(out, t)
	}
	return out, nil
}

func encodeDimLearner(rows []domain.DimLearner) TableData {
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string{
			formatInt(r.LearnerID),
			r.Email,
			r.LearnerName,
			r.GraduationStatus,
			r.CertificationStatus,
			formatBool(r.IsGraduated),
			formatBool(r.IsCertified),
		}
	}
	return TableData{Name: domain.TableDimLearner, Columns: dimLearnerColumns, Records: records}
}

func encodeDimDate(rows []domain.DimDate) TableData {
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string{
			formatInt(r.DateKey),
			formatDate(r.Date),
			formatInt(r.Year),
			formatInt(r.Month),
			r.MonthName,
			formatInt(r.Day),
			r.DayName,
			formatInt(r.DayOfWeek),
			formatInt(r.WeekOfYear),
			formatBool(r.IsWeekend),
		}
	}
	return TableData{Name: domain.TableDimDate, Columns: dimDateColumns, Records: records}
}

func encodeDimWeek(rows []domain.DimWeek) TableData {
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string{
			formatInt(r.WeekNumber),
			formatDate(r.WeekStartDate),
			formatDate(r.WeekEndDate),
			r.WeekLabel,
		}
	}
	return TableData{Name: domain.TableDimWeek, Columns: dimWeekColumns, Records: records}
}

func encodeFactAttendance(rows []domain.FactAttendance) TableData {
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string{
			formatInt(r.AttendanceID),
			r.Email,
			r.LearnerName,
			formatDate(r.AttendanceDate),
			formatInt(r.WeekNumber),
			r.JoinTime,
			r.LeaveTime,
			formatFloat(r.DurationMinutes),
			formatFloat(r.DurationHours),
			formatBool(r.IsAttended),
		}
	}
	return TableData{Name: domain.TableFactAttendance, Columns: factAttendanceColumns, Records: records}
}

func encodeFactAssessment(rows []domain.FactAssessment) TableData {
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string{
			formatInt(r.AssessmentID),
			r.Email,
			formatInt(r.WeekNumber),
			string(r.AssessmentType),
			formatOptionalFloat(r.Score),
		}
	}
	return TableData{Name: domain.TableFactAssessment, Columns: factAssessmentColumns, Records: records}
}

func encodeFactParticipation(rows []domain.FactParticipation) TableData {
	records := make([][]string, len(rows))
	for i, r := range rows {
		records[i] = []string{
			formatInt(r.ParticipationID),
			r.Email,
			r.LearnerName,
			formatDate(r.ParticipationDate),
			formatInt(r.Participated),
		}
	}
	return TableData{Name: domain.TableFactParticipation, Columns: factParticipationColumns, Records: records}
}
