package ingest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "cohortetl/internal/errors"
	"cohortetl/pkg/contracts/domain"
)

// Column headers expected in the sources.
const (
	ColName      = "Name"
	ColEmail     = "Email"
	ColJoinTime  = "Join Time"
	ColLeaveTime = "Leave Time"
	ColDuration  = "Duration"

	ColDate         = "Date"
	ColParticipants = "Participants"

	ColGraduationStatus    = "Graduation Status"
	ColCertificationStatus = "Certification Status"
)

// registerDateLayout is the text form of participation dates.
const registerDateLayout = "02-Jan-2006"

// Sources locates the raw exports.
type Sources struct {
	AttendanceDir     string
	LabsQuizzesFile   string
	ParticipationFile string
	StatusFile        string
	LabsSheet         string
	QuizzesSheet      string
}

// Loader reads every source into a RawDataset.
type Loader struct {
	sources   Sources
	discovery *Discovery
	logger    *slog.Logger
}

// NewLoader creates a loader for the given sources.
func NewLoader(sources Sources, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		sources:   sources,
		discovery: NewDiscovery(),
		logger:    logger.With("component", "loader"),
	}
}

// Load reads all sources in a fixed order: attendance, assessments,
// participation, status.
func (l *Loader) Load(ctx context.Context) (*domain.RawDataset, error) {
	attendance, err := l.LoadAttendance(ctx)
	if err != nil {
		return nil, err
	}
	labs, quizzes, err := l.LoadAssessments(ctx)
	if err != nil {
		return nil, err
	}
	participation, err := l.LoadParticipation(ctx)
	if err != nil {
		return nil, err
	}
	status, err := l.LoadStatus(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.RawDataset{
		Attendance:    attendance,
		Labs:          labs,
		Quizzes:       quizzes,
		Participation: participation,
		Status:        status,
	}, nil
}

// LoadAttendance concatenates every attendance CSV under the attendance
// directory, tagging each row with its file name and full path.
func (l *Loader) LoadAttendance(ctx context.Context) ([]domain.RawAttendanceRecord, error) {
	files, err := l.discovery.FindCSVFiles(l.sources.AttendanceDir)
	if err != nil {
		return nil, sourceError("attendance directory", l.sources.AttendanceDir, err)
	}
	l.logger.InfoContext(ctx, "Found attendance files",
		slog.Int("files", len(files)),
		slog.String("dir", l.sources.AttendanceDir))
	if len(files) == 0 {
		l.logger.WarnContext(ctx, "No attendance files found", slog.String("dir", l.sources.AttendanceDir))
	}

	var records []domain.RawAttendanceRecord
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		table, err := ReadTable(file.Path, ReadOptions{})
		if err != nil {
			return nil, sourceError("attendance file", file.Path, err)
		}
		cols, err := table.RequireColumns(ColName, ColEmail, ColJoinTime, ColLeaveTime, ColDuration)
		if err != nil {
			return nil, parseError("attendance file", file.Path, err)
		}

		for _, row := range table.Rows {
			records = append(records, domain.RawAttendanceRecord{
				Name:       row.Cell(cols[0]),
				Email:      row.Cell(cols[1]),
				JoinTime:   row.Cell(cols[2]),
				LeaveTime:  row.Cell(cols[3]),
				Duration:   row.Cell(cols[4]),
				SourceFile: file.Name,
				SourcePath: file.Path,
				SourceRow:  row.Line,
			})
		}
		l.logger.DebugContext(ctx, "Read attendance file",
			slog.String("file", file.Name),
			slog.Int64("size_bytes", file.Size),
			slog.Time("modified", file.ModTime),
			slog.Int("rows", len(table.Rows)))
	}

	l.logger.InfoContext(ctx, "Loaded attendance records", slog.Int("rows", len(records)))
	return records, nil
}

// LoadAssessments reads the lab and quiz sheets of the assessment workbook.
func (l *Loader) LoadAssessments(ctx context.Context) (labs, quizzes domain.RawAssessment, err error) {
	labs, err = l.loadAssessmentSheet(ctx, l.sources.LabsSheet)
	if err != nil {
		return labs, quizzes, err
	}
	quizzes, err = l.loadAssessmentSheet(ctx, l.sources.QuizzesSheet)
	return labs, quizzes, err
}

func (l *Loader) loadAssessmentSheet(ctx context.Context, sheet string) (domain.RawAssessment, error) {
	var out domain.RawAssessment

	table, err := ReadTable(l.sources.LabsQuizzesFile, ReadOptions{Sheet: sheet, RawValues: true})
	if err != nil {
		return out, sourceError("assessment workbook", l.sources.LabsQuizzesFile, err)
	}
	emailCol, err := table.RequireColumns(ColEmail)
	if err != nil {
		return out, parseError("assessment sheet", sheet, err)
	}

	// Every other labelled column is one week of scores.
	var weekCols []int
	for i, h := range table.Header {
		if i == emailCol[0] || h == "" {
			continue
		}
		weekCols = append(weekCols, i)
		out.WeekLabels = append(out.WeekLabels, h)
	}

	skipped := 0
	for _, row := range table.Rows {
		email := row.Cell(emailCol[0])
		if email == "" {
			skipped++
			continue
		}
		scores := make([]string, len(weekCols))
		for j, c := range weekCols {
			scores[j] = row.Cell(c)
		}
		out.Rows = append(out.Rows, domain.RawAssessmentRow{Email: email, Scores: scores})
	}

	if skipped > 0 {
		l.logger.WarnContext(ctx, "Skipped assessment rows without email",
			slog.String("sheet", sheet),
			slog.Int("rows", skipped))
	}
	l.logger.InfoContext(ctx, "Loaded assessment records",
		slog.String("sheet", sheet),
		slog.Int("rows", len(out.Rows)),
		slog.Int("weeks", len(out.WeekLabels)))
	return out, nil
}

// LoadParticipation reads the participation register from its first sheet.
func (l *Loader) LoadParticipation(ctx context.Context) ([]domain.RawParticipation, error) {
	table, err := ReadTable(l.sources.ParticipationFile, ReadOptions{RawValues: true})
	if err != nil {
		return nil, sourceError("participation register", l.sources.ParticipationFile, err)
	}
	cols, err := table.RequireColumns(ColDate, ColParticipants)
	if err != nil {
		return nil, parseError("participation register", l.sources.ParticipationFile, err)
	}

	records := make([]domain.RawParticipation, 0, len(table.Rows))
	for _, row := range table.Rows {
		records = append(records, domain.RawParticipation{
			Date:         registerDate(row.Cell(cols[0])),
			Participants: row.Cell(cols[1]),
			SourceRow:    row.Line,
		})
	}

	l.logger.InfoContext(ctx, "Loaded participation records", slog.Int("rows", len(records)))
	return records, nil
}

// LoadStatus reads the learner status roster from its first sheet.
func (l *Loader) LoadStatus(ctx context.Context) ([]domain.RawStatus, error) {
	table, err := ReadTable(l.sources.StatusFile, ReadOptions{})
	if err != nil {
		return nil, sourceError("status roster", l.sources.StatusFile, err)
	}
	cols, err := table.RequireColumns(ColEmail, ColGraduationStatus, ColCertificationStatus)
	if err != nil {
		return nil, parseError("status roster", l.sources.StatusFile, err)
	}

	records := make([]domain.RawStatus, 0, len(table.Rows))
	for _, row := range table.Rows {
		records = append(records, domain.RawStatus{
			Email:               row.Cell(cols[0]),
			GraduationStatus:    row.Cell(cols[1]),
			CertificationStatus: row.Cell(cols[2]),
			SourceRow:           row.Line,
		})
	}

	l.logger.InfoContext(ctx, "Loaded status records", slog.Int("rows", len(records)))
	return records, nil
}

// registerDate turns an Excel serial date into DD-Mon-YYYY text. Anything
// else is returned unchanged for the transform stage to judge.
func registerDate(cell string) string {
	serial, err := strconv.ParseFloat(cell, 64)
	if err != nil || strings.ContainsAny(cell, "-/") {
		return cell
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return cell
	}
	return t.Format(registerDateLayout)
}

func sourceError(what, path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return apperrors.NewNotFoundError(what, err).WithContext("path", path)
	}
	return apperrors.NewStorageError(fmt.Sprintf("failed to read %s", what), err).WithContext("path", path)
}

func parseError(what, where string, err error) error {
	return apperrors.NewParsingError(fmt.Sprintf("invalid %s", what), err).WithContext("source", where)
}
