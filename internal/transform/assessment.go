package transform

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"cohortetl/pkg/contracts/domain"
)

var weekLabelPattern = regexp.MustCompile(`\d+`)

// WeekFromLabel returns the first run of digits in a week column header,
// so "Week 3", "W3" and "3" all map to week 3.
func WeekFromLabel(label string) (int, error) {
	digits := weekLabelPattern.FindString(label)
	if digits == "" {
		return 0, &ParseError{Field: "week_number", Value: label, Err: ErrMalformedWeekLabel}
	}
	week, err := strconv.Atoi(digits)
	if err != nil {
		return 0, &ParseError{Field: "week_number", Value: label, Err: fmt.Errorf("%w: %v", ErrMalformedWeekLabel, err)}
	}
	return week, nil
}

// ParseScore parses an assessment cell. Blank cells are missing scores and
// yield nil rather than an error.
func ParseScore(cell string) (*float64, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, &ParseError{Field: "score", Value: cell, Err: ErrMalformedScore}
	}
	return &v, nil
}

// BuildFactAssessment unpivots the labs and quizzes sheets into one long
// table. Each sheet yields one row per (learner, week column), week column by
// week column; labs come before quizzes. Missing scores stay as nil rows, so
// the output has exactly learners x weeks rows per sheet.
func BuildFactAssessment(labs, quizzes domain.RawAssessment) ([]domain.FactAssessment, error) {
	size := len(labs.Rows)*len(labs.WeekLabels) + len(quizzes.Rows)*len(quizzes.WeekLabels)
	facts := make([]domain.FactAssessment, 0, size)

	var err error
	if facts, err = meltAssessment(facts, labs, domain.AssessmentTypeLab); err != nil {
		return nil, err
	}
	if facts, err = meltAssessment(facts, quizzes, domain.AssessmentTypeQuiz); err != nil {
		return nil, err
	}

	for i := range facts {
		facts[i].AssessmentID = i + 1
	}
	return facts, nil
}

func meltAssessment(dst []domain.FactAssessment, sheet domain.RawAssessment, kind domain.AssessmentType) ([]domain.FactAssessment, error) {
	source := string(kind)

	for col, label := range sheet.WeekLabels {
		week, err := WeekFromLabel(label)
		if err != nil {
			return nil, withLocation(err, source, 0)
		}

		for i, row := range sheet.Rows {
			var cell string
			if col < len(row.Scores) {
				cell = row.Scores[col]
			}
			score, err := ParseScore(cell)
			if err != nil {
				return nil, withLocation(err, source, i+1)
			}

			dst = append(dst, domain.FactAssessment{
				Email:          NormalizeEmail(row.Email),
				WeekNumber:     week,
				AssessmentType: kind,
				Score:          score,
			})
		}
	}

	return dst, nil
}
