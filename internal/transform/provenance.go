package transform

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FileDateLayout is the session date encoded in attendance file names.
const FileDateLayout = "02-Jan-2006"

var (
	fileDatePattern = regexp.MustCompile(`^\d{2}-[A-Za-z]{3}-\d{4}$`)
	weekDirPattern  = regexp.MustCompile(`(?i)week\s*(\d+)`)
)

// DateFromFileName returns the session date encoded in an attendance file
// name such as "05-Aug-2024.csv". The stem must be exactly DD-Mon-YYYY.
func DateFromFileName(name string) (time.Time, error) {
	base := path.Base(slashed(name))
	stem := strings.TrimSuffix(base, path.Ext(base))

	if !fileDatePattern.MatchString(stem) {
		return time.Time{}, &ParseError{Field: "attendance_date", Value: name, Err: ErrMalformedFileDate}
	}
	date, err := time.Parse(FileDateLayout, stem)
	if err != nil {
		return time.Time{}, &ParseError{
			Field: "attendance_date",
			Value: name,
			Err:   fmt.Errorf("%w: %v", ErrMalformedFileDate, err),
		}
	}
	return date, nil
}

// WeekFromPath returns the program week of an attendance file from its parent
// directory, e.g. ".../Week 3/05-Aug-2024.csv" is week 3. When the folder name
// holds more than one number the first one wins.
func WeekFromPath(p string) (int, error) {
	dir := path.Base(path.Dir(slashed(p)))

	m := weekDirPattern.FindStringSubmatch(dir)
	if m == nil {
		return 0, &ParseError{Field: "week_number", Value: p, Err: ErrMalformedWeekPath}
	}
	week, err := strconv.Atoi(m[1])
	if err != nil || week < 1 {
		return 0, &ParseError{
			Field: "week_number",
			Value: p,
			Err:   fmt.Errorf("%w: week %q out of range", ErrMalformedWeekPath, m[1]),
		}
	}
	return week, nil
}

// slashed normalizes Windows separators so provenance recorded on either
// platform parses the same way.
func slashed(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
