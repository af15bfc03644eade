package transform

import (
	"errors"
	"fmt"
)

// Sentinel causes carried by ParseError.
var (
	ErrMalformedDuration  = errors.New("malformed duration")
	ErrMalformedFileDate  = errors.New("file name is not a DD-Mon-YYYY date")
	ErrMalformedWeekPath  = errors.New("parent directory is not a Week <N> folder")
	ErrMalformedWeekLabel = errors.New("week column label has no week number")
	ErrMalformedScore     = errors.New("score is not numeric")
	ErrMalformedDate      = errors.New("date is not DD-Mon-YYYY")
)

// ParseError reports a value that breaks a structural assumption about the
// inputs. Parse errors abort the stage that hit them.
type ParseError struct {
	Field  string // output field being derived
	Value  string // offending raw value
	Source string // originating file, sheet or table
	Row    int    // 1-based data row, 0 when not row-specific
	Err    error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	loc := e.Source
	if e.Row > 0 {
		loc = fmt.Sprintf("%s row %d", e.Source, e.Row)
	}
	if loc == "" {
		return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: %s %q: %v", loc, e.Field, e.Value, e.Err)
}

// Unwrap returns the underlying cause
func (e *ParseError) Unwrap() error {
	return e.Err
}

// withLocation fills in Source and Row on a ParseError returned by one of the
// value parsers. Other errors are returned unchanged.
func withLocation(err error, source string, row int) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.Source = source
		pe.Row = row
	}
	return err
}
