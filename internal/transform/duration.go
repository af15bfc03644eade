package transform

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDuration converts an H:MM:SS session length to minutes.
// Hours have no fixed width and may exceed 24. The result is not rounded.
func ParseDuration(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, &ParseError{
			Field: "duration",
			Value: s,
			Err:   fmt.Errorf("%w: want 3 segments, got %d", ErrMalformedDuration, len(parts)),
		}
	}

	var seg [3]uint64
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return 0, &ParseError{
				Field: "duration",
				Value: s,
				Err:   fmt.Errorf("%w: segment %q is not a number", ErrMalformedDuration, p),
			}
		}
		seg[i] = n
	}

	return float64(seg[0])*60 + float64(seg[1]) + float64(seg[2])/60, nil
}
