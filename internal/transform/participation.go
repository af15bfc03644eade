package transform

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"cohortetl/pkg/contracts/domain"
)

// ParticipationDateLayout is the session date format of the participation
// roster. Single-digit days are accepted.
const ParticipationDateLayout = "2-Jan-2006"

// ParticipationOptions controls duplicate handling for participation facts.
type ParticipationOptions struct {
	// Dedupe keeps only the first row for a learner on a given date.
	Dedupe bool
}

// ParticipationStats is the observable side channel of BuildFactParticipation.
type ParticipationStats struct {
	Listed          int      // non-blank names across all rosters
	Resolved        int      // names resolved to an email
	Unresolved      int      // names dropped because the Directory did not know them
	Duplicates      int      // resolved rows dropped by Dedupe
	UnresolvedNames []string // distinct unresolved names, sorted
}

// ParseParticipationDate parses a DD-Mon-YYYY roster date.
func ParseParticipationDate(s string) (time.Time, error) {
	date, err := time.Parse(ParticipationDateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &ParseError{
			Field: "participation_date",
			Value: s,
			Err:   fmt.Errorf("%w: %v", ErrMalformedDate, err),
		}
	}
	return date, nil
}

// BuildFactParticipation splits every roster into one row per named learner
// and resolves each name to an email through dir. Names the Directory cannot
// resolve are dropped and counted in the returned stats. Output order is
// roster order, then name order within the roster; IDs run from 1.
func BuildFactParticipation(raw []domain.RawParticipation, dir *Directory, opts ParticipationOptions) ([]domain.FactParticipation, ParticipationStats, error) {
	var (
		stats      ParticipationStats
		facts      []domain.FactParticipation
		seen       = make(map[string]struct{})
		unresolved = make(map[string]struct{})
	)

	for _, r := range raw {
		date, err := ParseParticipationDate(r.Date)
		if err != nil {
			return nil, stats, withLocation(err, "participation", r.SourceRow)
		}

		for _, part := range strings.Split(r.Participants, ",") {
			name := NormalizeName(part)
			if name == "" {
				continue
			}
			stats.Listed++

			email, ok := dir.Resolve(name)
			if !ok {
				stats.Unresolved++
				unresolved[name] = struct{}{}
				continue
			}
			stats.Resolved++

			if opts.Dedupe {
				key := email + "|" + date.Format(time.DateOnly)
				if _, dup := seen[key]; dup {
					stats.Duplicates++
					continue
				}
				seen[key] = struct{}{}
			}

			facts = append(facts, domain.FactParticipation{
				ParticipationID:   len(facts) + 1,
				Email:             email,
				LearnerName:       name,
				ParticipationDate: date,
				Participated:      1,
			})
		}
	}

	stats.UnresolvedNames = make([]string, 0, len(unresolved))
	for name := range unresolved {
		stats.UnresolvedNames = append(stats.UnresolvedNames, name)
	}
	sort.Strings(stats.UnresolvedNames)

	return facts, stats, nil
}
