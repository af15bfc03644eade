package transform

import (
	"cohortetl/pkg/contracts/domain"
)

// Directory reconciles learner identity between name-keyed and email-keyed
// sources. Attendance is the only source carrying both, so the Directory is
// built from FactAttendance and is read-only afterwards.
//
// Both lookups are first-seen-wins in attendance order. A name later seen
// with a different email is counted as a conflict and keeps its first email.
type Directory struct {
	byName    map[string]string
	byEmail   map[string]string
	conflicts int
}

// NewDirectory builds the lookups from attendance facts. Rows with an empty
// email or name do not contribute to the lookup keyed by the missing field's
// counterpart.
func NewDirectory(facts []domain.FactAttendance) *Directory {
	d := &Directory{
		byName:  make(map[string]string),
		byEmail: make(map[string]string),
	}

	for _, f := range facts {
		if f.Email == "" {
			continue
		}
		if f.LearnerName != "" {
			if existing, ok := d.byName[f.LearnerName]; !ok {
				d.byName[f.LearnerName] = f.Email
			} else if existing != f.Email {
				d.conflicts++
			}
		}
		if _, ok := d.byEmail[f.Email]; !ok {
			d.byEmail[f.Email] = f.LearnerName
		}
	}

	return d
}

// Resolve returns the email registered for a display name.
func (d *Directory) Resolve(name string) (string, bool) {
	email, ok := d.byName[NormalizeName(name)]
	return email, ok
}

// NameFor returns the display name first seen with an email.
func (d *Directory) NameFor(email string) (string, bool) {
	name, ok := d.byEmail[NormalizeEmail(email)]
	return name, ok
}

// Len returns the number of distinct names the Directory can resolve.
func (d *Directory) Len() int {
	return len(d.byName)
}

// Emails returns the number of distinct emails known to the Directory.
func (d *Directory) Emails() int {
	return len(d.byEmail)
}

// Conflicts returns how many attendance rows carried a known name with a
// different email than the one registered.
func (d *Directory) Conflicts() int {
	return d.conflicts
}
