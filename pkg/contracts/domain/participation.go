package domain

import (
	"time"
)

// RawParticipation is one recorded session with its comma-joined roster.
type RawParticipation struct {
	Date         string `json:"date"` // DD-Mon-YYYY
	Participants string `json:"participants"`
	SourceRow    int    `json:"source_row"`
}

// FactParticipation is one resolved participant of one session.
type FactParticipation struct {
	ParticipationID   int       `json:"participation_id" db:"participation_id"`
	Email             string    `json:"email" db:"email"`
	LearnerName       string    `json:"learner_name" db:"learner_name"`
	ParticipationDate time.Time `json:"participation_date" db:"participation_date"`
	Participated      int       `json:"participated" db:"participated"`
}
