package models

import "time"

// ParticipantStatus is the survival state of a participant.
// The only transition is active → eliminated; eliminated is terminal.
type ParticipantStatus string

const (
	ParticipantStatusActive     ParticipantStatus = "active"
	ParticipantStatusEliminated ParticipantStatus = "eliminated"
)

// Participant is a user's enrollment in a tournament.
type Participant struct {
	ID           string            `json:"id" gorm:"primaryKey;type:uuid"`
	UserID       string            `json:"user_id" gorm:"index;not null"`
	TournamentID string            `json:"tournament_id" gorm:"index;not null"`
	Status       ParticipantStatus `json:"status" gorm:"type:varchar(16);not null;default:'active';index"`

	// Set together with the status flip
	EliminatedDay *int       `json:"eliminated_day,omitempty"`
	EliminatedAt  *time.Time `json:"eliminated_at,omitempty"`

	Timestamps
}
