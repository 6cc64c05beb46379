package models

import "time"

// ScoreSubmission is a participant's recorded score for one tournament day.
// Gameplay writes these; nothing stops two rows for the same participant and day.
type ScoreSubmission struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid"`
	ParticipantID string    `json:"participant_id" gorm:"index:idx_submission_participant_day;not null"`
	DayNumber     int       `json:"day_number" gorm:"index:idx_submission_participant_day;not null"` // 1-based
	Score         int64     `json:"score" gorm:"not null;default:0"`
	SubmittedAt   time.Time `json:"submitted_at" gorm:"not null"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
}
