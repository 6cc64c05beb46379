package models

import "time"

// EliminationOutcome classifies what a run did.
type EliminationOutcome string

const (
	OutcomeCompleted          EliminationOutcome = "completed"
	OutcomeTournamentInactive EliminationOutcome = "tournament_inactive"
	OutcomeDayNotElapsed      EliminationOutcome = "day_not_elapsed"
	OutcomeNoParticipants     EliminationOutcome = "no_active_participants"
	OutcomeNothingToEliminate EliminationOutcome = "nothing_to_eliminate"
	OutcomeAlreadyProcessed   EliminationOutcome = "already_processed"
)

// EliminationDetails is the structured payload of an audit record.
type EliminationDetails struct {
	Outcome              EliminationOutcome `json:"outcome"`
	TotalActiveStart     int                `json:"total_active_start"`
	EliminatedCount      int                `json:"eliminated_count"`
	EliminatedIDs        []string           `json:"eliminated_ids"`
	CutoffScoreThreshold *int64             `json:"cutoff_score_threshold"`
	LowestSurvivingScore *int64             `json:"lowest_surviving_score,omitempty"`
	NoSubmissionCount    int                `json:"no_submission_count"`
	SubmissionPolicy     string             `json:"submission_policy,omitempty"`
	EliminationPercent   int                `json:"elimination_percent,omitempty"`
}

// EliminationRecord is the append-only audit trail of elimination runs.
type EliminationRecord struct {
	ID           string             `json:"id" gorm:"primaryKey;type:uuid"`
	TournamentID string             `json:"tournament_id" gorm:"index;not null"`
	DayNumber    int                `json:"day_number" gorm:"index;not null"`
	Message      string             `json:"message" gorm:"type:text"`
	Details      EliminationDetails `json:"details" gorm:"serializer:json;type:jsonb"`
	CreatedAt    time.Time          `json:"created_at" gorm:"autoCreateTime"`
}

// EliminationRun is the idempotency key for one tournament day.
// Written in the same transaction as the status flips.
type EliminationRun struct {
	ID              string    `json:"id" gorm:"primaryKey;type:uuid"`
	TournamentID    string    `json:"tournament_id" gorm:"uniqueIndex:idx_run_tournament_day;not null"`
	DayNumber       int       `json:"day_number" gorm:"uniqueIndex:idx_run_tournament_day;not null"`
	EliminatedCount int       `json:"eliminated_count"`
	AuditRecordID   string    `json:"audit_record_id"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// EliminationEvent is published after a committed run so the push service can notify players.
type EliminationEvent struct {
	TournamentID   string    `json:"tournament_id"`
	TournamentName string    `json:"tournament_name"`
	DayNumber      int       `json:"day_number"`
	ParticipantIDs []string  `json:"participant_ids"`
	UserIDs        []string  `json:"user_ids"`
	Survivors      int       `json:"survivors"`
	EliminatedAt   time.Time `json:"eliminated_at"`
}
