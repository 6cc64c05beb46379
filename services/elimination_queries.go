package services

import (
	"context"
	"fmt"
	"time"

	"trivia-survival/elimination"
	"trivia-survival/models"
)

// PreviewEntry is one row of a previewed ranking. Position 1 is the worst.
type PreviewEntry struct {
	Position      int        `json:"position"`
	ParticipantID string     `json:"participant_id"`
	UserID        string     `json:"user_id"`
	Score         *int64     `json:"score"`
	SubmittedAt   *time.Time `json:"submitted_at"`
	Eliminated    bool       `json:"eliminated"`
}

// PreviewResult shows what a run would do right now, without doing it.
type PreviewResult struct {
	TournamentID     string         `json:"tournament_id"`
	Day              int            `json:"day"`
	Message          string         `json:"message"`
	AlreadyProcessed bool           `json:"already_processed"`
	Total            int            `json:"total"`
	Quota            int            `json:"quota"`
	CutoffScore      *int64         `json:"cutoff_score"`
	Victims          []string       `json:"victims"`
	Standings        []PreviewEntry `json:"standings"`
}

// Preview evaluates the current day of a tournament. Nothing is written.
func (s *EliminationService) Preview(ctx context.Context, tournamentID string) (*PreviewResult, error) {
	now := s.Clock.Now().UTC()

	t, err := s.loadTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	day := elimination.ResolveDay(t.StartDate, now)
	result := &PreviewResult{
		TournamentID: t.ID,
		Day:          day,
		Victims:      []string{},
		Standings:    []PreviewEntry{},
	}
	if !elimination.Judgeable(day) {
		result.Message = elimination.DayNotElapsedMessage(day)
		return result, nil
	}

	run, err := s.findRun(ctx, t.ID, day)
	if err != nil {
		return nil, err
	}
	result.AlreadyProcessed = run != nil

	participants, err := s.activeParticipants(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	submissions, err := s.daySubmissions(ctx, day, participants)
	if err != nil {
		return nil, err
	}

	plan := elimination.Evaluate(day, participants, submissions, s.Rules)
	if run != nil {
		// a rerun is a no-op, so nobody is at risk today
		plan.Victims = plan.Victims[:0]
		result.Message = elimination.AlreadyProcessedMessage(day, run.EliminatedCount)
	} else {
		result.Message = plan.Message()
	}
	result.Total = plan.Total()
	result.Quota = len(plan.Victims)
	result.CutoffScore = plan.CutoffScore()
	result.Victims = plan.VictimIDs()
	for i, st := range plan.Order {
		entry := PreviewEntry{
			Position:      i + 1,
			ParticipantID: st.Participant.ID,
			UserID:        st.Participant.UserID,
			Eliminated:    i < len(plan.Victims),
		}
		if st.Played() {
			score, at := st.Submission.Score, st.Submission.SubmittedAt
			entry.Score = &score
			entry.SubmittedAt = &at
		}
		result.Standings = append(result.Standings, entry)
	}
	return result, nil
}

// AuditRecords lists a tournament's audit trail, latest day first.
func (s *EliminationService) AuditRecords(ctx context.Context, tournamentID string) ([]models.EliminationRecord, error) {
	if _, err := s.loadTournament(ctx, tournamentID); err != nil {
		return nil, err
	}

	records := []models.EliminationRecord{}
	err := s.DB.WithContext(ctx).
		Where("tournament_id = ?", tournamentID).
		Order("day_number DESC").
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load audit records: %w", err)
	}
	return records, nil
}
