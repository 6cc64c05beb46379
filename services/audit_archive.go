package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gosimple/slug"

	"trivia-survival/models"
)

// AuditArchiver stores a copy of each audit record outside the database.
type AuditArchiver interface {
	PutJSON(ctx context.Context, key string, body []byte) error
}

// EliminationNotifier hands committed eliminations to the push notification pipeline.
type EliminationNotifier interface {
	PublishEliminations(ctx context.Context, event models.EliminationEvent) error
}

// archiveKey is e.g. "elimination-audit/trivia-royale-0b6c2f1e/day-003/<record id>.json".
// One object per record; repeated runs of a day never overwrite each other.
func archiveKey(t models.Tournament, record models.EliminationRecord) string {
	folder := t.ID
	if len(folder) > 8 {
		folder = folder[:8]
	}
	if name := slug.Make(t.Name); name != "" {
		folder = name + "-" + folder
	}
	return fmt.Sprintf("elimination-audit/%s/day-%03d/%s.json", folder, record.DayNumber, record.ID)
}

func (s *EliminationService) archive(ctx context.Context, t models.Tournament, record models.EliminationRecord) {
	if s.Archiver == nil {
		return
	}
	body, err := json.Marshal(record)
	if err != nil {
		s.Log.Warn("[Elimination] failed to encode audit record for archive", "record_id", record.ID, "error", err)
		return
	}
	key := archiveKey(t, record)
	if err := s.Archiver.PutJSON(ctx, key, body); err != nil {
		s.Log.Warn("[Elimination] audit archive upload failed", "key", key, "error", err)
		return
	}
	s.Log.Debug("[Elimination] audit record archived", "key", key)
}

func (s *EliminationService) notify(ctx context.Context, event models.EliminationEvent) {
	if s.Notifier == nil || len(event.ParticipantIDs) == 0 {
		return
	}
	if err := s.Notifier.PublishEliminations(ctx, event); err != nil {
		s.Log.Warn("[Elimination] failed to publish elimination event",
			"tournament_id", event.TournamentID, "day", event.DayNumber, "error", err)
	}
}
