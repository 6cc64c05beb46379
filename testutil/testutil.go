package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"trivia-survival/models"
)

// SetupTestDB opens a private in-memory database with the full schema.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// ID returns a valid UUID that sorts by n.
func ID(prefix, n int) string {
	return fmt.Sprintf("00000000-0000-0000-%04d-%012d", prefix, n)
}

// ParticipantID is the id CreateParticipants gives the n-th participant (1-based).
func ParticipantID(n int) string { return ID(1, n) }

// CreateTournament inserts an active, open-ended tournament starting at start.
func CreateTournament(t *testing.T, db *gorm.DB, name string, start time.Time) models.Tournament {
	t.Helper()

	tournament := models.Tournament{
		ID:        uuid.NewString(),
		Name:      name,
		StartDate: start.UTC(),
		IsActive:  true,
	}
	if err := db.Create(&tournament).Error; err != nil {
		t.Fatalf("Failed to create tournament: %v", err)
	}
	return tournament
}

// CreateParticipants enrolls n active participants with ids ParticipantID(1..n).
func CreateParticipants(t *testing.T, db *gorm.DB, tournamentID string, n int) []models.Participant {
	t.Helper()
	return CreateParticipantsFrom(t, db, tournamentID, 1, n)
}

// CreateParticipantsFrom enrolls n participants with ids ParticipantID(first..first+n-1).
func CreateParticipantsFrom(t *testing.T, db *gorm.DB, tournamentID string, first, n int) []models.Participant {
	t.Helper()

	participants := make([]models.Participant, 0, n)
	for i := first; i < first+n; i++ {
		participants = append(participants, models.Participant{
			ID:           ParticipantID(i),
			UserID:       ID(2, i),
			TournamentID: tournamentID,
			Status:       models.ParticipantStatusActive,
		})
	}
	if n == 0 {
		return participants
	}
	if err := db.Create(&participants).Error; err != nil {
		t.Fatalf("Failed to create participants: %v", err)
	}
	return participants
}

// Submit records a score for a participant on a day.
func Submit(t *testing.T, db *gorm.DB, participantID string, day int, score int64, at time.Time) {
	t.Helper()

	sub := models.ScoreSubmission{
		ID:            uuid.NewString(),
		ParticipantID: participantID,
		DayNumber:     day,
		Score:         score,
		SubmittedAt:   at.UTC(),
	}
	if err := db.Create(&sub).Error; err != nil {
		t.Fatalf("Failed to create submission: %v", err)
	}
}

// Statuses maps participant id to its current status.
func Statuses(t *testing.T, db *gorm.DB, tournamentID string) map[string]models.ParticipantStatus {
	t.Helper()

	var participants []models.Participant
	if err := db.Where("tournament_id = ?", tournamentID).Find(&participants).Error; err != nil {
		t.Fatalf("Failed to load participants: %v", err)
	}
	out := make(map[string]models.ParticipantStatus, len(participants))
	for _, p := range participants {
		out[p.ID] = p.Status
	}
	return out
}
