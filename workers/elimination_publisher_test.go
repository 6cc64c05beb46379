package workers

import (
	"encoding/json"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"trivia-survival/models"
)

func TestEliminationMessage(t *testing.T) {
	at := time.Date(2026, 3, 2, 0, 5, 0, 0, time.UTC)
	event := models.EliminationEvent{
		TournamentID:   "t1",
		TournamentName: "Trivia Royale",
		DayNumber:      1,
		ParticipantIDs: []string{"p1"},
		UserIDs:        []string{"u1"},
		Survivors:      3,
		EliminatedAt:   at,
	}

	msg, err := eliminationMessage(event)
	if err != nil {
		t.Fatalf("eliminationMessage: %v", err)
	}
	if msg.DeliveryMode != amqp.Persistent {
		t.Error("message should be persistent")
	}
	if msg.ContentType != "application/json" {
		t.Errorf("content type = %q", msg.ContentType)
	}
	if msg.MessageId != "t1:1" {
		t.Errorf("message id = %q, want t1:1", msg.MessageId)
	}

	var decoded models.EliminationEvent
	if err := json.Unmarshal(msg.Body, &decoded); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if len(decoded.UserIDs) != 1 || decoded.UserIDs[0] != "u1" {
		t.Errorf("decoded user ids = %v", decoded.UserIDs)
	}
}

func TestNewEliminationPublisher_InvalidURL(t *testing.T) {
	if _, err := NewEliminationPublisher("http://not-amqp", "q"); err == nil {
		t.Fatal("expected error for a non-amqp URL")
	}
}
