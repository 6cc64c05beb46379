package elimination

import (
	"fmt"
	"time"

	"trivia-survival/models"
)

var base = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func participant(n int) models.Participant {
	return models.Participant{
		ID:     fmt.Sprintf("p%03d", n),
		UserID: fmt.Sprintf("u%03d", n),
		Status: models.ParticipantStatusActive,
	}
}

func submission(id string, p models.Participant, score int64, at int) models.ScoreSubmission {
	return models.ScoreSubmission{
		ID:            id,
		ParticipantID: p.ID,
		DayNumber:     1,
		Score:         score,
		SubmittedAt:   base.Add(time.Duration(at) * time.Second),
	}
}

func ids(standings []Standing) []string {
	out := make([]string, 0, len(standings))
	for _, st := range standings {
		out = append(out, st.Participant.ID)
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
