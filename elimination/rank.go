package elimination

import (
	"fmt"
	"sort"

	"trivia-survival/models"
)

// SubmissionPolicy picks the one submission that represents a participant for a day
// when gameplay recorded more than one.
type SubmissionPolicy string

const (
	// PolicyBestScore keeps the highest score; ties go to the earlier submission.
	PolicyBestScore SubmissionPolicy = "best_score"
	// PolicyFirstSubmitted keeps the earliest submission; ties go to the higher score.
	PolicyFirstSubmitted SubmissionPolicy = "first_submitted"
)

// ParseSubmissionPolicy validates a policy name. Empty means PolicyBestScore.
func ParseSubmissionPolicy(s string) (SubmissionPolicy, error) {
	switch SubmissionPolicy(s) {
	case "", PolicyBestScore:
		return PolicyBestScore, nil
	case PolicyFirstSubmitted:
		return PolicyFirstSubmitted, nil
	}
	return "", fmt.Errorf("unknown submission policy %q", s)
}

// prefer reports whether a should represent the participant instead of b.
// Both orders end on the submission id so the choice never depends on query order.
func (p SubmissionPolicy) prefer(a, b models.ScoreSubmission) bool {
	switch p {
	case PolicyFirstSubmitted:
		if !a.SubmittedAt.Equal(b.SubmittedAt) {
			return a.SubmittedAt.Before(b.SubmittedAt)
		}
		if a.Score != b.Score {
			return a.Score > b.Score
		}
	default:
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.SubmittedAt.Equal(b.SubmittedAt) {
			return a.SubmittedAt.Before(b.SubmittedAt)
		}
	}
	return a.ID < b.ID
}

// Representatives reduces submissions to at most one per participant.
func (p SubmissionPolicy) Representatives(submissions []models.ScoreSubmission) map[string]models.ScoreSubmission {
	picked := make(map[string]models.ScoreSubmission, len(submissions))
	for _, sub := range submissions {
		cur, ok := picked[sub.ParticipantID]
		if !ok || p.prefer(sub, cur) {
			picked[sub.ParticipantID] = sub
		}
	}
	return picked
}

// Standing is a participant's result for the judged day.
// A nil Submission is the NoSubmission variant: the participant did not play.
type Standing struct {
	Participant models.Participant
	Submission  *models.ScoreSubmission
}

// Played reports whether the participant has a submission for the day.
func (s Standing) Played() bool {
	return s.Submission != nil
}

// Worse reports whether a ranks below b.
//
// Non-players rank below every player. Among players a lower score is worse and,
// for equal scores, the later submission is worse. Participant id settles the rest.
func Worse(a, b Standing) bool {
	switch {
	case !a.Played() && !b.Played():
		return a.Participant.ID < b.Participant.ID
	case !a.Played():
		return true
	case !b.Played():
		return false
	}

	if a.Submission.Score != b.Submission.Score {
		return a.Submission.Score < b.Submission.Score
	}
	if !a.Submission.SubmittedAt.Equal(b.Submission.SubmittedAt) {
		return a.Submission.SubmittedAt.After(b.Submission.SubmittedAt)
	}
	return a.Participant.ID < b.Participant.ID
}

// Rank merges the roster with the day's submissions and returns every participant
// ordered worst first. Submissions for participants outside the roster are ignored.
func Rank(participants []models.Participant, submissions []models.ScoreSubmission, policy SubmissionPolicy) []Standing {
	if len(participants) == 0 {
		return []Standing{}
	}

	picked := policy.Representatives(submissions)

	order := make([]Standing, 0, len(participants))
	for _, p := range participants {
		st := Standing{Participant: p}
		if sub, ok := picked[p.ID]; ok {
			sub := sub
			st.Submission = &sub
		}
		order = append(order, st)
	}

	sort.SliceStable(order, func(i, j int) bool {
		return Worse(order[i], order[j])
	})
	return order
}
