package elimination

import (
	"trivia-survival/models"
)

// Plan is the outcome of judging one tournament day, computed without side effects.
type Plan struct {
	Day     int
	Order   []Standing // worst first
	Victims []Standing // Order[:quota]
	Rules   Rules
}

// Evaluate is a pure function of the roster, the day's submissions and the rules.
func Evaluate(day int, participants []models.Participant, submissions []models.ScoreSubmission, rules Rules) Plan {
	order := Rank(participants, submissions, rules.Policy)
	quota := rules.Quota(len(order))
	return Plan{
		Day:     day,
		Order:   order,
		Victims: order[:quota],
		Rules:   rules,
	}
}

func (p Plan) Total() int {
	return len(p.Order)
}

func (p Plan) Survivors() int {
	return len(p.Order) - len(p.Victims)
}

// VictimIDs returns the eliminated participant ids, worst first.
func (p Plan) VictimIDs() []string {
	ids := make([]string, 0, len(p.Victims))
	for _, v := range p.Victims {
		ids = append(ids, v.Participant.ID)
	}
	return ids
}

// VictimUserIDs returns the user ids behind VictimIDs, in the same order.
func (p Plan) VictimUserIDs() []string {
	ids := make([]string, 0, len(p.Victims))
	for _, v := range p.Victims {
		ids = append(ids, v.Participant.UserID)
	}
	return ids
}

// Outcome classifies the plan for the audit trail.
func (p Plan) Outcome() models.EliminationOutcome {
	switch {
	case p.Total() == 0:
		return models.OutcomeNoParticipants
	case len(p.Victims) == 0:
		return models.OutcomeNothingToEliminate
	}
	return models.OutcomeCompleted
}

// CutoffScore is the score of the last eliminated participant.
// nil when nobody is eliminated or that participant did not play.
func (p Plan) CutoffScore() *int64 {
	if len(p.Victims) == 0 {
		return nil
	}
	return scoreOf(p.Victims[len(p.Victims)-1])
}

// LowestSurvivingScore is the score of the worst participant who stays in.
func (p Plan) LowestSurvivingScore() *int64 {
	if p.Survivors() == 0 {
		return nil
	}
	return scoreOf(p.Order[len(p.Victims)])
}

func (p Plan) noSubmissionCount() int {
	n := 0
	for _, st := range p.Order {
		if !st.Played() {
			n++
		}
	}
	return n
}

func scoreOf(st Standing) *int64 {
	if !st.Played() {
		return nil
	}
	score := st.Submission.Score
	return &score
}
