package elimination

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"trivia-survival/models"
)

var printer = message.NewPrinter(language.English)

// Details builds the structured audit payload for a plan.
func (p Plan) Details() models.EliminationDetails {
	return models.EliminationDetails{
		Outcome:              p.Outcome(),
		TotalActiveStart:     p.Total(),
		EliminatedCount:      len(p.Victims),
		EliminatedIDs:        p.VictimIDs(),
		CutoffScoreThreshold: p.CutoffScore(),
		LowestSurvivingScore: p.LowestSurvivingScore(),
		NoSubmissionCount:    p.noSubmissionCount(),
		SubmissionPolicy:     string(p.Rules.Policy),
		EliminationPercent:   p.Rules.Percent,
	}
}

// Message renders the human readable audit line for a plan.
func (p Plan) Message() string {
	switch p.Outcome() {
	case models.OutcomeNoParticipants:
		return printer.Sprintf("Day %d: no active participants, nothing eliminated", p.Day)
	case models.OutcomeNothingToEliminate:
		return printer.Sprintf("Day %d: %d active participant(s) left, last survivor protected", p.Day, p.Total())
	}
	if cutoff := p.CutoffScore(); cutoff != nil {
		return printer.Sprintf("Day %d: eliminated %d of %d active participants (cutoff score %d)",
			p.Day, len(p.Victims), p.Total(), *cutoff)
	}
	return printer.Sprintf("Day %d: eliminated %d of %d active participants (cutoff: no submission)",
		p.Day, len(p.Victims), p.Total())
}

// DayNotElapsedMessage is the audit line for a run before the first day completed.
func DayNotElapsedMessage(day int) string {
	return printer.Sprintf("Day %d: first tournament day has not elapsed, nothing to process", day)
}

// TournamentInactiveMessage is the audit line for a run against a paused or closed tournament.
func TournamentInactiveMessage(day int) string {
	return printer.Sprintf("Day %d: tournament is not active, nothing to process", day)
}

// AlreadyProcessedMessage is the audit line for a repeated run of a judged day.
func AlreadyProcessedMessage(day, eliminated int) string {
	return printer.Sprintf("Day %d: already processed (%d eliminated), skipping", day, eliminated)
}
