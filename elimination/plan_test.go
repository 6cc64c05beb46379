package elimination

import (
	"strings"
	"testing"

	"trivia-survival/models"
)

func TestEvaluate_DistinctScores(t *testing.T) {
	var roster []models.Participant
	var subs []models.ScoreSubmission
	// shuffled so the roster order cannot leak into the result
	for i := 40; i >= 1; i-- {
		p := participant(i)
		roster = append(roster, p)
		subs = append(subs, submission("s"+p.ID, p, int64(i), 0))
	}

	plan := Evaluate(1, roster, subs, DefaultRules())

	if len(plan.Victims) != 10 {
		t.Fatalf("eliminated %d, want 10", len(plan.Victims))
	}
	for i, v := range plan.Victims {
		if v.Submission.Score != int64(i+1) {
			t.Errorf("victim %d has score %d, want %d", i, v.Submission.Score, i+1)
		}
	}
	if plan.Survivors() != 30 {
		t.Errorf("survivors = %d, want 30", plan.Survivors())
	}
	if c := plan.CutoffScore(); c == nil || *c != 10 {
		t.Errorf("cutoff = %v, want 10", c)
	}
	if s := plan.LowestSurvivingScore(); s == nil || *s != 11 {
		t.Errorf("lowest surviving = %v, want 11", s)
	}
}

func TestEvaluate_CutoffInsideTiedGroup(t *testing.T) {
	var roster []models.Participant
	var subs []models.ScoreSubmission
	times := []int{100, 200, 300, 400}
	for i, at := range times {
		p := participant(i + 1)
		roster = append(roster, p)
		subs = append(subs, submission("t"+p.ID, p, 10, at))
	}
	for i := 5; i <= 8; i++ {
		p := participant(i)
		roster = append(roster, p)
		subs = append(subs, submission("t"+p.ID, p, 20, 50))
	}

	plan := Evaluate(1, roster, subs, DefaultRules())

	// p004 submitted at 400, p003 at 300
	want := []string{"p004", "p003"}
	if got := plan.VictimIDs(); !equalIDs(got, want) {
		t.Errorf("victims = %v, want %v", got, want)
	}
}

func TestEvaluate_SoleParticipant(t *testing.T) {
	p := participant(1)
	subs := []models.ScoreSubmission{submission("s1", p, 99, 1)}

	plan := Evaluate(4, []models.Participant{p}, subs, DefaultRules())
	if got := plan.VictimIDs(); !equalIDs(got, []string{"p001"}) {
		t.Errorf("victims = %v, want the lone participant", got)
	}
	if plan.Outcome() != models.OutcomeCompleted {
		t.Errorf("outcome = %s", plan.Outcome())
	}

	protected := DefaultRules()
	protected.ProtectLastSurvivor = true
	plan = Evaluate(4, []models.Participant{p}, subs, protected)
	if len(plan.Victims) != 0 {
		t.Errorf("victims = %v, want none when last survivor is protected", plan.VictimIDs())
	}
	if plan.Outcome() != models.OutcomeNothingToEliminate {
		t.Errorf("outcome = %s", plan.Outcome())
	}
}

func TestEvaluate_Empty(t *testing.T) {
	plan := Evaluate(2, nil, nil, DefaultRules())

	if plan.Total() != 0 || len(plan.Victims) != 0 {
		t.Fatalf("expected empty plan, got total=%d victims=%d", plan.Total(), len(plan.Victims))
	}
	if plan.Outcome() != models.OutcomeNoParticipants {
		t.Errorf("outcome = %s", plan.Outcome())
	}
	if plan.CutoffScore() != nil {
		t.Error("cutoff should be nil for an empty plan")
	}
}

func TestPlanDetails(t *testing.T) {
	a, b, c, d, e := participant(1), participant(2), participant(3), participant(4), participant(5)
	subs := []models.ScoreSubmission{
		submission("s1", a, 12, 1),
		submission("s3", c, 8, 1),
		submission("s4", d, 20, 1),
		submission("s5", e, 30, 1),
	}

	plan := Evaluate(3, []models.Participant{a, b, c, d, e}, subs, DefaultRules())
	details := plan.Details()

	if details.TotalActiveStart != 5 || details.EliminatedCount != 2 {
		t.Fatalf("details = %+v", details)
	}
	if !equalIDs(details.EliminatedIDs, []string{"p002", "p003"}) {
		t.Errorf("eliminated ids = %v", details.EliminatedIDs)
	}
	if details.CutoffScoreThreshold == nil || *details.CutoffScoreThreshold != 8 {
		t.Errorf("cutoff = %v, want 8", details.CutoffScoreThreshold)
	}
	if details.NoSubmissionCount != 1 {
		t.Errorf("no submission count = %d, want 1", details.NoSubmissionCount)
	}
	if details.SubmissionPolicy != "best_score" || details.EliminationPercent != 25 {
		t.Errorf("rules not recorded: %+v", details)
	}
	if details.Outcome != models.OutcomeCompleted {
		t.Errorf("outcome = %s", details.Outcome)
	}
}

func TestPlanMessage(t *testing.T) {
	a, b := participant(1), participant(2)

	plan := Evaluate(2, []models.Participant{a, b}, []models.ScoreSubmission{submission("s", b, 4, 1)}, DefaultRules())
	if msg := plan.Message(); !strings.Contains(msg, "eliminated 1 of 2") || !strings.Contains(msg, "no submission") {
		t.Errorf("message = %q", msg)
	}

	plan = Evaluate(2, []models.Participant{a, b},
		[]models.ScoreSubmission{submission("s1", a, 1500, 1), submission("s2", b, 4, 1)}, DefaultRules())
	if msg := plan.Message(); !strings.Contains(msg, "cutoff score 4") {
		t.Errorf("message = %q", msg)
	}

	plan = Evaluate(2, nil, nil, DefaultRules())
	if msg := plan.Message(); !strings.Contains(msg, "no active participants") {
		t.Errorf("message = %q", msg)
	}
}
