package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"trivia-survival/elimination"
	"trivia-survival/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

// errDayAlreadyRun signals a lost race on the (tournament, day) run key.
var errDayAlreadyRun = errors.New("elimination day already recorded")

const (
	runLockTTL = 10 * time.Minute
	// keeps IN lists well under the postgres bind parameter limit
	submissionQueryChunk = 1000
)

// RunStatus tells callers what a run did. Only a returned error means failure.
type RunStatus string

const (
	RunCompleted          RunStatus = "completed"
	RunNoActiveTournament RunStatus = "no_active_tournament"
	RunTournamentInactive RunStatus = "tournament_inactive"
	RunDayNotElapsed      RunStatus = "day_not_elapsed"
	RunNoParticipants     RunStatus = "no_active_participants"
	RunNothingToEliminate RunStatus = "nothing_to_eliminate"
	RunAlreadyProcessed   RunStatus = "already_processed"
)

// RunSummary is the result of one elimination run for one tournament.
type RunSummary struct {
	TournamentID  string    `json:"tournament_id,omitempty"`
	Status        RunStatus `json:"status"`
	Message       string    `json:"message"`
	Day           int       `json:"day"`
	Total         int       `json:"total"`
	Eliminated    int       `json:"eliminated"`
	Victims       []string  `json:"victims"`
	AuditRecordID string    `json:"audit_record_id,omitempty"`
}

// EliminationService runs the daily survival elimination against the database.
type EliminationService struct {
	DB       *gorm.DB
	Rules    elimination.Rules
	Clock    clockwork.Clock
	Locker   RunLocker
	Archiver AuditArchiver       // optional
	Notifier EliminationNotifier // optional
	Log      *slog.Logger
}

func NewEliminationService(db *gorm.DB, rules elimination.Rules) *EliminationService {
	return &EliminationService{
		DB:     db,
		Rules:  rules,
		Clock:  clockwork.NewRealClock(),
		Locker: NewLocalRunLocker(),
		Log:    slog.Default(),
	}
}

// RunTournament judges the last fully elapsed day of one tournament.
func (s *EliminationService) RunTournament(ctx context.Context, tournamentID string) (*RunSummary, error) {
	now := s.Clock.Now().UTC()

	t, err := s.loadTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if !t.IsActive || !t.Judging(now, elimination.DayLength) {
		day := elimination.ResolveDay(t.StartDate, now)
		msg := elimination.TournamentInactiveMessage(day)
		record, err := s.appendAudit(ctx, *t, day, msg, models.EliminationDetails{
			Outcome:       models.OutcomeTournamentInactive,
			EliminatedIDs: []string{},
		})
		if err != nil {
			return nil, err
		}
		s.Log.Info("[Elimination] tournament not active", "tournament_id", t.ID, "day", day)
		return &RunSummary{
			TournamentID:  t.ID,
			Status:        RunTournamentInactive,
			Message:       msg,
			Day:           day,
			Victims:       []string{},
			AuditRecordID: record.ID,
		}, nil
	}
	return s.runDay(ctx, *t, now)
}

// RunActiveTournaments runs every active tournament independently.
// A failing tournament does not stop the others; failures are joined into the error.
func (s *EliminationService) RunActiveTournaments(ctx context.Context) ([]RunSummary, error) {
	now := s.Clock.Now().UTC()

	tournaments, err := s.ActiveTournaments(ctx, now)
	if err != nil {
		return nil, err
	}
	if len(tournaments) == 0 {
		s.Log.Info("[Elimination] no active tournament")
		return []RunSummary{}, nil
	}

	summaries := make([]RunSummary, 0, len(tournaments))
	var errs []error
	for _, t := range tournaments {
		summary, err := s.runDay(ctx, t, now)
		if err != nil {
			errs = append(errs, fmt.Errorf("tournament %s: %w", t.ID, err))
			continue
		}
		summaries = append(summaries, *summary)
	}
	return summaries, errors.Join(errs...)
}

// ActiveTournaments returns active tournaments still being judged at now, oldest first.
// A tournament stays judgeable for one day past its end so its final day is not skipped.
func (s *EliminationService) ActiveTournaments(ctx context.Context, now time.Time) ([]models.Tournament, error) {
	var all []models.Tournament
	if err := s.DB.WithContext(ctx).Where("is_active = ?", true).Find(&all).Error; err != nil {
		return nil, fmt.Errorf("failed to load active tournaments: %w", err)
	}

	active := make([]models.Tournament, 0, len(all))
	for _, t := range all {
		if t.Judging(now, elimination.DayLength) {
			active = append(active, t)
		}
	}
	sort.Slice(active, func(i, j int) bool {
		if !active[i].StartDate.Equal(active[j].StartDate) {
			return active[i].StartDate.Before(active[j].StartDate)
		}
		return active[i].ID < active[j].ID
	})
	return active, nil
}

func (s *EliminationService) runDay(ctx context.Context, t models.Tournament, now time.Time) (*RunSummary, error) {
	day := elimination.ResolveDay(t.StartDate, now)
	log := s.Log.With("tournament_id", t.ID, "day", day)

	if !elimination.Judgeable(day) {
		msg := elimination.DayNotElapsedMessage(day)
		record, err := s.appendAudit(ctx, t, day, msg, models.EliminationDetails{
			Outcome:       models.OutcomeDayNotElapsed,
			EliminatedIDs: []string{},
		})
		if err != nil {
			return nil, err
		}
		log.Info("[Elimination] first day not elapsed")
		return &RunSummary{
			TournamentID:  t.ID,
			Status:        RunDayNotElapsed,
			Message:       msg,
			Day:           day,
			Victims:       []string{},
			AuditRecordID: record.ID,
		}, nil
	}

	release, err := s.Locker.Acquire(ctx, runLockKey(t.ID, day), runLockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	if run, err := s.findRun(ctx, t.ID, day); err != nil {
		return nil, err
	} else if run != nil {
		return s.alreadyProcessed(ctx, t, day, run)
	}

	participants, err := s.activeParticipants(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	submissions, err := s.daySubmissions(ctx, day, participants)
	if err != nil {
		return nil, err
	}

	// Submissions landing after this point are not part of the judgment.
	plan := elimination.Evaluate(day, participants, submissions, s.Rules)

	record := models.EliminationRecord{
		ID:           uuid.NewString(),
		TournamentID: t.ID,
		DayNumber:    day,
		Message:      plan.Message(),
		Details:      plan.Details(),
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		run := models.EliminationRun{
			ID:              uuid.NewString(),
			TournamentID:    t.ID,
			DayNumber:       day,
			EliminatedCount: len(plan.Victims),
			AuditRecordID:   record.ID,
		}
		if err := tx.Create(&run).Error; err != nil {
			if isUniqueViolation(err) {
				return errDayAlreadyRun
			}
			return fmt.Errorf("failed to record elimination run: %w", err)
		}

		if len(plan.Victims) > 0 {
			res := tx.Model(&models.Participant{}).
				Where("id IN ? AND tournament_id = ? AND status = ?", plan.VictimIDs(), t.ID, models.ParticipantStatusActive).
				Updates(map[string]interface{}{
					"status":         models.ParticipantStatusEliminated,
					"eliminated_day": day,
					"eliminated_at":  now,
				})
			if res.Error != nil {
				return fmt.Errorf("failed to eliminate participants: %w", res.Error)
			}
			if res.RowsAffected != int64(len(plan.Victims)) {
				return fmt.Errorf("expected to eliminate %d participants, updated %d", len(plan.Victims), res.RowsAffected)
			}
		}

		if err := tx.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to write audit record: %w", err)
		}
		return nil
	})
	if errors.Is(err, errDayAlreadyRun) {
		run, ferr := s.findRun(ctx, t.ID, day)
		if ferr != nil {
			return nil, ferr
		}
		if run == nil {
			return nil, fmt.Errorf("run key for day %d conflicted but cannot be read back", day)
		}
		return s.alreadyProcessed(ctx, t, day, run)
	}
	if err != nil {
		log.Error("[Elimination] run failed", "error", err)
		return nil, err
	}

	log.Info("[Elimination] ✅ day judged",
		"outcome", plan.Outcome(),
		"total", plan.Total(),
		"eliminated", len(plan.Victims),
		"cutoff", record.Details.CutoffScoreThreshold,
	)

	s.archive(ctx, t, record)
	s.notify(ctx, models.EliminationEvent{
		TournamentID:   t.ID,
		TournamentName: t.Name,
		DayNumber:      day,
		ParticipantIDs: plan.VictimIDs(),
		UserIDs:        plan.VictimUserIDs(),
		Survivors:      plan.Survivors(),
		EliminatedAt:   now,
	})

	return &RunSummary{
		TournamentID:  t.ID,
		Status:        RunStatus(plan.Outcome()),
		Message:       record.Message,
		Day:           day,
		Total:         plan.Total(),
		Eliminated:    len(plan.Victims),
		Victims:       plan.VictimIDs(),
		AuditRecordID: record.ID,
	}, nil
}

func (s *EliminationService) alreadyProcessed(ctx context.Context, t models.Tournament, day int, run *models.EliminationRun) (*RunSummary, error) {
	msg := elimination.AlreadyProcessedMessage(day, run.EliminatedCount)
	record, err := s.appendAudit(ctx, t, day, msg, models.EliminationDetails{
		Outcome:       models.OutcomeAlreadyProcessed,
		EliminatedIDs: []string{},
	})
	if err != nil {
		return nil, err
	}
	s.Log.Info("[Elimination] day already processed", "tournament_id", t.ID, "day", day, "run_id", run.ID)
	return &RunSummary{
		TournamentID:  t.ID,
		Status:        RunAlreadyProcessed,
		Message:       msg,
		Day:           day,
		Victims:       []string{},
		AuditRecordID: record.ID,
	}, nil
}

func (s *EliminationService) appendAudit(ctx context.Context, t models.Tournament, day int, msg string, details models.EliminationDetails) (*models.EliminationRecord, error) {
	record := models.EliminationRecord{
		ID:           uuid.NewString(),
		TournamentID: t.ID,
		DayNumber:    day,
		Message:      msg,
		Details:      details,
	}
	if err := s.DB.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to write audit record: %w", err)
	}
	s.archive(ctx, t, record)
	return &record, nil
}

func (s *EliminationService) loadTournament(ctx context.Context, id string) (*models.Tournament, error) {
	var t models.Tournament
	if err := s.DB.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %s: %w", id, err)
	}
	return &t, nil
}

func (s *EliminationService) findRun(ctx context.Context, tournamentID string, day int) (*models.EliminationRun, error) {
	var runs []models.EliminationRun
	err := s.DB.WithContext(ctx).
		Where("tournament_id = ? AND day_number = ?", tournamentID, day).
		Limit(1).
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check elimination run: %w", err)
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return &runs[0], nil
}

func (s *EliminationService) activeParticipants(ctx context.Context, tournamentID string) ([]models.Participant, error) {
	var participants []models.Participant
	err := s.DB.WithContext(ctx).
		Where("tournament_id = ? AND status = ?", tournamentID, models.ParticipantStatusActive).
		Find(&participants).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load active participants: %w", err)
	}
	return participants, nil
}

func (s *EliminationService) daySubmissions(ctx context.Context, day int, participants []models.Participant) ([]models.ScoreSubmission, error) {
	ids := make([]string, 0, len(participants))
	for _, p := range participants {
		ids = append(ids, p.ID)
	}

	var submissions []models.ScoreSubmission
	for start := 0; start < len(ids); start += submissionQueryChunk {
		end := start + submissionQueryChunk
		if end > len(ids) {
			end = len(ids)
		}
		var chunk []models.ScoreSubmission
		err := s.DB.WithContext(ctx).
			Where("day_number = ? AND participant_id IN ?", day, ids[start:end]).
			Find(&chunk).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load score submissions for day %d: %w", day, err)
		}
		submissions = append(submissions, chunk...)
	}
	return submissions, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
