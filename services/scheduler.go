// services/scheduler.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

const eliminationJobName = "survival-elimination"

// StartEliminationScheduler runs the daily elimination on cronExpr (UTC).
// Singleton mode keeps a slow run from overlapping the next one.
func (s *EliminationService) StartEliminationScheduler(cronExpr string) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler(
		gocron.WithLocation(time.UTC),
		gocron.WithClock(s.Clock),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(s.runScheduled),
		gocron.WithName(eliminationJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, fmt.Errorf("failed to schedule elimination job %q: %w", cronExpr, err)
	}

	sched.Start()
	s.Log.Info("[Scheduler] elimination job scheduled", "cron", cronExpr)
	return sched, nil
}

func (s *EliminationService) runScheduled() {
	ctx, cancel := context.WithTimeout(context.Background(), runLockTTL)
	defer cancel()

	summaries, err := s.RunActiveTournaments(ctx)
	for _, sum := range summaries {
		s.Log.Info("[Scheduler] elimination run finished",
			"tournament_id", sum.TournamentID,
			"status", sum.Status,
			"day", sum.Day,
			"eliminated", sum.Eliminated,
		)
	}
	if err != nil {
		s.Log.Error("[Scheduler] elimination run failed", "error", err)
	}
}
