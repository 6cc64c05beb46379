package services

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type runResponse struct {
	Success bool `json:"success"`
	*RunSummary
}

// TriggerTournamentElimination runs the elimination for the tournament in :id.
func (s *EliminationService) TriggerTournamentElimination(c *fiber.Ctx) error {
	summary, err := s.RunTournament(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(runResponse{Success: true, RunSummary: summary})
}

// TriggerDailyElimination runs every active tournament. Used by external schedulers.
func (s *EliminationService) TriggerDailyElimination(c *fiber.Ctx) error {
	summaries, err := s.RunActiveTournaments(c.UserContext())
	if err != nil {
		s.Log.Error("[Elimination] daily run failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"runs":    summaries,
		})
	}
	if len(summaries) == 0 {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "No active tournament",
			"runs":    summaries,
		})
	}
	return c.JSON(fiber.Map{
		"success": true,
		"runs":    summaries,
	})
}

func (s *EliminationService) PreviewElimination(c *fiber.Ctx) error {
	preview, err := s.Preview(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(preview)
}

func (s *EliminationService) GetEliminationRecords(c *fiber.Ctx) error {
	records, err := s.AuditRecords(c.UserContext(), c.Params("id"))
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(records)
}

func (s *EliminationService) errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, ErrTournamentNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, ErrRunInProgress):
		status = fiber.StatusConflict
	default:
		s.Log.Error("[Elimination] request failed", "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}
