package handlers

import (
	"trivia-survival/services"

	"github.com/gofiber/fiber/v2"
)

func SetupSurvivalRoutes(app *fiber.App, eliminationService *services.EliminationService) {
	app.Get("/health", func(c *fiber.Ctx) error {
		sqlDB, err := eliminationService.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(c.UserContext())
		}
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unhealthy", "error": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	survival := app.Group("/survival")

	// Daily trigger for every active tournament (cron / gateway)
	survival.Post("/eliminate", eliminationService.TriggerDailyElimination)

	survival.Post("/tournaments/:id/eliminate", eliminationService.TriggerTournamentElimination)
	survival.Get("/tournaments/:id/preview", eliminationService.PreviewElimination)
	survival.Get("/tournaments/:id/eliminations", eliminationService.GetEliminationRecords)
}
