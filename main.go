package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"trivia-survival/config"
	"trivia-survival/handlers"
	"trivia-survival/middleware"
	"trivia-survival/models"
	"trivia-survival/services"
	"trivia-survival/utils"
	"trivia-survival/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/lmittmann/tint"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ invalid configuration: %v\n", err)
		os.Exit(1)
	}
	setupLogging(cfg.LogLevel)

	if err := run(cfg); err != nil {
		slog.Error("❌ survival service stopped", "error", err)
		os.Exit(1)
	}
}

func setupLogging(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      lvl,
		TimeFormat: time.DateTime,
	})))
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	eliminationService := services.NewEliminationService(db, cfg.Rules)

	if cfg.RedisURL != "" {
		locker, err := services.NewRedisRunLocker(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer locker.Close()
		eliminationService.Locker = locker
		slog.Info("✅ Redis run lock enabled")
	}

	if cfg.R2.Enabled() {
		archive, err := utils.NewR2Archive(ctx, cfg.R2)
		if err != nil {
			return err
		}
		eliminationService.Archiver = archive
		slog.Info("✅ R2 audit archive enabled", "bucket", cfg.R2.Bucket)
	}

	if cfg.AMQPURL != "" {
		publisher, err := workers.NewEliminationPublisher(cfg.AMQPURL, cfg.EliminationQueue)
		if err != nil {
			return err
		}
		defer publisher.Close()
		eliminationService.Notifier = publisher
		slog.Info("✅ elimination notifications enabled", "queue", cfg.EliminationQueue)
	}

	if cfg.SchedulerEnabled {
		sched, err := eliminationService.StartEliminationScheduler(cfg.EliminationCron)
		if err != nil {
			return err
		}
		defer func() {
			if err := sched.Shutdown(); err != nil {
				slog.Warn("scheduler shutdown", "error", err)
			}
		}()
	}

	app := fiber.New(fiber.Config{
		AppName:               "trivia-survival",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(middleware.RequestContextMiddleware())
	app.Use(middleware.ServiceTokenMiddleware(cfg.ServiceToken))
	handlers.SetupSurvivalRoutes(app, eliminationService)

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(fmt.Sprintf(":%d", cfg.Port))
	}()
	slog.Info("✅ Server running", "port", cfg.Port, "rules", cfg.Rules, "scheduler", cfg.SchedulerEnabled)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server...")
	return app.ShutdownWithTimeout(10 * time.Second)
}
