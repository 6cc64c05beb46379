package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"trivia-survival/elimination"
)

// Config holds all runtime settings of the survival service.
type Config struct {
	Port         int
	DatabaseURL  string
	ServiceToken string
	LogLevel     string

	// Elimination
	EliminationCron  string
	SchedulerEnabled bool
	Rules            elimination.Rules

	// Optional integrations, disabled when empty
	RedisURL         string
	AMQPURL          string
	EliminationQueue string
	R2               R2Config
}

// R2Config points the audit archive at a Cloudflare R2 bucket.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
}

func (c R2Config) Enabled() bool {
	return c.Bucket != "" && c.AccountID != ""
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads configuration from the environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		ServiceToken:     os.Getenv("SERVICE_TOKEN"),
		LogLevel:         getEnvOrDefault("LOG_LEVEL", "info"),
		EliminationCron:  getEnvOrDefault("ELIMINATION_CRON", "5 0 * * *"),
		RedisURL:         os.Getenv("REDIS_URL"),
		AMQPURL:          os.Getenv("AMQP_URL"),
		EliminationQueue: getEnvOrDefault("ELIMINATION_QUEUE", "survival.eliminations"),
		R2: R2Config{
			AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
			Bucket:          os.Getenv("R2_BUCKET_NAME"),
		},
	}

	var err error
	if cfg.Port, err = strconv.Atoi(getEnvOrDefault("PORT", "5200")); err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	if cfg.SchedulerEnabled, err = strconv.ParseBool(getEnvOrDefault("SCHEDULER_ENABLED", "true")); err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_ENABLED: %w", err)
	}

	rules := elimination.DefaultRules()
	if rules.Percent, err = strconv.Atoi(getEnvOrDefault("ELIMINATION_PERCENT", strconv.Itoa(elimination.DefaultPercent))); err != nil {
		return nil, fmt.Errorf("invalid ELIMINATION_PERCENT: %w", err)
	}
	if rules.Policy, err = elimination.ParseSubmissionPolicy(strings.ToLower(os.Getenv("SUBMISSION_POLICY"))); err != nil {
		return nil, fmt.Errorf("invalid SUBMISSION_POLICY: %w", err)
	}
	if rules.ProtectLastSurvivor, err = strconv.ParseBool(getEnvOrDefault("PROTECT_LAST_SURVIVOR", "false")); err != nil {
		return nil, fmt.Errorf("invalid PROTECT_LAST_SURVIVOR: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	cfg.Rules = rules

	// Required
	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	if cfg.ServiceToken == "" {
		return nil, errors.New("SERVICE_TOKEN is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
