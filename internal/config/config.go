// Package config loads the application configuration from the environment
// and the taxonomy file. Everything the core packages need (closed value
// lists, cycle constants) is materialized here and injected at construction
// time; nothing reads the environment after startup.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

type Config struct {
	// Telegram bot
	TelegramToken string
	AllowedUserID int64

	// Database
	SQLiteDBPath string

	// HTTP API
	Port            string
	SummaryCacheTTL time.Duration

	// AMQP (optional: empty URL disables the event bus)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Taxonomy file (empty means the embedded default)
	TaxonomyPath string

	// Billing cycle
	OldResetDay       int
	NewResetDay       int
	CycleChangeDate   time.Time
	TransitionEndDate time.Time
}

func Load() *Config {
	return &Config{
		TelegramToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		AllowedUserID: getEnvInt64("ALLOWED_USER_ID", 0),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/despesas.db"),

		Port:            getEnv("PORT", "8082"),
		SummaryCacheTTL: getEnvDuration("SUMMARY_CACHE_TTL", 5*time.Minute),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "despesas"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "expense_events"),

		TaxonomyPath: getEnv("TAXONOMY_PATH", ""),

		OldResetDay:       getEnvInt("CYCLE_RESET_DAY_OLD", 4),
		NewResetDay:       getEnvInt("CYCLE_RESET_DAY_NEW", 17),
		CycleChangeDate:   getEnvDate("CYCLE_CHANGE_DATE", time.Date(2025, 10, 4, 0, 0, 0, 0, time.UTC)),
		TransitionEndDate: getEnvDate("CYCLE_TRANSITION_END_DATE", time.Date(2025, 11, 16, 0, 0, 0, 0, time.UTC)),
	}
}

// Validate checks the configuration shape and returns every problem found
// in a single error.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		problems = append(problems, "SQLite database path cannot be empty")
	} else if dir := filepath.Dir(c.SQLiteDBPath); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				problems = append(problems, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
			}
		}
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			problems = append(problems, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			problems = append(problems, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			problems = append(problems, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SummaryCacheTTL < time.Second || c.SummaryCacheTTL > 24*time.Hour {
		problems = append(problems, fmt.Sprintf("invalid summary cache TTL %v: must be between 1s and 24h", c.SummaryCacheTTL))
	}

	if c.OldResetDay < 1 || c.OldResetDay > 28 {
		problems = append(problems, fmt.Sprintf("invalid old reset day %d: must be between 1 and 28", c.OldResetDay))
	}
	if c.NewResetDay < 1 || c.NewResetDay > 28 {
		problems = append(problems, fmt.Sprintf("invalid new reset day %d: must be between 1 and 28", c.NewResetDay))
	}
	if !c.CycleChangeDate.Before(c.TransitionEndDate) {
		problems = append(problems, "cycle change date must precede the transition end date")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvDate(key string, defaultValue time.Time) time.Time {
	if value := os.Getenv(key); value != "" {
		if d, err := time.Parse(dateLayout, value); err == nil {
			return d
		}
	}
	return defaultValue
}
