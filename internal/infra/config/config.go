package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"sentinela_corte_bot/internal/domain/report"

	"github.com/joho/godotenv"
)

// Schedule modes for the standing loop.
const (
	ModePoll   = "poll"   // fixed-interval ticker, guard checked every tick
	ModeAgenda = "agenda" // weekly agenda file, sleep until the next slot
	ModeCron   = "cron"   // robfig cron spec
)

// State store backends.
const (
	StateBackendFile     = "file"
	StateBackendPostgres = "postgres"
	StateBackendRedis    = "redis"
)

// AppConfig holds all configuration for the application.
type AppConfig struct {
	// Sales database (Oracle).
	DBUsername    string
	DBPassword    string
	DBHostname    string
	DBPort        string
	DBServiceName string

	// Mail transport.
	EmailUser     string
	EmailPassword string
	SMTPHost      string
	SMTPPort      string
	EmailTo       []string
	EmailCc       []string
	EmailBcc      []string

	// Gate and scheduling.
	TargetTime   time.Duration // offset from local midnight
	PollInterval time.Duration
	ScheduleMode string
	CronSpec     string
	AgendaPath   string

	// Run-state persistence.
	StateBackend string
	StatePath    string
	DatabaseURL  string
	RedisAddr    string
	RedisDB      int

	// Movement predicate: which totals gate the daily send, and how
	// they combine.
	MovementCategories []string
	MovementCombine    report.Combine

	// Report assets.
	SQLDir       string
	TemplatePath string

	// Optional failure alerting.
	TelegramToken       string
	TelegramAlertChatID int64

	LogLevel    string
	LogFile     string
	Environment string
}

// OracleDSN builds the godror connect string for the sales database.
func (c *AppConfig) OracleDSN() string {
	return fmt.Sprintf(`user=%q password=%q connectString=%q`,
		c.DBUsername, c.DBPassword,
		fmt.Sprintf("%s:%s/%s", c.DBHostname, c.DBPort, c.DBServiceName))
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.DBUsername = os.Getenv("DB_USERNAME")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBHostname = os.Getenv("DB_HOSTNAME")
	cfg.DBPort = envOr("DB_PORT", "1521")
	cfg.DBServiceName = os.Getenv("DB_SERVICE_NAME")
	if cfg.DBUsername == "" || cfg.DBPassword == "" || cfg.DBHostname == "" || cfg.DBServiceName == "" {
		return nil, fmt.Errorf("DB_USERNAME, DB_PASSWORD, DB_HOSTNAME and DB_SERVICE_NAME must be set")
	}

	cfg.EmailUser = os.Getenv("EMAIL_USER")
	if cfg.EmailUser == "" {
		return nil, fmt.Errorf("EMAIL_USER is not set")
	}
	cfg.EmailPassword = os.Getenv("EMAIL_PASSWORD")
	if cfg.EmailPassword == "" {
		return nil, fmt.Errorf("EMAIL_PASSWORD is not set")
	}
	cfg.SMTPHost = envOr("OFFICE365_SMTP_SERVER", "smtp.office365.com")
	cfg.SMTPPort = envOr("OFFICE365_SMTP_PORT", "587")

	cfg.EmailTo = splitEmails(os.Getenv("EMAIL_PARA"))
	cfg.EmailCc = splitEmails(os.Getenv("EMAIL_CC"))
	cfg.EmailBcc = splitEmails(os.Getenv("EMAIL_CCO"))
	if len(cfg.EmailTo) == 0 {
		return nil, fmt.Errorf("EMAIL_PARA must contain at least one recipient")
	}

	cfg.TargetTime, err = parseTimeOfDay(envOr("TARGET_TIME", "08:00"))
	if err != nil {
		return nil, fmt.Errorf("invalid TARGET_TIME: %w", err)
	}

	pollSeconds, err := strconv.Atoi(envOr("CORTE_POLL_SECONDS", "60"))
	if err != nil || pollSeconds <= 0 {
		return nil, fmt.Errorf("invalid CORTE_POLL_SECONDS: %q", os.Getenv("CORTE_POLL_SECONDS"))
	}
	cfg.PollInterval = time.Duration(pollSeconds) * time.Second

	cfg.ScheduleMode = strings.ToLower(envOr("SCHEDULE_MODE", ModePoll))
	switch cfg.ScheduleMode {
	case ModePoll:
	case ModeCron:
		cfg.CronSpec = envOr("CRON_SPEC", "* 8-23 * * *")
	case ModeAgenda:
		cfg.AgendaPath = os.Getenv("AGENDA_FILE")
		if cfg.AgendaPath == "" {
			return nil, fmt.Errorf("AGENDA_FILE must be set when SCHEDULE_MODE=agenda")
		}
	default:
		return nil, fmt.Errorf("invalid SCHEDULE_MODE: %q", cfg.ScheduleMode)
	}

	cfg.StateBackend = strings.ToLower(envOr("STATE_BACKEND", StateBackendFile))
	switch cfg.StateBackend {
	case StateBackendFile:
		cfg.StatePath = envOr("STATE_PATH", "state/sentinela_corte_state.json")
	case StateBackendPostgres:
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL must be set when STATE_BACKEND=postgres")
		}
	case StateBackendRedis:
		cfg.RedisAddr = os.Getenv("REDIS_ADDR")
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR must be set when STATE_BACKEND=redis")
		}
		cfg.RedisDB, err = strconv.Atoi(envOr("REDIS_DB", "0"))
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
	default:
		return nil, fmt.Errorf("invalid STATE_BACKEND: %q", cfg.StateBackend)
	}

	cfg.MovementCategories = splitList(envOr("MOVEMENT_CATEGORIES", "FATURAMENTO"))
	cfg.MovementCombine = report.Combine(strings.ToLower(envOr("MOVEMENT_COMBINE", string(report.CombineAny))))
	if !cfg.MovementCombine.Valid() {
		return nil, fmt.Errorf("invalid MOVEMENT_COMBINE: %q (want any|all)", cfg.MovementCombine)
	}

	cfg.SQLDir = envOr("SQL_DIR", "sql")
	cfg.TemplatePath = envOr("TEMPLATE_PATH", "email_base.html")

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if chatID := os.Getenv("TELEGRAM_ALERT_CHAT_ID"); chatID != "" {
		cfg.TelegramAlertChatID, err = strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ALERT_CHAT_ID: %w", err)
		}
	}

	cfg.LogLevel = strings.ToLower(envOr("LOG_LEVEL", "info"))
	cfg.LogFile = envOr("LOG_FILE", "log/sentinela-corte.log")
	cfg.Environment = strings.ToLower(envOr("ENVIRONMENT", "development"))

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitEmails(raw string) []string {
	var out []string
	for _, m := range strings.Split(raw, ",") {
		m = strings.TrimSpace(m)
		if strings.Contains(m, "@") {
			out = append(out, m)
		}
	}
	return out
}

func splitList(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		v = strings.ToUpper(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// parseTimeOfDay parses "HH:MM" into an offset from midnight.
func parseTimeOfDay(raw string) (time.Duration, error) {
	t, err := time.Parse("15:04", raw)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
