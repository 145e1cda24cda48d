package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port string

	DatabaseURL string

	ClerkSecretKey     string
	ClerkWebhookSecret string
	AdminClerkIDs      []string

	// Redis; empty disables the summary cache
	RedisURL        string
	SummaryCacheTTL time.Duration

	// Push reminders
	FCMCredentialsFile string
	ReminderInterval   time.Duration
	ReminderHour       int

	DefaultTimezone string

	MetricsUser string
	MetricsPass string
	PprofSecret string

	RateLimitRPS   float64
	RateLimitBurst int
}

// Load loads configuration from the environment, reading .env first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "3333"),
		DatabaseURL: getEnv("DATABASE_URL", ""),

		ClerkSecretKey:     getEnv("CLERK_SECRET_KEY", ""),
		ClerkWebhookSecret: getEnv("CLERK_WEBHOOK_SECRET", ""),
		AdminClerkIDs:      getListEnv("ADMIN_CLERK_IDS"),

		RedisURL:        getEnv("REDIS_URL", ""),
		SummaryCacheTTL: getDurationEnv("SUMMARY_CACHE_TTL", 10*time.Minute),

		FCMCredentialsFile: getEnv("FCM_CREDENTIALS_FILE", "./serviceAccountKey.json"),
		ReminderInterval:   getDurationEnv("REMINDER_INTERVAL", time.Hour),
		ReminderHour:       getIntEnv("REMINDER_HOUR", 20),

		DefaultTimezone: getEnv("DEFAULT_TIMEZONE", "UTC"),

		MetricsUser: getEnv("METRICS_USER", ""),
		MetricsPass: getEnv("METRICS_PASS", ""),
		PprofSecret: getEnv("PPROF_SECRET", ""),

		RateLimitRPS:   getFloatEnv("RATE_LIMIT_RPS", 5),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 30),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL environment variable is not set"))
	}
	if c.ClerkSecretKey == "" {
		errs = append(errs, errors.New("CLERK_SECRET_KEY environment variable is not set"))
	}
	if c.ReminderHour < 0 || c.ReminderHour > 23 {
		errs = append(errs, errors.New("REMINDER_HOUR must be between 0 and 23"))
	}
	if c.ReminderInterval <= 0 {
		errs = append(errs, errors.New("REMINDER_INTERVAL must be a positive duration"))
	}
	if c.SummaryCacheTTL < 0 {
		errs = append(errs, errors.New("SUMMARY_CACHE_TTL must not be negative"))
	}
	if _, err := time.LoadLocation(c.DefaultTimezone); err != nil {
		errs = append(errs, errors.New("DEFAULT_TIMEZONE is not a valid IANA timezone"))
	}
	return errors.Join(errs...)
}

// IsAdmin reports whether clerkID is listed in ADMIN_CLERK_IDS.
func (c *Config) IsAdmin(clerkID string) bool {
	for _, id := range c.AdminClerkIDs {
		if id == clerkID {
			return true
		}
	}
	return false
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getFloatEnv(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getListEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
