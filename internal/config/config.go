package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/themessagevault/vault-backend/internal/moderation"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis (vault counters)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Admin moderation panel
	JWTSecret  string
	AdminToken string

	// Perspective API
	PerspectiveAPIKey  string
	PerspectiveURL     string
	PerspectiveTimeout time.Duration
	Thresholds         moderation.Thresholds

	// Pre-filter
	MinMessageLength int
	MaxMessageLength int

	// Session cookie hashing
	SessionHashKey string

	// Support candles
	CandleLifetime time.Duration

	// Logging
	LogLevel         slog.Level
	LogRetentionDays int

	// Sentry
	SentryDSN string
	AppEnv    string

	// Server
	Port        string
	CORSOrigins string
}

// Load reads configuration from the environment. A .env file in the working
// directory, if present, is loaded first and never overrides variables that
// are already set.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	defaults := moderation.DefaultThresholds()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "message_vault"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       parseInt(getEnv("REDIS_DB", "0"), 0),

		JWTSecret:  getEnv("JWT_SECRET", ""),
		AdminToken: getEnv("ADMIN_TOKEN", ""),

		PerspectiveAPIKey:  getEnv("PERSPECTIVE_API_KEY", ""),
		PerspectiveURL:     getEnv("PERSPECTIVE_API_URL", moderation.DefaultPerspectiveURL),
		PerspectiveTimeout: parseDuration(getEnv("PERSPECTIVE_TIMEOUT", "5s"), moderation.DefaultPerspectiveTimeout),
		Thresholds: moderation.Thresholds{
			Toxicity:       parseThreshold("MODERATION_THRESHOLD_TOXICITY", defaults.Toxicity),
			SevereToxicity: parseThreshold("MODERATION_THRESHOLD_SEVERE_TOXICITY", defaults.SevereToxicity),
			IdentityAttack: parseThreshold("MODERATION_THRESHOLD_IDENTITY_ATTACK", defaults.IdentityAttack),
			Insult:         parseThreshold("MODERATION_THRESHOLD_INSULT", defaults.Insult),
			Profanity:      parseThreshold("MODERATION_THRESHOLD_PROFANITY", defaults.Profanity),
			Threat:         parseThreshold("MODERATION_THRESHOLD_THREAT", defaults.Threat),
		},

		MinMessageLength: parseInt(getEnv("MESSAGE_MIN_LENGTH", ""), moderation.DefaultMinLength),
		MaxMessageLength: parseInt(getEnv("MESSAGE_MAX_LENGTH", ""), moderation.DefaultMaxLength),

		SessionHashKey: getEnv("SESSION_HASH_KEY", ""),

		CandleLifetime: parseDuration(getEnv("CANDLE_LIFETIME", "168h"), 7*24*time.Hour),

		LogLevel:         parseLevel(getEnv("LOG_LEVEL", "info")),
		LogRetentionDays: parseInt(getEnv("LOG_RETENTION_DAYS", "30"), 30),

		SentryDSN: getEnv("SENTRY_DSN", ""),
		AppEnv:    getEnv("APP_ENV", "development"),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// Perspective returns the scorer configuration.
func (c *Config) Perspective() moderation.PerspectiveConfig {
	return moderation.PerspectiveConfig{
		APIKey:     c.PerspectiveAPIKey,
		URL:        c.PerspectiveURL,
		Timeout:    c.PerspectiveTimeout,
		Thresholds: c.Thresholds,
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// parseThreshold keeps the default for missing, malformed or out-of-range
// values so a typo can never disable a check.
func parseThreshold(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || v > 1 {
		slog.Warn("ignoring invalid moderation threshold", "key", key, "value", raw)
		return fallback
	}
	return v
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
