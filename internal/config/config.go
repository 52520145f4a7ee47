package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration loaded from the environment.
type Config struct {
	ServerAddr string

	JWTSecret string
	TokenTTL  time.Duration

	WatchPaths   []string
	PollInterval time.Duration
	QueueDepth   int
	MaxReadBytes int

	// In-memory log caps; zero keeps the store defaults.
	MaxAlerts int
	MaxEvents int

	// Detection tuning; zero keeps the reference defaults.
	HighEntropyThreshold float64
	BurstHorizon         time.Duration
	BurstBaseThreshold   float64
	BurstAdaptation      float64
}

// Load reads configuration from .env (if present) and the environment.
func Load() *Config {
	// An absent .env file is fine, real deployments set the environment directly.
	_ = godotenv.Load()

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8000"),

		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),
		TokenTTL:  getEnvDuration("TOKEN_TTL", 24*time.Hour),

		WatchPaths:   getEnvList("WATCH_PATHS"),
		PollInterval: getEnvDuration("POLL_INTERVAL", 2*time.Second),
		QueueDepth:   getEnvInt("QUEUE_DEPTH", 256),
		MaxReadBytes: getEnvInt("MAX_READ_BYTES", 64*1024),

		MaxAlerts: getEnvInt("MAX_ALERTS", 0),
		MaxEvents: getEnvInt("MAX_EVENTS", 0),

		HighEntropyThreshold: getEnvFloat("HIGH_ENTROPY_THRESHOLD", 0),
		BurstHorizon:         getEnvDuration("BURST_HORIZON", 0),
		BurstBaseThreshold:   getEnvFloat("BURST_BASE_THRESHOLD", 0),
		BurstAdaptation:      getEnvFloat("BURST_ADAPTATION", 0),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
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

// getEnvList parses a comma-separated environment variable, dropping blanks.
func getEnvList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
