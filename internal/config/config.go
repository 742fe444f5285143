// Package config loads noteblocks configuration from the environment.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
)

// Config holds all configuration values.
type Config struct {
	// SurrealDB connection
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// Migration
	CheckpointEvery int

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables, after applying a
// .env file from the working directory when one exists.
func Load() Config {
	// Missing .env is the normal case, not an error
	_ = godotenv.Load()

	return Config{
		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "noteblocks"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "notes"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		CheckpointEvery: getEnvInt("NOTEBLOCKS_CHECKPOINT_EVERY", 10),

		LogFile:  getEnv("NOTEBLOCKS_LOG_FILE", "/tmp/noteblocks.log"),
		LogLevel: parseLogLevel(getEnv("NOTEBLOCKS_LOG_LEVEL", "INFO")),
	}
}

// Validate checks the loaded configuration for values that cannot work.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.SurrealDBURL, validation.Required),
		validation.Field(&c.SurrealDBNamespace, validation.Required),
		validation.Field(&c.SurrealDBDatabase, validation.Required),
		validation.Field(&c.CheckpointEvery, validation.Min(1)),
	)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
