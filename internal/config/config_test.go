package config

import (
	"log/slog"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("NOTEBLOCKS_TEST_INT", "25")
	if got := getEnvInt("NOTEBLOCKS_TEST_INT", 10); got != 25 {
		t.Errorf("getEnvInt = %d, want 25", got)
	}

	t.Setenv("NOTEBLOCKS_TEST_INT", "not-a-number")
	if got := getEnvInt("NOTEBLOCKS_TEST_INT", 10); got != 10 {
		t.Errorf("getEnvInt with garbage = %d, want default 10", got)
	}

	if got := getEnvInt("NOTEBLOCKS_TEST_UNSET", 7); got != 7 {
		t.Errorf("getEnvInt unset = %d, want default 7", got)
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		SurrealDBURL:       "ws://localhost:8000/rpc",
		SurrealDBNamespace: "noteblocks",
		SurrealDBDatabase:  "notes",
		CheckpointEvery:    10,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() on valid config = %v", err)
	}

	noURL := valid
	noURL.SurrealDBURL = ""
	if err := noURL.Validate(); err == nil {
		t.Error("Validate() accepted empty store URL")
	}

	badInterval := valid
	badInterval.CheckpointEvery = 0
	if err := badInterval.Validate(); err == nil {
		t.Error("Validate() accepted checkpoint interval 0")
	}
}
