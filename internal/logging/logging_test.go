package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewFormats(t *testing.T) {
	var buf bytes.Buffer
	New(&Config{Level: LevelInfo, Format: FormatJSON}, &buf).Info("Draft submitted", "id", "abc")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "Draft submitted" || entry["id"] != "abc" {
		t.Errorf("Unexpected entry %v", entry)
	}

	buf.Reset()
	New(&Config{Level: LevelInfo, Format: FormatText}, &buf).Info("Draft submitted", "id", "abc")
	if !strings.Contains(buf.String(), "id=abc") {
		t.Errorf("Expected text output, got %q", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&Config{Level: LevelWarn, Format: FormatText}, &buf)
	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("Unexpected output %q", buf.String())
	}
}

func TestToSlogLevel(t *testing.T) {
	tests := []struct {
		level    Level
		expected slog.Level
	}{
		{LevelDebug, slog.LevelDebug},
		{LevelInfo, slog.LevelInfo},
		{LevelWarn, slog.LevelWarn},
		{LevelError, slog.LevelError},
		{"unknown", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := tt.level.ToSlogLevel(); got != tt.expected {
			t.Errorf("%s: expected %v, got %v", tt.level, tt.expected, got)
		}
	}
}

func TestFinalizeEnv(t *testing.T) {
	t.Setenv("TEST_LOG_LEVEL", "debug")
	t.Setenv("TEST_LOG_FORMAT", "xml")

	cfg := &Config{}
	err := cfg.Finalize(&Env{Level: "TEST_LOG_LEVEL", Format: "TEST_LOG_FORMAT"})
	if err == nil || !strings.Contains(err.Error(), "invalid log format") {
		t.Errorf("Expected invalid format error, got %v", err)
	}
	if cfg.Level != LevelDebug {
		t.Errorf("Expected env level applied, got %s", cfg.Level)
	}
}
