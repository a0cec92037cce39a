package httpclient

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestZeroLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZeroLoggerWithOutput(&buf, "warn")

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("Expected debug/info filtered at warn level, got %q", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("Expected warn/error emitted, got %q", out)
	}
}

func TestZeroLoggerKeyValuePairs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZeroLoggerWithOutput(&buf, "debug")

	logger.Debug("Scheduling retry", "method", "GET", "attempt", 3)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "Scheduling retry" {
		t.Errorf("Expected message field, got %v", entry["message"])
	}
	if entry["method"] != "GET" {
		t.Errorf("Expected method field, got %v", entry["method"])
	}
	if entry["attempt"] != float64(3) {
		t.Errorf("Expected attempt field, got %v", entry["attempt"])
	}
}

func TestZeroLoggerUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZeroLoggerWithOutput(&buf, "nonsense")

	logger.Debug("hidden")
	logger.Info("visible")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected debug filtered at info fallback, got %q", out)
	}
	if !strings.Contains(out, "visible") {
		t.Errorf("Expected info emitted, got %q", out)
	}
}

func TestZeroLoggerOddKeyValueCount(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZeroLoggerWithOutput(&buf, "debug")

	// The dangling key is dropped rather than panicking.
	logger.Info("partial", "key")

	if !strings.Contains(buf.String(), "partial") {
		t.Errorf("Expected message emitted, got %q", buf.String())
	}
}
