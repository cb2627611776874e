package logx

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Config{Output: &buf})
	logger.Debug().Msg("hidden")
	logger.Info().Str("intent", "pricing").Msg("shown")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry["message"] != "shown" || entry["intent"] != "pricing" || entry["level"] != "info" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["caller"]; !ok {
		t.Fatalf("missing caller field: %v", entry)
	}
}

func TestNewDebug(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Config{Debug: true, Output: &buf})
	logger.Debug().Msg("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Fatalf("debug line missing: %q", buf.String())
	}
}

func TestNewPretty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(Config{PrettyFormat: true, Output: &buf})
	logger.Info().Msg("hello")
	out := buf.String()
	if !strings.Contains(out, "hello") || strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Fatalf("expected console output, got %q", out)
	}
}
