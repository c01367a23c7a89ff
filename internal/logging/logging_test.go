package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhisek/quizgen/internal/config"
)

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := New(config.LogConfig{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer closer.Close()

	log.Debug().Msg("hidden")
	log.Info().Str("topic", "dogs").Msg("round created")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d: %q", len(lines), buf.String())
	}
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if entry["topic"] != "dogs" || entry["message"] != "round created" || entry["level"] != "info" {
		t.Errorf("unexpected entry: %v", entry)
	}
	if _, ok := entry["time"]; !ok {
		t.Error("expected a timestamp")
	}
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(config.LogConfig{Level: "debug", Format: "console"}, &buf)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Debug().Str("quiz_id", "q1").Msg("loaded")

	out := buf.String()
	if !strings.Contains(out, "loaded") || !strings.Contains(out, "quiz_id=") {
		t.Errorf("unexpected console output: %q", out)
	}
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "quizgen.log")
	log, closer, err := New(config.LogConfig{Level: "warn", Format: "json", File: path}, os.Stderr)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info().Msg("skipped")
	log.Warn().Msg("kept")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "skipped") || !strings.Contains(string(data), "kept") {
		t.Errorf("unexpected file contents: %q", data)
	}
}

func TestNew_BadLevel(t *testing.T) {
	if _, _, err := New(config.LogConfig{Level: "loud"}, os.Stderr); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestDefaultFile(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultFile(); got != filepath.Join("/data", "quizgen", "quizgen.log") {
		t.Errorf("DefaultFile() = %q", got)
	}
}
