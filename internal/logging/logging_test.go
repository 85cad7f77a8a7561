package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestConfig_Level(t *testing.T) {
	if got := Config(false).Level.Level(); got != zapcore.InfoLevel {
		t.Fatalf("expected info level, got %s", got)
	}
	if got := Config(true).Level.Level(); got != zapcore.DebugLevel {
		t.Fatalf("expected debug level, got %s", got)
	}
	if got := Config(false, WithEncoding("console")).Encoding; got != "console" {
		t.Fatalf("expected console encoding, got %s", got)
	}
}

func TestNew_WritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.json")
	logger, err := New(true, WithOutputPaths(path))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Debug("document rendered")
	_ = logger.Sync()

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(raw, &entry); err != nil {
		t.Fatalf("decode log %q: %v", raw, err)
	}
	if entry["msg"] != "document rendered" || entry["logger"] != "curriculo" || entry["level"] != "debug" {
		t.Fatalf("unexpected entry %v", entry)
	}
}
