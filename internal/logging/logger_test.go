package logging_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"unimoji/internal/config"
	"unimoji/internal/logging"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = t.TempDir()

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello from config", logging.String("k", "v"))

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "unimoji.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "hello from config") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLoggerOmitsCallerForInfo(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-info.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "iconcache").Info("message without caller", logging.Int("missing", 3))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", line)
	}
	if !strings.Contains(line, "INFO iconcache: message without caller missing=3") {
		t.Fatalf("unexpected console line: %q", line)
	}
}

func TestConsoleLoggerIncludesCallerForDebug(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-debug.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("message with caller")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), ".go:") {
		t.Fatalf("expected caller information in debug logs, got %q", content)
	}
}

func TestJSONLoggerFieldNames(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("json message", logging.String(logging.FieldGlyph, "😀"))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &record); err != nil {
		t.Fatalf("decode json log: %v (%q)", err, content)
	}
	if record["level"] != "warn" {
		t.Fatalf("expected lowercase level, got %v", record["level"])
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", record)
	}
	if record[logging.FieldGlyph] != "😀" {
		t.Fatalf("expected glyph field, got %v", record[logging.FieldGlyph])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	logger, err := logging.New(logging.Options{Format: "console", Level: "invalid"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if logger.Enabled(t.Context(), slog.LevelDebug) {
		t.Fatal("expected debug to be disabled at default level")
	}
	if !logger.Enabled(t.Context(), slog.LevelInfo) {
		t.Fatal("expected info to be enabled at default level")
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	logging.WarnWithContext(logger, "delete failed", "icon_cache_delete_failed",
		logging.Error(errors.New("permission denied")),
		logging.String(logging.FieldImpact, "stale icon remains"))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record[logging.FieldEventType] != "icon_cache_delete_failed" {
		t.Fatalf("unexpected event_type: %v", record[logging.FieldEventType])
	}
	if record[logging.FieldErrorHint] != "check logs for details" {
		t.Fatalf("expected default error hint, got %v", record[logging.FieldErrorHint])
	}
	if record[logging.FieldImpact] != "stale icon remains" {
		t.Fatalf("expected caller impact to be preserved, got %v", record[logging.FieldImpact])
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(t.Context(), slog.LevelError) {
		t.Fatal("expected nop logger to be disabled")
	}
	logging.NewComponentLogger(nil, "lookup").Error("ignored")
}

func TestConsoleLoggerRendersDerivedAttrs(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console-attrs.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	base := logging.NewComponentLogger(logger, "lookup").With(logging.String(logging.FieldQuery, "thumbs up"))
	base.WithGroup("uni").Info("query answered", logging.Int("entries", 2), logging.String(logging.FieldGlyph, "👍"))
	base.Warn("query failed", logging.Error(errors.New("exit status 2")))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", content)
	}
	if !strings.Contains(lines[0], `INFO lookup: query answered query="thumbs up" uni.entries=2 uni.glyph=👍`) {
		t.Fatalf("unexpected grouped line: %q", lines[0])
	}
	if !strings.Contains(lines[1], `WARN lookup: query failed query="thumbs up" error="exit status 2"`) {
		t.Fatalf("unexpected warning line: %q", lines[1])
	}
}
