package logginghelpers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMultiHandlerWritesEverywhere(t *testing.T) {
	var text, js bytes.Buffer
	logger := slog.New(NewMultiHandler(
		slog.NewTextHandler(&text, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&js, &slog.HandlerOptions{Level: LevelReportIO}),
	))

	logger.Log(context.Background(), LevelReportIO, "created event", "id", 4)
	if text.Len() != 0 {
		t.Errorf("text handler should have skipped an IO record: %q", text.String())
	}
	if !strings.Contains(js.String(), `"id":4`) {
		t.Errorf("json handler missed the record: %q", js.String())
	}

	logger.With("student", 7).Info("try add")
	if !strings.Contains(text.String(), "student=7") || !strings.Contains(js.String(), `"student":7`) {
		t.Errorf("attrs were not passed to every handler: %q %q", text.String(), js.String())
	}
}

func TestNewLoggerWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cample.log")
	var console bytes.Buffer
	logger, closer, err := NewLogger(&console, Options{Format: "text", Level: LevelReportIO, File: path})
	if err != nil {
		t.Fatal(err)
	}
	logger.Log(context.Background(), LevelReportIO, "materialized enrollment")
	if err := closer(); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(console.String(), "level=IO") {
		t.Errorf("custom level name missing: %q", console.String())
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(raw), &record); err != nil {
		t.Fatalf("log file is not json: %v", err)
	}
	if record["level"] != "IO" || record["msg"] != "materialized enrollment" {
		t.Errorf("record %v", record)
	}
}

func TestNewLoggerRejectsUnknownFormat(t *testing.T) {
	if _, _, err := NewLogger(&bytes.Buffer{}, Options{Format: "xml"}); err == nil {
		t.Error("expected an error")
	}
}
