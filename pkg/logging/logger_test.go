package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{" warn ", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"", InfoLevel},
		{"verbose", InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestStructuredLogger_WritesJSONWithRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger("bridge-loader", "test", InfoLevel)
	logger.SetOutput(&buf)

	ctx := WithRunID(context.Background(), "run-42")
	logger.Debug(ctx, "[HIDDEN] below level", Fields{})
	logger.Error(ctx, "[STAGE_ERROR] Stage failed", Fields{"stage": "load"}, errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}

	var entry LogEntry
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if entry.RunID != "run-42" {
		t.Errorf("RunID = %q, want run-42", entry.RunID)
	}
	if entry.Level != "ERROR" || entry.Error != "boom" {
		t.Errorf("entry = %+v", entry)
	}
	if entry.Fields["stage"] != "load" {
		t.Errorf("Fields = %v", entry.Fields)
	}
	if entry.Line == 0 {
		t.Error("caller line should be recorded for errors")
	}
}

func TestContextLogger_MergesFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger("bridge-loader", "test", DebugLevel)
	logger.SetOutput(&buf)

	stageLogger := logger.WithFields(Fields{"stage": "extract_dimensions", "table": "Design"})
	stageLogger.Info(context.Background(), "[STAGE] done", Fields{"table": "Material", "rows": 3})

	var entry LogEntry
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if entry.Fields["stage"] != "extract_dimensions" {
		t.Errorf("stage = %v", entry.Fields["stage"])
	}
	if entry.Fields["table"] != "Material" {
		t.Errorf("table = %v, want call-site override", entry.Fields["table"])
	}
}
