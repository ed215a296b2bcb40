package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	return entry
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		want  slog.Level
		known bool
	}{
		{"DEBUG", slog.LevelDebug, true},
		{"info", slog.LevelInfo, true},
		{"Warn", slog.LevelWarn, true},
		{"WARNING", slog.LevelWarn, true},
		{" error ", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, known := ParseLevel(tt.name)
			if level != tt.want || known != tt.known {
				t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tt.name, level, known, tt.want, tt.known)
			}

			t.Setenv(LevelEnvVar, tt.name)
			if got := getLogLevelFromEnv(); got != tt.want {
				t.Errorf("%s=%q gives %v, want %v", LevelEnvVar, tt.name, got, tt.want)
			}
		})
	}
}

func TestNewLoggerHonoursEnvironment(t *testing.T) {
	t.Setenv(LevelEnvVar, "ERROR")
	logger := NewLogger()
	ctx := context.Background()
	if logger.Enabled(ctx, slog.LevelWarn) {
		t.Error("WARN should be disabled at ERROR level")
	}
	if !logger.Enabled(ctx, slog.LevelError) {
		t.Error("ERROR should be enabled")
	}
}

func TestCorrelationID(t *testing.T) {
	a, b := GenerateCorrelationID(), GenerateCorrelationID()
	for _, id := range []string{a, b} {
		if _, err := uuid.Parse(id); err != nil {
			t.Errorf("generated ID %q is not a UUID: %v", id, err)
		}
	}
	if a == b {
		t.Error("two generated IDs are equal")
	}

	ctx := WithCorrelationID(context.Background(), "session-7")
	if got := GetCorrelationID(ctx); got != "session-7" {
		t.Errorf("GetCorrelationID() = %q, want session-7", got)
	}
	if got := GetCorrelationID(context.Background()); got != "" {
		t.Errorf("empty context gave %q", got)
	}
	if got := GetCorrelationID(WithCorrelationID(context.Background(), "")); got == "" {
		t.Errorf("an empty ID should be replaced by a generated one, got %q", got)
	}
}

func TestSanitizeAttributes(t *testing.T) {
	tests := []struct {
		attr     slog.Attr
		redacted bool
	}{
		{slog.String("Cookie", "sid=abc"), true},
		{slog.String("authorization_header", "Bearer x"), true},
		{slog.String("session_token", "t"), true},
		{slog.String("PASSWORD", "hunter2"), true},
		{slog.String("track", "monza"), false},
		{slog.String("control", "accelerate"), false},
		{slog.Float64("speed", 0.42), false},
	}

	for _, tt := range tests {
		t.Run(tt.attr.Key, func(t *testing.T) {
			got := sanitizeAttributes(nil, tt.attr)
			if redacted := got.Value.String() == "[REDACTED]"; redacted != tt.redacted {
				t.Errorf("sanitizeAttributes(%s) = %q, redacted should be %v", tt.attr.Key, got.Value.String(), tt.redacted)
			}
			if got.Key != tt.attr.Key {
				t.Errorf("key changed to %q", got.Key)
			}
		})
	}
}

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelDebug)
	ctx := WithCorrelationID(context.Background(), "race-1")

	tests := []struct {
		level string
		log   func()
	}{
		{"DEBUG", func() { logger.Debug(ctx, "frame", "dt", 16.7) }},
		{"INFO", func() { logger.Info(ctx, "frame", "phase", "running") }},
		{"WARN", func() { logger.Warn(ctx, "frame", "vehicle", 3) }},
		{"ERROR", func() { logger.Error(ctx, "frame", errors.New("encode failed")) }},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf.Reset()
			tt.log()
			entry := decodeEntry(t, &buf)
			if entry["level"] != tt.level {
				t.Errorf("level %v, want %s", entry["level"], tt.level)
			}
			if entry["msg"] != "frame" {
				t.Errorf("msg %v", entry["msg"])
			}
			if entry["correlation_id"] != "race-1" {
				t.Errorf("correlation_id %v", entry["correlation_id"])
			}
		})
	}

	buf.Reset()
	logger.Error(ctx, "frame", errors.New("encode failed"), "sequence", 9)
	entry := decodeEntry(t, &buf)
	if entry["error"] != "encode failed" || entry["sequence"] != float64(9) {
		t.Errorf("error attributes missing: %v", entry)
	}
}

func TestLoggerWithoutCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	NewLoggerWithWriter(&buf, slog.LevelInfo).Info(context.Background(), "race started")
	if strings.Contains(buf.String(), "correlation_id") {
		t.Errorf("unexpected correlation_id in %q", buf.String())
	}
}

func TestWithAddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelInfo).With("component", "loop")

	logger.Info(context.Background(), "tick")
	if entry := decodeEntry(t, &buf); entry["component"] != "loop" {
		t.Errorf("component %v, want loop", entry["component"])
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Error("Discard() should not be enabled at ERROR")
	}
	logger.Error(context.Background(), "dropped", errors.New("boom"))
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "loading track") != nil {
		t.Error("wrapping nil should give nil")
	}

	base := errors.New("no such file")
	tests := []struct {
		context string
		args    []any
		want    string
	}{
		{"loading config", nil, "loading config: no such file"},
		{"loading track %q", []any{"monza"}, `loading track "monza": no such file`},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			err := WrapError(base, tt.context, tt.args...)
			if err.Error() != tt.want {
				t.Errorf("WrapError() = %q, want %q", err.Error(), tt.want)
			}
			if !errors.Is(err, base) {
				t.Error("wrapped error lost its cause")
			}
		})
	}
}
