package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level    Level
		expected string
	}{
		{LevelDebug, "debug"},
		{LevelInfo, "info"},
		{LevelWarn, "warn"},
		{LevelError, "error"},
		{Level(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("Level.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestNewWithConfig_KeyValues(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(LoggerConfig{Name: "client", Level: "debug", Output: &buf})

	logger.With("ref", "1779/1").Debug("call", "operation", "get_kingdom", "dangling")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["logger"] != "client" {
		t.Errorf("logger = %v, want client", entry["logger"])
	}
	if entry["ref"] != "1779/1" || entry["operation"] != "get_kingdom" {
		t.Errorf("fields missing: %v", entry)
	}
	if _, ok := entry["dangling"]; ok {
		t.Error("key without value must be dropped")
	}
}

func TestLogger_WithLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(LoggerConfig{Name: "x", Level: "debug", Output: &buf}).WithLevel(LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("info entry should be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn entry missing")
	}
}

func TestSetDefaults(t *testing.T) {
	var buf bytes.Buffer
	t.Cleanup(func() { _ = SetDefaults("info", "json", io.Discard) })

	if err := SetDefaults("loud", "", nil); err == nil {
		t.Error("SetDefaults should reject an unknown level")
	}
	if err := SetDefaults("", "yaml", nil); err == nil {
		t.Error("SetDefaults should reject an unknown format")
	}
	if err := SetDefaults("warn", "text", &buf); err != nil {
		t.Fatalf("SetDefaults() error = %v", err)
	}

	logger := New("svc")
	logger.Info("quiet")
	logger.Error("loud", "code", 7)

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Error("info should be filtered by default level warn")
	}
	if !strings.Contains(out, "[ERR] {svc} loud code=7") {
		t.Errorf("unexpected text output %q", out)
	}
}

func TestDiscard(t *testing.T) {
	Discard().Error("nothing", "k", "v")
}
