// File: logger_test.go
// Title: Logger Tests
// Description: Tests for level filtering, formatting, context propagation and
//              structured error logging.
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-12-14
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation
// - 2025-12-14 v0.2.0: Rewritten for the reduced logger surface

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	mdwerror "github.com/msto63/taxon/foundation/core/error"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("invalid JSON line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{Level: LevelWarn, Format: FormatJSON, Output: &buf})

	logger.Debug("d")
	logger.Info("i")
	logger.Warn("w")
	logger.Error("e")

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0]["level"] != "warn" || lines[1]["level"] != "error" {
		t.Errorf("unexpected levels: %v, %v", lines[0]["level"], lines[1]["level"])
	}
}

func TestContextFields(t *testing.T) {
	var buf bytes.Buffer
	base := NewWithConfig(Config{Level: LevelDebug, Output: &buf, Name: "client"})
	derived := base.WithRequestID("req-7").WithOperation("get_taxon_name").WithField("ref", "9606")

	derived.Info("call", Field("attempt", 1))
	base.Info("plain")

	lines := decodeLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	first := lines[0]
	if first["logger"] != "client" || first["request_id"] != "req-7" || first["operation"] != "get_taxon_name" {
		t.Errorf("context missing: %v", first)
	}
	if first["ref"] != "9606" || first["attempt"] != float64(1) {
		t.Errorf("fields missing: %v", first)
	}
	if _, ok := lines[1]["request_id"]; ok {
		t.Error("With* must not modify the parent logger")
	}
}

func TestLogError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantLevel string
		wantCode  interface{}
	}{
		{"plain error", errors.New("boom"), "error", nil},
		{"low severity", mdwerror.New("bad").WithCode(mdwerror.CodeNotFound), "info", "NOT_FOUND"},
		{"high severity", mdwerror.New("down").WithCode(mdwerror.CodeServiceUnavailable).WithDetail("layer", "transport"), "error", "SERVICE_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWithConfig(Config{Level: LevelDebug, Output: &buf})
			logger.LogError(tt.err)

			lines := decodeLines(t, &buf)
			if len(lines) != 1 {
				t.Fatalf("got %d lines, want 1", len(lines))
			}
			if lines[0]["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %v", lines[0]["level"], tt.wantLevel)
			}
			if lines[0]["error_code"] != tt.wantCode {
				t.Errorf("error_code = %v, want %v", lines[0]["error_code"], tt.wantCode)
			}
		})
	}

	var buf bytes.Buffer
	NewWithConfig(Config{Output: &buf}).LogError(nil)
	if buf.Len() != 0 {
		t.Error("LogError(nil) should not write")
	}
}

func TestTextFormatter(t *testing.T) {
	entry := NewEntry(LevelWarn, "slow call")
	entry.Timestamp = time.Date(2025, 1, 1, 12, 30, 0, 0, time.UTC)
	entry.Logger = "taxon"
	entry.Fields["b"] = 2
	entry.Fields["a"] = 1

	out, err := NewTextFormatter().Format(entry)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	want := "12:30:00 [WRN] {taxon} slow call a=1 b=2\n"
	if string(out) != want {
		t.Errorf("Format() = %q, want %q", out, want)
	}
}

func TestTimed(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{Output: &buf})
	logger.Timed("done", time.Now().Add(-5*time.Millisecond))

	lines := decodeLines(t, &buf)
	if d, ok := lines[0]["duration_ms"].(float64); !ok || d < 5 {
		t.Errorf("duration_ms = %v", lines[0]["duration_ms"])
	}
}

func TestParseLevelAndFormat(t *testing.T) {
	if l, err := ParseLevel("WARNING"); err != nil || l != LevelWarn {
		t.Errorf("ParseLevel(WARNING) = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("ParseLevel(loud) should fail")
	}
	if f, err := ParseFormat("console"); err != nil || f != FormatConsole {
		t.Errorf("ParseFormat(console) = %v, %v", f, err)
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

func TestConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithConfig(Config{Output: &buf})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			logger.WithField("n", i).Info("tick")
		}(i)
	}
	wg.Wait()

	if got := len(decodeLines(t, &buf)); got != 20 {
		t.Errorf("got %d lines, want 20", got)
	}
}
