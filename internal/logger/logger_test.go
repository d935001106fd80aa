package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(&buf, "debug", "json")

	if l.GetLevel() != zerolog.DebugLevel {
		t.Errorf("Expected debug level, got %s", l.GetLevel())
	}

	l.Info().Str("post_id", "p1").Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("Expected JSON output, got %q: %v", buf.String(), err)
	}
	if entry["post_id"] != "p1" || entry["message"] != "hello" {
		t.Errorf("Unexpected log entry %v", entry)
	}
	for _, key := range []string{"pid", "go_version", "git_revision", "time", "caller"} {
		if _, ok := entry[key]; !ok {
			t.Errorf("Expected field %q in log entry", key)
		}
	}
}

func TestNewInvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(&buf, "loud", "console")
	if l.GetLevel() != zerolog.InfoLevel {
		t.Errorf("Expected fallback to info, got %s", l.GetLevel())
	}

	l.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("Expected debug output to be filtered, got %q", buf.String())
	}
}
