package slog

import (
	"bytes"
	"encoding/json"
	stdslog "log/slog"
	"testing"

	"github.com/unkn0wn-root/cachefn"
)

func TestLoggerLevelsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	l := New(stdslog.NewJSONHandler(&buf, &stdslog.HandlerOptions{Level: stdslog.LevelInfo}))

	l.Debug("cache hit", cachefn.Fields{"key": "k"})
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered: %s", buf.String())
	}

	l.Warn("cache write failed", cachefn.Fields{"key": "k", "func": "f"})
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	if rec["level"] != "WARN" || rec["msg"] != "cache write failed" {
		t.Fatalf("record=%v", rec)
	}
	group, ok := rec["cachefn"].(map[string]any)
	if !ok || group["key"] != "k" || group["func"] != "f" {
		t.Fatalf("attrs not grouped: %v", rec)
	}
}
