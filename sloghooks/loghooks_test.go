package sloghooks

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newBufLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestRedactsKeysByDefault(t *testing.T) {
	l, buf := newBufLogger()
	h := New(l, Options{})
	h.StoreFailed("ns:getUser:alice@example.com", errors.New("boom"))

	out := buf.String()
	if strings.Contains(out, "alice") {
		t.Fatalf("raw key leaked: %s", out)
	}
	if !strings.Contains(out, "key=sha256:") || !strings.Contains(out, "err=boom") {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestCustomRedactor(t *testing.T) {
	l, buf := newBufLogger()
	h := New(l, Options{Redact: func(k string) string { return "<" + k + ">" }})
	h.FetchDegraded("k1", errors.New("down"))
	if !strings.Contains(buf.String(), "key=<k1>") {
		t.Fatalf("output: %s", buf.String())
	}
}

func TestSamplesHits(t *testing.T) {
	l, buf := newBufLogger()
	h := New(l, Options{HitEvery: 3})
	for i := 0; i < 9; i++ {
		h.CacheHit("k")
	}
	if n := strings.Count(buf.String(), "cachefn.hit"); n != 3 {
		t.Fatalf("logged %d hits, want 3", n)
	}
}

func TestNilLogger(t *testing.T) {
	h := New(nil, Options{})
	h.CacheMiss("k")
	h.KeyRejected("f", errors.New("x"))
}
