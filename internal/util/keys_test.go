package util

import (
	"strings"
	"testing"
)

func TestDigest(t *testing.T) {
	a := Digest("h", "payload")
	if !strings.HasPrefix(a, "h:") || len(a) != 2+16 {
		t.Fatalf("digest=%q", a)
	}
	if a != Digest("h", "payload") {
		t.Fatalf("not deterministic")
	}
	if a == Digest("h", "payload2") {
		t.Fatalf("collision")
	}
}

func TestJoinSorted(t *testing.T) {
	in := []string{"b", "c", "a"}
	if got := JoinSorted(in, ","); got != "a,b,c" {
		t.Fatalf("got %q", got)
	}
	if in[0] != "b" {
		t.Fatalf("input was reordered")
	}
}
