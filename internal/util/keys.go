package util

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Digest returns prefix + ":" + the first 16 hex chars of sha256(s).
func Digest(prefix, s string) string {
	sum := sha256.Sum256([]byte(s))
	return prefix + ":" + hex.EncodeToString(sum[:8])
}

// JoinSorted joins a sorted copy of parts; parts itself is left untouched.
func JoinSorted(parts []string, sep string) string {
	s := make([]string, len(parts))
	copy(s, parts)
	sort.Strings(s)
	return strings.Join(s, sep)
}
