package id

import (
	"encoding/hex"
	"regexp"
	"testing"
)

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

func TestNewID32Format(t *testing.T) {
	got := NewID32()

	if !reHex32.MatchString(got) {
		t.Fatalf("id %q is not 32-char lowercase hex", got)
	}
	b, err := hex.DecodeString(got)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// 16 random bytes behind every id
	if len(b) != 16 {
		t.Fatalf("decoded to %d bytes, want 16", len(b))
	}
}

func TestNewID32Uniqueness(t *testing.T) {
	const n = 200
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := NewID32()
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id after %d draws: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}
