package id

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID32 generates a random identifier: 32 lowercase hex characters with
// no separators, the key format shared by parties, payment records, and
// buy requests.
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
