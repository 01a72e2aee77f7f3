package id

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID32 returns a random 128-bit value as exactly 32 lowercase hex
// characters, no separators or prefixes. Used for batch ids and stored
// document keys.
func NewID32() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
