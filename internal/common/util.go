package common

import (
	"crypto/rand"
	"encoding/hex"
)

// MakeRandHexString reads size bytes from crypto/rand and returns them
// hex-encoded, so the result is 2*size characters long.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// NewTokenID returns a fresh opaque token identifier.
func NewTokenID() (string, error) {
	return MakeRandHexString(TokenIDSize)
}

// WipeByteArray overwrites b with zeros. A nil slice is ignored.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
