package util

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateToken returns a hex token of 2*byteLen characters from the system
// CSPRNG. Used for password-reset tokens and payment receipts.
func GenerateToken(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
