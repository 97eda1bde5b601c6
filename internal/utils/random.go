package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateState returns a random hex string suitable as an OAuth state nonce
func GenerateState() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return hex.EncodeToString(bytes), nil
}
