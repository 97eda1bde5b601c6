package session

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Key purposes. Each purpose yields an independent key from the same secret.
const (
	PurposeSessionToken = "priority-matrix session token v1"
	PurposeFlowAuth     = "priority-matrix auth flow signing v1"
	PurposeFlowCipher   = "priority-matrix auth flow encryption v1"
)

// DeriveKey expands secret into a key of the given size bound to purpose.
func DeriveKey(secret, purpose string, size int) ([]byte, error) {
	if secret == "" {
		return nil, fmt.Errorf("derive %q key: empty secret", purpose)
	}

	key := make([]byte, size)
	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte(purpose))
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("derive %q key: %w", purpose, err)
	}

	return key, nil
}
