package random

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// Random provides random token generation that can be mocked for testing
type Random interface {
	// Token returns n random bytes as unpadded URL-safe base64
	Token(n int) (string, error)
}

// CryptoRandom implements Random using crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Token reads n bytes from crypto/rand and encodes them for use in URLs and headers
func (r *CryptoRandom) Token(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("token length must be positive, got %d", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
