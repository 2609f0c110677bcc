package core

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// NewLaunchID returns a short identifier correlating all log entries of one
// launcher invocation.
func NewLaunchID() string {
	return uuid.New().String()[:8]
}

// ServerTokenLength is the number of random bytes in a generated server
// access token. 24 bytes hex-encoded yields a 48-character token, the same
// length the notebook server generates for itself.
const ServerTokenLength = 24

// GenerateServerToken generates a cryptographically secure access token for
// the child notebook server. The token is hex-encoded so it is safe to place
// in URLs without escaping.
func GenerateServerToken() (string, error) {
	bytes := make([]byte, ServerTokenLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate server token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}
