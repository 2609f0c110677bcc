// Package auth provides the password hasher molecule for protected server
// mode. Hashes use the notebook server's native format, so a value produced
// here drops straight into --PasswordIdentityProvider.hashed_password.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters, matching what the notebook server's own passwd()
// helper uses so either side can verify the other's hashes.
const (
	// HashPrefix marks the hash algorithm for the notebook server.
	HashPrefix = "argon2:"

	// TimeCost is the number of argon2 passes over memory.
	TimeCost = 10

	// MemoryCost is the argon2 memory budget in KiB (10 MiB).
	MemoryCost = 10 * 1024

	// Parallelism is the number of argon2 lanes.
	Parallelism = 8

	// SaltLength is the random salt size in bytes.
	SaltLength = 16

	// KeyLength is the derived key size in bytes.
	KeyLength = 32
)

// Error definitions for password operations
var (
	// ErrEmptyPassword is returned when attempting to hash an empty password.
	ErrEmptyPassword = errors.New("password cannot be empty")

	// ErrPasswordMismatch is returned when password verification fails.
	// This error intentionally does not reveal whether the hash was valid.
	ErrPasswordMismatch = errors.New("password does not match")

	// ErrInvalidHash is returned when the hash format is invalid.
	ErrInvalidHash = errors.New("invalid password hash format")
)

// HashPassword creates an argon2id hash of the given password in the
// notebook server's storage format:
//
//	argon2:$argon2id$v=19$m=10240,t=10,p=8$<salt>$<key>
//
// Security properties:
//   - Fresh random salt from crypto/rand on every call
//   - Parameters are embedded in the hash for future verification
//   - The output never contains the password in any recoverable form
//
// Parameters:
//   - password: The plaintext password to hash (must not be empty)
//
// Returns:
//   - string: The prefixed argon2id hash (safe for storage)
//   - error: ErrEmptyPassword if password is empty, or a salt generation error
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, TimeCost, MemoryCost, Parallelism, KeyLength)
	return encodeHash(salt, key), nil
}

// VerifyPassword compares a plaintext password with a stored hash, accepting
// the hash with or without the "argon2:" prefix. The derived keys are
// compared in constant time.
//
// Parameters:
//   - password: The plaintext password to verify
//   - hash: The stored hash to compare against
//
// Returns:
//   - error: nil if the password matches, ErrPasswordMismatch if not
func VerifyPassword(password, hash string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if hash == "" {
		return ErrInvalidHash
	}

	params, salt, key, err := decodeHash(hash)
	if err != nil {
		// Don't reveal whether the stored hash was malformed
		return ErrPasswordMismatch
	}

	candidate := argon2.IDKey([]byte(password), salt, params.time, params.memory, params.parallelism, uint32(len(key)))
	if subtle.ConstantTimeCompare(candidate, key) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

// IsValidHash checks if a string is a well-formed argon2id hash.
// This does not verify any password, only the format.
func IsValidHash(hash string) bool {
	_, _, _, err := decodeHash(hash)
	return err == nil
}

// hashParams are the argon2 parameters recovered from a stored hash.
type hashParams struct {
	memory      uint32
	time        uint32
	parallelism uint8
}

// encodeHash renders salt and key into the prefixed storage format.
func encodeHash(salt, key []byte) string {
	b64 := base64.RawStdEncoding
	return fmt.Sprintf("%s$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		HashPrefix, argon2.Version, MemoryCost, TimeCost, Parallelism,
		b64.EncodeToString(salt), b64.EncodeToString(key))
}

// decodeHash parses a stored hash back into parameters, salt, and key.
func decodeHash(hash string) (*hashParams, []byte, []byte, error) {
	hash = strings.TrimPrefix(hash, HashPrefix)

	parts := strings.Split(hash, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return nil, nil, nil, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, nil, ErrInvalidHash
	}
	if version != argon2.Version {
		return nil, nil, nil, ErrInvalidHash
	}

	params := &hashParams{}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.memory, &params.time, &params.parallelism); err != nil {
		return nil, nil, nil, ErrInvalidHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, ErrInvalidHash
	}
	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, nil, ErrInvalidHash
	}

	return params, salt, key, nil
}
