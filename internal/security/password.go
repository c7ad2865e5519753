package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2Iterations = 210000
	saltLength       = 16
	keyLength        = 32
)

// HashPassword derives a PBKDF2-SHA256 hash with a fresh random salt.
// Hash and salt are stored as separate columns so verification can
// re-derive with the stored salt.
func HashPassword(password string) (hash []byte, salt []byte, err error) {
	salt = make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("generate salt: %w", err)
	}
	return HashPasswordWithSalt(password, salt), salt, nil
}

// HashPasswordWithSalt re-derives the hash for a known salt. Deterministic.
func HashPasswordWithSalt(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, keyLength, sha256.New)
}

func VerifyPassword(password string, hash []byte, salt []byte) bool {
	computed := HashPasswordWithSalt(password, salt)
	return subtle.ConstantTimeCompare(hash, computed) == 1
}
