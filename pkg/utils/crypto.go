package utils

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	hashIterations = 210000
	hashKeyLength  = 32
)

// HashPassword derives a deterministic salted hash of password. The same
// password and salt always produce the same output, so stored credential
// hashes can be compared against hashes carried in auth tokens.
func HashPassword(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), hashIterations, hashKeyLength, sha256.New)
	return hex.EncodeToString(key)
}

// VerifyPassword recomputes the hash for input and compares it to
// storedHash in constant time.
func VerifyPassword(input, storedHash, salt string) bool {
	computed := HashPassword(input, salt)
	return SecureCompare(computed, storedHash)
}

// SecureCompare reports whether two strings are equal without leaking
// timing information about where they differ.
func SecureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// HashEmail returns an unsalted sha256 digest of the normalized email.
// Only the digest is ever stored, never the address itself.
func HashEmail(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
