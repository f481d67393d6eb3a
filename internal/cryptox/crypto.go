// Package cryptox holds the password hashing used by the account service.
package cryptox

import (
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// SaltSize is the length of the random salt stored with each account.
const SaltSize = 16

// HashPassword derives an argon2id hash of password with salt.
func HashPassword(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

// VerifyPassword reports whether password hashes to hash under salt.
// The comparison runs in constant time.
func VerifyPassword(password, salt, hash []byte) bool {
	return subtle.ConstantTimeCompare(HashPassword(password, salt), hash) == 1
}
