// Package models defines server-side data models persisted in the database.
package models

import "time"

// Account is a registered identity. The password is kept only as an
// argon2id hash with its salt.
type Account struct {
	ID           string
	Email        string
	PasswordSalt []byte
	PasswordHash []byte
	CreatedAt    time.Time
}
