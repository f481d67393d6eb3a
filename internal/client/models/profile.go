// Package models defines the client-side data types.
package models

import "time"

// Profile is the application-level user record, keyed by identity id.
// PhoneNumber and Gender are nil when they were never supplied.
type Profile struct {
	UserID      string
	Identifier  string
	DisplayName string
	PhoneNumber *string
	Gender      *string
	CreatedAt   time.Time
}
