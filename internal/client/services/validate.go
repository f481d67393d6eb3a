package services

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/caregiver/internal/common"
)

// RegisterRequest carries the registration form. PhoneNumber and Gender are
// required by validation even though the profile model treats them as optional.
type RegisterRequest struct {
	DisplayName string
	Identifier  string
	Secret      string
	PhoneNumber string
	Gender      string
}

// emailPattern is the mobile platforms' stock email-address pattern.
var emailPattern = regexp.MustCompile(
	`^[a-zA-Z0-9+._%\-]{1,256}@[a-zA-Z0-9][a-zA-Z0-9\-]{0,64}(\.[a-zA-Z0-9][a-zA-Z0-9\-]{0,25})+$`,
)

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// IsEmail reports whether s is shaped like an email address.
func IsEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// validateRegistration returns the first failing rule's message, or "".
func validateRegistration(r RegisterRequest) string {
	switch {
	case isBlank(r.DisplayName):
		return "Username is required"
	case isBlank(r.Identifier):
		return "Email is required"
	case !IsEmail(r.Identifier):
		return "Invalid email format"
	case isBlank(r.PhoneNumber):
		return "Phone number is required"
	case isBlank(r.Gender):
		return "Gender is required"
	case isBlank(r.Secret):
		return "Password is required"
	case utf8.RuneCountInString(r.Secret) < common.MinPasswordLength:
		return "Password must be at least 6 characters"
	}
	return ""
}
