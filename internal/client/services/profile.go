package services

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/caregiver/internal/client/backend"
	"github.com/dmitrijs2005/caregiver/internal/client/models"
)

// Document field names of a profile in the users collection.
const (
	fieldEmail       = "email"
	fieldUsername    = "username"
	fieldPhoneNumber = "phoneNumber"
	fieldGender      = "gender"
	fieldCreatedAt   = "createdAt"
)

// DefaultDisplayName is shown when no profile can be found.
const DefaultDisplayName = "User"

// profileFields builds the users/<id> document. Optional values that are
// blank are left out rather than written as null.
func profileFields(r RegisterRequest) backend.Fields {
	f := backend.Fields{
		fieldEmail:     strings.TrimSpace(r.Identifier),
		fieldUsername:  strings.TrimSpace(r.DisplayName),
		fieldCreatedAt: backend.ServerTimestamp,
	}
	if v := strings.TrimSpace(r.PhoneNumber); v != "" {
		f[fieldPhoneNumber] = v
	}
	if v := strings.TrimSpace(r.Gender); v != "" {
		f[fieldGender] = v
	}
	return f
}

// profileFromFields decodes a users document. Unknown or mistyped fields are
// ignored.
func profileFromFields(userID string, f backend.Fields) *models.Profile {
	p := &models.Profile{UserID: userID}
	p.Identifier, _ = f[fieldEmail].(string)
	p.DisplayName, _ = f[fieldUsername].(string)
	if v, ok := f[fieldPhoneNumber].(string); ok {
		p.PhoneNumber = &v
	}
	if v, ok := f[fieldGender].(string); ok {
		p.Gender = &v
	}
	switch v := f[fieldCreatedAt].(type) {
	case time.Time:
		p.CreatedAt = v.UTC()
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			p.CreatedAt = t.UTC()
		}
	}
	return p
}
