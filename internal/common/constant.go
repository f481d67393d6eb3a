// Package common contains constants and sentinel errors shared by the
// caregiver client and the reference backend.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// UsersCollection is the document collection holding user profiles,
// keyed by identity id.
const UsersCollection = "users"

// MinPasswordLength is the shortest secret accepted at registration.
const MinPasswordLength = 6
