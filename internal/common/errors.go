package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")

	// Token errors.
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenExpired        = errors.New("token expired")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// Backend errors. Their text mimics the managed service the client was
// written against, because the client classifies failures by message.
var (
	ErrEmailAlreadyInUse  = errors.New("EMAIL_ALREADY_IN_USE: the email address is already in use by another account")
	ErrInvalidEmail       = errors.New("INVALID_EMAIL: the email address is badly formatted")
	ErrWeakPassword       = errors.New("WEAK_PASSWORD: password should be at least 6 characters")
	ErrInvalidCredentials = errors.New("INVALID_LOGIN_CREDENTIALS: the supplied auth credential is incorrect, malformed or has expired")
	ErrPermissionDenied   = errors.New("PERMISSION_DENIED: missing or insufficient permissions")
)
