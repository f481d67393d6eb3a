// Package profiles is the local SQLite cache of the last fetched user profile.
// The home screen falls back to it when the backend document cannot be read.
package profiles
