// Package backend is the client SDK for the managed authentication and
// document service.
//
// # Overview
//
// The package provides:
//  1. The collaborator contracts the credential executor depends on:
//     AuthService (sign-in, account creation, current identity, sign-out)
//     and DocumentStore (keyed documents grouped in collections).
//  2. A gRPC implementation (see GRPCClient) that holds the signed-in
//     identity in memory, injects the access token via an interceptor,
//     transparently refreshes expired tokens, and maps gRPC status codes to
//     sentinel errors while keeping the server's message text.
//
// # Error Handling
//
// Transport conditions are exposed as sentinel errors matched with
// errors.Is: ErrUnavailable, ErrTimeout, ErrUnauthorized,
// ErrPermissionDenied, ErrNotSignedIn. The wrapped text still carries the
// vendor's own message, which the credential executor classifies.
//
// Concurrency & Contexts
//
// GRPCClient is safe for concurrent use. All remote operations accept a
// context.Context and honor cancellation and deadlines.
package backend
