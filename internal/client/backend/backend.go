package backend

import "context"

// Identity is the backend's view of an authenticated account.
type Identity struct {
	ID         string
	Identifier string
}

// Fields is the content of one document.
type Fields map[string]any

type serverTimestamp struct{}

// ServerTimestamp, used as a field value in SetDocument, asks the backend
// to store its own current time in that field.
var ServerTimestamp any = serverTimestamp{}

// AuthService authenticates against the backend. The signed-in identity is
// held by the implementation, not by callers.
type AuthService interface {
	SignIn(ctx context.Context, identifier, secret string) (*Identity, error)
	CreateAccount(ctx context.Context, identifier, secret string) (*Identity, error)
	// CurrentIdentity returns nil when nobody is signed in.
	CurrentIdentity() *Identity
	SignOut(ctx context.Context) error
}

// DocumentStore reads and writes whole documents.
type DocumentStore interface {
	SetDocument(ctx context.Context, collection, id string, fields Fields) error
	// GetDocument returns nil, nil when the document does not exist.
	GetDocument(ctx context.Context, collection, id string) (Fields, error)
}

// Client is the full SDK surface used by the application.
type Client interface {
	AuthService
	DocumentStore
	Ping(ctx context.Context) error
	Close() error
}
