package backend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/caregiver/internal/common"
	"github.com/dmitrijs2005/caregiver/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// GRPCClient talks to the backend over gRPC and keeps the current session
// (identity plus tokens) in memory.
type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	api         *rpc.Client

	mu      sync.RWMutex
	session *rpc.Session
}

var _ Client = (*GRPCClient)(nil)

// NewGRPCClient creates a client for endpointURL. Extra dial options are
// appended after the defaults (insecure transport, token interceptor).
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("grpc client init: %w", err)
	}
	c.conn = conn
	c.api = rpc.NewClient(conn)
	return c, nil
}

func withAccessToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, token)
}

func (c *GRPCClient) tokens() (access, refresh string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return "", ""
	}
	return c.session.AccessToken, c.session.RefreshToken
}

func (c *GRPCClient) setSession(s *rpc.Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

// accessTokenInterceptor attaches the access token and, when the server
// reports it expired, refreshes the session once and replays the call.
func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	access, refresh := c.tokens()

	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	// SignOut carries the refresh token in its body, so replaying it after
	// a rotation would revoke the stale token; SignOut renews on its own.
	if err == nil || method == rpc.FullMethod(rpc.MethodRefreshToken) || method == rpc.FullMethod(rpc.MethodSignOut) {
		return err
	}
	if !isTokenExpired(err) || refresh == "" {
		return err
	}

	renewed, rerr := c.renew(ctx, refresh)
	if rerr != nil {
		return rerr
	}

	return invoker(withAccessToken(ctx, renewed.AccessToken), method, req, reply, cc, opts...)
}

func isTokenExpired(err error) bool {
	st, ok := status.FromError(err)
	return ok && st.Code() == codes.Unauthenticated && st.Message() == common.ErrTokenExpired.Error()
}

// renew exchanges refresh for a new session and makes it current.
func (c *GRPCClient) renew(ctx context.Context, refresh string) (*rpc.Session, error) {
	resp, err := c.api.RefreshToken(ctx, rpc.TokenRequest{RefreshToken: refresh}.Proto())
	if err != nil {
		return nil, err
	}
	renewed := rpc.SessionFromProto(resp)
	c.setSession(&renewed)
	return &renewed, nil
}

func (c *GRPCClient) SignIn(ctx context.Context, identifier, secret string) (*Identity, error) {
	resp, err := c.api.SignIn(ctx, rpc.Credentials{Identifier: identifier, Secret: secret}.Proto())
	if err != nil {
		return nil, mapError(err)
	}
	return c.adopt(ctx, resp), nil
}

// CreateAccount registers a new account. Like the managed service it
// mirrors, a successful creation leaves the new account signed in.
func (c *GRPCClient) CreateAccount(ctx context.Context, identifier, secret string) (*Identity, error) {
	resp, err := c.api.CreateAccount(ctx, rpc.Credentials{Identifier: identifier, Secret: secret}.Proto())
	if err != nil {
		return nil, mapError(err)
	}
	return c.adopt(ctx, resp), nil
}

// adopt makes the session in resp the current one. A session it replaces
// is revoked first, best effort. A response without a user id yields an
// identity with an empty ID, which callers treat as a failed creation.
func (c *GRPCClient) adopt(ctx context.Context, resp *structpb.Struct) *Identity {
	session := rpc.SessionFromProto(resp)
	if _, previous := c.tokens(); previous != "" && previous != session.RefreshToken {
		_ = c.revoke(ctx)
	}
	if session.UserID == "" {
		c.setSession(nil)
		return &Identity{Identifier: session.Identifier}
	}
	c.setSession(&session)
	return &Identity{ID: session.UserID, Identifier: session.Identifier}
}

func (c *GRPCClient) CurrentIdentity() *Identity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil
	}
	return &Identity{ID: c.session.UserID, Identifier: c.session.Identifier}
}

// SignOut revokes the refresh token on the server and forgets the local
// session. The call is authenticated with the current access token; the
// local session is cleared even if revocation fails.
func (c *GRPCClient) SignOut(ctx context.Context) error {
	defer c.setSession(nil)
	if err := c.revoke(ctx); err != nil {
		return mapError(err)
	}
	return nil
}

// revoke deletes the current refresh token on the server. When the access
// token has expired the session is renewed first and the rotated refresh
// token is the one revoked.
func (c *GRPCClient) revoke(ctx context.Context) error {
	_, refresh := c.tokens()
	if refresh == "" {
		return nil
	}
	err := c.api.SignOut(ctx, rpc.TokenRequest{RefreshToken: refresh}.Proto())
	if !isTokenExpired(err) {
		return err
	}

	renewed, err := c.renew(ctx, refresh)
	if err != nil {
		return err
	}
	return c.api.SignOut(ctx, rpc.TokenRequest{RefreshToken: renewed.RefreshToken}.Proto())
}

func (c *GRPCClient) SetDocument(ctx context.Context, collection, id string, fields Fields) error {
	if c.CurrentIdentity() == nil {
		return ErrNotSignedIn
	}

	req := rpc.SetDocumentRequest{
		Ref:    rpc.DocumentRef{Collection: collection, ID: id},
		Fields: make(map[string]any, len(fields)),
	}
	for name, value := range fields {
		switch v := value.(type) {
		case serverTimestamp:
			req.ServerTimestamps = append(req.ServerTimestamps, name)
		case time.Time:
			req.Fields[name] = v.UTC().Format(time.RFC3339Nano)
		default:
			req.Fields[name] = v
		}
	}

	pb, err := req.Proto()
	if err != nil {
		return err
	}
	if err := c.api.SetDocument(ctx, pb); err != nil {
		return mapError(err)
	}
	return nil
}

func (c *GRPCClient) GetDocument(ctx context.Context, collection, id string) (Fields, error) {
	if c.CurrentIdentity() == nil {
		return nil, ErrNotSignedIn
	}

	resp, err := c.api.GetDocument(ctx, rpc.DocumentRef{Collection: collection, ID: id}.Proto())
	if err != nil {
		return nil, mapError(err)
	}
	doc := rpc.DocumentFromProto(resp)
	if !doc.Exists {
		return nil, nil
	}
	return Fields(doc.Fields), nil
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	resp, err := c.api.Ping(ctx)
	if err != nil {
		return mapError(err)
	}
	if rpc.PingResponseFromProto(resp).Status != rpc.StatusOK {
		return ErrUnavailable
	}
	return nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}
