package backend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/caregiver/internal/common"
	"github.com/dmitrijs2005/caregiver/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// fakeBackend implements rpc.Server with scripted behaviour.
type fakeBackend struct {
	mu sync.Mutex

	signInErr     error
	createErr     error
	noUserID      bool
	expireOnce    bool
	expireSignOut bool
	sessions      int
	refreshCalls  int
	signOutTokens []string
	tokensSeen    []string
	lastSet       rpc.SetDocumentRequest
	docs          map[string]map[string]any
	pingStatus    string
}

// session issues refresh-1 first and refresh-1.<n> on later sign-ins.
func (f *fakeBackend) session(identifier, access string) *structpb.Struct {
	f.mu.Lock()
	f.sessions++
	refresh := "refresh-1"
	if f.sessions > 1 {
		refresh = fmt.Sprintf("refresh-1.%d", f.sessions)
	}
	f.mu.Unlock()

	s := rpc.Session{UserID: "uid-1", Identifier: identifier, AccessToken: access, RefreshToken: refresh}
	if f.noUserID {
		s.UserID = ""
	}
	return s.Proto()
}

func (f *fakeBackend) token(ctx context.Context) string {
	md, _ := metadata.FromIncomingContext(ctx)
	v := md.Get(common.AccessTokenHeaderName)
	if len(v) == 0 {
		return ""
	}
	return v[0]
}

func (f *fakeBackend) SignIn(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.session(rpc.CredentialsFromProto(req).Identifier, "access-1"), nil
}

func (f *fakeBackend) CreateAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.session(rpc.CredentialsFromProto(req).Identifier, "access-1"), nil
}

func (f *fakeBackend) RefreshToken(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f.mu.Lock()
	f.refreshCalls++
	f.mu.Unlock()
	return rpc.Session{UserID: "uid-1", Identifier: "a@b.com", AccessToken: "access-2", RefreshToken: "refresh-2"}.Proto(), nil
}

func (f *fakeBackend) SignOut(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tok := f.token(ctx)
	f.tokensSeen = append(f.tokensSeen, tok)
	if f.expireSignOut && tok == "access-1" {
		return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}
	f.signOutTokens = append(f.signOutTokens, rpc.TokenRequestFromProto(req).RefreshToken)
	return &emptypb.Empty{}, nil
}

func (f *fakeBackend) SetDocument(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokensSeen = append(f.tokensSeen, f.token(ctx))
	f.lastSet = rpc.SetDocumentRequestFromProto(req)
	return &emptypb.Empty{}, nil
}

func (f *fakeBackend) GetDocument(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f.mu.Lock()
	tok := f.token(ctx)
	f.tokensSeen = append(f.tokensSeen, tok)
	expire := f.expireOnce && tok == "access-1"
	f.mu.Unlock()

	if expire {
		return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}
	ref := rpc.DocumentRefFromProto(req)
	fields, ok := f.docs[ref.Collection+"/"+ref.ID]
	return rpc.Document{Exists: ok, Fields: fields}.Proto()
}

func (f *fakeBackend) Ping(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return rpc.PingResponse{Status: f.pingStatus}.Proto(), nil
}

func startBackend(t *testing.T, f *fakeBackend) (*GRPCClient, func()) {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	rpc.RegisterServer(srv, f)
	go func() { _ = srv.Serve(lis) }()

	c, err := NewGRPCClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
		srv.Stop()
	})
	return c, srv.Stop
}

func TestSignIn_StoresIdentityAndSendsToken(t *testing.T) {
	f := &fakeBackend{docs: map[string]map[string]any{"users/uid-1": {"username": "alice"}}}
	c, _ := startBackend(t, f)
	ctx := context.Background()

	require.Nil(t, c.CurrentIdentity())

	id, err := c.SignIn(ctx, "a@b.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, &Identity{ID: "uid-1", Identifier: "a@b.com"}, id)
	assert.Equal(t, id, c.CurrentIdentity())

	doc, err := c.GetDocument(ctx, "users", "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", doc["username"])
	assert.Equal(t, []string{"access-1"}, f.tokensSeen)
}

func TestSignIn_MapsErrorAndKeepsVendorMessage(t *testing.T) {
	f := &fakeBackend{signInErr: status.Error(codes.Unauthenticated, common.ErrInvalidCredentials.Error())}
	c, _ := startBackend(t, f)

	_, err := c.SignIn(context.Background(), "a@b.com", "bad")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "INVALID_LOGIN_CREDENTIALS")
	assert.Nil(t, c.CurrentIdentity())
}

func TestCreateAccount_SignsInNewAccount(t *testing.T) {
	c, _ := startBackend(t, &fakeBackend{})

	id, err := c.CreateAccount(context.Background(), "new@b.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", id.ID)
	assert.Equal(t, "new@b.com", c.CurrentIdentity().Identifier)
}

func TestCreateAccount_WithoutUserIDLeavesSignedOut(t *testing.T) {
	c, _ := startBackend(t, &fakeBackend{noUserID: true})

	id, err := c.CreateAccount(context.Background(), "new@b.com", "secret")
	require.NoError(t, err)
	assert.Empty(t, id.ID)
	assert.Nil(t, c.CurrentIdentity())
}

func TestCreateAccount_AlreadyExists(t *testing.T) {
	c, _ := startBackend(t, &fakeBackend{createErr: status.Error(codes.AlreadyExists, common.ErrEmailAlreadyInUse.Error())})

	_, err := c.CreateAccount(context.Background(), "a@b.com", "secret")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMAIL_ALREADY_IN_USE")
}

func TestInterceptor_RefreshesExpiredToken(t *testing.T) {
	f := &fakeBackend{expireOnce: true, docs: map[string]map[string]any{}}
	c, _ := startBackend(t, f)
	ctx := context.Background()

	_, err := c.SignIn(ctx, "a@b.com", "secret")
	require.NoError(t, err)

	doc, err := c.GetDocument(ctx, "users", "uid-1")
	require.NoError(t, err)
	assert.Nil(t, doc)

	assert.Equal(t, 1, f.refreshCalls)
	assert.Equal(t, []string{"access-1", "access-2"}, f.tokensSeen)

	access, refresh := c.tokens()
	assert.Equal(t, "access-2", access)
	assert.Equal(t, "refresh-2", refresh)
}

func TestSetDocument_ServerTimestampsAndTimes(t *testing.T) {
	f := &fakeBackend{}
	c, _ := startBackend(t, f)
	ctx := context.Background()

	_, err := c.SignIn(ctx, "a@b.com", "secret")
	require.NoError(t, err)

	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	err = c.SetDocument(ctx, "users", "uid-1", Fields{
		"username":  "alice",
		"createdAt": ServerTimestamp,
		"seenAt":    at,
	})
	require.NoError(t, err)

	assert.Equal(t, rpc.DocumentRef{Collection: "users", ID: "uid-1"}, f.lastSet.Ref)
	assert.Equal(t, []string{"createdAt"}, f.lastSet.ServerTimestamps)
	assert.Equal(t, "alice", f.lastSet.Fields["username"])
	assert.Equal(t, "2026-01-02T03:04:05Z", f.lastSet.Fields["seenAt"])
	_, has := f.lastSet.Fields["createdAt"]
	assert.False(t, has)
}

func TestDocuments_RequireSignIn(t *testing.T) {
	c, _ := startBackend(t, &fakeBackend{})

	require.ErrorIs(t, c.SetDocument(context.Background(), "users", "x", Fields{}), ErrNotSignedIn)
	_, err := c.GetDocument(context.Background(), "users", "x")
	require.ErrorIs(t, err, ErrNotSignedIn)
}

func TestSignOut_ClearsSessionAndRevokes(t *testing.T) {
	f := &fakeBackend{}
	c, _ := startBackend(t, f)
	ctx := context.Background()

	require.NoError(t, c.SignOut(ctx))
	assert.Empty(t, f.signOutTokens)

	_, err := c.SignIn(ctx, "a@b.com", "secret")
	require.NoError(t, err)
	require.NoError(t, c.SignOut(ctx))

	assert.Nil(t, c.CurrentIdentity())
	assert.Equal(t, []string{"refresh-1"}, f.signOutTokens)
	assert.Equal(t, []string{"access-1"}, f.tokensSeen)
}

func TestSignOut_ExpiredAccessTokenRevokesRotatedToken(t *testing.T) {
	f := &fakeBackend{expireSignOut: true}
	c, _ := startBackend(t, f)
	ctx := context.Background()

	_, err := c.SignIn(ctx, "a@b.com", "secret")
	require.NoError(t, err)
	require.NoError(t, c.SignOut(ctx))

	assert.Equal(t, 1, f.refreshCalls)
	assert.Equal(t, []string{"refresh-2"}, f.signOutTokens)
	assert.Equal(t, []string{"access-1", "access-2"}, f.tokensSeen)
	assert.Nil(t, c.CurrentIdentity())
}

func TestSignIn_RevokesReplacedSession(t *testing.T) {
	f := &fakeBackend{}
	c, _ := startBackend(t, f)
	ctx := context.Background()

	_, err := c.CreateAccount(ctx, "a@b.com", "secret")
	require.NoError(t, err)
	assert.Empty(t, f.signOutTokens)

	_, err = c.SignIn(ctx, "a@b.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, []string{"refresh-1"}, f.signOutTokens)
	_, refresh := c.tokens()
	assert.Equal(t, "refresh-1.2", refresh)
	assert.Equal(t, "uid-1", c.CurrentIdentity().ID)
}

func TestPing(t *testing.T) {
	c, _ := startBackend(t, &fakeBackend{pingStatus: rpc.StatusOK})
	require.NoError(t, c.Ping(context.Background()))

	c2, _ := startBackend(t, &fakeBackend{pingStatus: "DEGRADED"})
	require.ErrorIs(t, c2.Ping(context.Background()), ErrUnavailable)
}

func TestPing_ServerGone_Unavailable(t *testing.T) {
	c, stop := startBackend(t, &fakeBackend{pingStatus: rpc.StatusOK})
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := c.Ping(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable) || errors.Is(err, ErrTimeout), err.Error())
}

func TestMapError(t *testing.T) {
	tests := []struct {
		code codes.Code
		want error
	}{
		{codes.Unavailable, ErrUnavailable},
		{codes.DeadlineExceeded, ErrTimeout},
		{codes.Unauthenticated, ErrUnauthorized},
		{codes.PermissionDenied, ErrPermissionDenied},
		{codes.Canceled, context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			err := mapError(status.Error(tt.code, "vendor text"))
			require.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "vendor text")
		})
	}

	other := mapError(status.Error(codes.AlreadyExists, "EMAIL_ALREADY_IN_USE"))
	assert.Equal(t, "rpc error: EMAIL_ALREADY_IN_USE", other.Error())

	plain := errors.New("plain")
	assert.Same(t, plain, mapError(plain))
	assert.NoError(t, mapError(nil))
}
