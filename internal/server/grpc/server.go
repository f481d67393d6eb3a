// Package grpc exposes the account and document services over the
// caregiver backend gRPC contract.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/caregiver/internal/logging"
	"github.com/dmitrijs2005/caregiver/internal/rpc"
	"github.com/dmitrijs2005/caregiver/internal/server/services"
	"google.golang.org/grpc"
)

type accountService interface {
	CreateAccount(ctx context.Context, email, password string) (*services.Session, error)
	SignIn(ctx context.Context, email, password string) (*services.Session, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.Session, error)
	SignOut(ctx context.Context, refreshToken string) error
}

type documentService interface {
	Set(ctx context.Context, userID, collection, id string, fields map[string]any, serverTimestamps []string) error
	Get(ctx context.Context, userID, collection, id string) (map[string]any, error)
}

type GRPCServer struct {
	address   string
	accounts  accountService
	documents documentService
	logger    logging.Logger
	jwtSecret []byte
	health    func(context.Context) error
}

var _ rpc.Server = (*GRPCServer)(nil)

type Option func(*GRPCServer)

// WithHealthCheck makes Ping report unavailable when check fails.
func WithHealthCheck(check func(context.Context) error) Option {
	return func(s *GRPCServer) {
		s.health = check
	}
}

func NewGRPCServer(a string, l logging.Logger, as accountService, ds documentService, secretKey string, opts ...Option) (*GRPCServer, error) {
	s := &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		accounts:  as,
		documents: ds,
		jwtSecret: []byte(secretKey),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	rpc.RegisterServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
