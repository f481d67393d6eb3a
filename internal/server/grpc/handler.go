package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/caregiver/internal/common"
	"github.com/dmitrijs2005/caregiver/internal/rpc"
	"github.com/dmitrijs2005/caregiver/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// statusError translates a service error into a gRPC status. Vendor-coded
// errors keep their text so clients can tell them apart.
func (s *GRPCServer) statusError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrRefreshTokenExpired),
		errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, common.ErrEmailAlreadyInUse):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, common.ErrInvalidEmail),
		errors.Is(err, common.ErrWeakPassword),
		errors.Is(err, services.ErrInvalidDocumentRef):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrPermissionDenied):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	s.logger.Error(ctx, "request failed", "error", err)
	return status.Error(codes.Internal, common.ErrorInternal.Error())
}

func sessionProto(session *services.Session) *structpb.Struct {
	return rpc.Session{
		UserID:       session.UserID,
		Identifier:   session.Email,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	}.Proto()
}

func (s *GRPCServer) SignIn(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	creds := rpc.CredentialsFromProto(req)

	session, err := s.accounts.SignIn(ctx, creds.Identifier, creds.Secret)
	if err != nil {
		s.logger.Debug(ctx, "sign-in rejected", "error", err)
		return nil, s.statusError(ctx, err)
	}

	return sessionProto(session), nil
}

func (s *GRPCServer) CreateAccount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	creds := rpc.CredentialsFromProto(req)

	s.logger.Info(ctx, "Registration request")

	session, err := s.accounts.CreateAccount(ctx, creds.Identifier, creds.Secret)
	if err != nil {
		return nil, s.statusError(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "user_id", session.UserID)
	return sessionProto(session), nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	session, err := s.accounts.RefreshToken(ctx, rpc.TokenRequestFromProto(req).RefreshToken)
	if err != nil {
		return nil, s.statusError(ctx, err)
	}
	return sessionProto(session), nil
}

func (s *GRPCServer) SignOut(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	if err := s.accounts.SignOut(ctx, rpc.TokenRequestFromProto(req).RefreshToken); err != nil {
		return nil, s.statusError(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) SetDocument(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	in := rpc.SetDocumentRequestFromProto(req)

	err := s.documents.Set(ctx, userIDFromContext(ctx), in.Ref.Collection, in.Ref.ID, in.Fields, in.ServerTimestamps)
	if err != nil {
		return nil, s.statusError(ctx, err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) GetDocument(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ref := rpc.DocumentRefFromProto(req)

	fields, err := s.documents.Get(ctx, userIDFromContext(ctx), ref.Collection, ref.ID)
	if err != nil {
		return nil, s.statusError(ctx, err)
	}

	out, err := rpc.Document{Exists: fields != nil, Fields: fields}.Proto()
	if err != nil {
		return nil, s.statusError(ctx, err)
	}
	return out, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	if s.health != nil {
		if err := s.health(ctx); err != nil {
			s.logger.Warn(ctx, "health check failed", "error", err)
			return rpc.PingResponse{Status: "UNAVAILABLE"}.Proto(), nil
		}
	}
	return rpc.PingResponse{Status: rpc.StatusOK}.Proto(), nil
}
